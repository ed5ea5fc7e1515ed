// Package progress reports conversion lifecycle events to observers.
package progress

import "log/slog"

// Reporter receives notifications as a conversion advances. Calls arrive
// from the converting goroutine, so implementations that block stall the
// conversion.
type Reporter interface {
	// OnStart is called once, before any page is processed, with the
	// number of pages the conversion will attempt.
	OnStart(totalPages int)
	// OnPageProcessed is called after each page's content has been
	// written to the output.
	OnPageProcessed(pageNumber int)
	// OnFinish is called once, after the document has been finalized,
	// with the path of the finished output file.
	OnFinish(outputPath string)
}

// NopReporter is a Reporter that ignores all events.
type NopReporter struct{}

func (NopReporter) OnStart(int)         {}
func (NopReporter) OnPageProcessed(int) {}
func (NopReporter) OnFinish(string)     {}

// LogReporter logs conversion events through a structured logger.
type LogReporter struct {
	logger *slog.Logger
	total  int
}

// NewLogReporter returns a LogReporter writing to logger. A nil logger
// means the default logger.
func NewLogReporter(logger *slog.Logger) *LogReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogReporter{logger: logger}
}

func (r *LogReporter) OnStart(totalPages int) {
	r.total = totalPages
	r.logger.Info("conversion started", "pages", totalPages)
}

func (r *LogReporter) OnPageProcessed(pageNumber int) {
	percent := 0
	if r.total > 0 {
		percent = pageNumber * 100 / r.total
	}
	r.logger.Info("page processed", "page", pageNumber, "total", r.total, "percent", percent)
}

func (r *LogReporter) OnFinish(outputPath string) {
	r.logger.Info("conversion finished", "output", outputPath)
}
