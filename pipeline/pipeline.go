// Package pipeline drives a complete conversion: page images in, a
// finished document out.
//
// A [Session] owns one conversion run. It pulls page images from a
// [pages.Source], recognizes text lines with an [ocr.Engine], reconstructs
// paragraphs and formulas, and streams the resulting blocks through a
// [builder.Builder]. Processing is strictly sequential, page by page, in
// page-number order.
//
// Page-level failures never abort the run: a page whose image cannot be
// read or recognized is written as a placeholder section and conversion
// continues with the next page. Failures of the output resource itself are
// fatal and propagated. On every exit path, fatal or not, the builder is
// finalized so the output is released and structurally complete as far as
// the failure allowed.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tsawler/reflow/blocks"
	"github.com/tsawler/reflow/builder"
	"github.com/tsawler/reflow/layout"
	"github.com/tsawler/reflow/model"
	"github.com/tsawler/reflow/ocr"
	"github.com/tsawler/reflow/pages"
	"github.com/tsawler/reflow/progress"
)

var (
	// ErrNoSource is returned by Run when the session has no page source.
	ErrNoSource = errors.New("pipeline: no page source")

	// ErrNoEngine is returned by Run when the session has no recognition
	// engine.
	ErrNoEngine = errors.New("pipeline: no recognition engine")

	// ErrNoBuilder is returned by Run when the session has no document
	// builder.
	ErrNoBuilder = errors.New("pipeline: no document builder")
)

// Config holds configuration for a conversion session
type Config struct {
	// Layout configures paragraph detection.
	Layout layout.ParagraphConfig

	// Blocks configures block construction thresholds.
	Blocks blocks.FactoryConfig

	// Reporter receives lifecycle events. Nil means no reporting.
	Reporter progress.Reporter

	// Logger receives structured session logs. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		Layout: layout.DefaultParagraphConfig(),
		Blocks: blocks.DefaultFactoryConfig(),
	}
}

// Session is a single conversion run over one document. Sessions are
// single-use: create one per conversion and call Run once.
type Session struct {
	id     string
	source pages.Source
	engine ocr.Engine
	bld    *builder.Builder
	output string

	detector *layout.ParagraphDetector
	factory  *blocks.Factory
	reporter progress.Reporter
	logger   *slog.Logger
}

// NewSession creates a conversion session with default configuration.
// The builder writes the document; outputPath is only reported to
// observers, it is the writer behind the builder that owns the file.
func NewSession(source pages.Source, engine ocr.Engine, b *builder.Builder, outputPath string) *Session {
	return NewSessionWithConfig(source, engine, b, outputPath, DefaultConfig())
}

// NewSessionWithConfig creates a conversion session with custom configuration.
func NewSessionWithConfig(source pages.Source, engine ocr.Engine, b *builder.Builder, outputPath string, config Config) *Session {
	id := uuid.NewString()

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	reporter := config.Reporter
	if reporter == nil {
		reporter = progress.NopReporter{}
	}

	return &Session{
		id:       id,
		source:   source,
		engine:   engine,
		bld:      b,
		output:   outputPath,
		detector: layout.NewParagraphDetectorWithConfig(config.Layout),
		factory:  blocks.NewFactoryWithConfig(config.Blocks),
		reporter: reporter,
		logger:   logger.With("session", id),
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Run executes the conversion. It processes every page the source reports,
// finalizes the document, and then notifies the reporter of completion.
//
// Run returns nil when the document was finalized successfully, even if
// individual pages were degraded to placeholders along the way. It returns
// an error when the run was aborted by ctx or by a failure of the output
// resource; the builder is still finalized best-effort so the resource is
// released.
func (s *Session) Run(ctx context.Context) error {
	switch {
	case s.source == nil:
		return ErrNoSource
	case s.engine == nil:
		return ErrNoEngine
	case s.bld == nil:
		return ErrNoBuilder
	}

	total := s.source.Count()
	s.logger.Debug("conversion starting", "pages", total, "output", s.output)
	s.reporter.OnStart(total)

	// The builder must reach its terminal state on every exit path so the
	// output resource is released. The success path below finalizes
	// explicitly; this covers aborts.
	defer func() {
		if !s.bld.Finalized() {
			if err := s.bld.Finalize(); err != nil {
				s.logger.Error("finalize after abort", "error", err)
			}
		}
	}()

	for number := 1; number <= total; number++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pipeline: aborted at page %d: %w", number, err)
		}

		if err := s.processPage(ctx, number); err != nil {
			return err
		}

		s.reporter.OnPageProcessed(number)
	}

	if err := s.bld.Finalize(); err != nil {
		return fmt.Errorf("pipeline: finalize: %w", err)
	}

	s.reporter.OnFinish(s.output)
	return nil
}

// processPage converts one page. Recognition failures degrade the page to
// a placeholder and return nil; only output write failures and context
// cancellation surface as errors.
func (s *Session) processPage(ctx context.Context, number int) error {
	lines, err := s.recognizePage(ctx, number)
	if err != nil {
		// Cancellation is an abort, not a bad page.
		if ctx.Err() != nil {
			return fmt.Errorf("pipeline: aborted at page %d: %w", number, ctx.Err())
		}

		s.logger.Warn("page degraded", "page", number, "error", err)
		if werr := s.bld.AddPage(model.NewPage(number)); werr != nil {
			return fmt.Errorf("pipeline: page %d: %w", number, werr)
		}
		return nil
	}

	return s.writePage(number, lines)
}

// recognizePage loads the page image and runs recognition on it.
func (s *Session) recognizePage(ctx context.Context, number int) ([]ocr.Line, error) {
	img, err := s.source.Image(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("load image: %w", err)
	}

	lines, err := s.engine.Recognize(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("recognize: %w", err)
	}

	return lines, nil
}

// writePage turns recognized lines into blocks and streams them to the
// builder. Pages that yield no blocks are written as placeholder sections.
func (s *Session) writePage(number int, lines []ocr.Line) error {
	pageBlocks := s.buildBlocks(lines)

	s.logger.Debug("page converted", "page", number, "lines", len(lines), "blocks", len(pageBlocks))

	if len(pageBlocks) == 0 {
		if err := s.bld.AddPage(model.NewPage(number)); err != nil {
			return fmt.Errorf("pipeline: page %d: %w", number, err)
		}
		return nil
	}

	for _, block := range pageBlocks {
		if err := s.bld.AddBlock(block, number); err != nil {
			return fmt.Errorf("pipeline: page %d: %w", number, err)
		}
	}
	return nil
}

// buildBlocks reconstructs paragraphs and formulas from recognized lines.
// Paragraph spans index lines sorted top-to-bottom, so the same sorted
// slice feeds span detection and block construction. Text blocks come
// first in reading order, then formula blocks.
func (s *Session) buildBlocks(lines []ocr.Line) []model.Block {
	if len(lines) == 0 {
		return nil
	}

	sorted := blocks.SortByPosition(lines)

	boxes := make([]model.LineBox, len(sorted))
	for i, line := range sorted {
		boxes[i] = line.Box
	}
	spans := s.detector.Detect(boxes)

	out := s.factory.TextBlocks(sorted, spans)
	out = append(out, s.factory.FormulaBlocks(sorted)...)
	return out
}
