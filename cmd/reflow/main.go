// Command reflow converts a directory of scanned page images into a
// reflowable HTML document or EPUB archive.
//
// Usage:
//
//	reflow [flags] <image-dir>
//
// Settings come from an optional YAML config file; flags override it.
// With -preview the finished document is served over a local HTTP server
// until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/tsawler/reflow"
	"github.com/tsawler/reflow/config"
	"github.com/tsawler/reflow/format"
	"github.com/tsawler/reflow/preview"
	"github.com/tsawler/reflow/progress"
)

type options struct {
	inputDir   string
	configPath string
	outputPath string
	formatName string
	title      string
	languages  string
	batch      bool
	preview    bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "reflow: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "reflow: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: reflow [flags] <image-dir>\n")
		flag.PrintDefaults()
	}
	configPath := flag.String("config", "", "Path to a YAML config file")
	outputPath := flag.String("out", "", "Output file path (default from config)")
	formatName := flag.String("format", "", "Output format, html or epub (default from the output extension)")
	title := flag.String("title", "", "Document title (default derived from the input directory)")
	languages := flag.String("langs", "", "Comma-separated OCR language packs, for example eng,deu")
	batch := flag.Bool("batch", false, "Buffer the whole document and write it in one pass")
	servePreview := flag.Bool("preview", false, "Serve the finished document over HTTP until interrupted")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return options{}, fmt.Errorf("missing image directory")
	}
	opts.inputDir = flag.Arg(0)
	opts.configPath = *configPath
	opts.outputPath = *outputPath
	opts.formatName = *formatName
	opts.title = *title
	opts.languages = *languages
	opts.batch = *batch
	opts.preview = *servePreview
	return opts, nil
}

func run(opts options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger := cfg.Log.NewLogger(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conv := reflow.FromDir(opts.inputDir).
		WithFormat(cfg.OutputFormat()).
		WithLayoutConfig(cfg.ParagraphConfig()).
		WithBlockConfig(cfg.FactoryConfig()).
		WithLanguages(cfg.OCR.Languages...).
		WithLogger(logger).
		WithProgress(progress.NewLogReporter(logger))
	if cfg.Title != "" {
		conv = conv.WithTitle(cfg.Title)
	}
	if cfg.Output.Batch {
		conv = conv.BatchMode()
	}

	if err := conv.Convert(ctx, cfg.Output.Path); err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	if cfg.Preview.Enabled {
		return serve(ctx, logger, cfg)
	}
	return nil
}

// loadConfig resolves the effective configuration: file settings over
// defaults, flags over both.
func loadConfig(opts options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if opts.outputPath != "" {
		cfg.Output.Path = opts.outputPath
		// A new output path re-selects the format unless one is forced.
		if opts.formatName == "" {
			if f := format.Detect(opts.outputPath); f != format.Unknown {
				cfg.Output.Format = f.String()
			}
		}
	}
	if opts.formatName != "" {
		cfg.Output.Format = opts.formatName
	}
	if opts.title != "" {
		cfg.Title = opts.title
	}
	if opts.languages != "" {
		cfg.OCR.Languages = splitList(opts.languages)
	}
	if opts.batch {
		cfg.Output.Batch = true
	}
	if opts.preview {
		cfg.Preview.Enabled = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// serve publishes the output's directory over HTTP until the context is
// canceled by an interrupt.
func serve(ctx context.Context, logger *slog.Logger, cfg *config.Config) error {
	srv := preview.NewServerWithConfig(filepath.Dir(cfg.Output.Path), preview.ServerConfig{
		Port:   cfg.Preview.Port,
		Logger: logger,
	})
	if err := srv.Start(); err != nil {
		return fmt.Errorf("start preview server: %w", err)
	}

	logger.Info("preview ready", "url", srv.URL()+"/"+filepath.Base(cfg.Output.Path))

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
