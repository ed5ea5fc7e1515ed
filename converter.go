package reflow

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/tsawler/reflow/blocks"
	"github.com/tsawler/reflow/builder"
	"github.com/tsawler/reflow/epubdoc"
	"github.com/tsawler/reflow/format"
	"github.com/tsawler/reflow/htmldoc"
	"github.com/tsawler/reflow/layout"
	"github.com/tsawler/reflow/ocr"
	"github.com/tsawler/reflow/pages"
	"github.com/tsawler/reflow/pipeline"
	"github.com/tsawler/reflow/progress"
)

// Converter provides a fluent interface for converting scanned pages into
// reflowable documents. Each configuration method returns a new Converter
// instance, making it safe to share partially configured converters and
// allowing method chaining.
type Converter struct {
	// Input (only one is set)
	dir    string
	source pages.Source

	// Injected collaborators
	engine   ocr.Engine
	reporter progress.Reporter
	logger   *slog.Logger

	// Configuration
	options convertOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Converter with a deep copy of options.
// This ensures immutability - each chain method returns a new instance.
func (c *Converter) clone() *Converter {
	newConv := &Converter{
		dir:      c.dir,
		source:   c.source,
		engine:   c.engine,
		reporter: c.reporter,
		logger:   c.logger,
		options:  c.options.clone(),
		err:      c.err,
	}
	return newConv
}

// ============================================================================
// Configuration Methods (return new Converter instance)
// ============================================================================

// WithTitle sets the document title. When unset, the title is derived from
// the input directory name.
//
// Example:
//
//	err := reflow.FromDir("scans").WithTitle("Field Notes").Convert(ctx, "book.html")
func (c *Converter) WithTitle(title string) *Converter {
	newConv := c.clone()
	newConv.options.title = title
	return newConv
}

// WithFormat forces the output format instead of detecting it from the
// output path's extension.
//
// Example:
//
//	err := reflow.FromDir("scans").WithFormat(format.EPUB).Convert(ctx, "book.out")
func (c *Converter) WithFormat(f format.Format) *Converter {
	newConv := c.clone()
	newConv.options.format = f
	return newConv
}

// WithLanguages sets the OCR language packs, in Tesseract naming
// ("eng", "deu", "jpn", ...). It replaces any previously set languages.
// Ignored when an engine is injected with WithOCR.
//
// Example:
//
//	err := reflow.FromDir("scans").WithLanguages("eng", "fra").Convert(ctx, "book.html")
func (c *Converter) WithLanguages(langs ...string) *Converter {
	newConv := c.clone()
	newConv.options.languages = append([]string(nil), langs...)
	return newConv
}

// WithOCR injects a recognition engine, replacing the bundled Tesseract
// backend. The caller remains responsible for closing the engine.
func (c *Converter) WithOCR(engine ocr.Engine) *Converter {
	newConv := c.clone()
	newConv.engine = engine
	return newConv
}

// WithProgress registers a reporter for conversion lifecycle events.
//
// Example:
//
//	err := reflow.FromDir("scans").
//	    WithProgress(progress.NewLogReporter(logger)).
//	    Convert(ctx, "book.html")
func (c *Converter) WithProgress(r progress.Reporter) *Converter {
	newConv := c.clone()
	newConv.reporter = r
	return newConv
}

// WithLogger sets the structured logger for conversion diagnostics. When
// unset, slog.Default() is used.
func (c *Converter) WithLogger(logger *slog.Logger) *Converter {
	newConv := c.clone()
	newConv.logger = logger
	return newConv
}

// WithLayoutConfig tunes paragraph detection.
//
// Example:
//
//	cfg := layout.DefaultParagraphConfig()
//	cfg.GapFactor = 2.0
//	err := reflow.FromDir("scans").WithLayoutConfig(cfg).Convert(ctx, "book.html")
func (c *Converter) WithLayoutConfig(cfg layout.ParagraphConfig) *Converter {
	newConv := c.clone()
	newConv.options.layout = cfg
	return newConv
}

// WithBlockConfig tunes the confidence thresholds for block construction.
func (c *Converter) WithBlockConfig(cfg blocks.FactoryConfig) *Converter {
	newConv := c.clone()
	newConv.options.blocks = cfg
	return newConv
}

// BatchMode buffers the whole document in memory and writes it in one pass
// during finalization, instead of streaming pages as they are converted.
// Streaming is the default; batch mode trades early visibility of partial
// output for never leaving a half-written file behind on failure.
func (c *Converter) BatchMode() *Converter {
	newConv := c.clone()
	newConv.options.batch = true
	return newConv
}

// ============================================================================
// Terminal Operation
// ============================================================================

// Convert runs the conversion and writes the document to outputPath.
//
// The input is read page by page in page-number order; pages that cannot
// be read or recognized are written as placeholder sections rather than
// aborting the run. Convert fails before creating any output when the
// input cannot be opened or no usable OCR engine is available.
//
// Example:
//
//	err := reflow.FromDir("scans").Convert(ctx, "book.epub")
func (c *Converter) Convert(ctx context.Context, outputPath string) error {
	if c.err != nil {
		return c.err
	}
	if outputPath == "" {
		return fmt.Errorf("no output path specified")
	}

	f, err := c.resolveFormat(outputPath)
	if err != nil {
		return err
	}

	source, err := c.resolveSource()
	if err != nil {
		return err
	}

	engine, ownsEngine, err := c.resolveEngine()
	if err != nil {
		return err
	}
	if ownsEngine {
		defer engine.Close()
	}

	w, err := newDocumentWriter(f, outputPath)
	if err != nil {
		return err
	}

	title := c.resolveTitle()
	var b *builder.Builder
	if c.options.batch {
		b = builder.NewBatch(w, title)
	} else {
		b = builder.New(w, title)
	}

	session := pipeline.NewSessionWithConfig(source, engine, b, outputPath, pipeline.Config{
		Layout:   c.options.layout,
		Blocks:   c.options.blocks,
		Reporter: c.reporter,
		Logger:   c.logger,
	})

	return session.Run(ctx)
}

// ============================================================================
// Internal helpers
// ============================================================================

// resolveFormat returns the output format, detecting it from the output
// path unless one was forced with WithFormat.
func (c *Converter) resolveFormat(outputPath string) (format.Format, error) {
	if c.options.format != format.Unknown {
		return c.options.format, nil
	}

	f := format.Detect(outputPath)
	if f == format.Unknown {
		return f, fmt.Errorf("cannot determine output format from %q: use WithFormat", outputPath)
	}
	return f, nil
}

// resolveSource returns the page source, opening the configured directory
// if no source was injected.
func (c *Converter) resolveSource() (pages.Source, error) {
	if c.source != nil {
		return c.source, nil
	}
	if c.dir == "" {
		return nil, fmt.Errorf("no input specified")
	}

	source, err := pages.NewImageDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open page directory: %w", err)
	}
	return source, nil
}

// resolveEngine returns the recognition engine and whether Convert owns its
// lifetime. Injected engines stay owned by the caller.
func (c *Converter) resolveEngine() (ocr.Engine, bool, error) {
	if c.engine != nil {
		return c.engine, false, nil
	}

	engine, err := ocr.NewTesseractWithLanguages(c.options.languages...)
	if err != nil {
		return nil, false, fmt.Errorf("OCR engine unavailable: %w", err)
	}
	return engine, true, nil
}

// resolveTitle returns the configured title, falling back to the input
// directory's name. An empty result leaves the choice to the document
// writer's default.
func (c *Converter) resolveTitle() string {
	if c.options.title != "" {
		return c.options.title
	}
	if c.dir != "" {
		base := filepath.Base(filepath.Clean(c.dir))
		if base != "." && base != string(filepath.Separator) {
			return base
		}
	}
	return ""
}

// newDocumentWriter creates the writer for the chosen output format.
func newDocumentWriter(f format.Format, outputPath string) (builder.DocumentWriter, error) {
	switch f {
	case format.HTML:
		return htmldoc.NewWriter(outputPath), nil
	case format.EPUB:
		return epubdoc.NewWriter(outputPath), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", f)
	}
}
