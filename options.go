package reflow

import (
	"github.com/tsawler/reflow/blocks"
	"github.com/tsawler/reflow/format"
	"github.com/tsawler/reflow/layout"
)

// convertOptions holds configuration for a conversion.
type convertOptions struct {
	// Document title; empty means derived from the input directory name.
	title string

	// Output format; Unknown means detected from the output path.
	format format.Format

	// OCR language packs, in Tesseract naming.
	languages []string

	// Analysis tuning
	layout layout.ParagraphConfig
	blocks blocks.FactoryConfig

	// Batch mode buffers the whole document and writes it in one pass
	// instead of streaming.
	batch bool
}

// defaultConvertOptions returns the default conversion options.
func defaultConvertOptions() convertOptions {
	return convertOptions{
		format:    format.Unknown,
		languages: []string{"eng"},
		layout:    layout.DefaultParagraphConfig(),
		blocks:    blocks.DefaultFactoryConfig(),
	}
}

// clone creates a deep copy of convertOptions.
func (o convertOptions) clone() convertOptions {
	newOpts := o

	if o.languages != nil {
		newOpts.languages = make([]string, len(o.languages))
		copy(newOpts.languages, o.languages)
	}

	return newOpts
}
