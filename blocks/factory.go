// Package blocks builds typed content blocks from recognition results.
//
// The [Factory] joins recognized lines into paragraph text blocks along the
// spans produced by layout analysis, and separately detects formula-bearing
// lines. Low-confidence recognition is dropped here, silently: malformed
// input yields fewer blocks, never an error.
package blocks

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/reflow/layout"
	"github.com/tsawler/reflow/model"
	"github.com/tsawler/reflow/ocr"
)

// FactoryConfig holds confidence thresholds for block construction
type FactoryConfig struct {
	// MinTextConfidence is the confidence a recognized line must exceed to
	// contribute to a paragraph's text.
	// Default: 0.3
	MinTextConfidence float64

	// MinFormulaConfidence is the stricter confidence a line must exceed to
	// be emitted as a formula block.
	// Default: 0.6
	MinFormulaConfidence float64
}

// DefaultFactoryConfig returns sensible default configuration
func DefaultFactoryConfig() FactoryConfig {
	return FactoryConfig{
		MinTextConfidence:    0.3,
		MinFormulaConfidence: 0.6,
	}
}

// Factory turns recognized lines and paragraph spans into content blocks
type Factory struct {
	config FactoryConfig
}

// NewFactory creates a block factory with default configuration
func NewFactory() *Factory {
	return &Factory{
		config: DefaultFactoryConfig(),
	}
}

// NewFactoryWithConfig creates a block factory with custom configuration
func NewFactoryWithConfig(config FactoryConfig) *Factory {
	return &Factory{
		config: config,
	}
}

// SortByPosition returns a copy of lines sorted top-to-bottom by their
// boxes. Paragraph spans index this order, so recognition results are
// sorted once here and the same slice is used for span detection and block
// construction.
func SortByPosition(lines []ocr.Line) []ocr.Line {
	sorted := make([]ocr.Line, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Box.YMin < sorted[j].Box.YMin
	})
	return sorted
}

// TextBlocks builds one text block per paragraph span. Lines at or below
// the text confidence threshold are dropped; a span whose surviving text is
// empty after trimming produces no block at all.
func (f *Factory) TextBlocks(lines []ocr.Line, spans []layout.Span) []model.Block {
	var out []model.Block
	for _, span := range spans {
		if text, ok := f.paragraphText(lines, span); ok {
			out = append(out, model.TextBlock{Text: text})
		}
	}
	return out
}

// paragraphText joins the accepted lines of one span into paragraph text.
func (f *Factory) paragraphText(lines []ocr.Line, span layout.Span) (string, bool) {
	if span.Start < 0 || span.End >= len(lines) {
		return "", false
	}

	parts := make([]string, 0, span.LineCount())
	for _, line := range lines[span.Start : span.End+1] {
		if line.Confidence <= f.config.MinTextConfidence {
			continue
		}
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}

	joined := strings.TrimSpace(strings.Join(parts, " "))
	if joined == "" {
		return "", false
	}

	// OCR output mixes composed and decomposed code points; normalize so
	// downstream comparisons and rendering see one form.
	return norm.NFC.String(joined), true
}
