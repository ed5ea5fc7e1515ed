package blocks

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/reflow/model"
	"github.com/tsawler/reflow/ocr"
)

// mathIndicators are the characters whose presence marks a recognized line
// as a formula candidate.
const mathIndicators = "=∑∫√≤≥≠±×÷αβγπθλμσ∞∂"

// FormulaBlocks detects formula-bearing lines and emits one formula block
// per hit. Detection runs over the same lines that feed text blocks and the
// two outputs are not deduplicated; a region may appear both as paragraph
// text and as a formula.
func (f *Factory) FormulaBlocks(lines []ocr.Line) []model.Block {
	var out []model.Block
	for _, line := range lines {
		if line.Confidence <= f.config.MinFormulaConfidence {
			continue
		}
		text := strings.TrimSpace(line.Text)
		if text == "" || !ContainsMathIndicator(text) {
			continue
		}
		out = append(out, model.FormulaBlock{
			Source: norm.NFC.String(text),
			Inline: false,
		})
	}
	return out
}

// ContainsMathIndicator reports whether the text contains at least one
// formula indicator character.
func ContainsMathIndicator(text string) bool {
	return strings.ContainsAny(text, mathIndicators)
}
