package blocks

import (
	"testing"

	"github.com/tsawler/reflow/layout"
	"github.com/tsawler/reflow/model"
	"github.com/tsawler/reflow/ocr"
)

// spanOverAll returns a single span covering every line
func spanOverAll(lines []ocr.Line) []layout.Span {
	if len(lines) == 0 {
		return nil
	}
	return []layout.Span{{Start: 0, End: len(lines) - 1}}
}

func TestFactory_FormulaBlocks_DetectsIndicators(t *testing.T) {
	factory := NewFactory()

	lines := []ocr.Line{
		makeRecognizedLine("E = mc^2", 0.95, 0),
		makeRecognizedLine("plain prose with no math", 0.95, 18),
		makeRecognizedLine("∑ x_i / n", 0.8, 36),
	}

	out := factory.FormulaBlocks(lines)
	if len(out) != 2 {
		t.Fatalf("expected 2 formula blocks, got %d", len(out))
	}

	first, ok := out[0].(model.FormulaBlock)
	if !ok {
		t.Fatalf("expected FormulaBlock, got %T", out[0])
	}
	if first.Source != "E = mc^2" {
		t.Errorf("formula source = %q", first.Source)
	}
	if first.Inline {
		t.Error("detected formulas default to display style")
	}
}

func TestFactory_FormulaBlocks_StricterConfidenceGate(t *testing.T) {
	factory := NewFactory()

	lines := []ocr.Line{
		makeRecognizedLine("x = 1", 0.6, 0), // at the threshold, not above
		makeRecognizedLine("y = 2", 0.61, 18),
		makeRecognizedLine("z = 3", 0.4, 36), // would pass the text gate
	}

	out := factory.FormulaBlocks(lines)
	if len(out) != 1 {
		t.Fatalf("expected 1 formula block, got %d", len(out))
	}
	if out[0].Content() != "y = 2" {
		t.Errorf("formula = %q, want the confident line only", out[0].Content())
	}
}

func TestFactory_TextAndFormulaNotDeduplicated(t *testing.T) {
	// A confident formula line contributes to the paragraph text AND
	// produces a formula block. Downstream consumers receive both.
	factory := NewFactory()

	lines := []ocr.Line{
		makeRecognizedLine("therefore a² + b² = c²", 0.9, 0),
	}

	text := factory.TextBlocks(lines, spanOverAll(lines))
	formulas := factory.FormulaBlocks(lines)

	if len(text) != 1 || len(formulas) != 1 {
		t.Fatalf("expected 1 text + 1 formula block, got %d + %d", len(text), len(formulas))
	}
}

func TestContainsMathIndicator(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"x = y", true},
		{"∫ f(x) dx", true},
		{"α + β", true},
		{"±0.5", true},
		{"ordinary sentence", false},
		{"", false},
		{"100%", false},
	}

	for _, tt := range tests {
		if got := ContainsMathIndicator(tt.text); got != tt.want {
			t.Errorf("ContainsMathIndicator(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
