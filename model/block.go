package model

// BlockKind identifies the variant of a content block.
type BlockKind int

const (
	KindUnknown BlockKind = iota
	KindText
	KindFormula
)

func (k BlockKind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindFormula:
		return "Formula"
	default:
		return "Unknown"
	}
}

// Block is the interface for all content block variants. The set of
// implementations is closed: TextBlock and FormulaBlock. Consumers switch
// on the concrete type and treat any other implementation as a bug.
type Block interface {
	Kind() BlockKind
	Content() string
}

// TextBlock is a paragraph of recognized text.
type TextBlock struct {
	Text string
}

func (b TextBlock) Kind() BlockKind { return KindText }
func (b TextBlock) Content() string { return b.Text }

// FormulaBlock is a mathematical formula. Source holds the formula
// representation as recognized (typically LaTeX or plain symbols). Inline
// formulas render inside the text flow; display formulas render as their
// own block.
type FormulaBlock struct {
	Source string
	Inline bool
}

func (b FormulaBlock) Kind() BlockKind { return KindFormula }
func (b FormulaBlock) Content() string { return b.Source }
