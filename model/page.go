package model

// Page represents a single page of assembled content.
type Page struct {
	Number int     // 1-indexed page number
	Blocks []Block // Ordered list of content blocks
}

// NewPage creates an empty page with the given number.
func NewPage(number int) *Page {
	return &Page{
		Number: number,
		Blocks: make([]Block, 0),
	}
}

// AddBlock appends a block to the page.
func (p *Page) AddBlock(b Block) {
	p.Blocks = append(p.Blocks, b)
}

// BlockCount returns the number of blocks on the page.
func (p *Page) BlockCount() int {
	return len(p.Blocks)
}

// Text concatenates the content of all text blocks on the page.
func (p *Page) Text() string {
	var text string
	for _, b := range p.Blocks {
		if tb, ok := b.(TextBlock); ok {
			text += tb.Text + "\n"
		}
	}
	return text
}
