package model

// Document represents a complete converted document.
type Document struct {
	Title string
	Pages []*Page
}

// NewDocument creates an empty document with the given title.
func NewDocument(title string) *Document {
	return &Document{
		Title: title,
		Pages: make([]*Page, 0),
	}
}

// AddPage appends a page to the document. A page with number 0 is assigned
// the next sequential number; explicit numbers are kept as-is.
func (d *Document) AddPage(page *Page) {
	if page.Number == 0 {
		page.Number = len(d.Pages) + 1
	}
	d.Pages = append(d.Pages, page)
}

// GetPage returns the page at the given position (1-indexed), or nil if the
// position is out of range. Positions index arrival order, which matches
// page numbers only when pages arrived in sequence.
func (d *Document) GetPage(position int) *Page {
	if position < 1 || position > len(d.Pages) {
		return nil
	}
	return d.Pages[position-1]
}

// PageCount returns the total number of pages.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// Text returns all text content concatenated.
func (d *Document) Text() string {
	var text string
	for _, page := range d.Pages {
		text += page.Text() + "\n"
	}
	return text
}
