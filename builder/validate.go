package builder

import (
	"strings"

	"github.com/tsawler/reflow/model"
)

// PlaceholderText is the marker substituted for a page with no renderable
// content.
const PlaceholderText = "This page contains no recognizable content."

// EmptyDocumentText is the marker carried by the page substituted for a
// document that ended up with no pages at all.
const EmptyDocumentText = "This document contains no recognizable content."

// HasContent reports whether a block carries renderable content. Blocks
// whose content trims to nothing render as empty elements and are treated
// as absent.
func HasContent(block model.Block) bool {
	switch b := block.(type) {
	case model.TextBlock:
		return strings.TrimSpace(b.Text) != ""
	case model.FormulaBlock:
		return strings.TrimSpace(b.Source) != ""
	default:
		return false
	}
}

// PlaceholderBlock returns the block substituted for missing page content.
func PlaceholderBlock() model.Block {
	return model.TextBlock{Text: PlaceholderText}
}

// ValidatePage guarantees a page renders to a non-empty structural unit.
// Blocks without renderable content are removed; if nothing survives, one
// placeholder text block is substituted. A page that is already valid is
// returned unchanged, so the function is idempotent and cheap to reapply.
func ValidatePage(page *model.Page) *model.Page {
	renderable := 0
	for _, block := range page.Blocks {
		if HasContent(block) {
			renderable++
		}
	}

	if renderable == len(page.Blocks) && renderable > 0 {
		return page
	}

	valid := model.NewPage(page.Number)
	for _, block := range page.Blocks {
		if HasContent(block) {
			valid.AddBlock(block)
		}
	}
	if valid.BlockCount() == 0 {
		valid.AddBlock(PlaceholderBlock())
	}

	return valid
}

// ValidateDocument guarantees the document serializes to at least one page.
// A document with no pages receives a single placeholder page carrying an
// explanatory marker.
func ValidateDocument(doc *model.Document) {
	if doc.PageCount() > 0 {
		return
	}

	page := model.NewPage(1)
	page.AddBlock(model.TextBlock{Text: EmptyDocumentText})
	doc.AddPage(page)
}
