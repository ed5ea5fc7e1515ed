// Package model provides the intermediate representation (IR) for
// reconstructed document content.
//
// This package defines the data structures that flow through the conversion
// pipeline: recognized line geometry on the input side, and the assembled
// document structure on the output side. All recognition and layout
// operations ultimately produce these types, making them the primary API for
// consuming converted content.
//
// # Geometry
//
// A [LineBox] is the bounding box of a single recognized text line, in
// raster pixel coordinates with the origin at the top-left corner of the
// page image. It carries the derived measurements paragraph grouping is
// built on:
//
//   - VerticalGap - whitespace between this line and the one below it
//   - IndentDiff - difference between two lines' left margins
//   - HorizontalOverlap - how much of two lines' horizontal extent is shared
//
// # Blocks
//
// All assembled content implements the [Block] interface, a closed union
// over [BlockKind]. The concrete variants are:
//
//   - [TextBlock] - a paragraph of recognized text
//   - [FormulaBlock] - a mathematical formula, inline or display
//
// Renderers and validators switch exhaustively over the concrete types, so
// adding a new variant surfaces every site that needs updating.
//
// # Document Structure
//
// A [Document] holds a title and an ordered list of [Page] values; each page
// holds a 1-based number and its ordered blocks:
//
//	doc := model.NewDocument("Scanned Notes")
//	page := model.NewPage(1)
//	page.AddBlock(model.TextBlock{Text: "First paragraph."})
//	doc.AddPage(page)
package model
