// Package htmldoc provides streaming HTML document generation.
//
// The [Writer] emits a self-contained HTML document incrementally: header,
// page sections as they arrive, footer. Every write is flushed through to
// the file, so the partial document stays readable in a browser while
// conversion is still running, and a crash only truncates the tail.
package htmldoc

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/net/html"

	"github.com/tsawler/reflow/builder"
	"github.com/tsawler/reflow/model"
)

// DefaultTitle is used when a document is written without a title.
const DefaultTitle = "Converted Document"

// Writer streams an HTML document to a file. It implements the document
// writer contract used by the builder package: Begin, OpenPage, WriteBlock,
// ClosePage, End, called strictly in that order.
type Writer struct {
	path string
	file *os.File
	buf  *bufio.Writer
}

var _ builder.DocumentWriter = (*Writer)(nil)

// NewWriter creates a writer targeting path. The file is not created until
// Begin.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Begin creates the output file and writes the document header.
func (w *Writer) Begin(title string) error {
	if title == "" {
		title = DefaultTitle
	}

	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("htmldoc: create %s: %w", w.path, err)
	}
	w.file = f
	w.buf = bufio.NewWriter(f)

	header := "<!DOCTYPE html>\n" +
		"<html lang=\"en\">\n" +
		"<head>\n" +
		"<meta charset=\"utf-8\">\n" +
		"<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n" +
		"<title>" + html.EscapeString(title) + "</title>\n" +
		"<style>\n" + stylesheet + "</style>\n" +
		"</head>\n" +
		"<body>\n" +
		"<div class=\"document-wrapper\">\n" +
		"<header class=\"document-header\">\n" +
		"<h1>" + html.EscapeString(title) + "</h1>\n" +
		"</header>\n" +
		"<div class=\"document-content\">\n"

	if err := w.emit(header); err != nil {
		w.file.Close()
		w.file = nil
		return err
	}
	return nil
}

// OpenPage starts a page section.
func (w *Writer) OpenPage(number int) error {
	n := strconv.Itoa(number)
	return w.emit("<article class=\"page\" id=\"page-" + n + "\">\n" +
		"<div class=\"page-header\"><span class=\"page-number\">Page " + n + "</span></div>\n" +
		"<div class=\"page-content\">\n")
}

// WriteBlock renders one block into the open page section.
func (w *Writer) WriteBlock(block model.Block) error {
	fragment, err := RenderBlock(block)
	if err != nil {
		return err
	}
	return w.emit(fragment)
}

// ClosePage ends the open page section.
func (w *Writer) ClosePage() error {
	return w.emit("</div>\n</article>\n")
}

// End writes the document footer and closes the file. The file is closed
// even when the footer write fails.
func (w *Writer) End() error {
	if w.file == nil {
		return errors.New("htmldoc: document never started")
	}

	err := w.emit("</div>\n</div>\n</body>\n</html>\n")
	if cerr := w.file.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("htmldoc: close %s: %w", w.path, cerr)
	}
	w.file = nil
	w.buf = nil
	return err
}

// emit writes a fragment and flushes it through to the file.
func (w *Writer) emit(s string) error {
	if w.buf == nil {
		return errors.New("htmldoc: document never started")
	}
	if _, err := w.buf.WriteString(s); err != nil {
		return fmt.Errorf("htmldoc: write: %w", err)
	}
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("htmldoc: flush: %w", err)
	}
	return nil
}

// RenderBlock renders one content block as an HTML fragment. Text becomes
// a paragraph element; formulas become a marked formula container with the
// rendered MathML inside. Any other block kind is a bug in the caller.
func RenderBlock(block model.Block) (string, error) {
	switch b := block.(type) {
	case model.TextBlock:
		return "<p>" + html.EscapeString(b.Text) + "</p>\n", nil
	case model.FormulaBlock:
		return renderFormula(b), nil
	default:
		return "", fmt.Errorf("htmldoc: unsupported block kind %s", block.Kind())
	}
}

// renderFormula renders a formula block, falling back to the escaped
// source text when MathML conversion fails. The formula is never dropped.
func renderFormula(b model.FormulaBlock) string {
	openTag, closeTag := "<div class=\"formula\">", "</div>\n"
	if b.Inline {
		openTag, closeTag = "<span class=\"formula formula-inline\">", "</span>\n"
	}

	mathml, err := RenderMathML(b.Source)
	if err != nil || mathml == "" {
		return openTag + "<code class=\"formula-source\">" + html.EscapeString(b.Source) + "</code>" + closeTag
	}
	return openTag + mathml + closeTag
}
