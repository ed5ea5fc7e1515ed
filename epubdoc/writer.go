// Package epubdoc writes EPUB 3 documents.
//
// [Writer] streams converted pages into an EPUB archive as they arrive:
// each page becomes one XHTML chapter, and the navigation document and
// package manifest are assembled from the chapters seen when the document
// is finalized. [Check] inspects a finished archive and reports structural
// problems before the file is handed to a reading system.
package epubdoc

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/tsawler/reflow/builder"
	"github.com/tsawler/reflow/htmldoc"
	"github.com/tsawler/reflow/model"
)

const (
	mimetypeFile    = "mimetype"
	mimetypeContent = "application/epub+zip"
	contentDir      = "OEBPS"
	defaultLanguage = "en"
)

// Writer-level errors.
var (
	errNotStarted    = errors.New("epub: document never started")
	errNoOpenChapter = errors.New("epub: no open page section")
)

// Writer streams a document into an EPUB 3 archive. The archive is created
// by Begin, each page section becomes one chapter file, and End writes the
// navigation document and package manifest before closing the archive.
//
// Chapter data is flushed to the underlying file as it is written, but the
// archive directory is only written by End; an abandoned file is not a
// readable EPUB.
type Writer struct {
	path     string
	title    string
	bookID   string
	file     *os.File
	zw       *zip.Writer
	cur      io.Writer
	chapters []chapterRef
	seen     map[int]int
}

var _ builder.DocumentWriter = (*Writer)(nil)

// chapterRef records one written chapter for the navigation document and
// the package manifest.
type chapterRef struct {
	number int
	id     string
	href   string
}

// NewWriter returns a writer that will create the EPUB at path. The file
// is not created until Begin is called.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Begin creates the archive and writes the container scaffolding. The
// mimetype entry is written first and uncompressed, as reading systems
// locate it at a fixed offset.
func (w *Writer) Begin(title string) error {
	if title == "" {
		title = htmldoc.DefaultTitle
	}
	w.title = title
	w.bookID = "urn:uuid:" + uuid.NewString()
	w.chapters = nil
	w.seen = make(map[int]int)

	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("epub: create %s: %w", w.path, err)
	}
	w.file = f
	w.zw = zip.NewWriter(f)

	mt, err := w.zw.CreateHeader(&zip.FileHeader{Name: mimetypeFile, Method: zip.Store})
	if err != nil {
		return w.abort(fmt.Errorf("epub: write mimetype: %w", err))
	}
	if _, err := io.WriteString(mt, mimetypeContent); err != nil {
		return w.abort(fmt.Errorf("epub: write mimetype: %w", err))
	}

	container, err := buildContainer(contentDir + "/content.opf")
	if err != nil {
		return w.abort(err)
	}
	if err := w.writeEntry("META-INF/container.xml", container); err != nil {
		return w.abort(err)
	}
	if err := w.flush(); err != nil {
		return w.abort(err)
	}
	return nil
}

// OpenPage starts the chapter for one source page. Revisited page numbers
// get a fresh chapter file; archive entry names must stay unique.
func (w *Writer) OpenPage(number int) error {
	if w.zw == nil {
		return errNotStarted
	}

	n := strconv.Itoa(number)
	href := "page_" + n + ".xhtml"
	id := "page-" + n
	if prev := w.seen[number]; prev > 0 {
		suffix := strconv.Itoa(prev + 1)
		href = "page_" + n + "_" + suffix + ".xhtml"
		id = "page-" + n + "-" + suffix
	}
	w.seen[number]++

	c, err := w.zw.Create(contentDir + "/" + href)
	if err != nil {
		return fmt.Errorf("epub: open chapter for page %d: %w", number, err)
	}
	w.cur = c
	w.chapters = append(w.chapters, chapterRef{number: number, id: id, href: href})

	if _, err := io.WriteString(c, xhtmlHeader("Page "+n)); err != nil {
		return fmt.Errorf("epub: write chapter for page %d: %w", number, err)
	}
	return w.flush()
}

// WriteBlock renders one block into the open chapter.
func (w *Writer) WriteBlock(block model.Block) error {
	if w.cur == nil {
		return errNoOpenChapter
	}
	fragment, err := htmldoc.RenderBlock(block)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w.cur, fragment); err != nil {
		return fmt.Errorf("epub: write block: %w", err)
	}
	return w.flush()
}

// ClosePage completes the open chapter.
func (w *Writer) ClosePage() error {
	if w.cur == nil {
		return errNoOpenChapter
	}
	if _, err := io.WriteString(w.cur, "</body>\n</html>\n"); err != nil {
		return fmt.Errorf("epub: close chapter: %w", err)
	}
	w.cur = nil
	return w.flush()
}

// End writes the navigation document and package manifest, then closes
// the archive. The underlying file is closed even when finalizing fails.
func (w *Writer) End() error {
	if w.file == nil {
		return errNotStarted
	}

	err := w.writeEntry(contentDir+"/nav.xhtml", []byte(buildNav(w.chapters)))
	if err == nil {
		var opf []byte
		if opf, err = buildOPF(w.title, w.bookID, w.chapters, time.Now().UTC()); err == nil {
			err = w.writeEntry(contentDir+"/content.opf", opf)
		}
	}

	if cerr := w.zw.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("epub: close archive: %w", cerr)
	}
	if cerr := w.file.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("epub: close %s: %w", w.path, cerr)
	}
	w.file = nil
	w.zw = nil
	w.cur = nil
	return err
}

// writeEntry adds one complete archive entry.
func (w *Writer) writeEntry(name string, data []byte) error {
	c, err := w.zw.Create(name)
	if err != nil {
		return fmt.Errorf("epub: write %s: %w", name, err)
	}
	if _, err := c.Write(data); err != nil {
		return fmt.Errorf("epub: write %s: %w", name, err)
	}
	return nil
}

func (w *Writer) flush() error {
	if err := w.zw.Flush(); err != nil {
		return fmt.Errorf("epub: flush: %w", err)
	}
	return nil
}

// abort releases the archive and file after a failed Begin.
func (w *Writer) abort(err error) error {
	if w.zw != nil {
		_ = w.zw.Close()
	}
	if w.file != nil {
		_ = w.file.Close()
	}
	w.zw = nil
	w.file = nil
	return err
}

// xhtmlHeader renders the fixed prefix of one chapter document.
func xhtmlHeader(title string) string {
	return "<?xml version=\"1.0\" encoding=\"utf-8\"?>\n" +
		"<!DOCTYPE html>\n" +
		"<html xmlns=\"http://www.w3.org/1999/xhtml\">\n" +
		"<head>\n" +
		"  <title>" + html.EscapeString(title) + "</title>\n" +
		"  <meta charset=\"utf-8\" />\n" +
		"</head>\n" +
		"<body>\n"
}

// buildNav renders the EPUB 3 navigation document for the written chapters.
func buildNav(chapters []chapterRef) string {
	var sb strings.Builder
	sb.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")
	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html xmlns=\"http://www.w3.org/1999/xhtml\" xmlns:epub=\"http://www.idpf.org/2007/ops\">\n")
	sb.WriteString("<head>\n  <title>Contents</title>\n  <meta charset=\"utf-8\" />\n</head>\n<body>\n")
	sb.WriteString("<nav epub:type=\"toc\" id=\"toc\">\n<h1>Contents</h1>\n<ol>\n")
	for _, ch := range chapters {
		sb.WriteString("<li><a href=\"" + ch.href + "\">Page " + strconv.Itoa(ch.number) + "</a></li>\n")
	}
	sb.WriteString("</ol>\n</nav>\n</body>\n</html>\n")
	return sb.String()
}
