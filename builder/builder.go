// Package builder assembles converted content into a persisted document.
//
// The [Builder] is a small state machine over a [DocumentWriter]:
//
//	NotStarted → HeaderWritten → (PageOpen ⇄ PageClosed)* → Finalized
//
// In streaming mode every accepted block is written through immediately, so
// partial output is visible while conversion continues. In batch mode pages
// are buffered and written in one pass during Finalize. Either way the
// finalized artifact is structurally complete: a header, at least one
// non-empty page section, and a footer.
package builder

import (
	"errors"
	"fmt"

	"github.com/tsawler/reflow/model"
)

var (
	// ErrFinalized is returned when content is added to, or Finalize is
	// called again on, a builder whose document has been finalized.
	ErrFinalized = errors.New("builder: document already finalized")

	// ErrNilPage is returned when a nil page is added.
	ErrNilPage = errors.New("builder: nil page")
)

type state int

const (
	stateNotStarted state = iota
	stateHeaderWritten
	statePageOpen
	statePageClosed
	stateFinalized
)

// Builder assembles pages and blocks into a document and owns the
// document's output for its lifetime. It is not safe for concurrent use;
// the conversion pipeline is strictly sequential.
type Builder struct {
	w     DocumentWriter
	title string
	batch bool

	state         state
	headerWritten bool
	currentPage   int
	pageHasBlocks bool
	pagesOpened   int

	// Batch mode buffers
	doc      *model.Document
	buffered *model.Page
}

// New creates a streaming builder writing through w. The writer's backing
// resource is acquired lazily, on the first content added.
func New(w DocumentWriter, title string) *Builder {
	return &Builder{
		w:     w,
		title: title,
	}
}

// NewBatch creates a batch builder. Pages are validated as they arrive but
// nothing is written until Finalize.
func NewBatch(w DocumentWriter, title string) *Builder {
	return &Builder{
		w:     w,
		title: title,
		batch: true,
		doc:   model.NewDocument(title),
	}
}

// AddBlock appends one block to the given page. The first call writes the
// document header. A block for a page number other than the currently open
// page closes that page and opens a new section; page numbers are expected
// in non-decreasing arrival order, and a lower number simply starts another
// new section rather than reopening the earlier one.
//
// Blocks without renderable content are accepted but not written; a page
// that closes without a single written block receives a placeholder.
func (b *Builder) AddBlock(block model.Block, pageNumber int) error {
	if b.state == stateFinalized {
		return ErrFinalized
	}

	if b.batch {
		b.bufferBlock(block, pageNumber)
		return nil
	}

	if err := b.ensureHeader(); err != nil {
		return err
	}

	if b.state == statePageOpen && pageNumber != b.currentPage {
		if err := b.closePage(); err != nil {
			return err
		}
	}
	if b.state != statePageOpen {
		if err := b.openPage(pageNumber); err != nil {
			return err
		}
	}

	if !HasContent(block) {
		return nil
	}

	if err := b.w.WriteBlock(block); err != nil {
		return fmt.Errorf("builder: write block: %w", err)
	}
	b.pageHasBlocks = true

	return nil
}

// AddPage appends a finished page. In streaming mode the page is validated
// and written immediately as one section; in batch mode it is buffered for
// Finalize.
func (b *Builder) AddPage(page *model.Page) error {
	if b.state == stateFinalized {
		return ErrFinalized
	}
	if page == nil {
		return ErrNilPage
	}

	if b.batch {
		b.flushBuffered()
		b.doc.AddPage(ValidatePage(page))
		return nil
	}

	if err := b.ensureHeader(); err != nil {
		return err
	}
	if b.state == statePageOpen {
		if err := b.closePage(); err != nil {
			return err
		}
	}

	valid := ValidatePage(page)
	if err := b.openPage(valid.Number); err != nil {
		return err
	}
	for _, block := range valid.Blocks {
		if err := b.w.WriteBlock(block); err != nil {
			return fmt.Errorf("builder: write block: %w", err)
		}
	}
	b.pageHasBlocks = true

	return b.closePage()
}

// Finalize closes any open page, writes the document footer, and releases
// the writer. A document that never received content still finalizes to a
// well-formed artifact with one placeholder page.
//
// Finalize must be called exactly once; the pipeline owning the builder
// guarantees a terminal call on every exit path. Calling it again returns
// ErrFinalized. On write failure the builder still releases the writer and
// returns the first error encountered.
func (b *Builder) Finalize() error {
	if b.state == stateFinalized {
		return ErrFinalized
	}

	err := b.runFinalize()
	b.state = stateFinalized
	return err
}

// Finalized reports whether Finalize has been called.
func (b *Builder) Finalized() bool {
	return b.state == stateFinalized
}

func (b *Builder) runFinalize() error {
	if b.batch {
		return b.writeBatched()
	}

	if err := b.ensureHeader(); err != nil {
		return err
	}

	if b.state == statePageOpen {
		if err := b.closePage(); err != nil {
			b.releaseWriter()
			return err
		}
	}

	// A document with no pages must not serialize as an empty shell.
	if b.pagesOpened == 0 {
		if err := b.writePlaceholderPage(); err != nil {
			b.releaseWriter()
			return err
		}
	}

	if err := b.w.End(); err != nil {
		return fmt.Errorf("builder: end document: %w", err)
	}
	return nil
}

// writeBatched performs the deferred single-pass write of batch mode.
func (b *Builder) writeBatched() error {
	b.flushBuffered()
	ValidateDocument(b.doc)

	if err := b.w.Begin(b.title); err != nil {
		return fmt.Errorf("builder: begin document: %w", err)
	}
	b.headerWritten = true

	for _, page := range b.doc.Pages {
		if err := b.writeWholePage(page); err != nil {
			b.releaseWriter()
			return err
		}
	}

	if err := b.w.End(); err != nil {
		return fmt.Errorf("builder: end document: %w", err)
	}
	return nil
}

func (b *Builder) writeWholePage(page *model.Page) error {
	if err := b.w.OpenPage(page.Number); err != nil {
		return fmt.Errorf("builder: open page %d: %w", page.Number, err)
	}
	for _, block := range page.Blocks {
		if err := b.w.WriteBlock(block); err != nil {
			return fmt.Errorf("builder: write block: %w", err)
		}
	}
	if err := b.w.ClosePage(); err != nil {
		return fmt.Errorf("builder: close page %d: %w", page.Number, err)
	}
	return nil
}

// bufferBlock accumulates a block into the batch buffer, starting a new
// buffered page whenever the page number changes.
func (b *Builder) bufferBlock(block model.Block, pageNumber int) {
	if b.buffered != nil && b.buffered.Number != pageNumber {
		b.flushBuffered()
	}
	if b.buffered == nil {
		b.buffered = model.NewPage(pageNumber)
	}
	b.buffered.AddBlock(block)
}

func (b *Builder) flushBuffered() {
	if b.buffered == nil {
		return
	}
	b.doc.AddPage(ValidatePage(b.buffered))
	b.buffered = nil
}

// ensureHeader writes the document header exactly once.
func (b *Builder) ensureHeader() error {
	if b.headerWritten {
		return nil
	}
	if err := b.w.Begin(b.title); err != nil {
		return fmt.Errorf("builder: begin document: %w", err)
	}
	b.headerWritten = true
	b.state = stateHeaderWritten
	return nil
}

func (b *Builder) openPage(number int) error {
	if err := b.w.OpenPage(number); err != nil {
		return fmt.Errorf("builder: open page %d: %w", number, err)
	}
	b.currentPage = number
	b.pageHasBlocks = false
	b.pagesOpened++
	b.state = statePageOpen
	return nil
}

// closePage ends the open page section, substituting a placeholder first if
// no renderable block was written to it.
func (b *Builder) closePage() error {
	if !b.pageHasBlocks {
		if err := b.w.WriteBlock(PlaceholderBlock()); err != nil {
			return fmt.Errorf("builder: write placeholder: %w", err)
		}
	}
	if err := b.w.ClosePage(); err != nil {
		return fmt.Errorf("builder: close page %d: %w", b.currentPage, err)
	}
	b.state = statePageClosed
	return nil
}

func (b *Builder) writePlaceholderPage() error {
	page := model.NewPage(1)
	page.AddBlock(model.TextBlock{Text: EmptyDocumentText})
	return b.writeWholePage(page)
}

// releaseWriter releases the backing resource after a failed write. The
// original error is what callers see.
func (b *Builder) releaseWriter() {
	_ = b.w.End()
}
