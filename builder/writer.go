package builder

import "github.com/tsawler/reflow/model"

// DocumentWriter renders document structure to a backing store. The builder
// drives it strictly in order: Begin once, then for each page section
// OpenPage, WriteBlock zero or more times, ClosePage, and finally End once.
//
// Implementations acquire their backing resource in Begin and release it in
// End, even when writing the footer fails. Written content must be flushed
// eagerly, after every call, so partial output is readable while assembly
// continues and a crash only truncates the tail.
type DocumentWriter interface {
	// Begin acquires the backing resource and writes the document header.
	Begin(title string) error

	// OpenPage starts a new page section.
	OpenPage(number int) error

	// WriteBlock renders one content block into the open page.
	WriteBlock(block model.Block) error

	// ClosePage ends the open page section.
	ClosePage() error

	// End writes the document footer and releases the backing resource.
	End() error
}
