package builder

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/tsawler/reflow/model"
)

// recordingWriter captures the call sequence a builder drives, and can be
// told to fail on a given method.
type recordingWriter struct {
	calls  []string
	failOn string
	ended  bool
}

var errStore = errors.New("store broken")

func (w *recordingWriter) call(name string) error {
	w.calls = append(w.calls, name)
	if w.failOn != "" && strings.HasPrefix(name, w.failOn) {
		return errStore
	}
	return nil
}

func (w *recordingWriter) Begin(title string) error {
	return w.call("begin:" + title)
}

func (w *recordingWriter) OpenPage(number int) error {
	return w.call(fmt.Sprintf("open:%d", number))
}

func (w *recordingWriter) WriteBlock(block model.Block) error {
	return w.call("block:" + block.Content())
}

func (w *recordingWriter) ClosePage() error {
	return w.call("close")
}

func (w *recordingWriter) End() error {
	w.ended = true
	return w.call("end")
}

func checkCalls(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("call sequence length = %d, want %d\ngot:  %v\nwant: %v", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBuilder_HeaderWrittenOnce(t *testing.T) {
	w := &recordingWriter{}
	b := New(w, "Doc")

	if err := b.AddBlock(model.TextBlock{Text: "one"}, 1); err != nil {
		t.Fatal(err)
	}
	if err := b.AddBlock(model.TextBlock{Text: "two"}, 1); err != nil {
		t.Fatal(err)
	}

	begins := 0
	for _, c := range w.calls {
		if strings.HasPrefix(c, "begin:") {
			begins++
		}
	}
	if begins != 1 {
		t.Errorf("header written %d times, want once", begins)
	}
}

func TestBuilder_WriteThroughSamePage(t *testing.T) {
	w := &recordingWriter{}
	b := New(w, "Doc")

	b.AddBlock(model.TextBlock{Text: "one"}, 1)
	b.AddBlock(model.TextBlock{Text: "two"}, 1)

	checkCalls(t, w.calls, []string{
		"begin:Doc",
		"open:1",
		"block:one",
		"block:two",
	})
}

func TestBuilder_PageSwitchClosesPrevious(t *testing.T) {
	w := &recordingWriter{}
	b := New(w, "Doc")

	b.AddBlock(model.TextBlock{Text: "p1"}, 1)
	b.AddBlock(model.TextBlock{Text: "p2"}, 2)
	if err := b.Finalize(); err != nil {
		t.Fatal(err)
	}

	checkCalls(t, w.calls, []string{
		"begin:Doc",
		"open:1",
		"block:p1",
		"close",
		"open:2",
		"block:p2",
		"close",
		"end",
	})
}

func TestBuilder_RevisitedPageNumberOpensNewSection(t *testing.T) {
	// Page numbers 1, 2, 1: the second 1 is a fresh section, never a merge
	// into the first.
	w := &recordingWriter{}
	b := New(w, "Doc")

	b.AddBlock(model.TextBlock{Text: "a"}, 1)
	b.AddBlock(model.TextBlock{Text: "b"}, 2)
	b.AddBlock(model.TextBlock{Text: "c"}, 1)
	if err := b.Finalize(); err != nil {
		t.Fatal(err)
	}

	checkCalls(t, w.calls, []string{
		"begin:Doc",
		"open:1",
		"block:a",
		"close",
		"open:2",
		"block:b",
		"close",
		"open:1",
		"block:c",
		"close",
		"end",
	})
}

func TestBuilder_AddBlockAfterFinalize(t *testing.T) {
	b := New(&recordingWriter{}, "Doc")

	if err := b.Finalize(); err != nil {
		t.Fatal(err)
	}
	err := b.AddBlock(model.TextBlock{Text: "late"}, 1)
	if !errors.Is(err, ErrFinalized) {
		t.Errorf("AddBlock after Finalize = %v, want ErrFinalized", err)
	}
	err = b.AddPage(model.NewPage(1))
	if !errors.Is(err, ErrFinalized) {
		t.Errorf("AddPage after Finalize = %v, want ErrFinalized", err)
	}
}

func TestBuilder_DoubleFinalize(t *testing.T) {
	w := &recordingWriter{}
	b := New(w, "Doc")

	if err := b.Finalize(); err != nil {
		t.Fatal(err)
	}
	if !b.Finalized() {
		t.Error("Finalized() = false after Finalize")
	}
	if err := b.Finalize(); !errors.Is(err, ErrFinalized) {
		t.Errorf("second Finalize = %v, want ErrFinalized", err)
	}

	ends := 0
	for _, c := range w.calls {
		if c == "end" {
			ends++
		}
	}
	if ends != 1 {
		t.Errorf("writer ended %d times, want once", ends)
	}
}

func TestBuilder_FinalizeEmptyDocument(t *testing.T) {
	// No content ever added: the artifact still carries a header, one
	// placeholder page, and a footer.
	w := &recordingWriter{}
	b := New(w, "Doc")

	if err := b.Finalize(); err != nil {
		t.Fatal(err)
	}

	checkCalls(t, w.calls, []string{
		"begin:Doc",
		"open:1",
		"block:" + EmptyDocumentText,
		"close",
		"end",
	})
}

func TestBuilder_EmptyPageGetsPlaceholder(t *testing.T) {
	// A block with only whitespace opens its page but is not written; the
	// page closes with a placeholder instead.
	w := &recordingWriter{}
	b := New(w, "Doc")

	b.AddBlock(model.TextBlock{Text: "   "}, 1)
	if err := b.Finalize(); err != nil {
		t.Fatal(err)
	}

	checkCalls(t, w.calls, []string{
		"begin:Doc",
		"open:1",
		"block:" + PlaceholderText,
		"close",
		"end",
	})
}

func TestBuilder_AddPageWritesWholeSection(t *testing.T) {
	w := &recordingWriter{}
	b := New(w, "Doc")

	page := model.NewPage(4)
	page.AddBlock(model.TextBlock{Text: "body"})
	page.AddBlock(model.FormulaBlock{Source: "x=1"})

	if err := b.AddPage(page); err != nil {
		t.Fatal(err)
	}

	checkCalls(t, w.calls, []string{
		"begin:Doc",
		"open:4",
		"block:body",
		"block:x=1",
		"close",
	})
}

func TestBuilder_AddNilPage(t *testing.T) {
	b := New(&recordingWriter{}, "Doc")
	if err := b.AddPage(nil); !errors.Is(err, ErrNilPage) {
		t.Errorf("AddPage(nil) = %v, want ErrNilPage", err)
	}
}

func TestBuilder_BatchDefersAllWrites(t *testing.T) {
	w := &recordingWriter{}
	b := NewBatch(w, "Doc")

	b.AddBlock(model.TextBlock{Text: "a"}, 1)
	b.AddBlock(model.TextBlock{Text: "b"}, 2)

	page := model.NewPage(3)
	page.AddBlock(model.TextBlock{Text: "c"})
	b.AddPage(page)

	if len(w.calls) != 0 {
		t.Fatalf("batch mode wrote before Finalize: %v", w.calls)
	}

	if err := b.Finalize(); err != nil {
		t.Fatal(err)
	}

	checkCalls(t, w.calls, []string{
		"begin:Doc",
		"open:1",
		"block:a",
		"close",
		"open:2",
		"block:b",
		"close",
		"open:3",
		"block:c",
		"close",
		"end",
	})
}

func TestBuilder_BatchValidatesBufferedPages(t *testing.T) {
	w := &recordingWriter{}
	b := NewBatch(w, "Doc")

	b.AddBlock(model.TextBlock{Text: " "}, 1) // nothing renderable
	b.AddBlock(model.TextBlock{Text: "real"}, 2)

	if err := b.Finalize(); err != nil {
		t.Fatal(err)
	}

	checkCalls(t, w.calls, []string{
		"begin:Doc",
		"open:1",
		"block:" + PlaceholderText,
		"close",
		"open:2",
		"block:real",
		"close",
		"end",
	})
}

func TestBuilder_BatchEmptyDocument(t *testing.T) {
	w := &recordingWriter{}
	b := NewBatch(w, "Doc")

	if err := b.Finalize(); err != nil {
		t.Fatal(err)
	}

	checkCalls(t, w.calls, []string{
		"begin:Doc",
		"open:1",
		"block:" + EmptyDocumentText,
		"close",
		"end",
	})
}

func TestBuilder_WriteErrorPropagates(t *testing.T) {
	w := &recordingWriter{failOn: "block:"}
	b := New(w, "Doc")

	err := b.AddBlock(model.TextBlock{Text: "boom"}, 1)
	if !errors.Is(err, errStore) {
		t.Errorf("AddBlock = %v, want wrapped store error", err)
	}
}

func TestBuilder_FinalizeReleasesWriterOnError(t *testing.T) {
	// A close failure during Finalize still releases the writer, and the
	// original error is the one reported.
	w := &recordingWriter{failOn: "close"}
	b := New(w, "Doc")

	b.AddBlock(model.TextBlock{Text: "content"}, 1)
	err := b.Finalize()
	if !errors.Is(err, errStore) {
		t.Errorf("Finalize = %v, want wrapped store error", err)
	}
	if !w.ended {
		t.Error("writer not released after failed Finalize")
	}
	if !b.Finalized() {
		t.Error("builder not marked finalized after failed Finalize")
	}
}
