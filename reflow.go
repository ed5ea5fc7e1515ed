// Package reflow converts scanned page images into reflowable documents.
//
// A conversion reads page images from a directory (or any pages.Source),
// recognizes text lines with OCR, reconstructs paragraphs from line
// geometry, and assembles the result into an HTML document or an EPUB
// archive. Output is streamed page by page, so a partially written HTML
// document is readable while conversion is still running.
//
// Basic usage:
//
//	err := reflow.FromDir("scans").Convert(ctx, "book.html")
//	if err != nil {
//	    // handle error
//	}
//
// With options:
//
//	err := reflow.FromDir("scans").
//	    WithTitle("Field Notes").
//	    WithLanguages("eng", "deu").
//	    WithProgress(progress.NewLogReporter(logger)).
//	    Convert(ctx, "book.epub")
//
// The output format follows the output path's extension; WithFormat
// overrides it. OCR requires building with the "ocr" tag and a local
// Tesseract installation; without it Convert fails before any output is
// created, unless an engine is injected with WithOCR.
package reflow

import (
	"github.com/tsawler/reflow/pages"
)

// FromDir creates a Converter reading page images from a directory. Files
// are ordered by the numbers in their names, one page per image. The
// directory is not touched until Convert runs.
//
// Example:
//
//	err := reflow.FromDir("scans").Convert(ctx, "book.html")
func FromDir(dir string) *Converter {
	return &Converter{
		dir:     dir,
		options: defaultConvertOptions(),
	}
}

// FromSource creates a Converter reading page images from an existing
// source. This is useful when pages come from somewhere other than a
// directory of image files.
//
// Example:
//
//	source, err := pages.NewImageDir("scans")
//	if err != nil {
//	    // handle error
//	}
//	err = reflow.FromSource(source).Convert(ctx, "book.html")
func FromSource(source pages.Source) *Converter {
	return &Converter{
		source:  source,
		options: defaultConvertOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	source := reflow.Must(pages.NewImageDir("scans"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
