// Package ocr provides OCR (Optical Character Recognition) capabilities
// for recognizing text lines in scanned page images.
//
// The conversion pipeline consumes recognition through the [Engine]
// interface and never depends on which backend is behind it. The bundled
// backend wraps the Tesseract engine via gosseract and requires Tesseract
// to be installed on the system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
//
// Tesseract support is compiled in with the "ocr" build tag:
//
//	go build -tags ocr
//
// Without the tag, [NewTesseract] returns [ErrOCRNotEnabled]. Engine
// availability is a configuration concern: it is checked once, before a
// conversion starts, never per page.
package ocr

import (
	"context"
	"errors"

	"github.com/tsawler/reflow/model"
)

// ErrOCRNotEnabled is returned when Tesseract functions are called but OCR
// support was not compiled in. Rebuild with -tags ocr to enable OCR support.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Line is a single recognized text line: the recognized text, the engine's
// confidence in it (normalized to [0, 1]), and the line's bounding box on
// the page image.
type Line struct {
	Text       string
	Confidence float64
	Box        model.LineBox
}

// Engine recognizes text lines in a page image.
//
// Recognize takes an encoded image (PNG, JPEG, TIFF...) and returns the
// lines found in it, in detection order. Detection order carries no layout
// guarantee; callers sort by geometry. A page with no recognizable text
// yields an empty slice, not an error.
type Engine interface {
	Recognize(ctx context.Context, image []byte) ([]Line, error)

	// Close releases engine resources. The engine is unusable afterwards.
	Close() error
}
