//go:build !ocr

package ocr

import "context"

// Tesseract is a stub engine that returns errors for all operations.
//
// This is the implementation used when the "ocr" build tag is not set.
// Rebuild with -tags ocr to enable Tesseract support.
type Tesseract struct{}

// NewTesseract returns an error indicating OCR support is not enabled.
// To enable OCR, rebuild with: go build -tags ocr
func NewTesseract() (*Tesseract, error) {
	return nil, ErrOCRNotEnabled
}

// NewTesseractWithLanguages returns an error indicating OCR support is not
// enabled.
func NewTesseractWithLanguages(langs ...string) (*Tesseract, error) {
	return nil, ErrOCRNotEnabled
}

// Recognize returns an error indicating OCR support is not enabled.
func (t *Tesseract) Recognize(ctx context.Context, image []byte) ([]Line, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op for the stub engine.
// It is safe to call on a nil engine.
func (t *Tesseract) Close() error {
	return nil
}
