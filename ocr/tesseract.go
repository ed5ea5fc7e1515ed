//go:build ocr

package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/tsawler/reflow/model"
)

// Tesseract is an Engine backed by the Tesseract OCR engine.
type Tesseract struct {
	client *gosseract.Client
}

// NewTesseract creates a Tesseract engine with the default language (eng).
// The engine should be closed when no longer needed to release resources.
func NewTesseract() (*Tesseract, error) {
	return &Tesseract{client: gosseract.NewClient()}, nil
}

// NewTesseractWithLanguages creates a Tesseract engine recognizing the
// given languages, e.g. "eng", "fra", "deu". Multiple languages are
// combined for mixed-language documents.
func NewTesseractWithLanguages(langs ...string) (*Tesseract, error) {
	client := gosseract.NewClient()
	if len(langs) > 0 {
		if err := client.SetLanguage(langs...); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set languages: %w", err)
		}
	}
	return &Tesseract{client: client}, nil
}

// Recognize performs line-level OCR on encoded image data.
func (t *Tesseract) Recognize(ctx context.Context, image []byte) ([]Line, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := t.client.SetImageFromBytes(image); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := t.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	lines := make([]Line, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		lines = append(lines, Line{
			Text:       text,
			Confidence: b.Confidence / 100.0,
			Box: model.NewLineBox(
				float64(b.Box.Min.X),
				float64(b.Box.Min.Y),
				float64(b.Box.Max.X),
				float64(b.Box.Max.Y),
			),
		})
	}

	return lines, nil
}

// Close releases OCR resources.
func (t *Tesseract) Close() error {
	if t.client != nil {
		return t.client.Close()
	}
	return nil
}
