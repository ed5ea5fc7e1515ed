package pages

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Source supplies the page images of a document. Page numbers are 1-based.
type Source interface {
	Count() int
	Image(ctx context.Context, number int) ([]byte, error)
}

// imageExtensions lists the file extensions ImageDir treats as page images.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
	".bmp":  true,
	".webp": true,
}

// ImageDir serves page images from a directory, one file per page, ordered
// by the numbers embedded in the file names.
type ImageDir struct {
	dir   string
	files []string
}

var _ Source = (*ImageDir)(nil)

// NewImageDir scans dir for page images. A directory without any page
// images is valid and yields an empty document downstream.
func NewImageDir(dir string) (*ImageDir, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("pages: read %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}

	sort.Slice(names, func(i, j int) bool {
		return numericLess(names[i], names[j])
	})

	return &ImageDir{dir: dir, files: names}, nil
}

// Count returns the number of page images found.
func (d *ImageDir) Count() int {
	return len(d.files)
}

// Image returns the raw bytes of one page image. The image is verified to
// decode before it is returned, so callers can treat an error here as a
// failure of that page only.
func (d *ImageDir) Image(ctx context.Context, number int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if number < 1 || number > len(d.files) {
		return nil, fmt.Errorf("pages: page %d out of range [1, %d]", number, len(d.files))
	}

	name := d.files[number-1]
	data, err := os.ReadFile(filepath.Join(d.dir, name))
	if err != nil {
		return nil, fmt.Errorf("pages: read page %d: %w", number, err)
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("pages: decode %s: %w", name, err)
	}
	return data, nil
}

// FileName returns the file name backing one page.
func (d *ImageDir) FileName(number int) (string, error) {
	if number < 1 || number > len(d.files) {
		return "", fmt.Errorf("pages: page %d out of range [1, %d]", number, len(d.files))
	}
	return d.files[number-1], nil
}

// numericLess orders names treating digit runs as numbers, so page_2
// sorts before page_10.
func numericLess(a, b string) bool {
	for len(a) > 0 && len(b) > 0 {
		aTok, aRest, aNum := nextToken(a)
		bTok, bRest, bNum := nextToken(b)

		if aNum && bNum {
			av, aerr := strconv.Atoi(aTok)
			bv, berr := strconv.Atoi(bTok)
			if aerr == nil && berr == nil {
				if av != bv {
					return av < bv
				}
			} else if aTok != bTok {
				return aTok < bTok
			}
		} else if aTok != bTok {
			return aTok < bTok
		}
		a, b = aRest, bRest
	}
	return len(a) < len(b)
}

// nextToken splits off the leading run of digits or non-digits.
func nextToken(s string) (tok, rest string, numeric bool) {
	numeric = s[0] >= '0' && s[0] <= '9'
	i := 1
	for i < len(s) {
		d := s[i] >= '0' && s[i] <= '9'
		if d != numeric {
			break
		}
		i++
	}
	return s[:i], s[i:], numeric
}
