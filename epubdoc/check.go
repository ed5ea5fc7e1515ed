package epubdoc

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"golang.org/x/net/html"
)

// Archive-level errors.
var (
	ErrInvalidArchive  = errors.New("epub: invalid or corrupted archive")
	ErrInvalidMimetype = errors.New("epub: invalid mimetype (not an EPUB)")
	ErrMissingContent  = errors.New("epub: referenced content file not found")
)

// Check opens a finished EPUB and reports the first structural problem it
// finds: a bad mimetype entry, an unparseable container or package
// document, spine entries without content, or chapters that do not parse.
// A nil return means the archive is ready for a reading system.
func Check(filePath string) error {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return ErrInvalidArchive
	}
	defer zr.Close()

	if err := checkMimetype(&zr.Reader); err != nil {
		return err
	}

	opfPath, err := parseContainer(&zr.Reader)
	if err != nil {
		return err
	}
	pkg, baseDir, err := parseOPF(&zr.Reader, opfPath)
	if err != nil {
		return err
	}
	return checkSpine(&zr.Reader, pkg, baseDir)
}

// checkMimetype verifies the mimetype entry: first in the archive, stored
// uncompressed, with the EPUB media type as its content. Reading systems
// sniff it at a fixed offset, so position and method matter.
func checkMimetype(zr *zip.Reader) error {
	if len(zr.File) == 0 {
		return ErrInvalidArchive
	}

	first := zr.File[0]
	if first.Name != mimetypeFile {
		return fmt.Errorf("%w: first entry is %q", ErrInvalidMimetype, first.Name)
	}
	if first.Method != zip.Store {
		return fmt.Errorf("%w: mimetype entry is compressed", ErrInvalidMimetype)
	}

	data, err := readArchiveFile(zr, mimetypeFile)
	if err != nil {
		return err
	}
	if strings.TrimSpace(string(data)) != mimetypeContent {
		return ErrInvalidMimetype
	}
	return nil
}

// checkSpine verifies that every spine entry resolves through the manifest
// to a content file in the archive and that XHTML chapters parse. The
// manifest must also declare a navigation document.
func checkSpine(zr *zip.Reader, pkg *opfPackage, baseDir string) error {
	byID := make(map[string]opfItem, len(pkg.Manifest.Items))
	hasNav := false
	for _, item := range pkg.Manifest.Items {
		byID[item.ID] = item
		for _, p := range strings.Fields(item.Properties) {
			if p == "nav" {
				hasNav = true
			}
		}
	}
	if !hasNav {
		return fmt.Errorf("%w: no navigation document in manifest", ErrInvalidOPF)
	}

	for _, ref := range pkg.Spine.ItemRefs {
		item, ok := byID[ref.IDRef]
		if !ok {
			return fmt.Errorf("%w: spine references unknown item %q", ErrInvalidOPF, ref.IDRef)
		}

		href := item.Href
		if baseDir != "" {
			href = path.Join(baseDir, href)
		}
		data, err := readArchiveFile(zr, href)
		if err != nil {
			return err
		}

		if item.MediaType == xhtmlType {
			if _, err := html.Parse(bytes.NewReader(data)); err != nil {
				return fmt.Errorf("epub: parse %s: %w", href, err)
			}
		}
	}
	return nil
}

// readArchiveFile returns the contents of one archive entry.
func readArchiveFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("epub: open %s: %w", name, err)
			}
			defer rc.Close()

			data, err := io.ReadAll(rc)
			if err != nil {
				return nil, fmt.Errorf("epub: read %s: %w", name, err)
			}
			return data, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrMissingContent, name)
}
