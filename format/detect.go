// Package format identifies the output formats a conversion can target.
package format

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format represents a supported output format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// HTML indicates a single self-contained HTML document.
	HTML
	// EPUB indicates an EPUB 3 archive.
	EPUB
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case HTML:
		return "HTML"
	case EPUB:
		return "EPUB"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case HTML:
		return ".html"
	case EPUB:
		return ".epub"
	default:
		return ""
	}
}

// MediaType returns the MIME type used when serving the format.
func (f Format) MediaType() string {
	switch f {
	case HTML:
		return "text/html; charset=utf-8"
	case EPUB:
		return "application/epub+zip"
	default:
		return "application/octet-stream"
	}
}

// Detect determines the output format from a filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".html", ".htm", ".xhtml":
		return HTML
	case ".epub":
		return EPUB
	default:
		return Unknown
	}
}

// Parse converts a format name such as "html" or "epub" into a Format.
// Matching is case-insensitive.
func Parse(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "html":
		return HTML, nil
	case "epub":
		return EPUB, nil
	default:
		return Unknown, fmt.Errorf("format: unknown output format %q", s)
	}
}
