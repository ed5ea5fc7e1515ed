package epubdoc

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"path"
	"time"
)

// OPF-related errors.
var (
	ErrNoOPF      = errors.New("epub: missing package document (OPF)")
	ErrInvalidOPF = errors.New("epub: invalid package document")
	ErrEmptySpine = errors.New("epub: no content in spine")
)

const (
	opfNamespace = "http://www.idpf.org/2007/opf"
	dcNamespace  = "http://purl.org/dc/elements/1.1/"
	xhtmlType    = "application/xhtml+xml"
)

// opfDocument is the marshal-side shape of the package document.
type opfDocument struct {
	XMLName  xml.Name       `xml:"package"`
	Xmlns    string         `xml:"xmlns,attr"`
	Version  string         `xml:"version,attr"`
	UniqueID string         `xml:"unique-identifier,attr"`
	Metadata opfDocMetadata `xml:"metadata"`
	Manifest opfDocManifest `xml:"manifest"`
	Spine    opfDocSpine    `xml:"spine"`
}

type opfDocMetadata struct {
	XmlnsDC    string           `xml:"xmlns:dc,attr"`
	Identifier opfDocIdentifier `xml:"dc:identifier"`
	Title      string           `xml:"dc:title"`
	Language   string           `xml:"dc:language"`
	Meta       []opfDocMeta     `xml:"meta"`
}

type opfDocIdentifier struct {
	ID    string `xml:"id,attr"`
	Value string `xml:",chardata"`
}

type opfDocMeta struct {
	Property string `xml:"property,attr"`
	Value    string `xml:",chardata"`
}

type opfDocManifest struct {
	Items []opfDocItem `xml:"item"`
}

type opfDocItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr,omitempty"`
}

type opfDocSpine struct {
	ItemRefs []opfDocItemRef `xml:"itemref"`
}

type opfDocItemRef struct {
	IDRef string `xml:"idref,attr"`
}

// buildOPF renders the package document for the written chapters. The
// navigation document leads the spine, matching the reading order readers
// expect from converted documents.
func buildOPF(title, bookID string, chapters []chapterRef, modified time.Time) ([]byte, error) {
	doc := opfDocument{
		Xmlns:    opfNamespace,
		Version:  "3.0",
		UniqueID: "book-id",
		Metadata: opfDocMetadata{
			XmlnsDC:    dcNamespace,
			Identifier: opfDocIdentifier{ID: "book-id", Value: bookID},
			Title:      title,
			Language:   defaultLanguage,
			Meta: []opfDocMeta{{
				Property: "dcterms:modified",
				Value:    modified.Format(time.RFC3339),
			}},
		},
	}

	doc.Manifest.Items = append(doc.Manifest.Items, opfDocItem{
		ID:         "nav",
		Href:       "nav.xhtml",
		MediaType:  xhtmlType,
		Properties: "nav",
	})
	doc.Spine.ItemRefs = append(doc.Spine.ItemRefs, opfDocItemRef{IDRef: "nav"})

	for _, ch := range chapters {
		doc.Manifest.Items = append(doc.Manifest.Items, opfDocItem{
			ID:        ch.id,
			Href:      ch.href,
			MediaType: xhtmlType,
		})
		doc.Spine.ItemRefs = append(doc.Spine.ItemRefs, opfDocItemRef{IDRef: ch.id})
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("epub: marshal package document: %w", err)
	}
	return append([]byte(xml.Header), data...), nil
}

// opfPackage is the parse-side shape used by Check. Tags match element
// local names, so both prefixed and unprefixed metadata unmarshal.
type opfPackage struct {
	XMLName  xml.Name    `xml:"package"`
	Version  string      `xml:"version,attr"`
	Metadata opfMetadata `xml:"metadata"`
	Manifest opfManifest `xml:"manifest"`
	Spine    opfSpine    `xml:"spine"`
}

type opfMetadata struct {
	Title      []dcElement `xml:"title"`
	Identifier []dcElement `xml:"identifier"`
	Language   []dcElement `xml:"language"`
}

type dcElement struct {
	ID      string `xml:"id,attr"`
	Content string `xml:",chardata"`
}

type opfManifest struct {
	Items []opfItem `xml:"item"`
}

type opfItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

type opfSpine struct {
	ItemRefs []opfItemRef `xml:"itemref"`
}

type opfItemRef struct {
	IDRef string `xml:"idref,attr"`
}

// parseOPF locates and parses the package document, returning it with the
// directory that manifest hrefs resolve against.
func parseOPF(zr *zip.Reader, opfPath string) (*opfPackage, string, error) {
	data, err := readArchiveFile(zr, opfPath)
	if err != nil {
		return nil, "", ErrNoOPF
	}

	baseDir := path.Dir(opfPath)
	if baseDir == "." {
		baseDir = ""
	}

	var opf opfPackage
	if err := xml.Unmarshal(data, &opf); err != nil {
		return nil, "", ErrInvalidOPF
	}
	if len(opf.Spine.ItemRefs) == 0 {
		return nil, "", ErrEmptySpine
	}
	return &opf, baseDir, nil
}
