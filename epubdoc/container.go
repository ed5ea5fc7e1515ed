package epubdoc

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
)

// Container-related errors.
var (
	ErrNoContainer      = errors.New("epub: missing META-INF/container.xml")
	ErrInvalidContainer = errors.New("epub: invalid container.xml")
	ErrNoRootfile       = errors.New("epub: no rootfile found in container.xml")
)

const containerNamespace = "urn:oasis:names:tc:opendocument:xmlns:container"

// containerXML represents the structure of META-INF/container.xml. The
// same shape serves both writing and checking.
type containerXML struct {
	XMLName   xml.Name  `xml:"container"`
	Version   string    `xml:"version,attr"`
	Xmlns     string    `xml:"xmlns,attr"`
	Rootfiles rootfiles `xml:"rootfiles"`
}

type rootfiles struct {
	Rootfile []rootfile `xml:"rootfile"`
}

type rootfile struct {
	FullPath  string `xml:"full-path,attr"`
	MediaType string `xml:"media-type,attr"`
}

// buildContainer renders container.xml pointing at the package document.
func buildContainer(opfPath string) ([]byte, error) {
	c := containerXML{
		Version: "1.0",
		Xmlns:   containerNamespace,
		Rootfiles: rootfiles{Rootfile: []rootfile{{
			FullPath:  opfPath,
			MediaType: "application/oebps-package+xml",
		}}},
	}

	data, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("epub: marshal container: %w", err)
	}
	return append([]byte(xml.Header), data...), nil
}

// parseContainer reads META-INF/container.xml and returns the path of the
// package document.
func parseContainer(zr *zip.Reader) (string, error) {
	data, err := readArchiveFile(zr, "META-INF/container.xml")
	if err != nil {
		return "", ErrNoContainer
	}

	var container containerXML
	if err := xml.Unmarshal(data, &container); err != nil {
		return "", ErrInvalidContainer
	}

	// Prefer the rootfile declared as a package document.
	for _, rf := range container.Rootfiles.Rootfile {
		if rf.MediaType == "application/oebps-package+xml" || rf.MediaType == "" {
			if rf.FullPath != "" {
				return rf.FullPath, nil
			}
		}
	}
	if len(container.Rootfiles.Rootfile) > 0 {
		return container.Rootfiles.Rootfile[0].FullPath, nil
	}
	return "", ErrNoRootfile
}
