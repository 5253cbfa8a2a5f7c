package metadata

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DocumentMetadata holds format-specific info for one document file.
type DocumentMetadata struct {
	Title     string
	Format    string
	Pages     int
	Author    string
	Publisher string
}

// opfPackage models the slice of an EPUB OPF document the extractor
// reads.
type opfPackage struct {
	Metadata struct {
		Title     []string `xml:"title"`
		Creator   []string `xml:"creator"`
		Publisher []string `xml:"publisher"`
	} `xml:"metadata"`
	Spine struct {
		ItemRefs []struct {
			IDRef string `xml:"idref,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

var (
	pdfPageRe     = regexp.MustCompile(`/Type\s*/Page[^s]`)
	pdfAuthorRe   = regexp.MustCompile(`/Author\s*\(([^)]*)\)`)
	pdfProducerRe = regexp.MustCompile(`/Producer\s*\(([^)]*)\)`)
)

// ExtractDocument reads format-specific metadata from a document file.
// Unparseable content degrades to the bytestream fallback (zero pages,
// unknown author and publisher) rather than failing the file.
func ExtractDocument(path string) (*DocumentMetadata, error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	meta := &DocumentMetadata{
		Title:     stem(path),
		Format:    format,
		Author:    "Unknown",
		Publisher: "Unknown",
	}

	switch format {
	case "epub":
		parseEPUB(path, meta)
	case "pdf":
		parsePDF(path, meta)
	case "mobi":
		parseMOBI(path, meta)
	}
	return meta, nil
}

// parseEPUB locates the OPF package document inside the zip container and
// reads its Dublin Core metadata. Page count is approximated by spine
// length.
func parseEPUB(path string, meta *DocumentMetadata) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return
	}
	defer reader.Close()

	var opfFile *zip.File
	for _, file := range reader.File {
		if strings.HasSuffix(file.Name, ".opf") {
			opfFile = file
			break
		}
	}
	if opfFile == nil {
		return
	}

	rc, err := opfFile.Open()
	if err != nil {
		return
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return
	}

	var pkg opfPackage
	if err := xml.Unmarshal(data, &pkg); err != nil {
		return
	}

	if len(pkg.Metadata.Title) > 0 && pkg.Metadata.Title[0] != "" {
		meta.Title = pkg.Metadata.Title[0]
	}
	if len(pkg.Metadata.Creator) > 0 && pkg.Metadata.Creator[0] != "" {
		meta.Author = pkg.Metadata.Creator[0]
	}
	if len(pkg.Metadata.Publisher) > 0 && pkg.Metadata.Publisher[0] != "" {
		meta.Publisher = pkg.Metadata.Publisher[0]
	}
	meta.Pages = len(pkg.Spine.ItemRefs)
}

// parsePDF scans the raw object stream for page objects and document
// info strings. This stays deliberately shallow; encrypted or
// object-stream PDFs fall back to zero pages.
func parsePDF(path string, meta *DocumentMetadata) {
	data, err := os.ReadFile(path)
	if err != nil || !bytes.HasPrefix(data, []byte("%PDF")) {
		return
	}

	meta.Pages = len(pdfPageRe.FindAll(data, -1))
	if m := pdfAuthorRe.FindSubmatch(data); m != nil && len(m[1]) > 0 {
		meta.Author = string(m[1])
	}
	if m := pdfProducerRe.FindSubmatch(data); m != nil && len(m[1]) > 0 {
		meta.Publisher = string(m[1])
	}
}

// parseMOBI reads the PalmDB header record count and, when present, the
// EXTH author and publisher records.
func parseMOBI(path string, meta *DocumentMetadata) {
	data, err := os.ReadFile(path)
	if err != nil || len(data) < 78 {
		return
	}

	// PalmDB: record count is a big-endian uint16 at offset 76.
	meta.Pages = int(binary.BigEndian.Uint16(data[76:78]))

	exth := bytes.Index(data, []byte("EXTH"))
	if exth < 0 || exth+12 > len(data) {
		return
	}
	count := int(binary.BigEndian.Uint32(data[exth+8 : exth+12]))
	offset := exth + 12
	for i := 0; i < count && offset+8 <= len(data); i++ {
		recType := int(binary.BigEndian.Uint32(data[offset : offset+4]))
		recLen := int(binary.BigEndian.Uint32(data[offset+4 : offset+8]))
		if recLen < 8 || offset+recLen > len(data) {
			return
		}
		value := string(data[offset+8 : offset+recLen])
		switch recType {
		case 100:
			meta.Author = value
		case 101:
			meta.Publisher = value
		}
		offset += recLen
	}
}
