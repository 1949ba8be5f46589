package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const (
	docxBody = "word/document.xml"
	// maxDOCXBody bounds the decompressed size of the document part.
	maxDOCXBody int64 = 64 << 20
)

type docxDocument struct {
	Body docxBodyXML `xml:"body"`
}

type docxBodyXML struct {
	Paragraphs []docxParagraph `xml:"p"`
	Tables     []docxTable     `xml:"tbl"`
}

type docxTable struct {
	Rows []docxRow `xml:"tr"`
}

type docxRow struct {
	Cells []docxCell `xml:"tc"`
}

type docxCell struct {
	Paragraphs []docxParagraph `xml:"p"`
}

// docxParagraph holds the text of every w:t element under a w:p, in
// document order, including runs nested in hyperlinks.
type docxParagraph struct {
	Text string
}

func (p *docxParagraph) UnmarshalXML(d *xml.Decoder, _ xml.StartElement) error {
	var b strings.Builder
	depth, inText := 0, 0
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			depth++
			if el.Name.Local == "t" {
				inText++
			}
		case xml.EndElement:
			if depth == 0 {
				p.Text = strings.TrimSpace(b.String())
				return nil
			}
			depth--
			if el.Name.Local == "t" {
				inText--
			}
		case xml.CharData:
			if inText > 0 {
				b.Write(el)
			}
		}
	}
}

// extractDOCX returns body paragraphs in document order followed by table
// cell text, row-major and table by table.
func extractDOCX(content []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: docx: %v", ErrCorrupt, err)
	}

	raw, err := readZipEntry(reader, docxBody, maxDOCXBody)
	if err != nil {
		return "", err
	}

	var doc docxDocument
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("%w: docx: %v", ErrCorrupt, err)
	}

	lines := make([]string, 0, len(doc.Body.Paragraphs))
	for _, p := range doc.Body.Paragraphs {
		if t := p.Text; t != "" {
			lines = append(lines, t)
		}
	}
	for _, table := range doc.Body.Tables {
		for _, row := range table.Rows {
			for _, cell := range row.Cells {
				for _, p := range cell.Paragraphs {
					if t := p.Text; t != "" {
						lines = append(lines, t)
					}
				}
			}
		}
	}

	return strings.Join(lines, "\n"), nil
}

func readZipEntry(reader *zip.Reader, name string, limit int64) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %v", ErrCorrupt, name, err)
		}
		defer rc.Close()

		content, err := io.ReadAll(io.LimitReader(rc, limit+1))
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrCorrupt, name, err)
		}
		if int64(len(content)) > limit {
			return nil, fmt.Errorf("%w: %s expands beyond %d bytes", ErrTooLarge, name, limit)
		}
		return content, nil
	}
	return nil, fmt.Errorf("%w: %s not found", ErrCorrupt, name)
}
