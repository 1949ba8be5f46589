// Package document turns uploaded résumé files into plain text.
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Kind is the decoder used for a document.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
)

const (
	// MaxSize is the largest accepted document, 10 MiB.
	MaxSize int64 = 10 * 1024 * 1024
	// MinTextLength is the shortest trimmed text considered a successful extraction.
	MinTextLength = 10
)

var (
	ErrUnsupportedType = errors.New("unsupported document type")
	ErrTooLarge        = errors.New("document is too large")
	ErrEmpty           = errors.New("document is empty")
	ErrNoText          = errors.New("no text could be extracted")
	ErrCorrupt         = errors.New("document is corrupt")
)

// RawDocument is an uploaded file as received from the caller.
type RawDocument struct {
	Filename  string
	MediaType string
	Content   []byte
	Size      int64
}

// ExtractedText is the decoded text of a RawDocument.
type ExtractedText struct {
	Text     string   `json:"-"`
	Filename string   `json:"filename"`
	Method   Kind     `json:"method"`
	Pages    int      `json:"pages,omitempty"`
	Metadata Metadata `json:"metadata"`
}

// KindOf maps a filename extension to a decoder. Legacy .doc files are
// handed to the DOCX decoder.
func KindOf(filename string) (Kind, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "pdf":
		return KindPDF, nil
	case "docx", "doc":
		return KindDOCX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, filename)
	}
}

// SizeOf returns the declared size, falling back to the content length.
func (d RawDocument) SizeOf() int64 {
	if d.Size > 0 {
		return d.Size
	}
	return int64(len(d.Content))
}

// Validate checks size and type limits against MaxSize.
func Validate(doc RawDocument) error {
	return validate(doc, MaxSize)
}

func validate(doc RawDocument, maxSize int64) error {
	if _, err := KindOf(doc.Filename); err != nil {
		return err
	}
	size := doc.SizeOf()
	if size == 0 {
		return fmt.Errorf("%w: %q", ErrEmpty, doc.Filename)
	}
	if size > maxSize {
		return fmt.Errorf("%w: %.2fMB (max %.0fMB)", ErrTooLarge, megabytes(size), megabytes(maxSize))
	}
	return nil
}

func megabytes(n int64) float64 {
	return float64(n) / (1024 * 1024)
}

// Load reads a document from disk.
func Load(path string) (RawDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return RawDocument{}, fmt.Errorf("read document %q: %w", path, err)
	}

	return RawDocument{
		Filename:  filepath.Base(path),
		MediaType: mimetype.Detect(content).String(),
		Content:   content,
		Size:      int64(len(content)),
	}, nil
}
