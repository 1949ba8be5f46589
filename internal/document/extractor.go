package document

import (
	"context"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/spigell/cv-evaluator/internal/logger"
)

// Extractor decodes PDF and DOCX documents into text.
type Extractor struct {
	logger  *zap.Logger
	maxSize int64
}

// NewExtractor returns an Extractor. A non-positive maxSize selects MaxSize.
func NewExtractor(log *zap.Logger, maxSize int64) *Extractor {
	if maxSize <= 0 {
		maxSize = MaxSize
	}
	return &Extractor{logger: logger.WithFields(log), maxSize: maxSize}
}

// Validate checks the document against the configured limits.
func (e *Extractor) Validate(doc RawDocument) error {
	return validate(doc, e.maxSize)
}

// Extract decodes the document and computes its metadata.
func (e *Extractor) Extract(ctx context.Context, doc RawDocument) (*ExtractedText, error) {
	if err := e.Validate(doc); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kind, _ := KindOf(doc.Filename)
	if doc.MediaType == "" {
		doc.MediaType = mimetype.Detect(doc.Content).String()
	}

	log := e.logger.With(
		zap.String(logger.FieldFilename, doc.Filename),
		zap.String("kind", string(kind)),
		zap.String("media_type", doc.MediaType),
	)

	var (
		text  string
		pages int
		err   error
	)
	switch kind {
	case KindPDF:
		text, pages, err = extractPDF(log, doc.Content)
	case KindDOCX:
		text, err = extractDOCX(doc.Content)
	}
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if len([]rune(text)) < MinTextLength {
		return nil, fmt.Errorf("%w: %q", ErrNoText, doc.Filename)
	}

	log.Debug("document text extracted", zap.Int("length", len(text)), zap.Int("pages", pages))

	return &ExtractedText{
		Text:     text,
		Filename: doc.Filename,
		Method:   kind,
		Pages:    pages,
		Metadata: ComputeMetadata(text, kind, doc.Filename),
	}, nil
}
