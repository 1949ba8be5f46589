package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// pageSource yields the plain text of 1-based pages.
type pageSource interface {
	NumPage() int
	PageText(index int) (string, error)
}

type pdfPages struct {
	reader *pdf.Reader
}

func (p pdfPages) NumPage() int { return p.reader.NumPage() }

func (p pdfPages) PageText(index int) (string, error) {
	page := p.reader.Page(index)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

func extractPDF(log *zap.Logger, content []byte) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: pdf: %v", ErrCorrupt, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", 0, fmt.Errorf("%w: pdf: %v", ErrCorrupt, err)
	}

	return readPages(log, pdfPages{reader: reader})
}

// readPages decodes every page on its own. A page that fails or panics is
// logged and skipped.
func readPages(log *zap.Logger, src pageSource) (string, int, error) {
	total := src.NumPage()
	texts := make([]string, 0, total)

	for i := 1; i <= total; i++ {
		text, err := pageText(src, i)
		if err != nil {
			log.Warn("skipping undecodable pdf page", zap.Int("page", i), zap.Error(err))
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			texts = append(texts, text)
		}
	}

	if len(texts) == 0 {
		return "", total, fmt.Errorf("%w: no pdf page yielded text", ErrNoText)
	}

	return strings.Join(texts, "\n"), total, nil
}

func pageText(src pageSource, index int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d panicked: %v", index, r)
		}
	}()
	return src.PageText(index)
}
