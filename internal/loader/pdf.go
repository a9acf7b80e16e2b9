package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"docrag/internal/domain"
)

// PDFLoader extracts plain text from a PDF file on disk.
type PDFLoader struct{}

func (l *PDFLoader) Load(ctx context.Context, locator string) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return domain.Document{}, err
	}
	f, reader, err := pdf.Open(locator)
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: opening pdf %s: %v", domain.ErrSourceUnavailable, locator, err)
	}
	defer f.Close()

	body, err := reader.GetPlainText()
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: extracting text from %s: %v", domain.ErrSourceUnavailable, locator, err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return domain.Document{}, fmt.Errorf("%w: reading text from %s: %v", domain.ErrSourceUnavailable, locator, err)
	}
	text := strings.TrimSpace(buf.String())
	if text == "" {
		return domain.Document{}, fmt.Errorf("%w: no text extracted from %s", domain.ErrSourceUnavailable, locator)
	}
	return domain.NewDocument(locator, KindPDF, text), nil
}
