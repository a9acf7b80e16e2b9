package loader

import (
	"context"
	"fmt"
	"os"
	"strings"

	"docrag/internal/domain"
)

// TextLoader reads a plain text file from disk.
type TextLoader struct{}

func (l *TextLoader) Load(ctx context.Context, locator string) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return domain.Document{}, err
	}
	data, err := os.ReadFile(locator)
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: reading %s: %v", domain.ErrSourceUnavailable, locator, err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return domain.Document{}, fmt.Errorf("%w: %s is empty", domain.ErrSourceUnavailable, locator)
	}
	return domain.NewDocument(locator, KindText, text), nil
}
