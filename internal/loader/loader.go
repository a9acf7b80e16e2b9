package loader

import (
	"fmt"
	"strings"

	"docrag/internal/domain"
)

// Source kinds accepted by the ingest surface.
const (
	KindPDF     = "pdf"
	KindWebsite = "website"
	KindText    = "text"
)

// ForKind returns the loader for a source kind.
func ForKind(kind string) (domain.Loader, error) {
	switch kind {
	case KindPDF:
		return &PDFLoader{}, nil
	case KindWebsite:
		return NewWebLoader(0), nil
	case KindText:
		return &TextLoader{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown source kind %q", domain.ErrInvalidConfiguration, kind)
	}
}

// DetectKind guesses the source kind from the locator: URLs are websites,
// .pdf files are PDFs, everything else is plain text.
func DetectKind(locator string) string {
	lower := strings.ToLower(locator)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return KindWebsite
	case strings.HasSuffix(lower, ".pdf"):
		return KindPDF
	default:
		return KindText
	}
}
