package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"docrag/internal/domain"
)

func TestWebLoader_StripsMarkup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>t</title><style>body{color:red}</style></head>
<body><script>var x = 1;</script><h1>Heading</h1><p>First paragraph.</p><p>Second   paragraph.</p></body></html>`))
	}))
	defer srv.Close()

	l := NewWebLoader(0)
	doc, err := l.Load(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Kind != KindWebsite {
		t.Fatalf("expected kind website, got %s", doc.Kind)
	}
	if !strings.Contains(doc.Content, "First paragraph.") || !strings.Contains(doc.Content, "Second paragraph.") {
		t.Fatalf("expected paragraph text, got %q", doc.Content)
	}
	if strings.Contains(doc.Content, "var x") || strings.Contains(doc.Content, "color:red") {
		t.Fatalf("expected script/style content stripped, got %q", doc.Content)
	}
}

func TestWebLoader_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	l := NewWebLoader(0)
	_, err := l.Load(context.Background(), srv.URL)
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestWebLoader_Unreachable(t *testing.T) {
	l := NewWebLoader(0)
	_, err := l.Load(context.Background(), "http://127.0.0.1:1/none")
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}
