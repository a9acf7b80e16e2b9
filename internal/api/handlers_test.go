package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docrag/internal/chunker"
	"docrag/internal/embedding"
	"docrag/internal/service"
	"docrag/internal/synth"
	"docrag/internal/vectorstore/memory"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	ch, err := chunker.NewFixedChunker(80, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc := service.NewRetriever(ch, embedding.NewHashEmbedder(64), memory.NewStore(), synth.NewExtractive(2), service.Options{TopK: 3})
	return NewRouter(NewHandler(svc))
}

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleIngest_AddsChunks(t *testing.T) {
	router := newTestRouter(t)
	path := writeFixture(t, strings.Repeat("Vector search finds similar chunks. ", 10))

	w := postJSON(t, router, "/ingest", IngestRequest{Source: path, Kind: "text"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp IngestResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.ChunksAdded < 1 {
		t.Fatalf("expected at least one chunk added, got %d", resp.ChunksAdded)
	}
	if resp.DocumentID == "" {
		t.Fatalf("expected a document id")
	}
}

func TestHandleIngest_MissingSource(t *testing.T) {
	router := newTestRouter(t)
	w := postJSON(t, router, "/ingest", IngestRequest{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandleIngest_UnavailableSource(t *testing.T) {
	router := newTestRouter(t)
	w := postJSON(t, router, "/ingest", IngestRequest{Source: "/does/not/exist.txt", Kind: "text"})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 for unavailable source, got %d", w.Code)
	}
}

func TestHandleAsk_EmptyIndex(t *testing.T) {
	router := newTestRouter(t)
	w := postJSON(t, router, "/ask", AskRequest{Query: "anything", TopK: 5})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for empty index, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandleAsk_ReturnsRankedResults(t *testing.T) {
	router := newTestRouter(t)
	path := writeFixture(t, strings.Repeat("Cosine similarity ranks vectors by angle. ", 8))
	if w := postJSON(t, router, "/ingest", IngestRequest{Source: path, Kind: "text"}); w.Code != http.StatusOK {
		t.Fatalf("ingest failed: %d %s", w.Code, w.Body.String())
	}

	w := postJSON(t, router, "/ask", AskRequest{Query: "cosine similarity vectors", TopK: 2})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp AskResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Results) == 0 || len(resp.Results) > 2 {
		t.Fatalf("expected between 1 and 2 results, got %d", len(resp.Results))
	}
	for i := 1; i < len(resp.Results); i++ {
		if resp.Results[i].Score > resp.Results[i-1].Score {
			t.Fatalf("results not in descending score order")
		}
	}
}

func TestHandleAsk_Synthesized(t *testing.T) {
	router := newTestRouter(t)
	path := writeFixture(t, strings.Repeat("Chunks overlap so context survives boundaries. ", 8))
	if w := postJSON(t, router, "/ingest", IngestRequest{Source: path, Kind: "text"}); w.Code != http.StatusOK {
		t.Fatalf("ingest failed: %d", w.Code)
	}

	w := postJSON(t, router, "/ask", AskRequest{Query: "why do chunks overlap", Synthesize: true})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp AskResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Answer == "" {
		t.Fatalf("expected a synthesized answer")
	}
}

func TestHandleAsk_InvalidJSON(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid json, got %d", w.Code)
	}
}

func TestHealthAndStats(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from /health, got %d", w.Code)
	}
	var health HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&health); err != nil {
		t.Fatalf("decoding health: %v", err)
	}
	if health.Status != "ok" {
		t.Fatalf("expected ok status, got %q", health.Status)
	}

	req = httptest.NewRequest(http.MethodGet, "/stats", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from /stats, got %d", w.Code)
	}
	var stats StatsResponse
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}
	if stats.Embedder != "hash" {
		t.Fatalf("expected hash embedder in stats, got %q", stats.Embedder)
	}
}
