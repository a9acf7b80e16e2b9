// Package api exposes the ingest and ask operations over HTTP.
package api

import (
	"encoding/json"
	"net/http"

	"docrag/internal/domain"
	"docrag/internal/loader"
	"docrag/internal/service"
)

// Handler holds the dependencies for HTTP handlers.
type Handler struct {
	svc *service.Retriever
}

func NewHandler(svc *service.Retriever) *Handler {
	return &Handler{svc: svc}
}

// IngestRequest is the body for POST /ingest.
type IngestRequest struct {
	Source string `json:"source"`
	Kind   string `json:"kind,omitempty"` // pdf | website | text; detected from the locator when empty
}

// IngestResponse reports how many chunks entered the index.
type IngestResponse struct {
	DocumentID  string `json:"document_id"`
	Source      string `json:"source"`
	ChunksAdded int    `json:"chunks_added"`
}

// AskRequest is the body for POST /ask.
type AskRequest struct {
	Query      string `json:"query"`
	TopK       int    `json:"top_k,omitempty"`
	Synthesize bool   `json:"synthesize,omitempty"`
}

// AskResponse carries the ranked chunks and, when requested, an answer.
type AskResponse struct {
	Answer  string        `json:"answer,omitempty"`
	Results []resultEntry `json:"results"`
}

type resultEntry struct {
	Source string  `json:"source"`
	Text   string  `json:"text"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
	Index  int     `json:"index"`
	Score  float64 `json:"score"`
}

// HealthResponse is the body for GET /health.
type HealthResponse struct {
	Status     string `json:"status"`
	ChunkCount int    `json:"chunk_count"`
}

// StatsResponse is the body for GET /stats.
type StatsResponse struct {
	ChunkCount int    `json:"chunk_count"`
	Dimension  int    `json:"dimension"`
	Embedder   string `json:"embedder"`
}

// HandleIngest handles POST /ingest: load the source, chunk, embed, index.
func (h *Handler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Source == "" {
		sendError(w, http.StatusBadRequest, "source is required")
		return
	}
	kind := req.Kind
	if kind == "" {
		kind = loader.DetectKind(req.Source)
	}
	l, err := loader.ForKind(kind)
	if err != nil {
		sendError(w, domain.HTTPStatus(err), err.Error())
		return
	}
	doc, err := l.Load(r.Context(), req.Source)
	if err != nil {
		sendError(w, domain.HTTPStatus(err), err.Error())
		return
	}
	added, err := h.svc.Ingest(r.Context(), doc)
	if err != nil {
		sendError(w, domain.HTTPStatus(err), err.Error())
		return
	}
	sendJSON(w, http.StatusOK, IngestResponse{DocumentID: doc.ID, Source: doc.Source, ChunksAdded: added})
}

// HandleAsk handles POST /ask: retrieve top-k chunks, optionally synthesize.
func (h *Handler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Query == "" {
		sendError(w, http.StatusBadRequest, "query is required")
		return
	}

	var answer string
	var results []domain.SearchResult
	var err error
	if req.Synthesize {
		answer, results, err = h.svc.Ask(r.Context(), req.Query, req.TopK)
	} else {
		topK := req.TopK
		if topK == 0 {
			topK = 5
		}
		results, err = h.svc.Query(r.Context(), req.Query, topK)
	}
	if err != nil {
		sendError(w, domain.HTTPStatus(err), err.Error())
		return
	}

	resp := AskResponse{Answer: answer, Results: make([]resultEntry, 0, len(results))}
	for _, res := range results {
		resp.Results = append(resp.Results, resultEntry{
			Source: res.Chunk.Source,
			Text:   res.Chunk.Text,
			Start:  res.Chunk.Start,
			End:    res.Chunk.End,
			Index:  res.Chunk.Index,
			Score:  res.Score,
		})
	}
	sendJSON(w, http.StatusOK, resp)
}

// HandleHealth handles GET /health.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, HealthResponse{Status: "ok", ChunkCount: h.svc.Stats().Chunks})
}

// HandleStats handles GET /stats.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	st := h.svc.Stats()
	sendJSON(w, http.StatusOK, StatsResponse{ChunkCount: st.Chunks, Dimension: st.Dimension, Embedder: st.Embedder})
}

func sendJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func sendError(w http.ResponseWriter, status int, msg string) {
	sendJSON(w, status, map[string]string{"error": msg})
}
