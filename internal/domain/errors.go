package domain

import (
	"errors"
	"net/http"
)

// Error taxonomy. Every failure surfaced by the retrieval core wraps one
// of these sentinels so callers can classify it with errors.Is.
var (
	// ErrInvalidConfiguration covers non-positive chunk sizes, overlap not
	// smaller than chunk size and non-positive top-k values.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrSourceUnavailable means a loader could not fetch or parse a source.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrEmbeddingFailure means the embedder rejected a chunk or query.
	ErrEmbeddingFailure = errors.New("embedding failure")

	// ErrDimensionMismatch means a vector's length disagrees with the
	// dimension already established for the index.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrEmptyIndex means a query was issued before any successful ingestion.
	ErrEmptyIndex = errors.New("index is empty, nothing to search")
)

// ExitCode maps an error to a process exit code, one per taxonomy entry.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrInvalidConfiguration):
		return 2
	case errors.Is(err, ErrSourceUnavailable):
		return 3
	case errors.Is(err, ErrEmbeddingFailure):
		return 4
	case errors.Is(err, ErrDimensionMismatch):
		return 5
	case errors.Is(err, ErrEmptyIndex):
		return 6
	default:
		return 1
	}
}

// HTTPStatus maps an error to an HTTP response status.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidConfiguration), errors.Is(err, ErrDimensionMismatch):
		return http.StatusBadRequest
	case errors.Is(err, ErrEmptyIndex):
		return http.StatusConflict
	case errors.Is(err, ErrSourceUnavailable), errors.Is(err, ErrEmbeddingFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
