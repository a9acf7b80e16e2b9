package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Chunker.Type != "fixed" || cfg.Chunker.MaxChunkSize != 1000 || cfg.Chunker.OverlapValue() != 200 {
		t.Fatalf("unexpected chunker defaults: %+v", cfg.Chunker)
	}
	if cfg.Embedder.Type != "hash" || cfg.Embedder.Dimension != 256 {
		t.Fatalf("unexpected embedder defaults: %+v", cfg.Embedder)
	}
	if cfg.Retrieval.TopK != 5 {
		t.Fatalf("unexpected top_k default: %d", cfg.Retrieval.TopK)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected server default: %q", cfg.Server.Addr)
	}
}

func TestLoad_AppliesDefaultsToPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("chunker:\n  type: fixed\n  max_chunk_size: 500\nembedder:\n  type: openai\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Chunker.MaxChunkSize != 500 {
		t.Fatalf("expected explicit chunk size kept, got %d", cfg.Chunker.MaxChunkSize)
	}
	if cfg.Chunker.OverlapValue() != 200 {
		t.Fatalf("expected default overlap, got %d", cfg.Chunker.OverlapValue())
	}
	if cfg.Embedder.OpenAI == nil {
		t.Fatalf("expected openai section to be populated with defaults")
	}
	if cfg.Embedder.OpenAI.Model != "text-embedding-3-small" || cfg.Embedder.OpenAI.APIKeyEnv != "OPENAI_API_KEY" {
		t.Fatalf("unexpected openai defaults: %+v", cfg.Embedder.OpenAI)
	}
}

func TestLoad_ExplicitZeroOverlapKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("chunker:\n  type: fixed\n  max_chunk_size: 400\n  overlap: 0\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Chunker.Overlap == nil {
		t.Fatalf("expected explicit overlap to survive defaulting")
	}
	if cfg.Chunker.OverlapValue() != 0 {
		t.Fatalf("expected overlap 0, got %d", cfg.Chunker.OverlapValue())
	}
}

func TestLoad_SmallChunkSizeGetsValidOverlap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("chunker:\n  type: fixed\n  max_chunk_size: 150\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	overlap := cfg.Chunker.OverlapValue()
	if overlap < 0 || overlap >= cfg.Chunker.MaxChunkSize {
		t.Fatalf("defaulted overlap %d not usable with chunk size %d", overlap, cfg.Chunker.MaxChunkSize)
	}
}

func TestSaveAndLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.Chunker.MaxChunkSize = 750
	cfg.Retrieval.TopK = 9
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Chunker.MaxChunkSize != 750 || loaded.Retrieval.TopK != 9 {
		t.Fatalf("roundtrip lost values: %+v", loaded)
	}
}

func TestLoad_RejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("chunker: [not: valid"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for invalid yaml")
	}
}
