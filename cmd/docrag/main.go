package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"docrag/internal/api"
	"docrag/internal/chunker"
	"docrag/internal/config"
	"docrag/internal/domain"
	"docrag/internal/embedding"
	"docrag/internal/loader"
	"docrag/internal/service"
	"docrag/internal/synth"
	"docrag/internal/tui"
	"docrag/internal/vectorstore/memory"
)

func main() {
	_ = godotenv.Load()

	var (
		cfgPath   = flag.String("config", "", "Path to YAML config file (optional; uses ~/.config/docrag/config.yaml if not provided)")
		serveAddr = flag.String("serve", "", "Start the HTTP API on this address instead of the TUI (e.g. :8080)")
		askQuery  = flag.String("ask", "", "Run a single query and print the answer instead of opening the TUI")
		topK      = flag.Int("k", 0, "Number of chunks to retrieve (default from config)")
		kind      = flag.String("kind", "auto", "Source kind: auto, pdf, website or text")
	)
	flag.Parse()
	sources := flag.Args()
	if len(sources) == 0 && *serveAddr == "" {
		fmt.Fprintln(os.Stderr, "Usage: docrag [--config=config.yaml] [--serve=:8080] [--ask=question] [--k=5] [--kind=auto] source...")
		os.Exit(2)
	}

	var cfg *config.AppConfig
	var err error
	if *cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(*cfgPath)
	}
	if err != nil {
		fatal(fmt.Errorf("loading config: %w", err))
	}
	if *topK <= 0 {
		*topK = cfg.Retrieval.TopK
	}

	svc, err := assemble(cfg)
	if err != nil {
		fatal(err)
	}

	ctx := context.Background()
	for _, source := range sources {
		k := *kind
		if k == "" || k == "auto" {
			k = loader.DetectKind(source)
		}
		l, err := loader.ForKind(k)
		if err != nil {
			fatal(err)
		}
		doc, err := l.Load(ctx, source)
		if err != nil {
			fatal(err)
		}
		added, err := svc.Ingest(ctx, doc)
		if err != nil {
			fatal(fmt.Errorf("ingesting %s: %w", source, err))
		}
		log.Printf("ingested %s (%s): %d chunks", source, k, added)
	}

	switch {
	case *serveAddr != "":
		addr := *serveAddr
		router := api.NewRouter(api.NewHandler(svc))
		log.Printf("listening on %s", addr)
		if err := http.ListenAndServe(addr, router); err != nil {
			fatal(err)
		}
	case *askQuery != "":
		answer, results, err := svc.Ask(ctx, *askQuery, *topK)
		if err != nil {
			fatal(err)
		}
		if answer != "" {
			fmt.Println(answer)
			fmt.Println()
		}
		for i, r := range results {
			fmt.Printf("%d. score=%.3f  %s [%d:%d]\n", i+1, r.Score, r.Chunk.Source, r.Chunk.Start, r.Chunk.End)
		}
	default:
		banner := fmt.Sprintf("Indexed %d chunks. Type to search.", svc.Stats().Chunks)
		m := tui.New(svc, *topK, banner)
		if _, err := tea.NewProgram(m).Run(); err != nil {
			fatal(err)
		}
	}
}

// assemble wires the configured components into a retriever.
func assemble(cfg *config.AppConfig) (*service.Retriever, error) {
	var ch domain.Chunker
	var err error
	switch cfg.Chunker.Type {
	case "fixed", "":
		ch, err = chunker.NewFixedChunker(cfg.Chunker.MaxChunkSize, cfg.Chunker.OverlapValue())
		if err != nil {
			return nil, err
		}
	case "sentence":
		ch = chunker.NewSentenceChunker(cfg.Chunker.SentencesPerChunk, cfg.Chunker.OverlapSentences)
	default:
		return nil, fmt.Errorf("%w: unknown chunker %q", domain.ErrInvalidConfiguration, cfg.Chunker.Type)
	}

	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "hash", "":
		emb = embedding.NewHashEmbedder(cfg.Embedder.Dimension)
	case "openai":
		emb, err = embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown embedder %q", domain.ErrInvalidConfiguration, cfg.Embedder.Type)
	}

	var sy domain.Synthesizer
	switch cfg.Synthesizer.Type {
	case "extractive", "":
		sy = synth.NewExtractive(cfg.Synthesizer.MaxSentences)
	case "openai":
		sy, err = synth.NewOpenAI(synth.OpenAIConfig{
			APIKeyEnv: cfg.Synthesizer.OpenAI.APIKeyEnv,
			Model:     cfg.Synthesizer.OpenAI.Model,
		})
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown synthesizer %q", domain.ErrInvalidConfiguration, cfg.Synthesizer.Type)
	}

	return service.NewRetriever(ch, emb, memory.NewStore(), sy, service.Options{
		TopK:             cfg.Retrieval.TopK,
		EmbedConcurrency: cfg.Retrieval.EmbedConcurrency,
	}), nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "docrag: %v\n", err)
	os.Exit(domain.ExitCode(err))
}
