package rag

import (
	"context"
	"log"
	"strings"

	"github.com/askmydoc/askmydoc/internal/core"
)

// SummaryPlaceholder is returned when the index persisted fine but both
// summarization tiers failed. The index is the artifact of record; a missing
// summary is not worth failing the ingestion over.
const SummaryPlaceholder = "Unable to generate summary due to processing errors."

// IngestConfig tunes the chunking stage.
type IngestConfig struct {
	ChunkSize    int
	ChunkOverlap int
}

// IngestResult is the output of one ingestion: the document summary plus the
// chunk/vector pairs that went into the persisted index, so the caller can
// archive them.
type IngestResult struct {
	Summary    string
	Chunks     []Chunk
	Embeddings [][]float32
}

// Ingestor drives the ingestion pipeline for one document: chunk the text,
// embed all chunks in a single batch, build and persist the vector index
// under the document key, then summarize the original text.
//
// Independent documents may be ingested concurrently; the only state shared
// between requests lives inside the injected providers.
type Ingestor struct {
	embedder core.EmbeddingProvider
	gen      *Generator
	store    IndexStore
	cfg      IngestConfig
}

func NewIngestor(embedder core.EmbeddingProvider, gen *Generator, store IndexStore, cfg IngestConfig) *Ingestor {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.ChunkOverlap <= 0 {
		cfg.ChunkOverlap = DefaultChunkOverlap
	}
	return &Ingestor{embedder: embedder, gen: gen, store: store, cfg: cfg}
}

// Ingest processes already-extracted text under the given document key.
// Chunking, embedding, index build and persist failures are hard failures
// and leave no new index behind; a summarization failure after a successful
// persist degrades to SummaryPlaceholder instead.
func (in *Ingestor) Ingest(ctx context.Context, text, key string) (*IngestResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	chunks := Split(text, key, in.cfg.ChunkSize, in.cfg.ChunkOverlap)
	if len(chunks) == 0 {
		return nil, ErrEmptyText
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := in.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, &EmbeddingError{Err: err}
	}

	ix, err := BuildIndex(chunks, vectors)
	if err != nil {
		return nil, err
	}
	if err := SaveIndex(ctx, in.store, key, ix); err != nil {
		return nil, err
	}
	log.Printf("ingest: indexed %q (%d chunks, dim %d)", key, len(chunks), ix.Dim)

	result := &IngestResult{Chunks: chunks, Embeddings: vectors}
	out, err := in.gen.Summarize(ctx, text)
	if err != nil {
		log.Printf("ingest: summarization failed for %q: %v", key, err)
		result.Summary = SummaryPlaceholder
		return result, nil
	}
	result.Summary = out.Text
	return result, nil
}
