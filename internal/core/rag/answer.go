package rag

import (
	"context"
	"log"
	"strings"

	"github.com/askmydoc/askmydoc/internal/core"
)

// DefaultTopK is how many chunks are retrieved per question. It is a tuning
// constant, never user-supplied.
const DefaultTopK = 4

// NoAnswerFound is returned without invoking generation when retrieval
// produces zero chunks.
const NoAnswerFound = "Could not find relevant information in the document to answer that question."

// Answerer drives question answering against one previously ingested
// document: load the document's index, embed the question, retrieve the
// top-k chunks, and condition the generator on the retrieved context.
type Answerer struct {
	embedder core.EmbeddingProvider
	gen      *Generator
	store    IndexStore
	topK     int
}

func NewAnswerer(embedder core.EmbeddingProvider, gen *Generator, store IndexStore, topK int) *Answerer {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Answerer{embedder: embedder, gen: gen, store: store, topK: topK}
}

// AnswerQuestion answers question against the document ingested under key.
// Returns *NotFoundError when no index exists for key, *EmbeddingError when
// the question cannot be embedded, and *GenerationError when both generation
// tiers fail.
func (a *Answerer) AnswerQuestion(ctx context.Context, question, key string) (string, error) {
	ix, err := LoadIndex(ctx, a.store, key)
	if err != nil {
		return "", err
	}

	qv, err := a.embedder.EmbedText(ctx, question)
	if err != nil {
		return "", &EmbeddingError{Err: err}
	}

	results, err := ix.Search(qv, a.topK)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return NoAnswerFound, nil
	}
	log.Printf("answer: retrieved %d chunks for %q", len(results), key)

	var sb strings.Builder
	for _, r := range results {
		sb.WriteString(r.Chunk.Text)
		sb.WriteString("\n---\n")
	}

	out, err := a.gen.Answer(ctx, question, sb.String())
	if err != nil {
		return "", err
	}
	return out.Text, nil
}
