package rag

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/askmydoc/askmydoc/internal/core"
)

// Backend tags which generation tier produced an outcome.
type Backend string

const (
	BackendPrimary  Backend = "primary"
	BackendFallback Backend = "fallback"
)

// Outcome is the tagged result of a successful generation attempt.
type Outcome struct {
	Text       string
	ProducedBy Backend
}

// Input bounds per tier. Summarization is best-effort on long documents: the
// text is cut to a prefix before submission rather than synthesized in full.
const (
	summarizePrimaryLimit  = 5000
	summarizeFallbackLimit = 15000
	answerFallbackLimit    = 15000
)

const (
	summarizeSystemPrompt = "You are a helpful AI that summarizes academic papers and research documents concisely."
	answerSystemPrompt    = "You are an intelligent assistant answering based only on the given document content. If unsure, say 'I cannot find this in the document.'"
)

// Generator runs each operation against a primary backend and, on any
// primary failure, retries exactly once against a fallback with
// tier-appropriate input truncation. If both tiers fail the operation fails
// with *GenerationError; partial output is never exposed.
type Generator struct {
	primary  core.LLMProvider
	fallback core.LLMProvider
}

func NewGenerator(primary, fallback core.LLMProvider) *Generator {
	return &Generator{primary: primary, fallback: fallback}
}

// Summarize produces a short summary of text, truncating the input to each
// tier's bound before submission.
func (g *Generator) Summarize(ctx context.Context, text string) (Outcome, error) {
	out, perr := g.generate(ctx, g.primary, summarizeSystemPrompt,
		fmt.Sprintf("Please summarize the following text:\n\n%s", truncateRunes(text, summarizePrimaryLimit)))
	if perr == nil {
		return Outcome{Text: out, ProducedBy: BackendPrimary}, nil
	}
	log.Printf("generator: primary summarize failed, trying fallback: %v", perr)

	out, ferr := g.generate(ctx, g.fallback, summarizeSystemPrompt,
		fmt.Sprintf("Please summarize the following text:\n\n%s", truncateRunes(text, summarizeFallbackLimit)))
	if ferr == nil {
		return Outcome{Text: out, ProducedBy: BackendFallback}, nil
	}
	return Outcome{}, &GenerationError{Err: errors.Join(perr, ferr)}
}

// Answer responds to question using only the retrieved context. The
// orchestrator must never call it with empty context; callers short-circuit
// to a canned answer before reaching generation.
func (g *Generator) Answer(ctx context.Context, question, contextBlock string) (Outcome, error) {
	if strings.TrimSpace(contextBlock) == "" {
		return Outcome{}, &GenerationError{Err: errors.New("answer called with empty context")}
	}

	out, perr := g.generate(ctx, g.primary, answerSystemPrompt, answerPrompt(question, contextBlock))
	if perr == nil {
		return Outcome{Text: out, ProducedBy: BackendPrimary}, nil
	}
	log.Printf("generator: primary answer failed, trying fallback: %v", perr)

	out, ferr := g.generate(ctx, g.fallback, answerSystemPrompt,
		answerPrompt(question, truncateRunes(contextBlock, answerFallbackLimit)))
	if ferr == nil {
		return Outcome{Text: out, ProducedBy: BackendFallback}, nil
	}
	return Outcome{}, &GenerationError{Err: errors.Join(perr, ferr)}
}

// generate invokes one tier and treats blank output as a failure so the
// caller can fall through to the next tier.
func (g *Generator) generate(ctx context.Context, provider core.LLMProvider, system, user string) (string, error) {
	text, err := provider.Generate(ctx, system, user)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.New("backend returned empty output")
	}
	return text, nil
}

func answerPrompt(question, contextBlock string) string {
	return fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextBlock, question)
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
