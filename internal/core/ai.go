package core

import "context"

// EmbeddingProvider converts text into fixed-dimension vectors. Vectors are
// L2-normalized by the implementation, so cosine similarity between any two
// of them reduces to a dot product.
type EmbeddingProvider interface {
	// EmbedTexts returns one vector per input text, in input order.
	// It is all-or-nothing: on error no vectors are returned.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	// EmbedText embeds a single text (typically a query).
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// LLMProvider produces text given a system prompt and a user prompt.
type LLMProvider interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}
