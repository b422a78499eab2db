package llm

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/askmydoc/askmydoc/internal/core"
)

// GeminiEmbedder embeds text via the Gemini embedding API. The underlying
// client is constructed lazily on first use, behind a single-flight guard,
// and shared read-only by every request for the life of the process.
type GeminiEmbedder struct {
	modelName string
	clients   *loader
}

func NewGeminiEmbedder(apiKey, modelName string) *GeminiEmbedder {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if modelName == "" {
		modelName = "text-embedding-004"
	}
	return &GeminiEmbedder{
		modelName: modelName,
		clients: newLoader(func(ctx context.Context) (any, error) {
			return genai.NewClient(ctx, option.WithAPIKey(apiKey))
		}),
	}
}

func (g *GeminiEmbedder) client(ctx context.Context) (*genai.Client, error) {
	v, err := g.clients.get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load gemini client: %w", err)
	}
	return v.(*genai.Client), nil
}

// EmbedTexts batches all texts in one request and L2-normalizes the results.
func (g *GeminiEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	cl, err := g.client(ctx)
	if err != nil {
		return nil, err
	}

	em := cl.EmbeddingModel(g.modelName)
	batch := em.NewBatch()
	for _, t := range texts {
		batch.AddContent(genai.Text(t))
	}

	resp, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("gemini batch embed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini batch embed: got %d embeddings for %d texts", len(resp.Embeddings), len(texts))
	}

	out := make([][]float32, 0, len(resp.Embeddings))
	for _, e := range resp.Embeddings {
		out = append(out, normalize(e.Values))
	}
	return out, nil
}

func (g *GeminiEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	cl, err := g.client(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := cl.EmbeddingModel(g.modelName).EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if resp.Embedding == nil {
		return nil, fmt.Errorf("gemini embed: empty response")
	}
	return normalize(resp.Embedding.Values), nil
}

// normalize scales v to unit length so cosine similarity is a dot product.
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	inv := 1 / math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) * inv)
	}
	return out
}

var _ core.EmbeddingProvider = (*GeminiEmbedder)(nil)
