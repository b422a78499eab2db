package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/askmydoc/askmydoc/internal/core"
)

// GeminiLLM is the primary text-generation backend. Like the embedder, its
// client is loaded lazily at most once per process.
type GeminiLLM struct {
	modelName string
	clients   *loader
}

func NewGeminiLLM(apiKey, modelName string) *GeminiLLM {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &GeminiLLM{
		modelName: modelName,
		clients: newLoader(func(ctx context.Context) (any, error) {
			return genai.NewClient(ctx, option.WithAPIKey(apiKey))
		}),
	}
}

func (g *GeminiLLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	v, err := g.clients.get(ctx)
	if err != nil {
		return "", fmt.Errorf("load gemini client: %w", err)
	}
	cl := v.(*genai.Client)

	m := cl.GenerativeModel(g.modelName)
	if systemPrompt != "" {
		m.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemPrompt)},
		}
	}

	resp, err := m.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini generate: no candidates returned")
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String(), nil
}

var _ core.LLMProvider = (*GeminiLLM)(nil)
