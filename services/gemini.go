package services

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

const (
	// ModelName selects the generation model used for every prompt.
	ModelName = "gemini-1.5-flash"

	// FallbackResponse is returned whenever generation fails. The conversation
	// stays alive instead of surfacing a hard failure to the candidate, at the
	// cost of callers not being able to distinguish a genuine model reply that
	// happens to match this string.
	FallbackResponse = "I apologize, but I'm having trouble processing your response right now. Could you please repeat that?"
)

// GeminiClient sends free-text prompts to the Gemini generation service.
type GeminiClient struct {
	genaiClient *genai.Client
}

// NewGeminiClient constructs the generation client. It refuses construction
// when no API key is configured.
func NewGeminiClient(apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	genaiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiClient{genaiClient: genaiClient}, nil
}

// Generate sends a prompt to Gemini and returns the raw response text,
// untrimmed. It never returns an error: any transport or remote failure is
// converted into FallbackResponse so the interview keeps moving.
func (g *GeminiClient) Generate(ctx context.Context, prompt string) string {
	if g == nil || g.genaiClient == nil {
		slog.Error("Gemini client not initialized, returning fallback response")
		return FallbackResponse
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.7),
		TopK:            genai.Ptr[float32](40),
		TopP:            genai.Ptr[float32](0.95),
		MaxOutputTokens: 1024,
	}

	result, err := g.genaiClient.Models.GenerateContent(
		ctx,
		ModelName,
		genai.Text(prompt),
		config,
	)
	if err != nil {
		slog.Error("Failed to generate response", "error", err, "prompt_length", len(prompt))
		return FallbackResponse
	}

	response := result.Text()
	slog.Info("Generated response", "prompt_length", len(prompt), "response_length", len(response))
	return response
}
