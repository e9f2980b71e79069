package services

import (
	"context"
	"testing"
)

func TestNewGeminiClientRequiresAPIKey(t *testing.T) {
	if _, err := NewGeminiClient(""); err == nil {
		t.Error("NewGeminiClient(\"\") should refuse construction")
	}
}

func TestGenerateFallsBackWhenUninitialized(t *testing.T) {
	var client *GeminiClient

	got := client.Generate(context.Background(), "any prompt")
	if got != FallbackResponse {
		t.Errorf("Generate() on nil client = %q, want the fallback response", got)
	}
}

func TestFallbackResponseText(t *testing.T) {
	// The frontend matches on this exact string to detect degraded turns
	want := "I apologize, but I'm having trouble processing your response right now. Could you please repeat that?"
	if FallbackResponse != want {
		t.Errorf("FallbackResponse = %q, want %q", FallbackResponse, want)
	}
}
