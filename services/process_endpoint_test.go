package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type staticGenerator struct {
	response string
}

func (g *staticGenerator) Generate(ctx context.Context, prompt string) string {
	return g.response
}

func postProcessMessage(t *testing.T, endpoint *ProcessEndpoint, body string) (*httptest.ResponseRecorder, ProcessMessageResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/process-message", strings.NewReader(body))
	rec := httptest.NewRecorder()
	endpoint.ProcessMessageHandler(rec, req)

	var resp ProcessMessageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return rec, resp
}

func TestProcessMessageHandler(t *testing.T) {
	body := `{"message": "Tell me about yourself", "character": {"id": "jane"}, "interviewType": {"id": "technical"}, "currentQuestion": 1, "isFeedback": false}`

	t.Run("full success", func(t *testing.T) {
		endpoint := NewProcessEndpoint(&staticGenerator{response: "What is your experience with Go?"}, &fakeSynthesizer{})
		rec, resp := postProcessMessage(t, endpoint, body)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
		if !resp.Success {
			t.Error("Success should be true")
		}
		if resp.ProcessedMessage != "What is your experience with Go?" {
			t.Errorf("ProcessedMessage = %q", resp.ProcessedMessage)
		}
		if resp.AudioFile == "" {
			t.Error("AudioFile should be set on full success")
		}
		if resp.Error != "" {
			t.Errorf("Error should be empty, got %q", resp.Error)
		}
		if resp.Timestamp == 0 {
			t.Error("Timestamp should be set")
		}
	})

	t.Run("synthesis failure is partial success", func(t *testing.T) {
		synth := &fakeSynthesizer{err: errors.New("murf API error: 500")}
		endpoint := NewProcessEndpoint(&staticGenerator{response: "A question."}, synth)
		rec, resp := postProcessMessage(t, endpoint, body)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200; text is still usable", rec.Code)
		}
		if !resp.Success {
			t.Error("Success should be true on audio-only failure")
		}
		if resp.ProcessedMessage != "A question." {
			t.Errorf("ProcessedMessage = %q", resp.ProcessedMessage)
		}
		if resp.AudioFile != "" {
			t.Errorf("AudioFile should be empty, got %q", resp.AudioFile)
		}
		if !strings.Contains(resp.Error, "Audio generation failed") {
			t.Errorf("Error = %q, want an audio failure notice", resp.Error)
		}
	})

	t.Run("missing synthesizer is partial success", func(t *testing.T) {
		endpoint := NewProcessEndpoint(&staticGenerator{response: "A question."}, nil)
		rec, resp := postProcessMessage(t, endpoint, body)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
		if !resp.Success || resp.AudioFile != "" {
			t.Errorf("want text-only success, got success=%v audio=%q", resp.Success, resp.AudioFile)
		}
	})

	t.Run("feedback request skips synthesis", func(t *testing.T) {
		synth := &fakeSynthesizer{}
		feedbackBody := `{"message": "feedback prompt", "character": {"id": "jane"}, "isFeedback": true}`
		endpoint := NewProcessEndpoint(&staticGenerator{response: `{"score": 8}`}, synth)
		rec, resp := postProcessMessage(t, endpoint, feedbackBody)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
		if !resp.Success {
			t.Error("Success should be true")
		}
		if resp.AudioFile != "" {
			t.Error("feedback responses never carry audio")
		}
		if synth.calls != 0 {
			t.Errorf("synthesizer called %d times, want 0", synth.calls)
		}
	})

	t.Run("missing generator is a server error", func(t *testing.T) {
		endpoint := NewProcessEndpoint(nil, &fakeSynthesizer{})
		rec, resp := postProcessMessage(t, endpoint, body)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
		if resp.Success {
			t.Error("Success should be false")
		}
		if !strings.Contains(resp.Error, "Gemini") {
			t.Errorf("Error = %q, want a generation failure message", resp.Error)
		}
	})

	t.Run("malformed body is a server error", func(t *testing.T) {
		endpoint := NewProcessEndpoint(&staticGenerator{response: "x"}, nil)
		rec, resp := postProcessMessage(t, endpoint, "{not json")

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
		if resp.Success {
			t.Error("Success should be false")
		}
		if resp.Details == "" {
			t.Error("Details should carry the decode error")
		}
	})
}
