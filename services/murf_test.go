package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestMurfClient(t *testing.T, handler http.HandlerFunc) (*MurfClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewMurfClient("test-key")
	if err != nil {
		t.Fatalf("NewMurfClient() error = %v", err)
	}
	client.baseURL = server.URL
	return client, server
}

func TestNewMurfClientRequiresAPIKey(t *testing.T) {
	if _, err := NewMurfClient(""); err == nil {
		t.Error("NewMurfClient(\"\") should refuse construction")
	}
}

func TestGenerateSpeech(t *testing.T) {
	var gotRequest MurfRequest
	var gotAPIKey string

	client, _ := newTestMurfClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/speech/generate" {
			t.Errorf("request path = %q, want /speech/generate", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("request method = %q, want POST", r.Method)
		}
		gotAPIKey = r.Header.Get("api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(MurfResponse{AudioFile: "https://cdn.murf.ai/audio/abc.mp3"})
	})

	audioURL, err := client.GenerateSpeech(context.Background(), "Hello candidate", "mike")
	if err != nil {
		t.Fatalf("GenerateSpeech() error = %v", err)
	}

	if audioURL != "https://cdn.murf.ai/audio/abc.mp3" {
		t.Errorf("audioURL = %q, want the audioFile field from the response", audioURL)
	}
	if gotAPIKey != "test-key" {
		t.Errorf("api-key header = %q, want %q", gotAPIKey, "test-key")
	}
	if gotRequest.Text != "Hello candidate" {
		t.Errorf("request text = %q, want %q", gotRequest.Text, "Hello candidate")
	}
	// mike resolves to the james voice with its prosody settings
	if gotRequest.VoiceID != "james" || gotRequest.Speed != 0.95 || gotRequest.Pitch != 0.9 {
		t.Errorf("request voice = %+v, want james/0.95/0.9", gotRequest)
	}
}

func TestGenerateSpeechUsesDefaultVoiceForUnknownCharacter(t *testing.T) {
	var gotRequest MurfRequest

	client, _ := newTestMurfClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotRequest)
		json.NewEncoder(w).Encode(MurfResponse{AudioFile: "https://cdn.murf.ai/audio/abc.mp3"})
	})

	if _, err := client.GenerateSpeech(context.Background(), "Hello", "someone-new"); err != nil {
		t.Fatalf("GenerateSpeech() error = %v", err)
	}
	if gotRequest.VoiceID != "claire" {
		t.Errorf("unknown character resolved to voice %q, want claire", gotRequest.VoiceID)
	}
}

func TestGenerateSpeechAPIError(t *testing.T) {
	client, _ := newTestMurfClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	if _, err := client.GenerateSpeech(context.Background(), "Hello", "jane"); err == nil {
		t.Error("GenerateSpeech() should propagate API errors")
	}
}

func TestGenerateSpeechEmptyAudioFile(t *testing.T) {
	client, _ := newTestMurfClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(MurfResponse{})
	})

	if _, err := client.GenerateSpeech(context.Background(), "Hello", "jane"); err == nil {
		t.Error("GenerateSpeech() should reject a response without an audio file")
	}
}

func TestDownloadAudio(t *testing.T) {
	payload := []byte("mp3-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	client, err := NewMurfClient("test-key")
	if err != nil {
		t.Fatalf("NewMurfClient() error = %v", err)
	}

	data, err := client.DownloadAudio(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("DownloadAudio() error = %v", err)
	}
	if string(data) != string(payload) {
		t.Errorf("DownloadAudio() = %q, want %q", data, payload)
	}
}
