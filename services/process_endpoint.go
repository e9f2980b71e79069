package services

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// ProcessEndpoint exposes the stateless generate-then-synthesize pipeline the
// presentation layer drives directly: forward a prompt to the generator and,
// unless the request is a feedback request, synthesize the result with the
// character's voice.
type ProcessEndpoint struct {
	generator   Generator
	synthesizer Synthesizer
}

type ProcessMessageRequest struct {
	Message         string          `json:"message"`
	Character       CharacterRef    `json:"character"`
	InterviewType   json.RawMessage `json:"interviewType"`
	CurrentQuestion int             `json:"currentQuestion"`
	IsFeedback      bool            `json:"isFeedback"`
}

// CharacterRef is the subset of the character object the endpoint needs.
type CharacterRef struct {
	ID string `json:"id"`
}

type ProcessMessageResponse struct {
	Success          bool   `json:"success"`
	ProcessedMessage string `json:"processedMessage,omitempty"`
	AudioFile        string `json:"audioFile,omitempty"`
	Error            string `json:"error,omitempty"`
	Details          string `json:"details,omitempty"`
	Timestamp        int64  `json:"timestamp"`
}

func NewProcessEndpoint(generator Generator, synthesizer Synthesizer) *ProcessEndpoint {
	return &ProcessEndpoint{
		generator:   generator,
		synthesizer: synthesizer,
	}
}

// ProcessMessageHandler handles POST /api/v1/process-message. Generation-step
// failures return 500; a synthesis failure after successful generation is
// partial success, reported as 200 with an informational error field.
func (e *ProcessEndpoint) ProcessMessageHandler(w http.ResponseWriter, r *http.Request) {
	var req ProcessMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode process-message request", "error", err)
		writeProcessResponse(w, http.StatusInternalServerError, ProcessMessageResponse{
			Success:   false,
			Error:     "Failed to process message",
			Details:   err.Error(),
			Timestamp: time.Now().UnixMilli(),
		})
		return
	}

	if e.generator == nil {
		slog.Error("Generation client not configured")
		writeProcessResponse(w, http.StatusInternalServerError, ProcessMessageResponse{
			Success:   false,
			Error:     "Failed to process message with Gemini",
			Details:   "generation service is not configured",
			Timestamp: time.Now().UnixMilli(),
		})
		return
	}

	processedMessage := e.generator.Generate(r.Context(), req.Message)

	// Feedback requests never generate audio.
	if req.IsFeedback {
		writeProcessResponse(w, http.StatusOK, ProcessMessageResponse{
			Success:          true,
			ProcessedMessage: processedMessage,
			Timestamp:        time.Now().UnixMilli(),
		})
		return
	}

	if e.synthesizer == nil {
		writeProcessResponse(w, http.StatusOK, ProcessMessageResponse{
			Success:          true,
			ProcessedMessage: processedMessage,
			Error:            "Audio generation failed, but text response is available",
			Timestamp:        time.Now().UnixMilli(),
		})
		return
	}

	audioURL, err := e.synthesizer.GenerateSpeech(r.Context(), processedMessage, req.Character.ID)
	if err != nil {
		slog.Error("Audio generation failed", "error", err, "character_id", req.Character.ID)
		writeProcessResponse(w, http.StatusOK, ProcessMessageResponse{
			Success:          true,
			ProcessedMessage: processedMessage,
			Error:            "Audio generation failed, but text response is available",
			Timestamp:        time.Now().UnixMilli(),
		})
		return
	}

	writeProcessResponse(w, http.StatusOK, ProcessMessageResponse{
		Success:          true,
		ProcessedMessage: processedMessage,
		AudioFile:        audioURL,
		Timestamp:        time.Now().UnixMilli(),
	})
}

func writeProcessResponse(w http.ResponseWriter, status int, resp ProcessMessageResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
