package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/samosa1610/murfAI/models"
	ws "github.com/samosa1610/murfAI/websocket"
)

// WebSocketHandler routes live transcript frames from the browser into the
// orchestrator and streams turn results back over the same connection.
type WebSocketHandler struct {
	orchestrator *InterviewOrchestrator
}

func NewWebSocketHandler(orchestrator *InterviewOrchestrator) *WebSocketHandler {
	return &WebSocketHandler{
		orchestrator: orchestrator,
	}
}

// HandleWebSocketConnection greets the client as soon as the connection is up.
// The greeting is only emitted for sessions still in the ready state, so a
// reconnect mid-interview does not replay turn 1.
func (h *WebSocketHandler) HandleWebSocketConnection(client *ws.Client) {
	slog.Info("WebSocket connection handled", "user_id", client.UserID, "session_id", client.SessionID)

	ctx := context.Background()
	greeting, err := h.orchestrator.StartSessionIfReady(ctx, client.SessionID)
	if err != nil {
		slog.Error("Failed to auto-start interview", "error", err, "session_id", client.SessionID)
		client.SendMessage(ws.Message{
			Type:    "error",
			Content: "Failed to start the interview",
		})
		return
	}
	if greeting != nil {
		client.SendMessage(turnMessage(greeting))
	}
}

// HandleWebSocketMessage processes one inbound frame. Partial transcripts are
// interim speech recognition results and never reach the orchestrator; only a
// finalized transcript advances the interview.
func (h *WebSocketHandler) HandleWebSocketMessage(client *ws.Client, messageBytes []byte) {
	var msg ws.Message
	if err := json.Unmarshal(messageBytes, &msg); err != nil {
		slog.Error("Failed to unmarshal WebSocket message", "error", err)
		return
	}

	slog.Info("WebSocket message received", "type", msg.Type, "user_id", client.UserID, "session_id", client.SessionID)

	switch msg.Type {
	case "partial_transcript":
		// Interim recognition output. Logged for debugging, never persisted.
		slog.Debug("Partial transcript", "session_id", client.SessionID, "content_length", len(msg.Content))

	case "transcript":
		h.processTranscript(client, msg.Content)

	case "end_session":
		slog.Info("Received end_session request", "session_id", client.SessionID)
		client.SendMessage(ws.Message{
			Type:    "end_session",
			Content: "Thank you for your time. The interview has ended.",
		})
		if err := h.orchestrator.AbandonSession(context.Background(), client.SessionID); err != nil {
			slog.Error("Failed to abandon session", "error", err, "session_id", client.SessionID)
		}
		// Close after a short delay so the farewell frame gets flushed
		go func() {
			<-time.After(200 * time.Millisecond)
			client.Close()
		}()

	default:
		slog.Warn("Unknown message type", "type", msg.Type, "session_id", client.SessionID)
	}
}

func (h *WebSocketHandler) processTranscript(client *ws.Client, transcript string) {
	ctx := context.Background()

	result, err := h.orchestrator.SubmitUtterance(ctx, client.SessionID, transcript)
	if err != nil {
		content := "Failed to process your response"
		switch {
		case errors.Is(err, ErrEmptyTranscript):
			content = "Transcript must not be empty"
		case errors.Is(err, ErrTurnInProgress):
			content = "Still processing your previous response"
		case errors.Is(err, ErrSessionNotInProgress):
			content = "The interview is not in progress"
		case errors.Is(err, ErrSessionNotFound):
			content = "Session not found"
		default:
			slog.Error("Failed to process transcript", "error", err, "session_id", client.SessionID)
		}
		client.SendMessage(ws.Message{
			Type:    "error",
			Content: content,
		})
		return
	}

	client.SendMessage(turnMessage(result.UserMessage))

	interviewerFrame := turnMessage(result.InterviewerMessage)
	interviewerFrame.CurrentQuestion = result.CurrentQuestion
	interviewerFrame.TotalQuestions = result.TotalQuestions
	client.SendMessage(interviewerFrame)

	switch result.SessionStatus {
	case models.SessionStatusCompleted:
		client.SendMessage(ws.Message{
			Type:    "summary",
			Payload: result.Summary,
		})
		client.SendMessage(ws.Message{
			Type:    "session_complete",
			Content: "The interview is complete. Your feedback report is ready.",
		})
	case models.SessionStatusSummaryFailed:
		client.SendMessage(ws.Message{
			Type:    "error",
			Content: "Feedback generation failed. You can retry from the summary screen.",
		})
	}
}

// turnMessage converts a persisted transcript row into an outbound frame.
func turnMessage(message *models.Message) ws.Message {
	frame := ws.Message{
		Type:      "message",
		Content:   message.Content,
		Speaker:   message.Speaker,
		TurnOrder: message.TurnOrder,
	}
	if message.AudioFile != nil {
		frame.AudioFile = *message.AudioFile
	}
	return frame
}
