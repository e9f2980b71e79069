package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/samosa1610/murfAI/models"
	ws "github.com/samosa1610/murfAI/websocket"
)

func newTestClient() *ws.Client {
	return &ws.Client{
		Send:      make(chan []byte, 16),
		UserID:    "user-1",
		SessionID: "session-1",
	}
}

func readFrame(t *testing.T, client *ws.Client) ws.Message {
	t.Helper()
	select {
	case data := <-client.Send:
		var msg ws.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("failed to unmarshal frame: %v", err)
		}
		return msg
	case <-time.After(time.Second):
		t.Fatal("no frame queued for the client")
		return ws.Message{}
	}
}

func TestEndSessionAbandonsWithoutPromisingSummary(t *testing.T) {
	store := newFakeStore()
	session := newTestSession(5)
	session.Status = models.SessionStatusInProgress
	store.addSession(session)
	handler := NewWebSocketHandler(NewInterviewOrchestrator(store, &fakeGenerator{}, &fakeSynthesizer{}, nil))
	client := newTestClient()

	handler.HandleWebSocketMessage(client, []byte(`{"type":"end_session"}`))

	farewell := readFrame(t, client)
	if farewell.Type != "end_session" {
		t.Errorf("frame type = %q, want end_session", farewell.Type)
	}
	// Ending early abandons the session, so the farewell must not promise a
	// summary that will never be produced.
	if strings.Contains(strings.ToLower(farewell.Content), "summary") {
		t.Errorf("farewell mentions a summary, got %q", farewell.Content)
	}

	updated, _ := store.GetInterviewSession(context.Background(), "session-1")
	if updated.Status != models.SessionStatusAbandoned {
		t.Errorf("session status = %q, want abandoned", updated.Status)
	}
}
