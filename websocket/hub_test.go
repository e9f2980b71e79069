package websocket

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHubRegisterUnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := hub.RegisterClient(nil, "user-1", "session-1")
	if client.UserID != "user-1" || client.SessionID != "session-1" {
		t.Fatalf("client identity = %q/%q, want user-1/session-1", client.UserID, client.SessionID)
	}

	hub.unregister <- client

	select {
	case _, ok := <-client.Send:
		if ok {
			t.Error("expected Send to be closed after unregister")
		}
	case <-time.After(time.Second):
		t.Fatal("Send channel not closed after unregister")
	}
}

func TestSendMessageStampsSessionID(t *testing.T) {
	client := &Client{
		Send:      make(chan []byte, 4),
		SessionID: "session-9",
	}

	client.SendMessage(Message{Type: "message", Content: "hello"})

	var got Message
	select {
	case data := <-client.Send:
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("failed to unmarshal frame: %v", err)
		}
	default:
		t.Fatal("no frame queued")
	}
	if got.SessionID != "session-9" {
		t.Errorf("frame SessionID = %q, want session-9", got.SessionID)
	}
	if got.Type != "message" || got.Content != "hello" {
		t.Errorf("frame = %+v, want type message with hello content", got)
	}
}

func TestSendMessageDropsWhenBufferFull(t *testing.T) {
	client := &Client{
		Send:      make(chan []byte, 1),
		SessionID: "session-9",
	}

	client.SendMessage(Message{Type: "message", Content: "first"})
	client.SendMessage(Message{Type: "message", Content: "second"})

	if got := len(client.Send); got != 1 {
		t.Fatalf("buffered frames = %d, want 1", got)
	}
	var got Message
	if err := json.Unmarshal(<-client.Send, &got); err != nil {
		t.Fatalf("failed to unmarshal frame: %v", err)
	}
	if got.Content != "first" {
		t.Errorf("kept frame content = %q, want first", got.Content)
	}
}
