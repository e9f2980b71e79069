package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Hub tracks connected clients. Outbound frames are addressed to one
// session's client through SendMessage; there is no hub-level fan-out.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

type Client struct {
	Hub            *Hub
	Conn           *websocket.Conn
	Send           chan []byte
	UserID         string
	SessionID      string
	MessageHandler func(*Client, []byte) // Set by the websocket handler before the pumps start
}

// Message is the wire frame exchanged with the browser. Inbound types are
// "partial_transcript", "transcript" and "end_session"; outbound types are
// "message", "summary", "session_complete" and "error".
type Message struct {
	Type            string      `json:"type"`
	Content         string      `json:"content,omitempty"`
	AudioFile       string      `json:"audio_file,omitempty"`
	Speaker         string      `json:"speaker,omitempty"`
	TurnOrder       int         `json:"turn_order,omitempty"`
	CurrentQuestion int         `json:"current_question,omitempty"`
	TotalQuestions  int         `json:"total_questions,omitempty"`
	Payload         interface{} `json:"payload,omitempty"`
	SessionID       string      `json:"session_id,omitempty"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			slog.Info("Client registered", "user_id", client.UserID, "session_id", client.SessionID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			slog.Info("Client unregistered", "user_id", client.UserID, "session_id", client.SessionID)
		}
	}
}

// RegisterClient attaches a connection for one interview session.
func (h *Hub) RegisterClient(conn *websocket.Conn, userID, sessionID string) *Client {
	client := &Client{
		Hub:       h,
		Conn:      conn,
		Send:      make(chan []byte, 256),
		UserID:    userID,
		SessionID: sessionID,
	}

	h.register <- client
	return client
}

func (c *Client) ReadPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(1024 * 1024) // transcripts only, no raw audio uploads
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, messageBytes, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			break
		}

		if c.MessageHandler != nil {
			// Run message handler asynchronously to avoid blocking the pump
			go c.MessageHandler(c, messageBytes)
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close tears down the underlying connection. No-op for a client whose
// connection was never attached.
func (c *Client) Close() {
	if c.Conn != nil {
		c.Conn.Close()
	}
}

// SendMessage marshals and queues one outbound frame. Drops the frame if the
// send buffer is full.
func (c *Client) SendMessage(msg Message) {
	msg.SessionID = c.SessionID
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("Failed to marshal websocket message", "error", err, "type", msg.Type)
		return
	}

	select {
	case c.Send <- data:
	default:
		slog.Warn("Dropping websocket message, send buffer full", "session_id", c.SessionID, "type", msg.Type)
	}
}
