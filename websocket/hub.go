package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"eldato-web/apperrors"
	"eldato-web/lifecycle"
	"eldato-web/models"
)

// Event types pushed to browsers
const (
	EventEvaluationPrompt = "evaluation_prompt"
	EventRequestUpdated   = "request_updated"
	EventPong             = "pong"
	EventChatReply        = "chat_reply"
	EventError            = "error"
)

// Assistant answers questions sent as "chat" messages
type Assistant interface {
	Ask(ctx context.Context, message string) (*models.AssistantReply, error)
}

// Hub keeps the open connections of every user and pushes events to them.
// A user may hold several connections, one per open tab.
type Hub struct {
	clients map[uint]map[*Client]bool

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	// Message handlers for client-sent messages
	MessageHandlers map[string]MessageHandler

	// Closed once Run has returned
	done chan struct{}

	mu sync.RWMutex
}

// Message is the envelope of every frame exchanged over the socket
type Message struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// MessageHandler handles different types of messages
type MessageHandler func(*Client, *Message) error

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	hub := &Hub{
		clients:         make(map[uint]map[*Client]bool),
		Register:        make(chan *Client),
		Unregister:      make(chan *Client),
		MessageHandlers: make(map[string]MessageHandler),
		done:            make(chan struct{}),
	}
	hub.MessageHandlers["ping"] = hub.handlePing
	return hub
}

// Run starts the hub's main loop until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[*Client]bool)
			}
			h.clients[client.UserID][client] = true
			h.mu.Unlock()
			log.Printf("🔌 Client registered: user=%d role=%s", client.UserID, client.Role)

		case client := <-h.Unregister:
			h.remove(client)
			log.Printf("🔌 Client unregistered: user=%d", client.UserID)

		case <-ctx.Done():
			h.mu.Lock()
			for userID, conns := range h.clients {
				for client := range conns {
					close(client.Send)
				}
				delete(h.clients, userID)
			}
			h.mu.Unlock()
			log.Println("🛑 WebSocket hub stopped")
			return
		}
	}
}

// Done is closed once the hub has stopped
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// register hands client to the running hub; false once the hub has stopped
func (h *Hub) register(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// unregister hands client back to the hub; a stopped hub already dropped it
func (h *Hub) unregister(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.clients[client.UserID]
	if !ok || !conns[client] {
		return
	}
	delete(conns, client)
	close(client.Send)
	if len(conns) == 0 {
		delete(h.clients, client.UserID)
	}
}

// SendToUser sends a message to every connection of a user.
// It returns how many connections accepted it; offline users are skipped.
func (h *Hub) SendToUser(userID uint, message *Message) int {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("❌ Error marshaling message: %v", err)
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0
	for client := range h.clients[userID] {
		select {
		case client.Send <- data:
			sent++
		default:
			log.Printf("⚠️ User %d's send buffer is full", userID)
		}
	}
	return sent
}

// IsUserConnected checks if a user has at least one open connection
func (h *Hub) IsUserConnected(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// ConnectedUsers returns how many distinct users are connected
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// EvaluationPrompt offers the acting user to rate the counterpart now or later
func (h *Hub) EvaluationPrompt(userID uint, prompt lifecycle.EvaluationPrompt) {
	h.SendToUser(userID, &Message{
		Type:      EventEvaluationPrompt,
		Timestamp: time.Now(),
		Data:      prompt,
	})
}

// RequestUpdated tells a participant that a request changed state
func (h *Hub) RequestUpdated(userID uint, req models.ServiceRequest) {
	h.SendToUser(userID, &Message{
		Type:      EventRequestUpdated,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"request_id": req.ID,
			"state":      req.State,
		},
	})
}

// EnableAssistant answers "chat" messages through a.
// Call it before the hub starts serving connections.
func (h *Hub) EnableAssistant(a Assistant, timeout time.Duration) {
	h.MessageHandlers["chat"] = func(client *Client, message *Message) error {
		var text string
		if data, ok := message.Data.(map[string]interface{}); ok {
			text, _ = data["message"].(string)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		reply, err := a.Ask(ctx, strings.TrimSpace(text))
		if err != nil {
			msg := "The assistant could not answer right now."
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) {
				msg = appErr.Message
			}
			log.Printf("⚠️ Assistant failed for user %d: %v", client.UserID, err)
			return client.SendMessage(&Message{Type: EventError, Timestamp: time.Now(), Data: map[string]string{"error": msg}})
		}
		return client.SendMessage(&Message{Type: EventChatReply, Timestamp: time.Now(), Data: reply})
	}
}

// handlePing handles ping messages for connection health
func (h *Hub) handlePing(client *Client, message *Message) error {
	return client.SendMessage(&Message{Type: EventPong, Timestamp: time.Now()})
}

var _ lifecycle.Notifier = (*Hub)(nil)
