package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Event represents a WebSocket event sent to dashboard clients.
type Event struct {
	Type string `json:"type"` // "transcript"
	Data any    `json:"data"`
}

// TranscriptEvent carries one utterance of a live session.
type TranscriptEvent struct {
	SessionID string `json:"session_id"`
	Role      string `json:"role"` // "user", "bot"
	Text      string `json:"text"`
}

// Hub maintains the set of active WebSocket clients and broadcasts
// session transcripts to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	log        *slog.Logger
}

// NewHub creates a new Hub instance.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// Run starts the hub's event loop. Should be called in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastTranscript sends a transcript event to all connected clients.
func (h *Hub) BroadcastTranscript(sessionID, role, text string) {
	h.broadcast <- &Event{
		Type: "transcript",
		Data: TranscriptEvent{
			SessionID: sessionID,
			Role:      role,
			Text:      text,
		},
	}
}
