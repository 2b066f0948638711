package websocket

import (
	"errors"
	"sync"

	"github.com/budgetloop/budgetloop-backend/internal/event"
	"github.com/rs/zerolog/log"
)

// ErrClientClosed is returned when attempting to send to a closed client
var ErrClientClosed = errors.New("client is closed")

// ClientInterface defines the interface that clients must implement
type ClientInterface interface {
	ID() string
	// Accepts reports whether the client subscribed to events about entity.
	Accepts(entity event.EntityType) bool
	Send(data []byte) error
	Close() error
}

// Hub fans change events out to every connected client.
// It is safe for concurrent use
type Hub struct {
	clients map[string]ClientInterface
	mu      sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]ClientInterface),
	}
}

var _ event.Publisher = (*Hub)(nil)

// Register adds a client to the hub
func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID()] = client

	log.Debug().
		Str("client_id", client.ID()).
		Msg("WebSocket client registered")
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.clients[client.ID()]; exists {
		delete(h.clients, client.ID())

		log.Debug().
			Str("client_id", client.ID()).
			Msg("WebSocket client unregistered")
	}
}

// Publish implements event.Publisher by broadcasting the event
func (h *Hub) Publish(evt event.Event) {
	h.Broadcast(evt)
}

// Broadcast sends an event to every client subscribed to its entity
func (h *Hub) Broadcast(evt event.Event) {
	data, err := evt.ToJSON()
	if err != nil {
		log.Error().
			Err(err).
			Str("event_type", evt.Type).
			Msg("Failed to serialize event")
		return
	}

	h.mu.RLock()
	if len(h.clients) == 0 {
		h.mu.RUnlock()
		return
	}

	// Copy clients to avoid holding lock during send
	recipients := make([]ClientInterface, 0, len(h.clients))
	for _, client := range h.clients {
		if client.Accepts(evt.Entity) {
			recipients = append(recipients, client)
		}
	}
	h.mu.RUnlock()

	// Send to each client asynchronously
	for _, client := range recipients {
		go func(c ClientInterface) {
			if err := c.Send(data); err != nil {
				log.Warn().
					Err(err).
					Str("client_id", c.ID()).
					Msg("Failed to send to client")
			}
		}(client)
	}

	log.Debug().
		Str("event_type", evt.Type).
		Int("client_count", len(recipients)).
		Msg("Broadcast event")
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAll disconnects every client, used on shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[string]ClientInterface)
	h.mu.Unlock()

	for _, c := range clients {
		_ = c.Close()
	}
}
