// Package realtime pushes audit events to connected dashboard clients
// over WebSocket. Clients are read-only subscribers of a single feed.
package realtime

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
	"github.com/schoolmed/healthdesk/internal/app/models"
)

// Hub maintains the set of active subscribers and fans audit events out to them.
type Hub struct {
	// Registered subscribers
	clients map[*Client]bool

	// Channel for outbound audit events
	broadcast chan *models.AuditEntry

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for concurrent access to the clients map
	mu sync.RWMutex

	// Logger for Hub operations
	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan *models.AuditEntry, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     logger,
	}
}

// Run starts the hub, handling client registrations and event fan-out.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case entry := <-h.broadcast:
			h.broadcastEntry(entry)
		}
	}
}

// Broadcast queues an audit entry for delivery to all subscribers.
// It never blocks the caller: if the hub is saturated the event is dropped.
func (h *Hub) Broadcast(entry *models.AuditEntry) {
	if entry == nil {
		return
	}
	select {
	case h.broadcast <- entry:
	default:
		h.logger.Warn().
			Str("resource", string(entry.Resource)).
			Str("action", string(entry.Action)).
			Msg("Audit feed saturated, dropping event")
	}
}

// SubscriberCount returns the number of currently connected clients.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true

	h.logger.Info().
		Str("actorID", client.actorID).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Audit feed client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)

		h.logger.Info().
			Str("actorID", client.actorID).
			Msg("Audit feed client unregistered")
	}
}

func (h *Hub) broadcastEntry(entry *models.AuditEntry) {
	payload, err := json.Marshal(entry)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal audit event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			// Slow consumer; drop the event rather than stall the feed
			h.logger.Debug().
				Str("actorID", client.actorID).
				Msg("Dropping audit event for slow client")
		}
	}
}
