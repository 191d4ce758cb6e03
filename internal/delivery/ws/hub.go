package ws

import (
	"sync"
)

// Hub is the table of live connections for this server process. It implements
// the router's Sender contract: a send to an unknown connection, or to one
// whose outbound queue is full, is dropped rather than treated as an error.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub creates an empty connection table
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register adds a client to the table
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
}

// Unregister removes a client and closes its send queue. Safe to call more
// than once for the same client.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.clients[c.ID]; !exists {
		return
	}

	delete(h.clients, c.ID)
	close(c.send)
}

// Send queues a message for one connection. The read lock is held for the
// whole operation so the send queue cannot be closed mid-send.
func (h *Hub) Send(connID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, exists := h.clients[connID]
	if !exists {
		return
	}

	select {
	case client.send <- data:
	default:
		// Queue full, drop. Delivery is best effort.
	}
}

// ClientCount returns the number of open connections
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
