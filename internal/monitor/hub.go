// Package monitor fans a read-only snapshot feed out to connected
// debug spectators. Nothing ever flows the other direction: a
// spectator cannot issue commands, so there is no intake queue, no
// heartbeat tracking, and no per-connection ack bookkeeping.
package monitor

import "sync"

// Hub tracks connected spectator clients and fans published frames
// out to each of them. Grounded on the shape of the teacher's
// internal/net/ws session registry, trimmed to the broadcast-only
// half it needs since spectators never send commands.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
}

// Client is one spectator connection's outbound mailbox.
type Client struct {
	send chan []byte
}

// NewHub returns an empty spectator hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

// Register adds a client with the given outbound buffer depth and
// returns it so the caller can drain Send in its own write loop.
func (h *Hub) Register(buffer int) *Client {
	c := &Client{send: make(chan []byte, buffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

// Unregister removes a client and closes its mailbox.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Publish fans payload out to every connected client. A client whose
// mailbox is full is dropped rather than allowed to stall the
// publisher; the monitor is best-effort by design, never a backpressure
// source for the simulation loop.
func (h *Hub) Publish(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// ClientCount reports how many spectators are currently connected.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Send exposes the client's outbound mailbox to its write loop.
func (c *Client) Send() <-chan []byte {
	return c.send
}
