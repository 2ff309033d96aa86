// Package ws broadcasts freshly computed position snapshots to
// subscribed clients. Delivery is best effort: slow consumers are
// dropped, the analytics core never blocks on the feed.
package ws

import (
	"context"
	"encoding/json"

	"github.com/pitwall/strategy-engine/log"
)

// Hub manages the websocket clients and message fan-out.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	ctx    context.Context
	cancel context.CancelFunc
	l      *log.Logger
}

// NewHub returns a hub; call Run in its own goroutine.
func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		ctx:        ctx,
		cancel:     cancel,
		l:          log.Default().Named("ws"),
	}
}

// Run owns the client map until Shutdown is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			for c := range h.clients {
				c.close()
			}
			return
		case c := <-h.register:
			h.clients[c] = true
			h.l.Debug("client registered", log.Int("clients", len(h.clients)))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.close()
			}
			h.l.Debug("client unregistered", log.Int("clients", len(h.clients)))
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// slow consumer, drop it
					delete(h.clients, c)
					c.close()
				}
			}
		}
	}
}

// Shutdown stops the run loop and disconnects all clients.
func (h *Hub) Shutdown() {
	h.cancel()
}

// BroadcastJSON encodes v and queues it for all connected clients.
func (h *Hub) BroadcastJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.l.Error("broadcast encode failed", log.ErrorF(err))
		return
	}
	select {
	case h.broadcast <- data:
	default:
		h.l.Warn("broadcast queue full, dropping message")
	}
}
