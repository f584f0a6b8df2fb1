package ws

import (
	"context"
	"sync/atomic"

	"property-feed/pkg/utils"
)

// Hub fans every broadcast payload out to the currently-connected
// clients. Delivery is at-most-once: a client that is connecting,
// closing, or too slow to drain its send buffer is skipped or dropped,
// never queued for.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	count      int64
	log        *utils.Logger
}

func NewHub(log *utils.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		log:        log,
	}
}

// Run owns the client set. All registration and fan-out happens on this
// goroutine; broadcasts are processed sequentially in arrival order.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				client.close()
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			atomic.AddInt64(&h.count, 1)
			h.log.Info("client %s connected (%d total)", client.id, len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				atomic.AddInt64(&h.count, -1)
				client.close()
				h.log.Info("client %s disconnected (%d total)", client.id, len(h.clients))
			}

		case payload := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- payload:
				default:
					// Client is not draining its buffer; drop it rather
					// than block the fan-out.
					delete(h.clients, client)
					atomic.AddInt64(&h.count, -1)
					client.close()
					h.log.Warn("client %s dropped: send buffer full", client.id)
				}
			}
		}
	}
}

// Broadcast hands a payload to the fan-out loop. Non-blocking from the
// relay's perspective once the hub buffer has room.
func (h *Hub) Broadcast(payload []byte) {
	h.broadcast <- payload
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	return int(atomic.LoadInt64(&h.count))
}
