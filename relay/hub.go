/* hub.go
 * Contains the registry of connected relay clients and the broadcast over it. Each client has a buffered queue
 * drained by its own writer, so a slow receiver never blocks the broadcast. A receiver whose queue is full is dropped.
 */

package relay

import (
	"log"
	"sync"
)

// client is one registered connection as seen by the hub
type client struct {
	id   string
	send chan []byte
}

// Hub is the set of live connections
type Hub struct {
	mu        sync.Mutex
	clients   map[*client]struct{}
	queueSize int
}

func NewHub(queueSize int) *Hub {
	if queueSize <= 0 {
		queueSize = 16
	}
	return &Hub{
		clients:   make(map[*client]struct{}),
		queueSize: queueSize,
	}
}

func (h *Hub) register(id string) *client {
	c := &client{id: id, send: make(chan []byte, h.queueSize)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	log.Printf("Relay client %s connected (%d connected)", id, count)
	return c
}

// unregister removes the client and closes its queue. Safe to call more than once.
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	count := len(h.clients)
	h.mu.Unlock()

	if ok {
		log.Printf("Relay client %s disconnected (%d connected)", c.id, count)
	}
}

// Broadcast queues msg for every connected client, the sender included
func (h *Hub) Broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			log.Printf("Relay client %s is not keeping up, dropping it", c.id)
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// Count returns the number of connected clients
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
