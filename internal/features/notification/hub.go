package notification

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// Conn is the part of a websocket connection the hub needs.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

var _ Conn = (*websocket.Conn)(nil)

// client pairs a connection with its write lock. The websocket protocol
// allows one concurrent writer per connection, so every push takes the
// lock before writing a frame.
type client struct {
	mu   sync.Mutex
	conn Conn
}

// Hub tracks open websocket connections per user id so notifications can
// be pushed as they are created. A user may hold several connections
// (multiple tabs).
type Hub struct {
	mu    sync.RWMutex
	conns map[string][]*client
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[string][]*client),
	}
}

func (h *Hub) Register(userID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[userID] = append(h.conns[userID], &client{conn: conn})
}

func (h *Hub) Unregister(userID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	remaining := h.conns[userID][:0]
	for _, c := range h.conns[userID] {
		if c.conn != conn {
			remaining = append(remaining, c)
		}
	}
	if len(remaining) == 0 {
		delete(h.conns, userID)
	} else {
		h.conns[userID] = remaining
	}
}

// Push sends a JSON payload to every open connection of the user.
// Delivery is best effort; a failed write just closes that connection.
func (h *Hub) Push(userID string, payload interface{}) {
	h.mu.RLock()
	conns := append([]*client(nil), h.conns[userID]...)
	h.mu.RUnlock()

	for _, c := range conns {
		c.mu.Lock()
		err := c.conn.WriteJSON(payload)
		c.mu.Unlock()
		if err != nil {
			c.conn.Close()
		}
	}
}
