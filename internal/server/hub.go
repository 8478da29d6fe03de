package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	heartbeatInterval = 30 * time.Second
	sendBufferSize    = 16
)

// Frame is a single event pushed to connected clients.
type Frame struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub fans events out to websocket subscribers. Consumers that cannot
// keep up with the send buffer are disconnected rather than blocking
// the broadcaster.
type Hub struct {
	mu       sync.Mutex
	conns    map[*wsConn]struct{}
	logger   *slog.Logger
	upgrader websocket.Upgrader
	done     chan struct{}
	once     sync.Once
}

type wsConn struct {
	conn *websocket.Conn
	send chan Frame
}

// NewHub creates a hub and starts its heartbeat loop.
func NewHub(logger *slog.Logger) *Hub {
	h := &Hub{
		conns:  make(map[*wsConn]struct{}),
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		done: make(chan struct{}),
	}
	go h.heartbeatLoop()
	return h
}

// Close disconnects all clients and stops the heartbeat loop.
func (h *Hub) Close() {
	h.once.Do(func() { close(h.done) })
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		close(c.send)
		delete(h.conns, c)
	}
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Broadcast queues a frame for every subscriber, dropping the ones
// whose buffers are full.
func (h *Hub) Broadcast(frameType string, payload any) {
	frame := Frame{Type: frameType, Payload: payload, Timestamp: time.Now().UTC()}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		select {
		case c.send <- frame:
		default:
			h.logger.Warn("dropping slow websocket client")
			close(c.send)
			delete(h.conns, c)
		}
	}
}

func (h *Hub) heartbeatLoop() {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			h.Broadcast("heartbeat", nil)
		case <-h.done:
			return
		}
	}
}

// ServeHTTP upgrades the request and attaches the client to the hub.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &wsConn{conn: conn, send: make(chan Frame, sendBufferSize)}
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) writePump(c *wsConn) {
	defer c.conn.Close()
	for frame := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(frame); err != nil {
			h.remove(c)
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, nil)
}

// readPump drains client messages so control frames are processed and
// detects disconnects.
func (h *Hub) readPump(c *wsConn) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.remove(c)
			return
		}
	}
}

func (h *Hub) remove(c *wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[c]; ok {
		close(c.send)
		delete(h.conns, c)
	}
}
