package devserver

import (
	"context"
	"encoding/json"
	"net/http"
	"path"
	"sync"
	"time"

	"github.com/chensid/grunt-demo/internal/core/ports"
	"github.com/coder/websocket"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 8
)

// Message is the payload pushed to browsers.
type Message struct {
	// Type is "css" when only stylesheets changed, otherwise "reload".
	Type  string   `json:"type"`
	Paths []string `json:"paths,omitempty"`
}

var _ ports.Reloader = (*Hub)(nil)

// Hub tracks connected live reload clients.
type Hub struct {
	mu      sync.Mutex
	clients map[chan []byte]struct{}
	done    chan struct{}
	closed  bool
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[chan []byte]struct{}),
		done:    make(chan struct{}),
	}
}

// ServeHTTP upgrades the request and streams reload messages until the
// client goes away or the hub is closed.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.CloseNow() }()

	send, ok := h.register()
	if !ok {
		_ = conn.Close(websocket.StatusGoingAway, "server stopping")
		return
	}
	defer h.unregister(send)

	ctx := conn.CloseRead(r.Context())
	for {
		select {
		case <-ctx.Done():
			return
		case <-h.done:
			_ = conn.Close(websocket.StatusGoingAway, "server stopping")
			return
		case msg := <-send:
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := conn.Write(writeCtx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

func (h *Hub) register() (chan []byte, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	send := make(chan []byte, sendBuffer)
	h.clients[send] = struct{}{}
	return send, true
}

func (h *Hub) unregister(send chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, send)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Reload asks every client to refresh. Stylesheet-only changes refresh the
// stylesheets in place; anything else reloads the page.
func (h *Hub) Reload(paths []string) {
	h.Broadcast(NewMessage(paths))
}

// Broadcast sends msg to every client. Slow clients miss messages rather
// than block the sender.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for send := range h.clients {
		select {
		case send <- data:
		default:
		}
	}
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.closed {
		h.closed = true
		close(h.done)
	}
}

// NewMessage builds the message announcing changes to paths.
func NewMessage(paths []string) Message {
	if len(paths) == 0 {
		return Message{Type: "reload"}
	}
	for _, p := range paths {
		if path.Ext(p) != ".css" {
			return Message{Type: "reload", Paths: paths}
		}
	}
	return Message{Type: "css", Paths: paths}
}
