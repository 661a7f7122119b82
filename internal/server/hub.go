package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/STTM-NSU/holdings/internal/logger"
	"github.com/STTM-NSU/holdings/internal/viewmodel"
	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
)

const (
	_clientBuffer = 16
	_writeWait    = 10 * time.Second
	_pongWait     = 60 * time.Second
	_pingPeriod   = 30 * time.Second
	_readLimit    = 512
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// EventMessage is what websocket clients receive for every notification.
type EventMessage struct {
	Event   string `json:"event"`
	Message string `json:"message,omitempty"`
}

// Hub fans view model notifications out to websocket clients. It is a
// viewmodel.Observer; a client whose buffer is full misses the event.
type Hub struct {
	logger logger.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

var _ viewmodel.Observer = (*Hub)(nil)

func NewHub(logger logger.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
}

func (h *Hub) OnUpdated() {
	h.broadcast(EventMessage{Event: viewmodel.EventUpdated.String()})
}

func (h *Hub) OnLoadingFinished() {
	h.broadcast(EventMessage{Event: viewmodel.EventLoadingFinished.String()})
}

func (h *Hub) OnError(message string) {
	h.broadcast(EventMessage{Event: viewmodel.EventError.String(), Message: message})
}

// Clients reports the number of connected websocket clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades the request and streams events until the peer leaves.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnf("%s: can't upgrade websocket", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, _clientBuffer)}
	if !h.register(c) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		_ = conn.Close()
		return
	}
	h.logger.Debugf("ws client connected from %s", r.RemoteAddr)

	go h.writePump(c)
	h.readPump(c)
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) broadcast(e EventMessage) {
	msg, err := sonic.Marshal(e)
	if err != nil {
		h.logger.Errorf("%s: can't encode %s event", err, e.Event)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Warnf("ws client buffer full, dropping %s event", e.Event)
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(_pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(_writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(_writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only drains control frames; clients have nothing to say.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
		h.logger.Debugf("ws client disconnected")
	}()

	c.conn.SetReadLimit(_readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(_pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(_pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
