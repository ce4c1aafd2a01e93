package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is consumed cross-origin by the dashboard frontend.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// client is one connected browser tab and the channels it subscribed to.
type client struct {
	conn     *websocket.Conn
	send     chan Event
	channels map[string]bool
}

// Hub fans relay events out to connected WebSocket clients. One hub per
// process; clients register with the channel set from their upgrade
// request and receive every event published to those channels.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]bool
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*client]bool),
	}
}

// Run consumes relay events until the context is canceled.
func (h *Hub) Run(ctx context.Context, events <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			h.Broadcast(ev)
		}
	}
}

// Broadcast delivers one event to every client subscribed to its channel.
// Clients that cannot keep up are disconnected rather than buffered
// without bound.
func (h *Hub) Broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		if !c.channels[ev.Channel] {
			continue
		}
		select {
		case c.send <- ev:
		default:
			close(c.send)
			delete(h.clients, c)
		}
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		close(c.send)
		delete(h.clients, c)
	}
	h.mu.Unlock()
}

// ServeWS upgrades the request and streams events for the channels named
// in the "channels" query parameter (comma separated).
func (h *Hub) ServeWS() gin.HandlerFunc {
	return func(c *gin.Context) {
		channels := make(map[string]bool)
		for _, name := range strings.Split(c.Query("channels"), ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				channels[name] = true
			}
		}
		if len(channels) == 0 {
			channels[TasksChannel] = true
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logrus.WithError(err).Warn("realtime: websocket upgrade failed")
			return
		}

		cl := &client{
			conn:     conn,
			send:     make(chan Event, sendBuffer),
			channels: channels,
		}
		h.register(cl)

		go cl.writePump()
		go cl.readPump(h)
	}
}

// readPump discards inbound frames; the stream is server-to-client only.
// It exists to notice closed connections and process control frames.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			body, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, body); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
