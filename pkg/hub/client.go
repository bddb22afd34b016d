package hub

import (
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/shopeat/go-shopeat/internal/log"
)

const (
	// writeWait is how long to wait for a write to complete
	writeWait = 10 * time.Second

	// pongWait is how long to wait for a pong response
	pongWait = 60 * time.Second

	// pingPeriod must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize is the maximum inbound message size allowed
	maxMessageSize = 64 * 1024
)

// Client represents a single websocket connection. Inbound messages are
// handed to the handler; outbound messages flow through the send channel so
// only the write pump touches the connection.
type Client struct {
	// ID identifies the client across log lines and sessions.
	ID string

	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	handler func(data []byte)
}

// NewClient creates a client and registers it with the hub. handler receives
// every inbound message; it may be nil for broadcast-only clients.
func NewClient(h *Hub, conn *websocket.Conn, id string, handler func(data []byte)) *Client {
	client := &Client{
		ID:      id,
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, 256),
		handler: handler,
	}
	h.register <- client
	return client
}

// Send queues a message for this client only. Slow clients drop messages
// rather than block the caller.
func (c *Client) Send(data []byte) {
	select {
	case c.send <- data:
	default:
		log.Warn("client send buffer full, dropping message", "client", c.ID)
	}
}

// Run starts the client's read and write pumps.
// This should be called in the websocket handler; it blocks until the
// connection closes.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump reads inbound messages until the connection drops.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if c.handler != nil {
			c.handler(data)
		}
	}
}

// writePump writes queued messages to the connection.
// Only this goroutine writes to the connection - no race conditions.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel - send close frame
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
