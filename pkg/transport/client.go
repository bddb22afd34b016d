package transport

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shopeat/go-shopeat/internal/log"
)

const (
	// handshakeTimeout bounds the websocket dial.
	handshakeTimeout = 10 * time.Second

	// writeWait is how long to wait for a write to complete.
	writeWait = 10 * time.Second

	// pongWait is how long to wait for a pong response.
	pongWait = 60 * time.Second

	// pingPeriod must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize is the maximum inbound message size allowed.
	maxMessageSize = 64 * 1024
)

// Config holds transport configuration.
type Config struct {
	// URL is the websocket endpoint, e.g. "ws://localhost:8000/ws/abc".
	URL string

	// Backoff decides reconnect delays. Defaults to DefaultBackoff.
	Backoff BackoffPolicy

	// Header carries extra handshake headers (auth, etc.).
	Header map[string][]string
}

// Client maintains the websocket connection and reconnects on any close.
// Inbound messages are delivered in arrival order to a single handler.
// Only Close stops the reconnect loop.
type Client struct {
	cfg Config

	mu         sync.Mutex
	ws         *websocket.Conn
	state      State
	generation int
	attempt    int
	closed     bool
	timer      *time.Timer

	// Only one goroutine writes to the socket at a time.
	writeMu sync.Mutex

	// Serializes status callbacks so observers see transitions in order.
	notifyMu sync.Mutex

	onMessage func(data []byte)
	onStatus  func(state State)
}

// NewClient creates a transport client. Call Connect to start it.
func NewClient(cfg Config) *Client {
	if cfg.Backoff == nil {
		cfg.Backoff = DefaultBackoff()
	}
	return &Client{
		cfg:   cfg,
		state: StateClosed,
	}
}

// OnMessage sets the inbound message handler. Set before Connect.
func (c *Client) OnMessage(fn func(data []byte)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMessage = fn
}

// OnStatus sets the connection status observer. Set before Connect.
func (c *Client) OnStatus(fn func(state State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onStatus = fn
}

// Connect starts the connect/reconnect loop. It returns immediately; the
// first status callback reports the outcome.
func (c *Client) Connect() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.generation++
	gen := c.generation
	notify := c.setStateLocked(StateConnecting)
	c.mu.Unlock()

	notify()
	go c.dial(gen)
	return nil
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Send writes one message to the socket. It fails immediately with
// ErrNotOpen while the connection is down; messages are never queued.
func (c *Client) Send(data []byte) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state != StateOpen || c.ws == nil {
		c.mu.Unlock()
		return ErrNotOpen
	}
	ws := c.ws
	c.mu.Unlock()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := ws.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("transport: write failed: %w", err)
	}
	return nil
}

// Close permanently stops the client. Any in-flight dial is invalidated so
// a stale open cannot resurrect the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	ws := c.ws
	c.ws = nil
	notify := c.setStateLocked(StateClosed)
	c.mu.Unlock()

	notify()
	if ws != nil {
		return ws.Close()
	}
	return nil
}

// dial attempts one connection for the given generation.
func (c *Client) dial(gen int) {
	dialer := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
	}

	ws, _, err := dialer.Dial(c.cfg.URL, c.cfg.Header)

	c.mu.Lock()
	if gen != c.generation || c.closed {
		c.mu.Unlock()
		// A newer attempt or Close superseded this dial.
		if ws != nil {
			ws.Close()
		}
		return
	}

	if err != nil {
		log.Warn("connect failed", "url", c.cfg.URL, "error", err)
		notify := c.setStateLocked(StateClosed)
		c.scheduleReconnectLocked(gen)
		c.mu.Unlock()
		notify()
		return
	}

	c.ws = ws
	c.attempt = 0
	notify := c.setStateLocked(StateOpen)
	c.mu.Unlock()

	notify()
	log.Info("connected", "url", c.cfg.URL)

	go c.readLoop(gen, ws)
	go c.pingLoop(gen, ws)
}

// readLoop reads inbound messages until the connection drops.
func (c *Client) readLoop(gen int, ws *websocket.Conn) {
	ws.SetReadLimit(maxMessageSize)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			c.handleDisconnect(gen, err)
			return
		}

		c.mu.Lock()
		stale := gen != c.generation || c.closed
		fn := c.onMessage
		c.mu.Unlock()
		if stale {
			return
		}
		if fn != nil {
			fn(data)
		}
	}
}

// pingLoop keeps the connection alive with periodic pings.
func (c *Client) pingLoop(gen int, ws *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		stale := gen != c.generation || c.closed
		c.mu.Unlock()
		if stale {
			return
		}

		c.writeMu.Lock()
		err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
		c.writeMu.Unlock()
		if err != nil {
			return
		}
	}
}

// handleDisconnect transitions to Closed and schedules a reconnect.
func (c *Client) handleDisconnect(gen int, err error) {
	c.mu.Lock()
	if gen != c.generation || c.closed {
		c.mu.Unlock()
		return
	}

	log.Warn("disconnected", "url", c.cfg.URL, "error", err)

	if c.ws != nil {
		c.ws.Close()
		c.ws = nil
	}
	notify := c.setStateLocked(StateClosed)
	c.scheduleReconnectLocked(gen)
	c.mu.Unlock()

	notify()
}

// scheduleReconnectLocked arms the reconnect timer. Caller holds c.mu.
func (c *Client) scheduleReconnectLocked(gen int) {
	delay := c.cfg.Backoff.Next(c.attempt)
	c.attempt++
	log.Info("reconnecting", "delay", delay, "attempt", c.attempt)

	c.timer = time.AfterFunc(delay, func() {
		c.mu.Lock()
		if c.closed || gen != c.generation {
			c.mu.Unlock()
			return
		}
		c.generation++
		next := c.generation
		notify := c.setStateLocked(StateConnecting)
		c.mu.Unlock()

		notify()
		c.dial(next)
	})
}

// setStateLocked updates state and returns a notifier to run after c.mu is
// released, so observers can call back into the client without deadlocking.
func (c *Client) setStateLocked(state State) func() {
	if c.state == state {
		return func() {}
	}
	c.state = state
	fn := c.onStatus
	if fn == nil {
		return func() {}
	}
	return func() {
		c.notifyMu.Lock()
		defer c.notifyMu.Unlock()
		fn(state)
	}
}
