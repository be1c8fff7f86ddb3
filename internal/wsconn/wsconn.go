// Package wsconn provides a production-grade WebSocket client with
// reconnection, used by the TUI to consume the price service's
// streaming ladder endpoint.
package wsconn

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// State represents the connection state.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateReconnecting State = "reconnecting"
	StateClosed       State = "closed"
)

// Config holds WebSocket client configuration.
type Config struct {
	URL  string
	Name string

	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	MaxReconnects  int // 0 = infinite
	PingInterval   time.Duration
	PongTimeout    time.Duration
	MaxMessageSize int64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(url, name string) Config {
	return Config{
		URL:            url,
		Name:           name,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
		MaxReconnects:  0,
		PingInterval:   30 * time.Second,
		PongTimeout:    10 * time.Second,
		MaxMessageSize: 1 << 20,
	}
}

// MessageHandler is called on every message received.
type MessageHandler func(ctx context.Context, msg []byte)

// StateChangeHandler is called on every connection state transition.
type StateChangeHandler func(state State, err error)

// Client is a production-grade WebSocket client.
type Client struct {
	config Config

	mu         sync.RWMutex
	state      State
	conn       *websocket.Conn
	closed     bool
	reconnects int
	onMessage  MessageHandler
	onState    StateChangeHandler

	messages chan []byte
	done     chan struct{}
}

// New creates a new WebSocket client.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("wsconn: URL is required")
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = 1 << 20
	}
	return &Client{
		config:   cfg,
		state:    StateDisconnected,
		messages: make(chan []byte, 100),
		done:     make(chan struct{}),
	}, nil
}

// OnMessage registers the handler invoked for every received message.
func (c *Client) OnMessage(h MessageHandler) {
	c.mu.Lock()
	c.onMessage = h
	c.mu.Unlock()
}

// OnStateChange registers the handler invoked on every state transition.
func (c *Client) OnStateChange(h StateChangeHandler) {
	c.mu.Lock()
	c.onState = h
	c.mu.Unlock()
}

// Connect dials the configured URL and starts the read loop.
func (c *Client) Connect(ctx context.Context) error {
	c.setState(StateConnecting, nil)

	conn, _, err := websocket.Dial(ctx, c.config.URL, nil)
	if err != nil {
		c.setState(StateDisconnected, err)
		return fmt.Errorf("wsconn: dial %s: %w", c.config.Name, err)
	}
	conn.SetReadLimit(c.config.MaxMessageSize)

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	c.setState(StateConnected, nil)

	go c.readLoop(ctx)
	if c.config.PingInterval > 0 {
		go c.pingLoop(ctx)
	}
	return nil
}

func (c *Client) readLoop(ctx context.Context) {
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			c.handleDisconnect(ctx, err)
			return
		}

		c.mu.RLock()
		handler := c.onMessage
		c.mu.RUnlock()
		if handler != nil {
			handler(ctx, data)
		}
		select {
		case c.messages <- data:
		default:
		}
	}
}

func (c *Client) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, c.config.PongTimeout)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				c.handleDisconnect(ctx, err)
				return
			}
		}
	}
}

func (c *Client) handleDisconnect(ctx context.Context, err error) {
	if c.isClosed() {
		return
	}
	if c.config.MaxReconnects == 0 || c.reconnectCount() < c.config.MaxReconnects {
		c.setState(StateReconnecting, err)
		go c.reconnectLoop(ctx)
		return
	}
	c.setState(StateDisconnected, err)
}

// reconnectLoop retries Connect with exponential backoff and jitter
// until it succeeds, the client is closed, or MaxReconnects is hit.
func (c *Client) reconnectLoop(ctx context.Context) {
	backoff := c.config.InitialBackoff
	for {
		if c.isClosed() {
			return
		}

		jitter := time.Duration(0)
		if backoff > 0 {
			jitter = time.Duration(rand.Int63n(int64(backoff)/4 + 1))
		}
		select {
		case <-ctx.Done():
			c.setState(StateDisconnected, ctx.Err())
			return
		case <-time.After(backoff + jitter):
		}

		c.mu.Lock()
		c.reconnects++
		exceeded := c.config.MaxReconnects != 0 && c.reconnects > c.config.MaxReconnects
		c.mu.Unlock()
		if exceeded {
			c.setState(StateDisconnected, fmt.Errorf("wsconn: max reconnects exceeded"))
			return
		}

		if err := c.Connect(ctx); err == nil {
			return
		}

		backoff *= 2
		if backoff > c.config.MaxBackoff {
			backoff = c.config.MaxBackoff
		}
	}
}

func (c *Client) reconnectCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reconnects
}

// Send writes a raw text message.
func (c *Client) Send(ctx context.Context, msg []byte) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil {
		return fmt.Errorf("wsconn: not connected")
	}
	return conn.Write(ctx, websocket.MessageText, msg)
}

// SendJSON marshals v and writes it as a text message.
func (c *Client) SendJSON(ctx context.Context, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("wsconn: marshal: %w", err)
	}
	return c.Send(ctx, data)
}

// Messages returns the channel for receiving messages.
func (c *Client) Messages() <-chan []byte {
	return c.messages
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// IsConnected reports whether the client currently holds an open connection.
func (c *Client) IsConnected() bool {
	return c.State() == StateConnected
}

// Close gracefully closes the WebSocket connection. Idempotent.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	c.mu.Unlock()

	close(c.done)
	if conn != nil {
		_ = conn.Close(websocket.StatusNormalClosure, "")
	}
	c.setState(StateClosed, nil)
	return nil
}

func (c *Client) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func (c *Client) setState(state State, err error) {
	c.mu.Lock()
	c.state = state
	handler := c.onState
	c.mu.Unlock()
	if handler != nil {
		handler(state, err)
	}
}
