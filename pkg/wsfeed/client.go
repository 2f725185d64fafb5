// Package wsfeed implements a reconnecting WebSocket client for plant
// gateway telemetry feeds. Gateways push JSON batch frames; the client
// hands each frame to a handler and keeps the connection alive with
// heartbeats.
package wsfeed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"
)

// connectionState represents the WebSocket connection status
type connectionState int

const (
	stateDisconnected connectionState = iota
	stateConnecting
	stateConnected
	stateReconnecting
)

// Client is a gateway feed WebSocket client.
type Client struct {
	URL   string
	Token string

	mu       sync.Mutex
	conn     *websocket.Conn
	ctx      context.Context
	cancel   context.CancelFunc
	state    connectionState
	shutdown bool

	handler func(frame []byte)

	logger            *zap.SugaredLogger
	dialTimeout       time.Duration
	reconnectInterval time.Duration
	heartbeatTimeout  time.Duration
	heartbeatInterval time.Duration
	heartbeatCancel   context.CancelFunc
}

// NewClient builds a client for one gateway feed endpoint. The token
// is sent as a bearer header on dial.
func NewClient(url, token string, handler func(frame []byte), logger *zap.SugaredLogger) *Client {
	return &Client{
		URL:               url,
		Token:             token,
		handler:           handler,
		logger:            logger,
		dialTimeout:       10 * time.Second,
		reconnectInterval: 500 * time.Millisecond,
		heartbeatTimeout:  5 * time.Second,
		heartbeatInterval: 20 * time.Second,
		state:             stateDisconnected,
	}
}

// Connect establishes the WebSocket connection and starts the read and
// heartbeat loops.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state == stateConnected && c.conn != nil {
		c.mu.Unlock()
		return nil
	}
	c.state = stateConnecting
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.mu.Unlock()

	dialCtx, cancel := context.WithTimeout(ctx, c.dialTimeout)
	defer cancel()

	opts := &websocket.DialOptions{}
	if c.Token != "" {
		opts.HTTPHeader = http.Header{"Authorization": {"Bearer " + c.Token}}
	}

	conn, _, err := websocket.Dial(dialCtx, c.URL, opts)
	if err != nil {
		c.mu.Lock()
		c.state = stateDisconnected
		c.mu.Unlock()
		return fmt.Errorf("dial gateway feed: %w", err)
	}
	// Batch frames can be large when a gateway flushes a backlog.
	conn.SetReadLimit(8 << 20)

	c.mu.Lock()
	c.conn = conn
	c.state = stateConnected
	c.mu.Unlock()

	c.logger.Infow("gateway feed connected", "url", c.URL)

	c.startHeartbeats()
	go c.readLoop(c.ctx)
	return nil
}

// readLoop delivers frames to the handler until the connection drops,
// then triggers a reconnect.
func (c *Client) readLoop(ctx context.Context) {
	for {
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn == nil || ctx.Err() != nil {
			return
		}

		_, frame, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil || c.isShutdown() {
				return
			}
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) ||
				websocket.CloseStatus(err) != -1 {
				c.logger.Warnw("gateway feed closed, reconnecting", "error", err)
			} else {
				c.logger.Errorw("gateway feed read failed, reconnecting", "error", err)
			}
			c.reconnect(ctx)
			return
		}

		if c.handler != nil {
			c.handler(frame)
		}
	}
}

// reconnect redials with a fixed interval until it succeeds or the
// context ends.
func (c *Client) reconnect(ctx context.Context) {
	c.mu.Lock()
	if c.shutdown || c.state == stateReconnecting {
		c.mu.Unlock()
		return
	}
	c.state = stateReconnecting
	if c.conn != nil {
		_ = c.conn.CloseNow()
		c.conn = nil
	}
	c.mu.Unlock()

	for {
		if ctx.Err() != nil || c.isShutdown() {
			return
		}
		c.mu.Lock()
		c.state = stateDisconnected
		c.mu.Unlock()

		if err := c.Connect(ctx); err == nil {
			return
		}
		c.logger.Warnw("gateway feed reconnect failed, retrying",
			"interval", c.reconnectInterval)
		select {
		case <-ctx.Done():
			return
		case <-time.After(c.reconnectInterval):
		}
	}
}

// IsAlive reports whether the feed connection is currently up.
func (c *Client) IsAlive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == stateConnected && c.conn != nil
}

func (c *Client) isShutdown() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shutdown
}

// Disconnect closes the connection and stops all loops for good.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	c.shutdown = true
	if c.heartbeatCancel != nil {
		c.heartbeatCancel()
		c.heartbeatCancel = nil
	}
	if c.cancel != nil {
		c.cancel()
	}
	conn := c.conn
	c.conn = nil
	c.state = stateDisconnected
	c.mu.Unlock()

	if conn != nil {
		return conn.Close(websocket.StatusNormalClosure, "shutting down")
	}
	return nil
}
