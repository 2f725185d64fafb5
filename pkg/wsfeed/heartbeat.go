package wsfeed

import (
	"context"
	"errors"
	"time"
)

// startHeartbeats launches a heartbeat goroutine, replacing any
// previous one after a reconnect.
func (c *Client) startHeartbeats() {
	c.mu.Lock()
	if c.heartbeatCancel != nil {
		c.heartbeatCancel()
	}

	ctx := c.ctx
	if ctx == nil {
		c.mu.Unlock()
		return
	}

	hbCtx, cancel := context.WithCancel(ctx)
	c.heartbeatCancel = cancel
	c.mu.Unlock()

	go c.heartbeatLoop(hbCtx)
}

// heartbeatLoop pings the gateway periodically; a failed ping tears
// the connection down so the read loop's reconnect takes over.
func (c *Client) heartbeatLoop(ctx context.Context) {
	ticker := time.NewTicker(c.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if err := c.sendHeartbeat(ctx); err != nil {
			if ctx.Err() != nil || c.isShutdown() {
				return
			}
			c.logger.Errorw("gateway feed heartbeat failed", "error", err)
			c.mu.Lock()
			if c.conn != nil {
				_ = c.conn.CloseNow()
			}
			c.mu.Unlock()
			return
		}
	}
}

func (c *Client) sendHeartbeat(ctx context.Context) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return errors.New("not connected")
	}

	pingCtx, cancel := context.WithTimeout(ctx, c.heartbeatTimeout)
	defer cancel()
	return conn.Ping(pingCtx)
}
