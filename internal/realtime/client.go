package realtime

import (
	"context"
	"encoding/json"
	"time"

	"sensor-unify/internal/model"

	"github.com/gorilla/websocket"
)

// backfillLimit caps how many stored records a client receives per
// device when it subscribes.
const backfillLimit = 50

// RecordBackfill loads the most recent unified records for one device,
// newest first.
type RecordBackfill func(ctx context.Context, deviceID string, limit int) ([]model.UnifiedRecord, error)

type Client struct {
	conn     *websocket.Conn
	send     chan []byte
	userID   string
	facility string
	hub      *Hub
	backfill RecordBackfill
}

func NewClient(conn *websocket.Conn, hub *Hub, userID, facility string, backfill RecordBackfill) *Client {
	return &Client{
		conn:     conn,
		send:     make(chan []byte, 256),
		hub:      hub,
		userID:   userID,
		facility: facility,
		backfill: backfill,
	}
}

// SubscribeMessage is what dashboard clients send after connecting:
// {"action":"subscribe","device_ids":["press-07","welder-async-2"]}
type SubscribeMessage struct {
	Action    string   `json:"action"`
	DeviceIDs []string `json:"device_ids"`
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unsubscribe(c)
		c.conn.Close()
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			c.hub.logger.Warnw("read failed, dropping client", "user", c.userID, "error", err)
			break
		}

		var req SubscribeMessage
		if err := json.Unmarshal(msg, &req); err != nil {
			c.hub.logger.Warnw("bad subscribe payload", "user", c.userID, "error", err)
			continue
		}

		switch req.Action {
		case "subscribe":
			c.handleSubscribe(req)
		case "unsubscribe":
			c.hub.Unsubscribe(c)
		default:
			c.hub.logger.Warnw("unknown action", "user", c.userID, "action", req.Action)
		}
	}
}

// handleSubscribe joins the requested rooms and replays stored records
// for each device so dashboards render history before live broadcasts
// take over.
func (c *Client) handleSubscribe(req SubscribeMessage) {
	for _, deviceID := range req.DeviceIDs {
		c.hub.logger.Infow("client subscribing",
			"user", c.userID, "facility", c.facility, "device", deviceID)
		c.hub.Subscribe(SubscriptionKey{
			Facility: c.facility,
			DeviceID: deviceID,
		}, c)
		c.sendBackfill(deviceID)
	}
}

// sendBackfill pushes recent records down the client's send channel in
// chronological order. A failed query only costs the history replay;
// the subscription itself stands.
func (c *Client) sendBackfill(deviceID string) {
	if c.backfill == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	records, err := c.backfill(ctx, deviceID, backfillLimit)
	if err != nil {
		c.hub.logger.Warnw("backfill query failed",
			"user", c.userID, "device", deviceID, "error", err)
		return
	}

	// The store returns newest first; replay oldest first.
	for i := len(records) - 1; i >= 0; i-- {
		payload, err := json.Marshal(records[i])
		if err != nil {
			c.hub.logger.Errorw("failed to marshal backfill record",
				"device", deviceID, "error", err)
			continue
		}
		select {
		case c.send <- payload:
		default:
			// send buffer full, let live broadcasts take over
			return
		}
	}
}

func (c *Client) WritePump() {
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.hub.logger.Warnw("write failed, dropping client", "user", c.userID, "error", err)
			break
		}
	}
}
