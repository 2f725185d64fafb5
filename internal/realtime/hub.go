package realtime

import (
	"sync"

	"go.uber.org/zap"
)

// SubscriptionKey addresses one device within one facility.
type SubscriptionKey struct {
	Facility string
	DeviceID string
}

// Hub fans unified records out to subscribed dashboard clients.
type Hub struct {
	mu sync.RWMutex

	// room mapping: (facility+device) -> clients
	rooms map[SubscriptionKey]map[*Client]bool

	// reverse mapping: client -> subscribed keys
	clientSubs map[*Client]map[SubscriptionKey]bool
	logger     *zap.SugaredLogger
}

func NewHub(logger *zap.SugaredLogger) *Hub {
	return &Hub{
		rooms:      make(map[SubscriptionKey]map[*Client]bool),
		clientSubs: make(map[*Client]map[SubscriptionKey]bool),
		logger:     logger,
	}
}

func (h *Hub) Subscribe(key SubscriptionKey, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[key] == nil {
		h.rooms[key] = make(map[*Client]bool)
	}
	h.rooms[key][c] = true

	if h.clientSubs[c] == nil {
		h.clientSubs[c] = make(map[SubscriptionKey]bool)
	}
	h.clientSubs[c][key] = true
}

func (h *Hub) Unsubscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.clientSubs[c]
	for key := range subs {
		delete(h.rooms[key], c)
		if len(h.rooms[key]) == 0 {
			delete(h.rooms, key)
		}
	}

	delete(h.clientSubs, c)
}

// BroadcastTo delivers one encoded record to every client subscribed
// to the facility/device pair. Slow clients are skipped rather than
// blocking the consumer path.
func (h *Hub) BroadcastTo(facility, deviceID string, msg []byte) int {
	key := SubscriptionKey{Facility: facility, DeviceID: deviceID}

	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := h.rooms[key]
	if clients == nil {
		return 0
	}

	delivered := 0
	for client := range clients {
		select {
		case client.send <- msg:
			delivered++
		default:
			// slow client -> skip
		}
	}
	return delivered
}
