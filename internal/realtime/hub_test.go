package realtime

import (
	"testing"

	"go.uber.org/zap"
)

func newTestClient() *Client {
	return &Client{send: make(chan []byte, 4)}
}

func TestHubBroadcastTo(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar())
	key := SubscriptionKey{Facility: "north", DeviceID: "press-07"}

	subscribed := newTestClient()
	other := newTestClient()
	hub.Subscribe(key, subscribed)
	hub.Subscribe(SubscriptionKey{Facility: "north", DeviceID: "press-08"}, other)

	if n := hub.BroadcastTo("north", "press-07", []byte("hello")); n != 1 {
		t.Fatalf("delivered = %d, want 1", n)
	}

	select {
	case msg := <-subscribed.send:
		if string(msg) != "hello" {
			t.Errorf("got %q, want %q", msg, "hello")
		}
	default:
		t.Fatal("subscribed client received nothing")
	}

	select {
	case <-other.send:
		t.Fatal("client on another device received the broadcast")
	default:
	}
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar())
	key := SubscriptionKey{Facility: "east", DeviceID: "welder-02"}

	c := newTestClient()
	hub.Subscribe(key, c)
	hub.Unsubscribe(c)

	if n := hub.BroadcastTo("east", "welder-02", []byte("x")); n != 0 {
		t.Errorf("delivered = %d, want 0 after unsubscribe", n)
	}
}

func TestHubSkipsSlowClient(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar())
	key := SubscriptionKey{Facility: "west", DeviceID: "cnc-11"}

	slow := &Client{send: make(chan []byte)} // unbuffered, never read
	hub.Subscribe(key, slow)

	// must not block, and the message is dropped
	if n := hub.BroadcastTo("west", "cnc-11", []byte("x")); n != 0 {
		t.Errorf("delivered = %d, want 0 for slow client", n)
	}
}
