package cartsync

import (
	"testing"

	"github.com/brewcart/internal/cartshare"
)

func mustEncode(t *testing.T, items []cartshare.CartItem) string {
	t.Helper()
	token, err := cartshare.Encode(items)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	return token
}

func TestHubPublishSkipsOrigin(t *testing.T) {
	hub := NewHub()

	var originCalls, otherCalls int
	var received []cartshare.CartItem
	hub.Subscribe("ctx-a", func(items []cartshare.CartItem) { originCalls++ })
	hub.Subscribe("ctx-b", func(items []cartshare.CartItem) {
		otherCalls++
		received = items
	})

	token := mustEncode(t, []cartshare.CartItem{{ID: "1", Name: "Latte", Quantity: 2}})
	hub.Publish("ctx-a", token)

	if originCalls != 0 {
		t.Fatalf("origin should never receive its own publish, got %d calls", originCalls)
	}
	if otherCalls != 1 {
		t.Fatalf("expected exactly 1 delivery to ctx-b, got: %d", otherCalls)
	}
	if len(received) != 1 || received[0].ID != "1" || received[0].Quantity != 2 {
		t.Fatalf("unexpected delivered items: %+v", received)
	}
}

func TestHubPublishEmptyCart(t *testing.T) {
	hub := NewHub()

	called := false
	var received []cartshare.CartItem
	hub.Subscribe("ctx-b", func(items []cartshare.CartItem) {
		called = true
		received = items
	})

	hub.Publish("ctx-a", mustEncode(t, nil))

	if !called {
		t.Fatal("empty cart publish must still be delivered")
	}
	if len(received) != 0 {
		t.Fatalf("expected empty item list, got: %+v", received)
	}
}

func TestHubPublishUndecodableEnvelope(t *testing.T) {
	hub := NewHub()

	called := false
	hub.Subscribe("ctx-b", func(items []cartshare.CartItem) { called = true })

	hub.Publish("ctx-a", "!!!garbage!!!")

	if called {
		t.Fatal("undecodable envelope must not reach subscribers")
	}
	// 信封仍被覆盖，新上下文回灌时会自行丢弃坏数据
	if token, ok := hub.Envelope(); !ok || token != "!!!garbage!!!" {
		t.Fatalf("envelope should hold the last published value, got: %q, %v", token, ok)
	}
}

func TestHubEnvelopeOverwrite(t *testing.T) {
	hub := NewHub()

	if _, ok := hub.Envelope(); ok {
		t.Fatal("fresh hub should have no envelope")
	}

	first := mustEncode(t, []cartshare.CartItem{{ID: "1", Name: "Latte", Quantity: 1}})
	second := mustEncode(t, []cartshare.CartItem{{ID: "2", Name: "Mocha", Quantity: 3}})
	hub.Publish("ctx-a", first)
	hub.Publish("ctx-b", second)

	token, ok := hub.Envelope()
	if !ok {
		t.Fatal("envelope should be set after publish")
	}
	if token != second {
		t.Fatal("envelope should hold the latest publish")
	}
}

func TestHubDisposerIdempotent(t *testing.T) {
	hub := NewHub()

	calls := 0
	dispose := hub.Subscribe("ctx-b", func(items []cartshare.CartItem) { calls++ })

	dispose()
	dispose()

	hub.Publish("ctx-a", mustEncode(t, []cartshare.CartItem{{ID: "1", Quantity: 1}}))
	if calls != 0 {
		t.Fatalf("disposed subscriber must not be called, got: %d", calls)
	}
}
