package bus

import (
	"context"
	"testing"
	"time"
)

func TestSessionKey(t *testing.T) {
	m := InboundMessage{Channel: "whatsapp", SenderID: "5567999990000@s.whatsapp.net"}
	want := "whatsapp:5567999990000@s.whatsapp.net"
	if got := m.SessionKey(); got != want {
		t.Errorf("SessionKey = %q, want %q", got, want)
	}
}

func TestDispatchOutbound_RoutesToSubscriber(t *testing.T) {
	b := NewMessageBus(10)
	got := make(chan OutboundMessage, 10)
	b.SubscribeOutbound("test", func(msg OutboundMessage) {
		got <- msg
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.DispatchOutbound(ctx)

	b.Outbound <- OutboundMessage{Channel: "test", ChatID: "c1", Content: "first"}
	b.Outbound <- OutboundMessage{Channel: "test", ChatID: "c1", Content: "second"}

	for _, want := range []string{"first", "second"} {
		select {
		case msg := <-got:
			if msg.Content != want {
				t.Errorf("content = %q, want %q (order must hold)", msg.Content, want)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for dispatch")
		}
	}
}

func TestDispatchOutbound_DropsWithoutSubscriber(t *testing.T) {
	b := NewMessageBus(10)
	got := make(chan OutboundMessage, 10)
	b.SubscribeOutbound("known", func(msg OutboundMessage) {
		got <- msg
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.DispatchOutbound(ctx)

	b.Outbound <- OutboundMessage{Channel: "unknown", Content: "lost"}
	b.Outbound <- OutboundMessage{Channel: "known", Content: "kept"}

	select {
	case msg := <-got:
		if msg.Content != "kept" {
			t.Errorf("content = %q, want kept", msg.Content)
		}
	case <-time.After(time.Second):
		t.Fatal("dispatch stalled on an unroutable message")
	}
}
