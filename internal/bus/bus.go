package bus

import (
	"context"
	"log"
	"sync"
)

// MessageBus connects channels to the gateway. Inbound carries user turns,
// Outbound carries replies routed back to the channel that subscribed for them.
type MessageBus struct {
	Inbound  chan InboundMessage
	Outbound chan OutboundMessage

	mu   sync.RWMutex
	subs map[string]func(OutboundMessage)
}

func NewMessageBus(bufSize int) *MessageBus {
	return &MessageBus{
		Inbound:  make(chan InboundMessage, bufSize),
		Outbound: make(chan OutboundMessage, bufSize),
		subs:     make(map[string]func(OutboundMessage)),
	}
}

// SubscribeOutbound registers the send function for a channel name.
func (b *MessageBus) SubscribeOutbound(channel string, fn func(OutboundMessage)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[channel] = fn
}

// DispatchOutbound routes outbound messages to their channel's subscriber.
// A single dispatcher goroutine keeps per-channel send order stable.
func (b *MessageBus) DispatchOutbound(ctx context.Context) {
	for {
		select {
		case msg := <-b.Outbound:
			b.mu.RLock()
			fn := b.subs[msg.Channel]
			b.mu.RUnlock()
			if fn == nil {
				log.Printf("[bus] no subscriber for channel %q, dropping message", msg.Channel)
				continue
			}
			fn(msg)
		case <-ctx.Done():
			return
		}
	}
}
