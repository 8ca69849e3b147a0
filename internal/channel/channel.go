package channel

import (
	"context"

	"github.com/saudemt/diskdengue/internal/bus"
)

// Channel is a chat transport: it turns platform events into inbound bus
// messages and delivers outbound replies.
type Channel interface {
	Name() string
	Start(ctx context.Context) error
	Stop() error
	Send(msg bus.OutboundMessage) error
}

// BaseChannel carries the pieces every channel shares: its name, the bus it
// publishes to, and an optional sender allow-list.
type BaseChannel struct {
	name      string
	bus       *bus.MessageBus
	allowFrom map[string]bool
}

func NewBaseChannel(name string, b *bus.MessageBus, allowFrom []string) BaseChannel {
	allowed := make(map[string]bool, len(allowFrom))
	for _, id := range allowFrom {
		allowed[id] = true
	}
	return BaseChannel{name: name, bus: b, allowFrom: allowed}
}

func (b *BaseChannel) Name() string {
	return b.name
}

// IsAllowed reports whether a sender may use this channel. An empty
// allow-list admits everyone.
func (b *BaseChannel) IsAllowed(senderID string) bool {
	if len(b.allowFrom) == 0 {
		return true
	}
	return b.allowFrom[senderID]
}
