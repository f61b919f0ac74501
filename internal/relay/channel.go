package relay

import (
	"context"
	"sync/atomic"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

type ChannelState int32

const (
	ChannelAttaching ChannelState = iota
	ChannelActive
	ChannelClosed
)

func (s ChannelState) String() string {
	switch s {
	case ChannelAttaching:
		return "attaching"
	case ChannelActive:
		return "active"
	case ChannelClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Channel is one attached viewer. The relay pushes events into Send; the
// transport owning the viewer connection drains it. Send is closed exactly
// once, when the channel leaves the registry.
type Channel struct {
	Id   string
	Send chan Event

	state atomic.Int32
}

func newChannel(size int) *Channel {
	return &Channel{
		Id:   gonanoid.Must(),
		Send: make(chan Event, size),
	}
}

func (c *Channel) State() ChannelState {
	return ChannelState(c.state.Load())
}

// activate moves Attaching to Active. Nothing leaves Closed.
func (c *Channel) activate() bool {
	return c.state.CompareAndSwap(int32(ChannelAttaching), int32(ChannelActive))
}

// close is only called by the registry, under the relay lock.
func (c *Channel) close() bool {
	for {
		current := c.state.Load()
		if ChannelState(current) == ChannelClosed {
			return false
		}

		if c.state.CompareAndSwap(current, int32(ChannelClosed)) {
			close(c.Send)

			return true
		}
	}
}

type contextKey string

const channelKey contextKey = "channel"

func WithChannel(ctx context.Context, channel *Channel) context.Context {
	return context.WithValue(ctx, channelKey, channel)
}

func ChannelFromContext(ctx context.Context) (*Channel, bool) {
	channel, ok := ctx.Value(channelKey).(*Channel)

	return channel, ok
}
