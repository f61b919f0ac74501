package relay

import (
	"go.uber.org/zap"
)

// registry is the set of active channels keyed by channel id. register and
// unregister are its only mutators.
//
// IMPORTANT: registry is not synchronized. Every method must be called with
// the owning Relay's lock held.
type registry struct {
	logger *zap.Logger

	channels map[string]*Channel
}

func newRegistry(logger *zap.Logger) *registry {
	return &registry{
		logger:   logger,
		channels: make(map[string]*Channel),
	}
}

// register adds channel to the active set. Registering a member again, or a
// channel that is already closed, is a no-op.
func (r *registry) register(channel *Channel) bool {
	if _, ok := r.channels[channel.Id]; ok {
		return false
	}

	if channel.State() == ChannelClosed {
		return false
	}

	r.channels[channel.Id] = channel

	return true
}

// unregister removes the channel and closes its queue. Unknown ids are a
// no-op.
func (r *registry) unregister(channelId string) bool {
	channel, ok := r.channels[channelId]
	if !ok {
		return false
	}

	delete(r.channels, channelId)
	channel.close()

	return true
}

func (r *registry) contains(channelId string) bool {
	_, ok := r.channels[channelId]

	return ok
}

func (r *registry) len() int {
	return len(r.channels)
}

// broadcast queues event on every registered channel. A channel whose queue
// is full has failed its write: it is unregistered once every other channel
// has been offered the event.
func (r *registry) broadcast(event Event) int {
	var staleChannelIds []string

	delivered := 0

	for _, channel := range r.channels {
		select {
		case channel.Send <- event:
			delivered++
		default:
			r.logger.Warn("channel send queue is full, closing channel",
				zap.String("channelId", channel.Id),
				zap.String("event", string(event.Kind)))

			staleChannelIds = append(staleChannelIds, channel.Id)
		}
	}

	for _, channelId := range staleChannelIds {
		r.unregister(channelId)
	}

	return delivered
}
