package relay

import (
	"bytes"
	"encoding/json"
	"slices"
)

const DefaultChatCapacity = 200

// History holds the latest snapshot and a bounded buffer of chat events.
//
// History does no locking of its own: the Relay owning it serializes every
// call under its single mutex.
type History struct {
	capacity int
	snapshot json.RawMessage
	chats    []Event
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultChatCapacity
	}

	return &History{
		capacity: capacity,
		chats:    make([]Event, 0, capacity),
	}
}

// Snapshot returns the last recorded snapshot, false if none arrived yet.
func (h *History) Snapshot() (json.RawMessage, bool) {
	if h.snapshot == nil {
		return nil, false
	}

	return h.snapshot, true
}

// RecordSnapshot replaces the stored snapshot. A JSON null clears it, the
// same as no state having arrived.
func (h *History) RecordSnapshot(snapshot json.RawMessage) {
	if len(snapshot) == 0 || bytes.Equal(bytes.TrimSpace(snapshot), []byte("null")) {
		h.snapshot = nil

		return
	}

	h.snapshot = snapshot
}

// ChatHistory returns a copy of the buffered chat events, oldest first.
func (h *History) ChatHistory() []Event {
	return slices.Clone(h.chats)
}

func (h *History) AppendChat(event Event) {
	h.chats = append(h.chats, event)

	if overflow := len(h.chats) - h.capacity; overflow > 0 {
		// shift in place so the backing array does not grow without bound
		n := copy(h.chats, h.chats[overflow:])
		clear(h.chats[n:])
		h.chats = h.chats[:n]
	}
}
