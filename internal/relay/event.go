package relay

import (
	"encoding/json"
	"time"
)

type Kind string

const (
	KindState Kind = "state"
	KindChat  Kind = "chat"
	KindTurn  Kind = "turn"
)

// Event is one named event as received from the MJ. Payload is kept verbatim
// and never re-encoded, so every viewer sees the bytes the MJ produced.
type Event struct {
	Kind        Kind            `json:"event"`
	Payload     json.RawMessage `json:"data"`
	ReceiveTime time.Time       `json:"-"`
}

func NewEvent(kind Kind, payload json.RawMessage) Event {
	return Event{
		Kind:        kind,
		Payload:     payload,
		ReceiveTime: time.Now(),
	}
}
