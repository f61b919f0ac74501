package handler

import "encoding/json"

// StateResponse carries the latest snapshot, null before the first state
// event.
type StateResponse struct {
	Snapshot json.RawMessage `json:"snapshot"`
}

type SnapshotSource interface {
	Snapshot() (json.RawMessage, bool)
}

type StateHandlerInterface interface {
	Handle() StateResponse
}

type StateHandler struct {
	snapshots SnapshotSource
}

func NewStateHandler(snapshots SnapshotSource) *StateHandler {
	return &StateHandler{
		snapshots,
	}
}

func (h *StateHandler) Handle() StateResponse {
	snapshot, ok := h.snapshots.Snapshot()
	if !ok {
		return StateResponse{}
	}

	return StateResponse{
		Snapshot: snapshot,
	}
}
