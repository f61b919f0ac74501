package handler

import "time"

type HealthResponse struct {
	Ok        bool      `json:"ok"`
	PlayerId  string    `json:"playerId"`
	MJ        string    `json:"mj"`
	Channels  int       `json:"channels"`
	Timestamp time.Time `json:"timestamp"`
}

type ChannelCounter interface {
	ChannelCount() int
}

type HealthHandlerInterface interface {
	Handle() HealthResponse
}

type HealthHandler struct {
	playerId string
	mjURL    string
	channels ChannelCounter
}

func NewHealthHandler(playerId string, mjURL string, channels ChannelCounter) *HealthHandler {
	return &HealthHandler{
		playerId,
		mjURL,
		channels,
	}
}

func (h *HealthHandler) Handle() HealthResponse {
	return HealthResponse{
		Ok:        true,
		PlayerId:  h.playerId,
		MJ:        h.mjURL,
		Channels:  h.channels.ChannelCount(),
		Timestamp: time.Now(),
	}
}
