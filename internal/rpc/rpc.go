package rpc

import (
	"encoding/json"

	"github.com/goevery/playerrelay/internal/ierr"
)

// Request is a viewer request sent over a WebSocket channel. Requests
// without an id are notifications and get no reply.
type Request struct {
	Id     string           `json:"id,omitempty"`
	Method string           `json:"method"`
	Params *json.RawMessage `json:"params,omitempty"`
}

func (r Request) ReplyExpected() bool {
	return r.Id != ""
}

func (r Request) Reply(result *json.RawMessage) Response {
	return Response{
		RequestId: r.Id,
		Result:    result,
	}
}

func (r Request) ReplyWithError(err ierr.Error) Response {
	return Response{
		RequestId: r.Id,
		Error:     &err,
	}
}

type Response struct {
	RequestId string           `json:"requestId,omitempty"`
	Result    *json.RawMessage `json:"result,omitempty"`
	Error     *ierr.Error      `json:"error,omitempty"`
}

// Notification is a relayed event pushed to a WebSocket channel.
type Notification struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}
