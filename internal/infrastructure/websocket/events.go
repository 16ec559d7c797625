package websocket

import (
	"encoding/json"
	"time"
)

const (
	EventMessageCreated      = "message.created"
	EventNotificationCreated = "notification.created"
	EventPing                = "ping"
	EventPong                = "pong"
)

// Event is the envelope pushed to clients. Clients treat message and
// notification events as a cue to re-fetch.
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// HandleClientFrame answers the only frame clients send, an application ping.
func HandleClientFrame(frame []byte) ([]byte, bool) {
	var in struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(frame, &in); err != nil || in.Type != EventPing {
		return nil, false
	}
	out, err := json.Marshal(Event{Type: EventPong, Timestamp: time.Now()})
	if err != nil {
		return nil, false
	}
	return out, true
}
