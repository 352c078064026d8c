// Package bus is the fan-out layer that carries realtime events across all
// server processes. Components that need to push events to connected
// clients receive an Emitter instead of reaching into the connection layer.
package bus

import "encoding/json"

// Envelope is the wire format published on event subjects.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Emitter publishes realtime events. Subscribed gateway processes deliver
// them to their locally connected clients.
type Emitter interface {
	// EmitToRoom fans an event out to every subscriber of a chat room.
	EmitToRoom(chatID uint, event string, payload interface{}) error
	// EmitToUser delivers an event to a single user's private room.
	EmitToUser(userID uint, event string, payload interface{}) error
}

// Noop discards every emit. Used by workers and tests that run without a
// live connection layer.
type Noop struct{}

func (Noop) EmitToRoom(chatID uint, event string, payload interface{}) error { return nil }
func (Noop) EmitToUser(userID uint, event string, payload interface{}) error { return nil }
