package ws

import (
	"encoding/json"
	"log"

	"github.com/Vanshh16/social-meetup-backend/internal/bus"
)

// Bridge connects the message bus to the local hub. Every gateway process
// runs one: events published to a room or user subject anywhere in the
// cluster are delivered to whichever connections this process holds.
type Bridge struct {
	hub *Hub
	bus *bus.NATSBus
}

func NewBridge(hub *Hub, natsBus *bus.NATSBus) *Bridge {
	return &Bridge{hub: hub, bus: natsBus}
}

// Start subscribes to the room and user subject spaces. Subscriptions live
// until the bus connection is drained.
func (b *Bridge) Start() error {
	if _, err := b.bus.SubscribeRooms(b.deliverToRoom); err != nil {
		return err
	}
	if _, err := b.bus.SubscribeUsers(b.deliverToUser); err != nil {
		return err
	}
	return nil
}

func (b *Bridge) deliverToRoom(chatID uint, envelope bus.Envelope) {
	data, err := frame(envelope)
	if err != nil {
		log.Printf("bridge: frame room event %q: %v", envelope.Event, err)
		return
	}
	b.hub.SendToRoom(chatID, data)
}

func (b *Bridge) deliverToUser(userID uint, envelope bus.Envelope) {
	data, err := frame(envelope)
	if err != nil {
		log.Printf("bridge: frame user event %q: %v", envelope.Event, err)
		return
	}
	b.hub.SendToUser(userID, data)
}

// frame converts a bus envelope into the client wire format.
func frame(envelope bus.Envelope) ([]byte, error) {
	return json.Marshal(SerializedEvent{Type: envelope.Event, Payload: envelope.Payload})
}
