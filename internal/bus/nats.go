package bus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	roomSubjectPrefix = "evt.room."
	userSubjectPrefix = "evt.user."
)

// NATSBus emits events over NATS core pub/sub. Per-subject publish order is
// preserved by NATS, which is what gives each chat room its delivery-order
// guarantee across processes.
type NATSBus struct {
	nc *nats.Conn
}

// Connect dials NATS with reconnect enabled and returns a bus over it.
func Connect(url, name string) (*NATSBus, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &NATSBus{nc: nc}, nil
}

// NewNATSBus wraps an existing connection.
func NewNATSBus(nc *nats.Conn) *NATSBus {
	return &NATSBus{nc: nc}
}

// Conn exposes the underlying connection for JetStream clients that share it.
func (b *NATSBus) Conn() *nats.Conn {
	return b.nc
}

func RoomSubject(chatID uint) string {
	return fmt.Sprintf("%s%d", roomSubjectPrefix, chatID)
}

func UserSubject(userID uint) string {
	return fmt.Sprintf("%s%d", userSubjectPrefix, userID)
}

func (b *NATSBus) publish(subject, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	envelope, err := json.Marshal(Envelope{Event: event, Payload: data})
	if err != nil {
		return err
	}
	return b.nc.Publish(subject, envelope)
}

func (b *NATSBus) EmitToRoom(chatID uint, event string, payload interface{}) error {
	return b.publish(RoomSubject(chatID), event, payload)
}

func (b *NATSBus) EmitToUser(userID uint, event string, payload interface{}) error {
	return b.publish(UserSubject(userID), event, payload)
}

// RoomHandler receives every event published to any room subject along with
// the room id parsed from the subject.
type RoomHandler func(chatID uint, envelope Envelope)

// UserHandler receives every event published to any user subject.
type UserHandler func(userID uint, envelope Envelope)

// SubscribeRooms delivers all room events to the handler. Every gateway
// process subscribes (no queue group) because each holds different local
// connections.
func (b *NATSBus) SubscribeRooms(handler RoomHandler) (*nats.Subscription, error) {
	return b.nc.Subscribe(roomSubjectPrefix+"*", func(msg *nats.Msg) {
		id, ok := parseSubjectID(msg.Subject, roomSubjectPrefix)
		if !ok {
			return
		}
		var envelope Envelope
		if err := json.Unmarshal(msg.Data, &envelope); err != nil {
			return
		}
		handler(id, envelope)
	})
}

// SubscribeUsers delivers all user events to the handler.
func (b *NATSBus) SubscribeUsers(handler UserHandler) (*nats.Subscription, error) {
	return b.nc.Subscribe(userSubjectPrefix+"*", func(msg *nats.Msg) {
		id, ok := parseSubjectID(msg.Subject, userSubjectPrefix)
		if !ok {
			return
		}
		var envelope Envelope
		if err := json.Unmarshal(msg.Data, &envelope); err != nil {
			return
		}
		handler(id, envelope)
	})
}

func (b *NATSBus) Close() {
	if b.nc != nil {
		b.nc.Drain()
	}
}

func parseSubjectID(subject, prefix string) (uint, bool) {
	if len(subject) <= len(prefix) {
		return 0, false
	}
	var id uint
	if _, err := fmt.Sscanf(subject[len(prefix):], "%d", &id); err != nil {
		return 0, false
	}
	return id, true
}
