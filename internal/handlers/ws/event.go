// Package ws implements the realtime gateway: the connection hub, the
// client event protocol and the bridge that fans events arriving over the
// message bus out to locally connected clients.
package ws

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/Vanshh16/social-meetup-backend/internal/bus"
	"github.com/Vanshh16/social-meetup-backend/internal/cache"
	"github.com/Vanshh16/social-meetup-backend/internal/models"
	"github.com/Vanshh16/social-meetup-backend/internal/queue"
	"github.com/gofiber/websocket/v2"
)

// MembershipChecker answers whether a user belongs to a chat.
type MembershipChecker interface {
	IsMember(userID, chatID uint) (bool, error)
}

// UserDirectory resolves user identities for outgoing payloads.
type UserDirectory interface {
	FindByID(id uint) (*models.User, error)
}

// EventContext provides all dependencies needed for event processing
type EventContext struct {
	UserID   uint
	Conn     *websocket.Conn
	Hub      *Hub
	Members  MembershipChecker
	Users    UserDirectory
	Presence cache.PresenceStoreInterface
	Emitter  bus.Emitter
	Queue    queue.Enqueuer
}

// Event interface for all client-sent WebSocket event types
type Event interface {
	GetType() string
	Process(ctx *EventContext) error
}

// SerializedEvent is the wire format wrapper, both directions
type SerializedEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ErrorResponse is sent when event processing fails
type ErrorResponse struct {
	Type    string `json:"type"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

func Serialize(event string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(SerializedEvent{Type: event, Payload: data})
}

func Deserialize(jsonBytes []byte) (Event, error) {
	var wrapper SerializedEvent
	if err := json.Unmarshal(jsonBytes, &wrapper); err != nil {
		return nil, err
	}

	evtType, ok := typeRegistry[wrapper.Type]
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", wrapper.Type)
	}

	event := reflect.New(evtType).Interface().(Event)
	if len(wrapper.Payload) > 0 {
		if err := json.Unmarshal(wrapper.Payload, event); err != nil {
			return nil, err
		}
	}
	return event, nil
}

// SendError sends an error response to the client
func SendError(conn *websocket.Conn, code, message, details string) error {
	return conn.WriteJSON(ErrorResponse{
		Type:    "error",
		Error:   message,
		Code:    code,
		Details: details,
	})
}

var typeRegistry = map[string]reflect.Type{}

func init() {
	RegisterType(&JoinChatEvent{})
	RegisterType(&LeaveChatEvent{})
	RegisterType(&SendMessageEvent{})
	RegisterType(&TypingEvent{})
	RegisterType(&StopTypingEvent{})
}

func RegisterType(event Event) {
	typeRegistry[event.GetType()] = reflect.TypeOf(event).Elem()
}

// GetTypeRegistry returns the type registry for testing
func GetTypeRegistry() map[string]reflect.Type {
	return typeRegistry
}
