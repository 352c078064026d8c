package ws

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Vanshh16/social-meetup-backend/internal/models"
	"github.com/Vanshh16/social-meetup-backend/internal/queue"
	"github.com/google/uuid"
)

const (
	EvtJoinChat    = "joinChat"
	EvtLeaveChat   = "leaveChat"
	EvtSendMessage = "sendMessage"
	EvtTyping      = "typing"
	EvtStopTyping  = "stop_typing"

	EvtReceiveMessage = "receiveMessage"
)

var errNotChatMember = errors.New("you are not a member of this chat")

// OutgoingMessage is the payload broadcast on receiveMessage. The gateway
// emits it before the message is durable, with a provisional temp- id; the
// client_id lets clients reconcile once history is read back.
type OutgoingMessage struct {
	ID          string              `json:"id"`
	ClientID    string              `json:"client_id"`
	ChatID      uint                `json:"chat_id"`
	Sender      models.UserResponse `json:"sender"`
	Content     string              `json:"content"`
	MessageType models.MessageType  `json:"message_type"`
	CreatedAt   time.Time           `json:"created_at"`
	Provisional bool                `json:"provisional"`
}

// TypingPayload identifies who is typing where.
type TypingPayload struct {
	ChatID uint `json:"chat_id"`
	UserID uint `json:"user_id"`
}

// JoinChatEvent subscribes the connection to a chat room and marks the chat
// as the one the user is actively viewing.
type JoinChatEvent struct {
	ChatID uint `json:"chat_id"`
}

func (e *JoinChatEvent) GetType() string { return EvtJoinChat }

func (e *JoinChatEvent) Process(ctx *EventContext) error {
	isMember, err := ctx.Members.IsMember(ctx.UserID, e.ChatID)
	if err != nil {
		return fmt.Errorf("membership check failed: %w", err)
	}
	if !isMember {
		return errNotChatMember
	}

	ctx.Hub.JoinRoom(ctx.UserID, e.ChatID)
	if err := ctx.Presence.SetActiveChat(ctx.UserID, e.ChatID); err != nil {
		log.Printf("set active chat for user %d: %v", ctx.UserID, err)
	}
	return nil
}

// LeaveChatEvent clears the active-chat marker so pushes resume for this
// chat. The room subscription stays; a leave/join cycle around a transient
// reconnect must not drop messages.
type LeaveChatEvent struct {
	ChatID uint `json:"chat_id"`
}

func (e *LeaveChatEvent) GetType() string { return EvtLeaveChat }

func (e *LeaveChatEvent) Process(ctx *EventContext) error {
	// Only clear the marker while it still points at this chat; the user may
	// have joined another chat since.
	if active, ok := ctx.Presence.GetActiveChat(ctx.UserID); ok && active == e.ChatID {
		if err := ctx.Presence.ClearActiveChat(ctx.UserID); err != nil {
			log.Printf("clear active chat for user %d: %v", ctx.UserID, err)
		}
	}
	return nil
}

// SendMessageEvent broadcasts a chat message to the room immediately, then
// hands persistence and push notification to the background queues. The
// broadcast never waits on the durable write; a failed enqueue is surfaced
// to the sender so the message can be resent.
type SendMessageEvent struct {
	ChatID      uint               `json:"chat_id"`
	Content     string             `json:"content"`
	MessageType models.MessageType `json:"message_type"`
}

func (e *SendMessageEvent) GetType() string { return EvtSendMessage }

func (e *SendMessageEvent) Process(ctx *EventContext) error {
	if e.Content == "" {
		return errors.New("message content is required")
	}

	isMember, err := ctx.Members.IsMember(ctx.UserID, e.ChatID)
	if err != nil {
		return fmt.Errorf("membership check failed: %w", err)
	}
	if !isMember {
		return errNotChatMember
	}

	messageType := e.MessageType
	if messageType == "" {
		messageType = models.TextMessage
	}

	sender := models.UserResponse{ID: ctx.UserID}
	if user, err := ctx.Users.FindByID(ctx.UserID); err == nil {
		sender = user.ToResponse()
	}

	clientID := uuid.NewString()
	now := time.Now().UTC()

	outgoing := OutgoingMessage{
		ID:          "temp-" + clientID,
		ClientID:    clientID,
		ChatID:      e.ChatID,
		Sender:      sender,
		Content:     e.Content,
		MessageType: messageType,
		CreatedAt:   now,
		Provisional: true,
	}
	if err := ctx.Emitter.EmitToRoom(e.ChatID, EvtReceiveMessage, outgoing); err != nil {
		return fmt.Errorf("broadcast failed: %w", err)
	}

	if err := ctx.Queue.EnqueuePersist(queue.PersistJob{
		ChatID:      e.ChatID,
		SenderID:    ctx.UserID,
		ClientID:    clientID,
		Content:     e.Content,
		MessageType: messageType,
		SentAt:      now,
	}); err != nil {
		return fmt.Errorf("message broadcast but not queued for saving: %w", err)
	}
	if err := ctx.Queue.EnqueueNotify(queue.NotifyJob{
		ChatID:   e.ChatID,
		SenderID: ctx.UserID,
		Content:  e.Content,
	}); err != nil {
		return fmt.Errorf("message saved but notifications not queued: %w", err)
	}

	if err := ctx.Presence.RefreshActiveChat(ctx.UserID); err != nil {
		log.Printf("refresh active chat for user %d: %v", ctx.UserID, err)
	}
	return nil
}

// TypingEvent relays a typing indicator to the room.
type TypingEvent struct {
	ChatID uint `json:"chat_id"`
}

func (e *TypingEvent) GetType() string { return EvtTyping }

func (e *TypingEvent) Process(ctx *EventContext) error {
	isMember, err := ctx.Members.IsMember(ctx.UserID, e.ChatID)
	if err != nil {
		return fmt.Errorf("membership check failed: %w", err)
	}
	if !isMember {
		return errNotChatMember
	}
	return ctx.Emitter.EmitToRoom(e.ChatID, EvtTyping, TypingPayload{ChatID: e.ChatID, UserID: ctx.UserID})
}

// StopTypingEvent relays the end of a typing indicator to the room.
type StopTypingEvent struct {
	ChatID uint `json:"chat_id"`
}

func (e *StopTypingEvent) GetType() string { return EvtStopTyping }

func (e *StopTypingEvent) Process(ctx *EventContext) error {
	isMember, err := ctx.Members.IsMember(ctx.UserID, e.ChatID)
	if err != nil {
		return fmt.Errorf("membership check failed: %w", err)
	}
	if !isMember {
		return errNotChatMember
	}
	return ctx.Emitter.EmitToRoom(e.ChatID, EvtStopTyping, TypingPayload{ChatID: e.ChatID, UserID: ctx.UserID})
}
