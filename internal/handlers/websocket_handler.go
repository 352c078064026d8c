package handlers

import (
	"log"
	"os"

	"github.com/Vanshh16/social-meetup-backend/internal/bus"
	"github.com/Vanshh16/social-meetup-backend/internal/cache"
	"github.com/Vanshh16/social-meetup-backend/internal/handlers/ws"
	"github.com/Vanshh16/social-meetup-backend/internal/queue"
	"github.com/Vanshh16/social-meetup-backend/internal/service"
	"github.com/gofiber/websocket/v2"
)

type WebSocketHandler struct {
	chatService *service.ChatService
	users       ws.UserDirectory
	presence    cache.PresenceStoreInterface
	emitter     bus.Emitter
	enqueuer    queue.Enqueuer
	hub         *ws.Hub
}

func NewWebSocketHandler(
	chatService *service.ChatService,
	users ws.UserDirectory,
	presence cache.PresenceStoreInterface,
	emitter bus.Emitter,
	enqueuer queue.Enqueuer,
) *WebSocketHandler {
	return &WebSocketHandler{
		chatService: chatService,
		users:       users,
		presence:    presence,
		emitter:     emitter,
		enqueuer:    enqueuer,
		hub:         ws.NewHub(),
	}
}

// GetHub returns the hub instance for wiring the bus bridge.
func (h *WebSocketHandler) GetHub() *ws.Hub {
	return h.hub
}

func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	userID := c.Locals("userID").(uint)
	wsDebug := os.Getenv("WS_DEBUG") == "true"

	h.hub.Register(userID, c)

	defer func() {
		h.hub.Unregister(userID)
		// A dropped connection means nobody is looking at any chat, so push
		// notifications resume immediately.
		if err := h.presence.ClearActiveChat(userID); err != nil {
			log.Printf("clear active chat for user %d: %v", userID, err)
		}
	}()

	log.Printf("User %d connected via WebSocket", userID)

	ctx := &ws.EventContext{
		UserID:   userID,
		Conn:     c,
		Hub:      h.hub,
		Members:  h.chatService,
		Users:    h.users,
		Presence: h.presence,
		Emitter:  h.emitter,
		Queue:    h.enqueuer,
	}

	for {
		messageType, messageBytes, err := c.ReadMessage()
		if err != nil {
			log.Printf("Error reading message from user %d: %v", userID, err)
			break
		}

		if wsDebug {
			log.Printf("ws_recv user_id=%d frame_type=%d size=%d", userID, messageType, len(messageBytes))
		}

		event, err := ws.Deserialize(messageBytes)
		if err != nil {
			log.Printf("Error deserializing event from user %d: %v", userID, err)
			ws.SendError(c, "invalid_event", "Invalid event format", err.Error())
			continue
		}

		if err := event.Process(ctx); err != nil {
			log.Printf("Error processing event %s from user %d: %v", event.GetType(), userID, err)
			ws.SendError(c, "processing_failed", "Failed to process event", err.Error())
		}
	}

	log.Printf("User %d disconnected from WebSocket", userID)
}
