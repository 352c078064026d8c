package handlers

import (
	"strconv"

	"github.com/Vanshh16/social-meetup-backend/internal/httpx"
	"github.com/Vanshh16/social-meetup-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// GetUserChats lists every chat the authenticated user belongs to.
func (h *ChatHandler) GetUserChats(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	chats, err := h.chatService.GetUserChats(userID)
	if err != nil {
		return httpx.Internal(c, "fetch_chats_failed")
	}

	responses := make([]interface{}, len(chats))
	for i := range chats {
		responses[i] = chats[i].ToResponse()
	}
	return c.JSON(fiber.Map{"chats": responses, "count": len(chats)})
}

// GetChat returns one chat with its members.
func (h *ChatHandler) GetChat(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}
	chatID, ok := paramUint(c, "id")
	if !ok {
		return httpx.BadRequest(c, "invalid_chat_id", "Invalid chat id")
	}

	chat, err := h.chatService.GetChat(chatID, userID)
	if err != nil {
		return serviceError(c, err, "fetch_chat_failed")
	}
	return c.JSON(chat.ToResponse())
}

// GetMessages returns a page of chat history in chronological order.
func (h *ChatHandler) GetMessages(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}
	chatID, ok := paramUint(c, "id")
	if !ok {
		return httpx.BadRequest(c, "invalid_chat_id", "Invalid chat id")
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	var cursor uint
	if cursorStr := c.Query("cursor"); cursorStr != "" {
		parsed, err := strconv.ParseUint(cursorStr, 10, 32)
		if err != nil {
			return httpx.BadRequest(c, "invalid_cursor", "Invalid cursor")
		}
		cursor = uint(parsed)
	}

	messages, err := h.chatService.GetChatMessages(chatID, userID, cursor, limit)
	if err != nil {
		return serviceError(c, err, "fetch_messages_failed")
	}

	responses := make([]interface{}, len(messages))
	for i := range messages {
		responses[i] = messages[i].ToResponse()
	}

	result := fiber.Map{"messages": responses, "count": len(messages)}
	if len(messages) > 0 {
		// Pages are chronological; the oldest row keys the next page back.
		result["next_cursor"] = messages[0].ID
	}
	return c.JSON(result)
}
