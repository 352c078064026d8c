package handlers

import (
	"strconv"

	"github.com/Vanshh16/social-meetup-backend/internal/httpx"
	"github.com/Vanshh16/social-meetup-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List returns the user's recent notifications with the unread count.
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	notifications, err := h.notificationService.List(userID, limit)
	if err != nil {
		return httpx.Internal(c, "fetch_notifications_failed")
	}
	unread, err := h.notificationService.UnreadCount(userID)
	if err != nil {
		return httpx.Internal(c, "fetch_notifications_failed")
	}

	return c.JSON(fiber.Map{
		"notifications": notifications,
		"count":         len(notifications),
		"unread_count":  unread,
	})
}

// MarkAllRead marks the whole inbox read.
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	if err := h.notificationService.MarkAllRead(userID); err != nil {
		return httpx.Internal(c, "mark_read_failed")
	}
	return c.JSON(fiber.Map{"unread_count": 0})
}
