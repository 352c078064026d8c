package handlers

import (
	"github.com/Vanshh16/social-meetup-backend/internal/httpx"
	"github.com/Vanshh16/social-meetup-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me returns the authenticated user's profile.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	user, err := h.userService.GetUser(userID)
	if err != nil {
		return serviceError(c, err, "fetch_user_failed")
	}
	return c.JSON(user)
}

type deviceTokenInput struct {
	Token string `json:"token"`
}

// RegisterDeviceToken stores a push token for this user's devices.
func (h *UserHandler) RegisterDeviceToken(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var input deviceTokenInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	if err := h.userService.RegisterDeviceToken(userID, input.Token); err != nil {
		return serviceError(c, err, "register_token_failed")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RemoveDeviceToken drops a push token, typically on logout.
func (h *UserHandler) RemoveDeviceToken(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var input deviceTokenInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	if err := h.userService.RemoveDeviceToken(userID, input.Token); err != nil {
		return serviceError(c, err, "remove_token_failed")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
