package handlers

import (
	"errors"

	"github.com/Vanshh16/social-meetup-backend/internal/httpx"
	"github.com/Vanshh16/social-meetup-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

// serviceError maps domain errors onto HTTP responses so every handler
// speaks the same error vocabulary.
func serviceError(c *fiber.Ctx, err error, fallbackCode string) error {
	switch {
	case errors.Is(err, service.ErrValidationFailed):
		return httpx.BadRequest(c, "validation_failed", err.Error())
	case errors.Is(err, service.ErrInvalidAmount):
		return httpx.BadRequest(c, "invalid_amount", err.Error())
	case errors.Is(err, service.ErrInsufficientBalance):
		return httpx.BadRequest(c, "insufficient_balance", err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		return httpx.Forbidden(c, "forbidden", "You are not allowed to perform this action")
	case errors.Is(err, service.ErrNotMember):
		return httpx.Forbidden(c, "not_a_member", "You are not a member of this chat")
	case errors.Is(err, service.ErrChatNotFound):
		return httpx.NotFound(c, "chat_not_found", "Chat not found")
	case errors.Is(err, service.ErrMeetupNotFound):
		return httpx.NotFound(c, "meetup_not_found", "Meetup not found")
	case errors.Is(err, service.ErrSubCategoryNotFound):
		return httpx.NotFound(c, "subcategory_not_found", "Subcategory not found")
	case errors.Is(err, service.ErrRequestNotFound):
		return httpx.NotFound(c, "request_not_found", "Join request not found")
	case errors.Is(err, service.ErrWalletNotFound):
		return httpx.NotFound(c, "wallet_not_found", "Wallet not found")
	case errors.Is(err, service.ErrUserNotFound):
		return httpx.NotFound(c, "user_not_found", "User not found")
	case errors.Is(err, service.ErrAlreadyResolved):
		return httpx.Conflict(c, "already_resolved", "Join request already resolved")
	case errors.Is(err, service.ErrAlreadyRequested):
		return httpx.Conflict(c, "already_requested", "You already requested to join this meetup")
	case errors.Is(err, service.ErrOwnMeetup):
		return httpx.Conflict(c, "own_meetup", "You cannot request to join your own meetup")
	default:
		return httpx.Internal(c, fallbackCode)
	}
}

// paramUint parses a numeric route parameter.
func paramUint(c *fiber.Ctx, name string) (uint, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}
