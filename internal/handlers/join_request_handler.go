package handlers

import (
	"github.com/Vanshh16/social-meetup-backend/internal/httpx"
	"github.com/Vanshh16/social-meetup-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type JoinRequestHandler struct {
	requestService *service.JoinRequestService
}

func NewJoinRequestHandler(requestService *service.JoinRequestService) *JoinRequestHandler {
	return &JoinRequestHandler{requestService: requestService}
}

// Create files a join request for a meetup on behalf of the caller.
func (h *JoinRequestHandler) Create(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}
	meetupID, ok := paramUint(c, "id")
	if !ok {
		return httpx.BadRequest(c, "invalid_meetup_id", "Invalid meetup id")
	}

	request, err := h.requestService.Create(meetupID, userID)
	if err != nil {
		return serviceError(c, err, "create_request_failed")
	}
	return c.Status(fiber.StatusCreated).JSON(request)
}

// List returns a meetup's join requests to its host.
func (h *JoinRequestHandler) List(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}
	meetupID, ok := paramUint(c, "id")
	if !ok {
		return httpx.BadRequest(c, "invalid_meetup_id", "Invalid meetup id")
	}

	requests, err := h.requestService.ListForMeetup(meetupID, userID)
	if err != nil {
		return serviceError(c, err, "fetch_requests_failed")
	}
	return c.JSON(fiber.Map{"requests": requests, "count": len(requests)})
}

type respondInput struct {
	Action string `json:"action"`
}

// Respond resolves a pending join request. Accepting debits the joiner's
// wallet and provisions the meetup chat atomically; the response carries the
// chat when one was provisioned.
func (h *JoinRequestHandler) Respond(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}
	requestID, ok := paramUint(c, "id")
	if !ok {
		return httpx.BadRequest(c, "invalid_request_id", "Invalid request id")
	}

	var input respondInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	switch input.Action {
	case "accept":
		request, chat, err := h.requestService.Accept(requestID, userID)
		if err != nil {
			return serviceError(c, err, "accept_request_failed")
		}
		return c.JSON(fiber.Map{"request": request, "chat": chat.ToResponse()})
	case "reject":
		request, err := h.requestService.Reject(requestID, userID)
		if err != nil {
			return serviceError(c, err, "reject_request_failed")
		}
		return c.JSON(fiber.Map{"request": request})
	default:
		return httpx.BadRequest(c, "invalid_action", "action must be accept or reject")
	}
}
