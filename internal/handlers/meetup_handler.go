package handlers

import (
	"github.com/Vanshh16/social-meetup-backend/internal/httpx"
	"github.com/Vanshh16/social-meetup-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type MeetupHandler struct {
	meetupService *service.MeetupService
}

func NewMeetupHandler(meetupService *service.MeetupService) *MeetupHandler {
	return &MeetupHandler{meetupService: meetupService}
}

type createMeetupInput struct {
	SubCategoryID   uint   `json:"subcategory_id"`
	Location        string `json:"location"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	GroupSize       int    `json:"group_size"`
	PreferredGender string `json:"preferred_gender"`
	PreferredAgeMin int    `json:"preferred_age_min"`
	PreferredAgeMax int    `json:"preferred_age_max"`
}

// CreateMeetup creates a meetup, debiting the hosting fee when the chosen
// subcategory is paid.
func (h *MeetupHandler) CreateMeetup(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var input createMeetupInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}
	if input.SubCategoryID == 0 {
		return httpx.BadRequest(c, "missing_subcategory", "subcategory_id is required")
	}

	meetup, err := h.meetupService.CreateMeetup(userID, service.CreateMeetupInput{
		SubCategoryID:   input.SubCategoryID,
		Location:        input.Location,
		Date:            input.Date,
		Time:            input.Time,
		GroupSize:       input.GroupSize,
		PreferredGender: input.PreferredGender,
		PreferredAgeMin: input.PreferredAgeMin,
		PreferredAgeMax: input.PreferredAgeMax,
	})
	if err != nil {
		return serviceError(c, err, "create_meetup_failed")
	}
	return c.Status(fiber.StatusCreated).JSON(meetup)
}

// GetMeetup returns one meetup with host and subcategory.
func (h *MeetupHandler) GetMeetup(c *fiber.Ctx) error {
	if _, err := httpx.LocalUint(c, "userID"); err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}
	meetupID, ok := paramUint(c, "id")
	if !ok {
		return httpx.BadRequest(c, "invalid_meetup_id", "Invalid meetup id")
	}

	meetup, err := h.meetupService.GetMeetup(meetupID)
	if err != nil {
		return serviceError(c, err, "fetch_meetup_failed")
	}
	return c.JSON(meetup)
}
