package handlers

import (
	"errors"

	"github.com/Vanshh16/social-meetup-backend/internal/httpx"
	"github.com/Vanshh16/social-meetup-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

type depositInput struct {
	Amount decimal.Decimal `json:"amount"`
}

// CreateDeposit opens a PENDING top-up order for the gateway checkout.
func (h *PaymentHandler) CreateDeposit(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var input depositInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	payment, err := h.paymentService.CreateDepositOrder(userID, input.Amount)
	if err != nil {
		return serviceError(c, err, "create_deposit_failed")
	}
	return c.Status(fiber.StatusCreated).JSON(payment)
}

// Webhook settles gateway events. The signature covers the raw body, so the
// body must not be parsed before verification.
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	timestamp := c.Get("x-webhook-timestamp")
	signature := c.Get("x-webhook-signature")
	if timestamp == "" || signature == "" {
		return httpx.Unauthorized(c, "missing_signature", "Missing webhook signature headers")
	}

	err := h.paymentService.HandleWebhook(timestamp, c.Body(), signature)
	if errors.Is(err, service.ErrInvalidWebhookSignature) {
		return httpx.Unauthorized(c, "invalid_signature", "Webhook signature verification failed")
	}
	if err != nil {
		return serviceError(c, err, "webhook_failed")
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
