package handlers

import (
	"github.com/Vanshh16/social-meetup-backend/internal/httpx"
	"github.com/Vanshh16/social-meetup-backend/internal/models"
	"github.com/Vanshh16/social-meetup-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type WalletHandler struct {
	walletService *service.WalletService
}

func NewWalletHandler(walletService *service.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// GetWallet returns the balance plus the ten most recent transactions.
func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	wallet, err := h.walletService.GetWallet(userID)
	if err != nil {
		return serviceError(c, err, "fetch_wallet_failed")
	}
	return c.JSON(wallet)
}

// GetTransactions returns the full wallet ledger, newest first.
func (h *WalletHandler) GetTransactions(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	txns, err := h.walletService.GetTransactions(userID)
	if err != nil {
		return serviceError(c, err, "fetch_transactions_failed")
	}
	return c.JSON(fiber.Map{"transactions": txns, "count": len(txns)})
}

type withdrawInput struct {
	Amount decimal.Decimal `json:"amount"`
}

// Withdraw debits the authenticated user's wallet for a payout request.
func (h *WalletHandler) Withdraw(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var input withdrawInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	txn, err := h.walletService.Debit(userID, input.Amount, "Wallet withdrawal")
	if err != nil {
		return serviceError(c, err, "withdraw_failed")
	}
	return c.Status(fiber.StatusCreated).JSON(txn)
}

type adminCreditInput struct {
	UserID      uint            `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// AdminCredit grants funds to any user's wallet. Admin role only.
func (h *WalletHandler) AdminCredit(c *fiber.Ctx) error {
	var input adminCreditInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}
	if input.UserID == 0 {
		return httpx.BadRequest(c, "missing_user_id", "user_id is required")
	}

	description := input.Description
	if description == "" {
		description = "Promotional credit"
	}

	txn, err := h.walletService.Credit(input.UserID, input.Amount, models.RewardTransaction, description)
	if err != nil {
		return serviceError(c, err, "credit_failed")
	}
	return c.Status(fiber.StatusCreated).JSON(txn)
}
