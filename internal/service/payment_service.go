package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Vanshh16/social-meetup-backend/internal/models"
	"github.com/Vanshh16/social-meetup-backend/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrInvalidWebhookSignature = errors.New("invalid webhook signature")

// Deposits below this are rejected; the gateway's fee structure makes
// smaller top-ups pointless.
var minDepositAmount = decimal.NewFromInt(10)

const webhookEventPaymentSuccess = "PAYMENT_SUCCESS_WEBHOOK"

// PaymentService owns the wallet top-up flow against the payment gateway:
// creating a PENDING order before the user is sent to the gateway, and
// settling that order when the gateway's webhook lands. Settlement locks the
// PENDING payment row, credits the wallet and flips the order in one unit of
// work, so a replayed or concurrent webhook cannot credit twice.
type PaymentService struct {
	uow           repository.UnitOfWork
	paymentRepo   repository.PaymentRepositoryInterface
	webhookSecret string
}

func NewPaymentService(uow repository.UnitOfWork, paymentRepo repository.PaymentRepositoryInterface, webhookSecret string) *PaymentService {
	return &PaymentService{uow: uow, paymentRepo: paymentRepo, webhookSecret: webhookSecret}
}

// CreateDepositOrder records a PENDING payment and returns it so the client
// can hand the order id to the gateway checkout.
func (s *PaymentService) CreateDepositOrder(userID uint, amount decimal.Decimal) (*models.Payment, error) {
	if amount.LessThan(minDepositAmount) {
		return nil, fmt.Errorf("%w: minimum deposit is %s", ErrInvalidAmount, minDepositAmount)
	}

	payment := &models.Payment{
		UserID:         userID,
		Amount:         amount,
		Purpose:        models.PurposeWalletTopUp,
		Status:         models.PaymentPending,
		GatewayOrderID: fmt.Sprintf("order_%d_%d", userID, time.Now().UnixNano()),
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, fmt.Errorf("failed to create payment order: %w", err)
	}
	return payment, nil
}

// VerifySignature checks the gateway's webhook signature: base64 of
// HMAC-SHA256 over the raw timestamp header concatenated with the raw body.
func (s *PaymentService) VerifySignature(timestamp string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

type webhookPayload struct {
	Type string `json:"type"`
	Data struct {
		Order struct {
			OrderID string `json:"order_id"`
		} `json:"order"`
	} `json:"data"`
}

// HandleWebhook settles a verified gateway event. Unknown event types and
// unknown or already-settled orders are acknowledged without effect; the
// gateway retries on anything else.
func (s *PaymentService) HandleWebhook(timestamp string, body []byte, signature string) error {
	if !s.VerifySignature(timestamp, body, signature) {
		return ErrInvalidWebhookSignature
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("%w: malformed webhook body", ErrValidationFailed)
	}
	if payload.Type != webhookEventPaymentSuccess {
		log.Printf("ignoring webhook event %q", payload.Type)
		return nil
	}

	return s.uow.Do(func(tx repository.RepositorySet) error {
		payment, err := tx.Payments.FindPendingByOrderIDForUpdate(payload.Data.Order.OrderID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Already settled or never ours. Ack so the gateway stops retrying.
			log.Printf("webhook for unknown or settled order %q", payload.Data.Order.OrderID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load payment order: %w", err)
		}

		description := fmt.Sprintf("Wallet top-up (order %s)", payment.GatewayOrderID)
		if _, err := CreditWallet(tx.Wallets, payment.UserID, payment.Amount, models.CreditTransaction, description); err != nil {
			return err
		}
		return tx.Payments.UpdateStatus(payment.ID, models.PaymentSuccess)
	})
}
