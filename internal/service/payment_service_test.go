package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/Vanshh16/social-meetup-backend/internal/models"
	"github.com/Vanshh16/social-meetup-backend/internal/repository"
	"github.com/shopspring/decimal"
)

const testWebhookSecret = "whsec_test"

func signWebhook(timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func newPaymentFixture(t *testing.T) (*PaymentService, *MockPaymentRepository, *MockWalletRepository) {
	t.Helper()
	paymentRepo := NewMockPaymentRepository()
	walletRepo := NewMockWalletRepository()
	if err := walletRepo.Create(&models.Wallet{UserID: 1, Balance: decimal.Zero}); err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	uow := NewMockUnitOfWork(repository.RepositorySet{
		Wallets:  walletRepo,
		Payments: paymentRepo,
	})
	return NewPaymentService(uow, paymentRepo, testWebhookSecret), paymentRepo, walletRepo
}

func TestCreateDepositOrder(t *testing.T) {
	svc, _, _ := newPaymentFixture(t)

	payment, err := svc.CreateDepositOrder(1, decimal.NewFromInt(500))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment.Status != models.PaymentPending {
		t.Errorf("status = %s, want PENDING", payment.Status)
	}
	if payment.GatewayOrderID == "" {
		t.Error("expected a gateway order id")
	}

	if _, err := svc.CreateDepositOrder(1, decimal.NewFromInt(5)); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("below minimum: expected ErrInvalidAmount, got %v", err)
	}
}

func TestVerifySignature(t *testing.T) {
	svc, _, _ := newPaymentFixture(t)
	body := []byte(`{"type":"PAYMENT_SUCCESS_WEBHOOK"}`)

	if !svc.VerifySignature("1700000000", body, signWebhook("1700000000", body)) {
		t.Error("valid signature rejected")
	}
	if svc.VerifySignature("1700000000", body, signWebhook("1700000001", body)) {
		t.Error("signature over a different timestamp accepted")
	}
	if svc.VerifySignature("1700000000", []byte(`{"tampered":true}`), signWebhook("1700000000", body)) {
		t.Error("signature over a different body accepted")
	}
}

func TestHandleWebhook(t *testing.T) {
	svc, _, walletRepo := newPaymentFixture(t)

	payment, err := svc.CreateDepositOrder(1, decimal.NewFromInt(250))
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	body := []byte(fmt.Sprintf(
		`{"type":"PAYMENT_SUCCESS_WEBHOOK","data":{"order":{"order_id":"%s"}}}`,
		payment.GatewayOrderID,
	))
	timestamp := "1700000000"
	signature := signWebhook(timestamp, body)

	if err := svc.HandleWebhook(timestamp, body, signature); err != nil {
		t.Fatalf("webhook: %v", err)
	}

	wallet, _ := walletRepo.FindByUserID(1)
	if !wallet.Balance.Equal(decimal.NewFromInt(250)) {
		t.Errorf("balance = %s, want 250", wallet.Balance)
	}
	if payment.Status != models.PaymentSuccess {
		t.Errorf("payment status = %s, want SUCCESS", payment.Status)
	}

	// Gateways retry; a replay must not credit twice.
	if err := svc.HandleWebhook(timestamp, body, signature); err != nil {
		t.Fatalf("replayed webhook: %v", err)
	}
	wallet, _ = walletRepo.FindByUserID(1)
	if !wallet.Balance.Equal(decimal.NewFromInt(250)) {
		t.Errorf("balance after replay = %s, want 250", wallet.Balance)
	}
}

func TestHandleWebhookConcurrentReplay(t *testing.T) {
	svc, _, walletRepo := newPaymentFixture(t)

	payment, err := svc.CreateDepositOrder(1, decimal.NewFromInt(250))
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	body := []byte(fmt.Sprintf(
		`{"type":"PAYMENT_SUCCESS_WEBHOOK","data":{"order":{"order_id":"%s"}}}`,
		payment.GatewayOrderID,
	))
	timestamp := "1700000000"
	signature := signWebhook(timestamp, body)

	// Gateways deliver in parallel on retry; the row lock makes the loser's
	// settlement see no PENDING row. Both deliveries must ack cleanly.
	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- svc.HandleWebhook(timestamp, body, signature)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("concurrent webhook: %v", err)
		}
	}

	wallet, _ := walletRepo.FindByUserID(1)
	if !wallet.Balance.Equal(decimal.NewFromInt(250)) {
		t.Errorf("balance = %s, want 250 after concurrent deliveries", wallet.Balance)
	}
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	svc, _, walletRepo := newPaymentFixture(t)
	body := []byte(`{"type":"PAYMENT_SUCCESS_WEBHOOK","data":{"order":{"order_id":"order_x"}}}`)

	err := svc.HandleWebhook("1700000000", body, "bm90IGEgcmVhbCBzaWduYXR1cmU=")
	if !errors.Is(err, ErrInvalidWebhookSignature) {
		t.Fatalf("expected ErrInvalidWebhookSignature, got %v", err)
	}
	wallet, _ := walletRepo.FindByUserID(1)
	if !wallet.Balance.IsZero() {
		t.Errorf("balance = %s, want 0", wallet.Balance)
	}
}

func TestHandleWebhookIgnoresOtherEvents(t *testing.T) {
	svc, _, walletRepo := newPaymentFixture(t)
	body := []byte(`{"type":"PAYMENT_FAILED_WEBHOOK","data":{"order":{"order_id":"order_x"}}}`)
	timestamp := "1700000000"

	if err := svc.HandleWebhook(timestamp, body, signWebhook(timestamp, body)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wallet, _ := walletRepo.FindByUserID(1)
	if !wallet.Balance.IsZero() {
		t.Errorf("balance = %s, want 0", wallet.Balance)
	}
}
