package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/Vanshh16/social-meetup-backend/internal/models"
	"github.com/Vanshh16/social-meetup-backend/internal/repository"
	"github.com/shopspring/decimal"
)

func newWalletFixture(t *testing.T, userID uint, balance int64) (*WalletService, *MockWalletRepository, *models.Wallet) {
	t.Helper()
	walletRepo := NewMockWalletRepository()
	wallet := &models.Wallet{UserID: userID, Balance: decimal.NewFromInt(balance)}
	if err := walletRepo.Create(wallet); err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	uow := NewMockUnitOfWork(repository.RepositorySet{Wallets: walletRepo})
	return NewWalletService(uow, walletRepo), walletRepo, wallet
}

func TestDebit(t *testing.T) {
	tests := []struct {
		name        string
		balance     int64
		amount      int64
		wantErr     error
		wantBalance int64
	}{
		{name: "Debit within balance", balance: 100, amount: 60, wantBalance: 40},
		{name: "Debit entire balance", balance: 50, amount: 50, wantBalance: 0},
		{name: "Debit more than balance", balance: 10, amount: 50, wantErr: ErrInsufficientBalance, wantBalance: 10},
		{name: "Debit zero", balance: 100, amount: 0, wantErr: ErrInvalidAmount, wantBalance: 100},
		{name: "Debit negative", balance: 100, amount: -5, wantErr: ErrInvalidAmount, wantBalance: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, walletRepo, wallet := newWalletFixture(t, 1, tt.balance)

			txn, err := svc.Debit(1, decimal.NewFromInt(tt.amount), "test debit")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if txn.Type != models.DebitTransaction {
					t.Errorf("expected DEBIT transaction, got %s", txn.Type)
				}
			}

			if !wallet.Balance.Equal(decimal.NewFromInt(tt.wantBalance)) {
				t.Errorf("balance = %s, want %d", wallet.Balance, tt.wantBalance)
			}
			if !wallet.Balance.Equal(walletRepo.LedgerSum(wallet.ID).Add(decimal.NewFromInt(tt.balance))) {
				t.Errorf("balance %s does not match ledger sum %s plus opening %d",
					wallet.Balance, walletRepo.LedgerSum(wallet.ID), tt.balance)
			}
		})
	}
}

func TestCredit(t *testing.T) {
	svc, walletRepo, wallet := newWalletFixture(t, 1, 20)

	txn, err := svc.Credit(1, decimal.NewFromInt(80), models.CreditTransaction, "top up")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !wallet.Balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("balance = %s, want 100", wallet.Balance)
	}
	if txn.Type != models.CreditTransaction {
		t.Errorf("expected CREDIT transaction, got %s", txn.Type)
	}
	if !walletRepo.LedgerSum(wallet.ID).Equal(decimal.NewFromInt(80)) {
		t.Errorf("ledger sum = %s, want 80", walletRepo.LedgerSum(wallet.ID))
	}

	if _, err := svc.Credit(1, decimal.Zero, models.CreditTransaction, "nothing"); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount for zero credit, got %v", err)
	}
	if _, err := svc.Credit(2, decimal.NewFromInt(10), models.CreditTransaction, "ghost"); !errors.Is(err, ErrWalletNotFound) {
		t.Errorf("expected ErrWalletNotFound for unknown user, got %v", err)
	}
}

func TestConcurrentDebits(t *testing.T) {
	svc, _, wallet := newWalletFixture(t, 1, 100)

	// Two debits of 60 race for a balance of 100; exactly one may win.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Debit(1, decimal.NewFromInt(60), "race")
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if errors.Is(err, ErrInsufficientBalance) {
			failures++
		} else if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if failures != 1 {
		t.Fatalf("expected exactly one insufficient-balance failure, got %d", failures)
	}
	if !wallet.Balance.Equal(decimal.NewFromInt(40)) {
		t.Errorf("balance = %s, want 40", wallet.Balance)
	}
}

func TestGetWallet(t *testing.T) {
	svc, _, _ := newWalletFixture(t, 1, 500)

	if _, err := svc.Debit(1, decimal.NewFromInt(5), "first"); err != nil {
		t.Fatalf("debit: %v", err)
	}

	wallet, err := svc.GetWallet(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(wallet.Transactions) != 1 {
		t.Errorf("expected 1 recent transaction, got %d", len(wallet.Transactions))
	}

	if _, err := svc.GetWallet(42); !errors.Is(err, ErrWalletNotFound) {
		t.Errorf("expected ErrWalletNotFound, got %v", err)
	}
}
