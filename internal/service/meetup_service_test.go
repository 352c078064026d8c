package service

import (
	"errors"
	"testing"

	"github.com/Vanshh16/social-meetup-backend/internal/models"
	"github.com/Vanshh16/social-meetup-backend/internal/repository"
	"github.com/shopspring/decimal"
)

func newMeetupFixture(t *testing.T, price, hostBalance int64) (*MeetupService, *MockWalletRepository) {
	t.Helper()
	meetups := NewMockMeetupRepository()
	meetups.AddSubCategory(&models.SubCategory{ID: 1, CategoryID: 2, Name: "Trivia", Price: decimal.NewFromInt(price)})

	wallets := NewMockWalletRepository()
	if err := wallets.Create(&models.Wallet{UserID: 1, Balance: decimal.NewFromInt(hostBalance)}); err != nil {
		t.Fatalf("create wallet: %v", err)
	}

	uow := NewMockUnitOfWork(repository.RepositorySet{Meetups: meetups, Wallets: wallets})
	return NewMeetupService(uow, meetups), wallets
}

func TestCreateMeetup(t *testing.T) {
	svc, wallets := newMeetupFixture(t, 30, 100)

	meetup, err := svc.CreateMeetup(1, CreateMeetupInput{
		SubCategoryID: 1,
		Location:      "Indiranagar",
		Date:          "2026-09-12",
		Time:          "19:00",
		GroupSize:     4,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if meetup.CategoryID != 2 {
		t.Errorf("category id = %d, want 2 (derived from subcategory)", meetup.CategoryID)
	}

	// Hosting fee debited in the same unit of work.
	wallet, _ := wallets.FindByUserID(1)
	if !wallet.Balance.Equal(decimal.NewFromInt(70)) {
		t.Errorf("host balance = %s, want 70", wallet.Balance)
	}
}

func TestCreateMeetupValidation(t *testing.T) {
	svc, wallets := newMeetupFixture(t, 30, 10)

	if _, err := svc.CreateMeetup(1, CreateMeetupInput{SubCategoryID: 9}); !errors.Is(err, ErrSubCategoryNotFound) {
		t.Errorf("unknown subcategory: expected ErrSubCategoryNotFound, got %v", err)
	}
	if _, err := svc.CreateMeetup(1, CreateMeetupInput{SubCategoryID: 1, Date: "12/09/2026"}); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("bad date: expected ErrValidationFailed, got %v", err)
	}

	// The fee exceeds the balance; no meetup and no debit.
	if _, err := svc.CreateMeetup(1, CreateMeetupInput{SubCategoryID: 1}); !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("expected ErrInsufficientBalance, got %v", err)
	}
	wallet, _ := wallets.FindByUserID(1)
	if !wallet.Balance.Equal(decimal.NewFromInt(10)) {
		t.Errorf("host balance = %s, want 10", wallet.Balance)
	}
}

func TestCreateFreeMeetup(t *testing.T) {
	svc, wallets := newMeetupFixture(t, 0, 0)

	if _, err := svc.CreateMeetup(1, CreateMeetupInput{SubCategoryID: 1}); err != nil {
		t.Fatalf("free create: %v", err)
	}
	wallet, _ := wallets.FindByUserID(1)
	if !wallet.Balance.IsZero() {
		t.Errorf("free create must not touch the wallet, balance = %s", wallet.Balance)
	}
}
