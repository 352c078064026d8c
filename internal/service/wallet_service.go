package service

import (
	"errors"
	"fmt"

	"github.com/Vanshh16/social-meetup-backend/internal/models"
	"github.com/Vanshh16/social-meetup-backend/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
)

// WalletService owns every balance mutation. Mutations always run inside a
// unit of work with the wallet row locked, and every mutation appends a
// ledger transaction so the balance stays equal to the ledger's signed sum.
type WalletService struct {
	uow     repository.UnitOfWork
	wallets repository.WalletRepositoryInterface
}

func NewWalletService(uow repository.UnitOfWork, wallets repository.WalletRepositoryInterface) *WalletService {
	return &WalletService{uow: uow, wallets: wallets}
}

// GetWallet returns the wallet with its most recent transactions attached.
func (s *WalletService) GetWallet(userID uint) (*models.Wallet, error) {
	wallet, err := s.wallets.FindByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}

	txns, err := s.wallets.ListTransactions(wallet.ID, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet transactions: %w", err)
	}
	wallet.Transactions = txns
	return wallet, nil
}

// GetTransactions returns the full ledger for a user's wallet, newest first.
func (s *WalletService) GetTransactions(userID uint) ([]models.WalletTransaction, error) {
	wallet, err := s.wallets.FindByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}
	return s.wallets.ListTransactions(wallet.ID, 0)
}

// Credit adds funds to a user's wallet in its own unit of work.
func (s *WalletService) Credit(userID uint, amount decimal.Decimal, txnType models.TransactionType, description string) (*models.WalletTransaction, error) {
	var txn *models.WalletTransaction
	err := s.uow.Do(func(tx repository.RepositorySet) error {
		var err error
		txn, err = CreditWallet(tx.Wallets, userID, amount, txnType, description)
		return err
	})
	return txn, err
}

// Debit removes funds from a user's wallet in its own unit of work.
func (s *WalletService) Debit(userID uint, amount decimal.Decimal, description string) (*models.WalletTransaction, error) {
	var txn *models.WalletTransaction
	err := s.uow.Do(func(tx repository.RepositorySet) error {
		var err error
		txn, err = DebitWallet(tx.Wallets, userID, amount, description)
		return err
	})
	return txn, err
}

// CreditWallet applies a credit inside an already-open unit of work. Callers
// composing larger transactions (payment webhooks, admin grants) use this.
func CreditWallet(wallets repository.WalletRepositoryInterface, userID uint, amount decimal.Decimal, txnType models.TransactionType, description string) (*models.WalletTransaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	wallet, err := wallets.FindByUserIDForUpdate(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}

	if err := wallets.UpdateBalance(wallet.ID, wallet.Balance.Add(amount)); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	txn := &models.WalletTransaction{
		WalletID:    wallet.ID,
		Amount:      amount,
		Type:        txnType,
		Description: description,
	}
	if err := wallets.AppendTransaction(txn); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}
	return txn, nil
}

// DebitWallet applies a debit inside an already-open unit of work. The wallet
// row lock makes concurrent debits serialize, so two debits can never both
// pass the balance check against the same funds.
func DebitWallet(wallets repository.WalletRepositoryInterface, userID uint, amount decimal.Decimal, description string) (*models.WalletTransaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	wallet, err := wallets.FindByUserIDForUpdate(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}

	if wallet.Balance.LessThan(amount) {
		return nil, fmt.Errorf("%w: requires %s", ErrInsufficientBalance, amount.StringFixed(2))
	}

	if err := wallets.UpdateBalance(wallet.ID, wallet.Balance.Sub(amount)); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	txn := &models.WalletTransaction{
		WalletID:    wallet.ID,
		Amount:      amount,
		Type:        models.DebitTransaction,
		Description: description,
	}
	if err := wallets.AppendTransaction(txn); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}
	return txn, nil
}
