package repository

import (
	"github.com/Vanshh16/social-meetup-backend/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) Create(wallet *models.Wallet) error {
	return r.db.Create(wallet).Error
}

func (r *WalletRepository) FindByUserID(userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.Where("user_id = ?", userID).First(&wallet).Error
	return &wallet, err
}

func (r *WalletRepository) FindByUserIDForUpdate(userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).First(&wallet).Error
	return &wallet, err
}

func (r *WalletRepository) UpdateBalance(walletID uint, balance decimal.Decimal) error {
	return r.db.Model(&models.Wallet{}).Where("id = ?", walletID).
		Update("balance", balance).Error
}

func (r *WalletRepository) AppendTransaction(txn *models.WalletTransaction) error {
	return r.db.Create(txn).Error
}

func (r *WalletRepository) ListTransactions(walletID uint, limit int) ([]models.WalletTransaction, error) {
	var txns []models.WalletTransaction
	q := r.db.Where("wallet_id = ?", walletID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&txns).Error
	return txns, err
}
