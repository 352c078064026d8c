package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	CreditTransaction TransactionType = "CREDIT"
	DebitTransaction  TransactionType = "DEBIT"
	RewardTransaction TransactionType = "REWARD"
)

// Wallet caches the projection of its transaction log. Balance must always
// equal the signed sum of the wallet's transactions and is never negative.
type Wallet struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID  uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	Balance decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`

	Transactions []WalletTransaction `gorm:"foreignKey:WalletID" json:"transactions,omitempty"`
}

// WalletTransaction rows are append-only; they are the audit trail behind
// every balance shown anywhere in the product.
type WalletTransaction struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	WalletID    uint            `gorm:"not null;index" json:"wallet_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Type        TransactionType `gorm:"type:varchar(20);not null" json:"type"`
	Description string          `gorm:"size:255" json:"description"`
}

// Signed returns the amount with the sign its type contributes to the balance.
func (t *WalletTransaction) Signed() decimal.Decimal {
	if t.Type == DebitTransaction {
		return t.Amount.Neg()
	}
	return t.Amount
}
