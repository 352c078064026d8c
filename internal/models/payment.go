package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentPurpose string

const (
	PurposeWalletTopUp PaymentPurpose = "WALLET_TOP_UP"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentFailed  PaymentStatus = "FAILED"
)

// Payment tracks a gateway order. A wallet is only credited when the
// matching PENDING row is flipped to SUCCESS, so replayed webhooks cannot
// double-credit.
type Payment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID         uint            `gorm:"not null;index" json:"user_id"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Purpose        PaymentPurpose  `gorm:"type:varchar(30);not null" json:"purpose"`
	Status         PaymentStatus   `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	GatewayOrderID string          `gorm:"size:64;uniqueIndex" json:"gateway_order_id"`
}
