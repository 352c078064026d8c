package repository

import (
	"github.com/Vanshh16/social-meetup-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

// FindPendingByOrderIDForUpdate locks the pending payment row for the
// duration of the settlement transaction. A concurrent webhook delivery
// blocks here and, once the first settlement commits, no longer sees a
// PENDING row.
func (r *PaymentRepository) FindPendingByOrderIDForUpdate(orderID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("gateway_order_id = ? AND status = ?", orderID, models.PaymentPending).
		First(&payment).Error
	return &payment, err
}

func (r *PaymentRepository) UpdateStatus(id uint, status models.PaymentStatus) error {
	return r.db.Model(&models.Payment{}).Where("id = ?", id).
		Update("status", status).Error
}
