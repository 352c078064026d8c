package repository

import (
	"github.com/Vanshh16/social-meetup-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type JoinRequestRepository struct {
	db *gorm.DB
}

func NewJoinRequestRepository(db *gorm.DB) *JoinRequestRepository {
	return &JoinRequestRepository{db: db}
}

func (r *JoinRequestRepository) Create(request *models.JoinRequest) error {
	return r.db.Create(request).Error
}

func (r *JoinRequestRepository) FindByID(id uint) (*models.JoinRequest, error) {
	var request models.JoinRequest
	err := r.db.Preload("Meetup").Preload("Meetup.SubCategory").Preload("Sender").
		First(&request, id).Error
	return &request, err
}

func (r *JoinRequestRepository) FindByIDForUpdate(id uint) (*models.JoinRequest, error) {
	var request models.JoinRequest
	// Lock only the request row; associations are loaded afterwards.
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&request, id).Error; err != nil {
		return nil, err
	}
	err := r.db.Preload("SubCategory").First(&request.Meetup, request.MeetupID).Error
	return &request, err
}

func (r *JoinRequestRepository) FindByMeetupAndSender(meetupID, senderID uint) (*models.JoinRequest, error) {
	var request models.JoinRequest
	err := r.db.Where("meetup_id = ? AND sender_id = ?", meetupID, senderID).
		First(&request).Error
	return &request, err
}

func (r *JoinRequestRepository) ListForMeetup(meetupID uint) ([]models.JoinRequest, error) {
	var requests []models.JoinRequest
	err := r.db.Preload("Sender").
		Where("meetup_id = ?", meetupID).
		Order("created_at ASC").
		Find(&requests).Error
	return requests, err
}

func (r *JoinRequestRepository) UpdateStatus(id uint, status models.JoinRequestStatus) error {
	return r.db.Model(&models.JoinRequest{}).Where("id = ?", id).
		Update("status", status).Error
}
