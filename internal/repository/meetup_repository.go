package repository

import (
	"github.com/Vanshh16/social-meetup-backend/internal/models"
	"gorm.io/gorm"
)

type MeetupRepository struct {
	db *gorm.DB
}

func NewMeetupRepository(db *gorm.DB) *MeetupRepository {
	return &MeetupRepository{db: db}
}

func (r *MeetupRepository) Create(meetup *models.Meetup) error {
	return r.db.Create(meetup).Error
}

func (r *MeetupRepository) FindByID(id uint) (*models.Meetup, error) {
	var meetup models.Meetup
	err := r.db.Preload("SubCategory").Preload("Host").First(&meetup, id).Error
	return &meetup, err
}

func (r *MeetupRepository) FindSubCategory(id uint) (*models.SubCategory, error) {
	var sub models.SubCategory
	err := r.db.First(&sub, id).Error
	return &sub, err
}

func (r *MeetupRepository) FindSubCategoryByName(categoryName, name string) (*models.SubCategory, error) {
	var sub models.SubCategory
	err := r.db.
		Joins("JOIN categories ON categories.id = sub_categories.category_id").
		Where("categories.name = ? AND sub_categories.name = ?", categoryName, name).
		First(&sub).Error
	return &sub, err
}
