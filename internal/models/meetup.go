package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Category struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name          string        `gorm:"uniqueIndex;size:100;not null" json:"name"`
	SubCategories []SubCategory `gorm:"foreignKey:CategoryID" json:"subcategories,omitempty"`
}

// SubCategory carries the authoritative join price. A zero price means the
// subcategory is free to join.
type SubCategory struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	CategoryID uint            `gorm:"not null;index" json:"category_id"`
	Name       string          `gorm:"size:100;not null" json:"name"`
	Price      decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"price"`
}

type Meetup struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CreatedBy     uint      `gorm:"not null;index" json:"created_by"`
	CategoryID    uint      `gorm:"not null" json:"category_id"`
	SubCategoryID uint      `gorm:"not null" json:"subcategory_id"`
	Location      string    `gorm:"size:255" json:"location"`
	Date          time.Time `json:"date"`
	Time          string    `gorm:"size:20" json:"time"`
	GroupSize     int       `gorm:"not null;default:1" json:"group_size"`

	PreferredGender string `gorm:"size:20" json:"preferred_gender"`
	PreferredAgeMin int    `json:"preferred_age_min"`
	PreferredAgeMax int    `json:"preferred_age_max"`

	// Associations
	Host        User          `gorm:"foreignKey:CreatedBy" json:"host"`
	SubCategory SubCategory   `gorm:"foreignKey:SubCategoryID" json:"subcategory"`
	Requests    []JoinRequest `gorm:"foreignKey:MeetupID" json:"-"`
}
