package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	MobileNumber string `gorm:"size:20" json:"mobile_number"`
	ProfilePhoto string `json:"profile_photo"`
	Role         string `gorm:"not null;default:user" json:"role"`

	// Associations
	Wallet       *Wallet       `gorm:"foreignKey:UserID" json:"-"`
	DeviceTokens []DeviceToken `gorm:"foreignKey:UserID" json:"-"`
	Messages     []Message     `gorm:"foreignKey:SenderID" json:"-"`
	Chats        []Chat        `gorm:"many2many:chat_members" json:"-"`
}

// DeviceToken is one registered push target. The (user_id, token) unique
// index keeps re-registrations from the same device from piling up.
type DeviceToken struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID uint   `gorm:"not null;uniqueIndex:idx_user_token" json:"user_id"`
	Token  string `gorm:"size:255;not null;uniqueIndex:idx_user_token" json:"token"`
}

type UserResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	ProfilePhoto string `json:"profile_photo,omitempty"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		ProfilePhoto: u.ProfilePhoto,
	}
}
