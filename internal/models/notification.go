package models

import (
	"time"

	"gorm.io/gorm"
)

type NotificationType string

const (
	NotifyJoinRequest       NotificationType = "new_join_request"
	NotifyJoinRequestUpdate NotificationType = "join_request_update"
	NotifyNewMessage        NotificationType = "new_message"
)

type Notification struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID   uint             `gorm:"not null;index" json:"user_id"`
	Type     NotificationType `gorm:"type:varchar(40);not null" json:"type"`
	Title    string           `gorm:"size:120;not null" json:"title"`
	Subtitle string           `gorm:"size:255;not null" json:"subtitle"`
	IsRead   bool             `gorm:"default:false;index" json:"is_read"`
}
