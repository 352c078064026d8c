package models

import (
	"time"

	"gorm.io/gorm"
)

type JoinRequestStatus string

const (
	RequestPending  JoinRequestStatus = "PENDING"
	RequestAccepted JoinRequestStatus = "ACCEPTED"
	RequestRejected JoinRequestStatus = "REJECTED"
)

// JoinRequest transitions PENDING -> ACCEPTED or PENDING -> REJECTED exactly
// once. Terminal states never transition again.
type JoinRequest struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	MeetupID uint              `gorm:"not null;uniqueIndex:idx_meetup_sender" json:"meetup_id"`
	SenderID uint              `gorm:"not null;uniqueIndex:idx_meetup_sender" json:"sender_id"`
	Status   JoinRequestStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`

	// Associations
	Meetup Meetup `gorm:"foreignKey:MeetupID" json:"meetup"`
	Sender User   `gorm:"foreignKey:SenderID" json:"sender"`
}

func (r *JoinRequest) Resolved() bool {
	return r.Status != RequestPending
}
