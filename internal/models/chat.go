package models

import (
	"time"

	"gorm.io/gorm"
)

type ChatKind string

const (
	OneOnOneChat ChatKind = "ONE_ON_ONE"
	GroupChat    ChatKind = "GROUP"
)

// Chat is provisioned lazily the first time a join request for its meetup is
// accepted. A ONE_ON_ONE chat holds exactly the host and the first joiner;
// later joiners promote it to GROUP.
type Chat struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Kind     ChatKind `gorm:"type:varchar(20);not null;default:'ONE_ON_ONE'" json:"kind"`
	Name     string   `gorm:"size:100" json:"name"`
	MeetupID uint     `gorm:"not null;uniqueIndex" json:"meetup_id"`

	// Associations
	Meetup   Meetup    `gorm:"foreignKey:MeetupID" json:"-"`
	Members  []User    `gorm:"many2many:chat_members" json:"members,omitempty"`
	Messages []Message `gorm:"foreignKey:ChatID" json:"-"`
}

type ChatResponse struct {
	ID       uint           `json:"id"`
	Kind     ChatKind       `json:"kind"`
	Name     string         `json:"name,omitempty"`
	MeetupID uint           `json:"meetup_id"`
	Members  []UserResponse `json:"members,omitempty"`
}

func (c *Chat) ToResponse() ChatResponse {
	resp := ChatResponse{
		ID:       c.ID,
		Kind:     c.Kind,
		Name:     c.Name,
		MeetupID: c.MeetupID,
	}
	for i := range c.Members {
		resp.Members = append(resp.Members, c.Members[i].ToResponse())
	}
	return resp
}
