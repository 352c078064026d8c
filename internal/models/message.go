package models

import (
	"time"

	"gorm.io/gorm"
)

type MessageType string

const (
	TextMessage  MessageType = "text"
	ImageMessage MessageType = "image"
)

// Message is immutable once created. ClientID is the provisional identifier
// broadcast on the realtime path before the durable row exists; the
// (client_id, sender_id) unique index makes redelivered persistence jobs
// collapse into a single row.
type Message struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ClientID string `gorm:"type:varchar(41);uniqueIndex:idx_client_sender;not null" json:"client_id"`

	ChatID   uint `gorm:"not null;index" json:"chat_id"`
	SenderID uint `gorm:"not null;uniqueIndex:idx_client_sender;index" json:"sender_id"`

	Content     string      `gorm:"type:text;not null" json:"content"`
	MessageType MessageType `gorm:"type:varchar(20);default:'text'" json:"message_type"`

	// Associations
	Sender User `gorm:"foreignKey:SenderID" json:"sender"`
	Chat   Chat `gorm:"foreignKey:ChatID" json:"-"`
}

type MessageResponse struct {
	ID          uint         `json:"id"`
	ClientID    string       `json:"client_id"`
	ChatID      uint         `json:"chat_id"`
	Content     string       `json:"content"`
	MessageType MessageType  `json:"message_type"`
	CreatedAt   time.Time    `json:"created_at"`
	Sender      UserResponse `json:"sender"`
}

func (m *Message) ToResponse() MessageResponse {
	return MessageResponse{
		ID:          m.ID,
		ClientID:    m.ClientID,
		ChatID:      m.ChatID,
		Content:     m.Content,
		MessageType: m.MessageType,
		CreatedAt:   m.CreatedAt,
		Sender:      m.Sender.ToResponse(),
	}
}
