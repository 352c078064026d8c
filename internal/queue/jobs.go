// Package queue carries the two at-least-once work queues that decouple the
// realtime send path from slow I/O: one for message persistence, one for
// push-notification dispatch.
package queue

import (
	"time"

	"github.com/Vanshh16/social-meetup-backend/internal/models"
)

const (
	StreamName = "MEETUP_JOBS"

	SubjectPersist = "jobs.message.persist"
	SubjectNotify  = "jobs.notify.push"

	PersistConsumer = "persist-worker"
	NotifyConsumer  = "notify-worker"

	// MaxDeliver bounds redelivery; after exhaustion JetStream emits a
	// max-deliveries advisory and the job is left for manual inspection.
	MaxDeliver = 5
)

// PersistJob asks the persistence worker to durably append one message.
// ClientID doubles as the idempotency key under queue redelivery.
type PersistJob struct {
	ChatID      uint               `json:"chat_id"`
	SenderID    uint               `json:"sender_id"`
	ClientID    string             `json:"client_id"`
	Content     string             `json:"content"`
	MessageType models.MessageType `json:"message_type"`
	SentAt      time.Time          `json:"sent_at"`
}

// NotifyJob asks the notification worker to push to inactive chat members.
type NotifyJob struct {
	ChatID   uint   `json:"chat_id"`
	SenderID uint   `json:"sender_id"`
	Content  string `json:"content"`
}
