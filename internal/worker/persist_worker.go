// Package worker holds the job consumers that run in the background process:
// one persisting broadcast messages, one dispatching push notifications.
package worker

import (
	"encoding/json"
	"log"

	"github.com/Vanshh16/social-meetup-backend/internal/models"
	"github.com/Vanshh16/social-meetup-backend/internal/queue"
	"github.com/Vanshh16/social-meetup-backend/internal/service"
)

// PersistWorker appends broadcast messages to the durable log. The gateway
// already delivered the message to connected clients; this worker only makes
// it survive restarts and serve history reads.
type PersistWorker struct {
	chats *service.ChatService
}

func NewPersistWorker(chats *service.ChatService) *PersistWorker {
	return &PersistWorker{chats: chats}
}

// Handle consumes one persistence job. Redeliveries of an already-persisted
// message succeed without writing a second row.
func (w *PersistWorker) Handle(data []byte) error {
	var job queue.PersistJob
	if err := json.Unmarshal(data, &job); err != nil {
		// Malformed payloads never become valid; ack them away.
		log.Printf("persist: dropping malformed job: %v", err)
		return nil
	}

	message := &models.Message{
		ChatID:      job.ChatID,
		SenderID:    job.SenderID,
		ClientID:    job.ClientID,
		Content:     job.Content,
		MessageType: job.MessageType,
		CreatedAt:   job.SentAt,
	}

	saved, err := w.chats.SaveMessage(message)
	if err != nil {
		log.Printf("persist: chat %d client_id %s: %v", job.ChatID, job.ClientID, err)
		return err
	}
	log.Printf("persist: message %d saved for chat %d", saved.ID, saved.ChatID)
	return nil
}
