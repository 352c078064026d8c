package worker

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Vanshh16/social-meetup-backend/internal/cache"
	"github.com/Vanshh16/social-meetup-backend/internal/models"
	"github.com/Vanshh16/social-meetup-backend/internal/queue"
	"github.com/Vanshh16/social-meetup-backend/internal/service"
	"gorm.io/gorm"
)

// fakeMessageRepo mirrors the (client_id, sender_id) unique index.
type fakeMessageRepo struct {
	messages []*models.Message
	nextID   uint
}

func (f *fakeMessageRepo) Create(message *models.Message) error {
	for _, existing := range f.messages {
		if existing.ClientID == message.ClientID && existing.SenderID == message.SenderID {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	message.ID = f.nextID
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeMessageRepo) FindByID(id uint) (*models.Message, error) {
	for _, msg := range f.messages {
		if msg.ID == id {
			return msg, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMessageRepo) FindByClientID(clientID string, senderID uint) (*models.Message, error) {
	for _, msg := range f.messages {
		if msg.ClientID == clientID && msg.SenderID == senderID {
			return msg, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMessageRepo) FindChatMessages(chatID uint, cursor uint, limit int) ([]models.Message, error) {
	return nil, nil
}

func newPersistWorker(messageRepo *fakeMessageRepo) *PersistWorker {
	chatService := service.NewChatService(
		&fakeChatRepo{}, messageRepo,
		cache.NewMembershipCache(nil), cache.NewChatCache(nil),
	)
	return NewPersistWorker(chatService)
}

func TestPersistJob(t *testing.T) {
	messageRepo := &fakeMessageRepo{}
	w := newPersistWorker(messageRepo)

	sentAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	job := queue.PersistJob{
		ChatID:      10,
		SenderID:    1,
		ClientID:    "c-1",
		Content:     "hello",
		MessageType: models.TextMessage,
		SentAt:      sentAt,
	}
	data, err := json.Marshal(job)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if err := w.Handle(data); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(messageRepo.messages) != 1 {
		t.Fatalf("expected 1 row, got %d", len(messageRepo.messages))
	}

	saved := messageRepo.messages[0]
	if saved.ChatID != 10 || saved.SenderID != 1 || saved.Content != "hello" {
		t.Errorf("saved row = %+v", saved)
	}
	if !saved.CreatedAt.Equal(sentAt) {
		t.Errorf("created_at = %s, want the send time %s", saved.CreatedAt, sentAt)
	}

	// Redelivery of the same job is a success, not a second row.
	if err := w.Handle(data); err != nil {
		t.Fatalf("redelivery: %v", err)
	}
	if len(messageRepo.messages) != 1 {
		t.Errorf("redelivery created a duplicate: %d rows", len(messageRepo.messages))
	}
}

func TestPersistMalformedJobAcked(t *testing.T) {
	messageRepo := &fakeMessageRepo{}
	w := newPersistWorker(messageRepo)

	if err := w.Handle([]byte("{broken")); err != nil {
		t.Fatalf("malformed job must be acked, got %v", err)
	}
	if len(messageRepo.messages) != 0 {
		t.Errorf("expected no rows, got %d", len(messageRepo.messages))
	}
}
