package service

import (
	"fmt"
	"log"

	"github.com/Vanshh16/social-meetup-backend/internal/bus"
	"github.com/Vanshh16/social-meetup-backend/internal/models"
	"github.com/Vanshh16/social-meetup-backend/internal/push"
	"github.com/Vanshh16/social-meetup-backend/internal/repository"
)

// NotificationService fans one event out to every channel a user listens on:
// a durable inbox row, a realtime event on the user's personal room, and a
// device push. Only the inbox row is required to succeed; the realtime and
// push legs are best effort.
type NotificationService struct {
	notifRepo repository.NotificationRepositoryInterface
	userRepo  repository.UserRepositoryInterface
	emitter   bus.Emitter
	sender    push.Sender
}

func NewNotificationService(
	notifRepo repository.NotificationRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	emitter bus.Emitter,
	sender push.Sender,
) *NotificationService {
	return &NotificationService{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		emitter:   emitter,
		sender:    sender,
	}
}

// NotificationEvent is the realtime payload emitted to the user's room.
type NotificationEvent struct {
	Notification models.Notification `json:"notification"`
	UnreadCount  int64               `json:"unread_count"`
}

// Notify creates the inbox row, then emits the realtime event with the fresh
// unread count and fires a device push without waiting on it.
func (s *NotificationService) Notify(userID uint, notifType models.NotificationType, title, subtitle string) (*models.Notification, error) {
	notification := &models.Notification{
		UserID:   userID,
		Type:     notifType,
		Title:    title,
		Subtitle: subtitle,
	}
	if err := s.notifRepo.Create(notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	unread, err := s.notifRepo.UnreadCount(userID)
	if err != nil {
		log.Printf("unread count for user %d: %v", userID, err)
	}

	if err := s.emitter.EmitToUser(userID, "new_notification", NotificationEvent{
		Notification: *notification,
		UnreadCount:  unread,
	}); err != nil {
		log.Printf("emit notification to user %d: %v", userID, err)
	}

	go s.pushToDevices(userID, notifType, title, subtitle)

	return notification, nil
}

func (s *NotificationService) pushToDevices(userID uint, notifType models.NotificationType, title, subtitle string) {
	tokens, err := s.userRepo.GetDeviceTokens(userID)
	if err != nil {
		log.Printf("device tokens for user %d: %v", userID, err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	result, err := s.sender.Multicast(tokens, title, subtitle, map[string]string{
		"type": string(notifType),
	})
	if err != nil {
		log.Printf("push to user %d: %v", userID, err)
		return
	}
	if result.FailureCount > 0 {
		log.Printf("push to user %d: %d of %d tokens failed", userID, result.FailureCount, len(tokens))
	}
}

// List returns the user's most recent notifications.
func (s *NotificationService) List(userID uint, limit int) ([]models.Notification, error) {
	return s.notifRepo.ListForUser(userID, limit)
}

// UnreadCount returns how many notifications the user has not read yet.
func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	return s.notifRepo.UnreadCount(userID)
}

// MarkAllRead marks the whole inbox read.
func (s *NotificationService) MarkAllRead(userID uint) error {
	return s.notifRepo.MarkAllRead(userID)
}
