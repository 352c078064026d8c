package worker

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/Vanshh16/social-meetup-backend/internal/cache"
	"github.com/Vanshh16/social-meetup-backend/internal/push"
	"github.com/Vanshh16/social-meetup-backend/internal/queue"
	"github.com/Vanshh16/social-meetup-backend/internal/repository"
)

// Preview length cap for push notification bodies.
const previewLimit = 100

// NotifyWorker pushes a message preview to chat members who are not looking
// at the chat right now. The sender and any member whose active chat is this
// one are suppressed; everyone else gets one multicast across all their
// device tokens.
type NotifyWorker struct {
	chatRepo repository.ChatRepositoryInterface
	userRepo repository.UserRepositoryInterface
	presence cache.PresenceStoreInterface
	sender   push.Sender
}

func NewNotifyWorker(
	chatRepo repository.ChatRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	presence cache.PresenceStoreInterface,
	sender push.Sender,
) *NotifyWorker {
	return &NotifyWorker{
		chatRepo: chatRepo,
		userRepo: userRepo,
		presence: presence,
		sender:   sender,
	}
}

// Handle consumes one notify job. Individual token failures are logged and
// acked; only a total send failure triggers redelivery.
func (w *NotifyWorker) Handle(data []byte) error {
	var job queue.NotifyJob
	if err := json.Unmarshal(data, &job); err != nil {
		log.Printf("notify: dropping malformed job: %v", err)
		return nil
	}

	members, err := w.chatRepo.GetMembers(job.ChatID)
	if err != nil {
		return fmt.Errorf("failed to load chat members: %w", err)
	}

	var tokens []string
	for _, member := range members {
		if member.ID == job.SenderID {
			continue
		}
		if activeChat, ok := w.presence.GetActiveChat(member.ID); ok && activeChat == job.ChatID {
			// Already watching the chat; the realtime event covers them.
			continue
		}
		memberTokens, err := w.userRepo.GetDeviceTokens(member.ID)
		if err != nil {
			log.Printf("notify: tokens for user %d: %v", member.ID, err)
			continue
		}
		tokens = append(tokens, memberTokens...)
	}
	if len(tokens) == 0 {
		return nil
	}

	title := "New message"
	if sender, err := w.userRepo.FindByID(job.SenderID); err == nil {
		title = "New message from " + sender.Name
	}

	result, err := w.sender.Multicast(tokens, title, truncatePreview(job.Content), map[string]string{
		"chatId": strconv.FormatUint(uint64(job.ChatID), 10),
		"type":   "new_message",
	})
	if err != nil {
		return fmt.Errorf("push multicast failed: %w", err)
	}
	if result.FailureCount > 0 {
		log.Printf("notify: chat %d: %d of %d tokens failed", job.ChatID, result.FailureCount, len(tokens))
	}
	return nil
}

// truncatePreview caps the preview at previewLimit characters, ellipsized.
func truncatePreview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLimit {
		return content
	}
	return string(runes[:previewLimit-3]) + "..."
}
