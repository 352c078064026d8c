package cache

import (
	"fmt"
	"time"

	"github.com/Vanshh16/social-meetup-backend/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

// ChatHistoryTTL keeps the recent-message window hot without letting it
// drift far from the durable log.
const ChatHistoryTTL = 5 * time.Minute

// ChatCache holds the most recent messages of a chat, msgpack-encoded.
type ChatCache struct {
	store Store
}

func NewChatCache(store Store) *ChatCache {
	return &ChatCache{store: store}
}

func chatHistoryKey(chatID uint) string {
	return fmt.Sprintf("chat:%d:recent", chatID)
}

// GetRecent retrieves cached recent messages for a chat
func (cc *ChatCache) GetRecent(chatID uint) ([]models.Message, bool) {
	if cc == nil || cc.store == nil {
		return nil, false
	}
	data, err := cc.store.Get(chatHistoryKey(chatID))
	if err != nil || data == nil {
		return nil, false
	}

	var messages []models.Message
	if err := msgpack.Unmarshal(data, &messages); err != nil {
		return nil, false
	}

	return messages, true
}

// SetRecent caches recent messages for a chat
func (cc *ChatCache) SetRecent(chatID uint, messages []models.Message) error {
	if cc == nil || cc.store == nil {
		return nil
	}
	data, err := msgpack.Marshal(messages)
	if err != nil {
		return err
	}

	return cc.store.Set(chatHistoryKey(chatID), data, ChatHistoryTTL)
}

// Invalidate removes a chat's recent-message window from cache
func (cc *ChatCache) Invalidate(chatID uint) error {
	if cc == nil || cc.store == nil {
		return nil
	}
	return cc.store.Delete(chatHistoryKey(chatID))
}
