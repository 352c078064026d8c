package cache

import (
	"fmt"
	"strconv"
	"time"
)

// ActiveChatTTL bounds how long a crashed client without a clean disconnect
// is still considered "viewing" a chat. Refreshed on activity.
const ActiveChatTTL = time.Hour

// PresenceStoreInterface records which chat (if any) a user is currently
// viewing, shared across all server processes. Entries are ephemeral; loss
// self-heals via TTL expiry.
type PresenceStoreInterface interface {
	SetActiveChat(userID, chatID uint) error
	GetActiveChat(userID uint) (uint, bool)
	ClearActiveChat(userID uint) error
	RefreshActiveChat(userID uint) error
}

// PresenceStore is the Redis-backed implementation.
type PresenceStore struct {
	store Store
}

func NewPresenceStore(store Store) *PresenceStore {
	return &PresenceStore{store: store}
}

func presenceKey(userID uint) string {
	return fmt.Sprintf("presence:active_chat:%d", userID)
}

func (p *PresenceStore) SetActiveChat(userID, chatID uint) error {
	if p == nil || p.store == nil {
		return nil
	}
	return p.store.Set(presenceKey(userID), []byte(strconv.FormatUint(uint64(chatID), 10)), ActiveChatTTL)
}

func (p *PresenceStore) GetActiveChat(userID uint) (uint, bool) {
	if p == nil || p.store == nil {
		return 0, false
	}
	data, err := p.store.Get(presenceKey(userID))
	if err != nil || data == nil {
		return 0, false
	}
	chatID, err := strconv.ParseUint(string(data), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(chatID), true
}

func (p *PresenceStore) ClearActiveChat(userID uint) error {
	if p == nil || p.store == nil {
		return nil
	}
	return p.store.Delete(presenceKey(userID))
}

func (p *PresenceStore) RefreshActiveChat(userID uint) error {
	if p == nil || p.store == nil {
		return nil
	}
	return p.store.Expire(presenceKey(userID), ActiveChatTTL)
}
