package cache

import (
	"fmt"
	"time"
)

// MembershipTTL bounds how stale a cached membership verdict may be. A
// revoked membership is not seen by an already-subscribed connection until
// its next joinChat, which is the accepted staleness window.
const MembershipTTL = 5 * time.Minute

// MembershipCache caches the boolean outcome of "is user X a member of chat
// Y" so every joinChat/sendMessage does not hit the durable store.
type MembershipCache struct {
	store Store
}

func NewMembershipCache(store Store) *MembershipCache {
	return &MembershipCache{store: store}
}

func membershipKey(userID, chatID uint) string {
	return fmt.Sprintf("member:%d:%d", userID, chatID)
}

// Get returns (isMember, found). A miss is not an error.
func (mc *MembershipCache) Get(userID, chatID uint) (bool, bool) {
	if mc == nil || mc.store == nil {
		return false, false
	}
	data, err := mc.store.Get(membershipKey(userID, chatID))
	if err != nil || data == nil {
		return false, false
	}
	return string(data) == "1", true
}

func (mc *MembershipCache) Set(userID, chatID uint, isMember bool) error {
	if mc == nil || mc.store == nil {
		return nil
	}
	val := []byte("0")
	if isMember {
		val = []byte("1")
	}
	return mc.store.Set(membershipKey(userID, chatID), val, MembershipTTL)
}

func (mc *MembershipCache) Invalidate(userID, chatID uint) error {
	if mc == nil || mc.store == nil {
		return nil
	}
	return mc.store.Delete(membershipKey(userID, chatID))
}
