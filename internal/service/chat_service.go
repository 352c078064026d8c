package service

import (
	"errors"
	"fmt"

	"github.com/Vanshh16/social-meetup-backend/internal/cache"
	"github.com/Vanshh16/social-meetup-backend/internal/models"
	"github.com/Vanshh16/social-meetup-backend/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrChatNotFound = errors.New("chat not found")
	ErrNotMember    = errors.New("user is not a member of this chat")
)

const defaultMessagePageSize = 50

// ChatService answers membership questions and serves chat history. Writes
// to the message log come in through SaveMessage, which the persistence
// worker calls with at-least-once delivery semantics.
type ChatService struct {
	chatRepo        repository.ChatRepositoryInterface
	messageRepo     repository.MessageRepositoryInterface
	membershipCache *cache.MembershipCache
	chatCache       *cache.ChatCache
}

func NewChatService(
	chatRepo repository.ChatRepositoryInterface,
	messageRepo repository.MessageRepositoryInterface,
	membershipCache *cache.MembershipCache,
	chatCache *cache.ChatCache,
) *ChatService {
	return &ChatService{
		chatRepo:        chatRepo,
		messageRepo:     messageRepo,
		membershipCache: membershipCache,
		chatCache:       chatCache,
	}
}

// IsMember answers from the membership cache when it can; both positive and
// negative verdicts are cached so repeated denials stay cheap too.
func (s *ChatService) IsMember(userID, chatID uint) (bool, error) {
	if isMember, found := s.membershipCache.Get(userID, chatID); found {
		return isMember, nil
	}

	isMember, err := s.chatRepo.IsMember(chatID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check chat membership: %w", err)
	}

	// Cache write failures degrade to DB lookups, nothing more.
	_ = s.membershipCache.Set(userID, chatID, isMember)
	return isMember, nil
}

// GetChat returns a chat with its members, guarded by membership.
func (s *ChatService) GetChat(chatID, userID uint) (*models.Chat, error) {
	isMember, err := s.IsMember(userID, chatID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotMember
	}

	chat, err := s.chatRepo.FindByID(chatID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChatNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load chat: %w", err)
	}
	return chat, nil
}

// GetUserChats lists every chat the user belongs to, most recent first.
func (s *ChatService) GetUserChats(userID uint) ([]models.Chat, error) {
	return s.chatRepo.GetUserChats(userID)
}

// GetChatMessages returns a page of chat history in chronological order.
// The first page is served from the recent-window cache when possible.
func (s *ChatService) GetChatMessages(chatID, userID uint, cursor uint, limit int) ([]models.Message, error) {
	isMember, err := s.IsMember(userID, chatID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotMember
	}

	if limit <= 0 {
		limit = defaultMessagePageSize
	}

	firstPage := cursor == 0 && limit == defaultMessagePageSize
	if firstPage {
		if messages, found := s.chatCache.GetRecent(chatID); found {
			return messages, nil
		}
	}

	messages, err := s.messageRepo.FindChatMessages(chatID, cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat messages: %w", err)
	}

	if firstPage {
		_ = s.chatCache.SetRecent(chatID, messages)
	}
	return messages, nil
}

// SaveMessage durably appends one message from a persistence job. The
// (client_id, sender_id) unique index absorbs queue redeliveries: a
// duplicate insert returns the already-persisted row instead of an error.
func (s *ChatService) SaveMessage(message *models.Message) (*models.Message, error) {
	err := s.messageRepo.Create(message)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		existing, findErr := s.messageRepo.FindByClientID(message.ClientID, message.SenderID)
		if findErr != nil {
			return nil, fmt.Errorf("failed to load persisted duplicate: %w", findErr)
		}
		return existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to persist message: %w", err)
	}

	// Stale window expires on its own TTL if the invalidation fails.
	_ = s.chatCache.Invalidate(message.ChatID)
	return message, nil
}

// ProvisionMeetupChat makes sure the meetup's chat exists and contains the
// joiner. It runs inside the accept transaction, so the chat and the accepted
// request commit or roll back together. The first accept creates a
// ONE_ON_ONE chat holding host and joiner; any later accept promotes it to
// GROUP and adds the new member.
func ProvisionMeetupChat(chats repository.ChatRepositoryInterface, meetup *models.Meetup, joinerID uint) (*models.Chat, error) {
	chat, err := chats.FindByMeetupID(meetup.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		kind := models.OneOnOneChat
		if meetup.GroupSize > 1 {
			kind = models.GroupChat
		}
		chat = &models.Chat{
			Kind:     kind,
			Name:     meetup.SubCategory.Name,
			MeetupID: meetup.ID,
		}
		if err := chats.Create(chat, meetup.CreatedBy, joinerID); err != nil {
			return nil, fmt.Errorf("failed to create meetup chat: %w", err)
		}
		return chat, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up meetup chat: %w", err)
	}

	if err := chats.AddMember(chat.ID, joinerID); err != nil {
		return nil, fmt.Errorf("failed to add chat member: %w", err)
	}
	if chat.Kind == models.OneOnOneChat {
		count, err := chats.MemberCount(chat.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count chat members: %w", err)
		}
		if count > 2 {
			if err := chats.SetKind(chat.ID, models.GroupChat); err != nil {
				return nil, fmt.Errorf("failed to promote chat: %w", err)
			}
			chat.Kind = models.GroupChat
		}
	}
	return chat, nil
}
