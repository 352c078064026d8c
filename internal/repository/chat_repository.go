package repository

import (
	"github.com/Vanshh16/social-meetup-backend/internal/models"
	"gorm.io/gorm"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) Create(chat *models.Chat, memberIDs ...uint) error {
	if err := r.db.Create(chat).Error; err != nil {
		return err
	}
	for _, userID := range memberIDs {
		if err := r.AddMember(chat.ID, userID); err != nil {
			return err
		}
	}
	return nil
}

func (r *ChatRepository) FindByID(id uint) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.Preload("Members").First(&chat, id).Error
	return &chat, err
}

func (r *ChatRepository) FindByMeetupID(meetupID uint) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.Where("meetup_id = ?", meetupID).First(&chat).Error
	return &chat, err
}

func (r *ChatRepository) AddMember(chatID, userID uint) error {
	return r.db.Exec(
		"INSERT INTO chat_members (chat_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		chatID, userID,
	).Error
}

func (r *ChatRepository) SetKind(chatID uint, kind models.ChatKind) error {
	return r.db.Model(&models.Chat{}).Where("id = ?", chatID).
		Update("kind", kind).Error
}

func (r *ChatRepository) IsMember(chatID, userID uint) (bool, error) {
	var count int64
	err := r.db.Table("chat_members").
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *ChatRepository) GetMembers(chatID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Joins("JOIN chat_members ON chat_members.user_id = users.id").
		Where("chat_members.chat_id = ?", chatID).
		Find(&users).Error
	return users, err
}

func (r *ChatRepository) GetUserChats(userID uint) ([]models.Chat, error) {
	var chats []models.Chat
	err := r.db.Preload("Members").
		Joins("JOIN chat_members ON chat_members.chat_id = chats.id").
		Where("chat_members.user_id = ?", userID).
		Order("chats.updated_at DESC").
		Find(&chats).Error
	return chats, err
}

func (r *ChatRepository) MemberCount(chatID uint) (int64, error) {
	var count int64
	err := r.db.Table("chat_members").Where("chat_id = ?", chatID).Count(&count).Error
	return count, err
}
