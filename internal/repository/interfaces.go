package repository

import (
	"github.com/Vanshh16/social-meetup-backend/internal/models"
	"github.com/shopspring/decimal"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	FindByID(id uint) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	GetDeviceTokens(userID uint) ([]string, error)
	RegisterDeviceToken(userID uint, token string) error
	RemoveDeviceToken(userID uint, token string) error
}

// ChatRepositoryInterface defines the contract for chat repository operations
type ChatRepositoryInterface interface {
	Create(chat *models.Chat, memberIDs ...uint) error
	FindByID(id uint) (*models.Chat, error)
	FindByMeetupID(meetupID uint) (*models.Chat, error)
	AddMember(chatID, userID uint) error
	SetKind(chatID uint, kind models.ChatKind) error
	IsMember(chatID, userID uint) (bool, error)
	GetMembers(chatID uint) ([]models.User, error)
	GetUserChats(userID uint) ([]models.Chat, error)
	MemberCount(chatID uint) (int64, error)
}

// MessageRepositoryInterface defines the contract for message repository operations
type MessageRepositoryInterface interface {
	Create(message *models.Message) error
	FindByID(id uint) (*models.Message, error)
	FindByClientID(clientID string, senderID uint) (*models.Message, error)
	FindChatMessages(chatID uint, cursor uint, limit int) ([]models.Message, error)
}

// MeetupRepositoryInterface defines the contract for meetup repository operations
type MeetupRepositoryInterface interface {
	Create(meetup *models.Meetup) error
	FindByID(id uint) (*models.Meetup, error)
	FindSubCategory(id uint) (*models.SubCategory, error)
	FindSubCategoryByName(categoryName, name string) (*models.SubCategory, error)
}

// JoinRequestRepositoryInterface defines the contract for join request repository operations
type JoinRequestRepositoryInterface interface {
	Create(request *models.JoinRequest) error
	FindByID(id uint) (*models.JoinRequest, error)
	// FindByIDForUpdate locks the request row for the duration of the
	// surrounding transaction so concurrent accepts serialize.
	FindByIDForUpdate(id uint) (*models.JoinRequest, error)
	FindByMeetupAndSender(meetupID, senderID uint) (*models.JoinRequest, error)
	ListForMeetup(meetupID uint) ([]models.JoinRequest, error)
	UpdateStatus(id uint, status models.JoinRequestStatus) error
}

// WalletRepositoryInterface defines the contract for wallet repository operations
type WalletRepositoryInterface interface {
	Create(wallet *models.Wallet) error
	FindByUserID(userID uint) (*models.Wallet, error)
	// FindByUserIDForUpdate row-locks the wallet so concurrent debits on the
	// same wallet cannot both observe a sufficient balance.
	FindByUserIDForUpdate(userID uint) (*models.Wallet, error)
	UpdateBalance(walletID uint, balance decimal.Decimal) error
	AppendTransaction(txn *models.WalletTransaction) error
	ListTransactions(walletID uint, limit int) ([]models.WalletTransaction, error)
}

// NotificationRepositoryInterface defines the contract for notification repository operations
type NotificationRepositoryInterface interface {
	Create(notification *models.Notification) error
	UnreadCount(userID uint) (int64, error)
	ListForUser(userID uint, limit int) ([]models.Notification, error)
	MarkAllRead(userID uint) error
}

// PaymentRepositoryInterface defines the contract for payment repository operations
type PaymentRepositoryInterface interface {
	Create(payment *models.Payment) error
	FindPendingByOrderIDForUpdate(orderID string) (*models.Payment, error)
	UpdateStatus(id uint, status models.PaymentStatus) error
}
