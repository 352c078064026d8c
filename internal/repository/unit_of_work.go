package repository

import (
	"gorm.io/gorm"
)

// RepositorySet bundles the repositories bound to one transaction. Every
// repository in the set sees and participates in the same unit of work.
type RepositorySet struct {
	Users        UserRepositoryInterface
	Chats        ChatRepositoryInterface
	Messages     MessageRepositoryInterface
	Meetups      MeetupRepositoryInterface
	JoinRequests JoinRequestRepositoryInterface
	Wallets      WalletRepositoryInterface
	Payments     PaymentRepositoryInterface
}

// UnitOfWork runs a function against a transactional RepositorySet. If the
// function returns an error every mutation inside it is rolled back.
type UnitOfWork interface {
	Do(fn func(tx RepositorySet) error) error
}

type GormUnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

func (u *GormUnitOfWork) Do(fn func(tx RepositorySet) error) error {
	return u.db.Transaction(func(tx *gorm.DB) error {
		return fn(RepositorySet{
			Users:        NewUserRepository(tx),
			Chats:        NewChatRepository(tx),
			Messages:     NewMessageRepository(tx),
			Meetups:      NewMeetupRepository(tx),
			JoinRequests: NewJoinRequestRepository(tx),
			Wallets:      NewWalletRepository(tx),
			Payments:     NewPaymentRepository(tx),
		})
	})
}
