package service

import (
	"errors"
	"fmt"

	"github.com/Vanshh16/social-meetup-backend/internal/models"
	"github.com/Vanshh16/social-meetup-backend/internal/repository"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

// UserService serves profiles and manages the device tokens that push
// notifications are multicast to.
type UserService struct {
	uow      repository.UnitOfWork
	userRepo repository.UserRepositoryInterface
}

func NewUserService(uow repository.UnitOfWork, userRepo repository.UserRepositoryInterface) *UserService {
	return &UserService{uow: uow, userRepo: userRepo}
}

// GetUser returns one user's profile.
func (s *UserService) GetUser(userID uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// CreateUser provisions a user together with an empty wallet, so wallet
// lookups never have to handle a missing row for a real user.
func (s *UserService) CreateUser(user *models.User) error {
	return s.uow.Do(func(tx repository.RepositorySet) error {
		if err := tx.Users.Create(user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return tx.Wallets.Create(&models.Wallet{UserID: user.ID})
	})
}

// RegisterDeviceToken stores a push token for the user. Registering the same
// token twice is a no-op.
func (s *UserService) RegisterDeviceToken(userID uint, token string) error {
	if token == "" {
		return fmt.Errorf("%w: device token is required", ErrValidationFailed)
	}
	return s.userRepo.RegisterDeviceToken(userID, token)
}

// RemoveDeviceToken drops a push token, typically on logout.
func (s *UserService) RemoveDeviceToken(userID uint, token string) error {
	return s.userRepo.RemoveDeviceToken(userID, token)
}
