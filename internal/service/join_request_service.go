package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/Vanshh16/social-meetup-backend/internal/cache"
	"github.com/Vanshh16/social-meetup-backend/internal/models"
	"github.com/Vanshh16/social-meetup-backend/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrRequestNotFound  = errors.New("join request not found")
	ErrAlreadyResolved  = errors.New("join request already resolved")
	ErrAlreadyRequested = errors.New("join request already exists for this meetup")
	ErrOwnMeetup        = errors.New("cannot request to join your own meetup")
	ErrUnauthorized     = errors.New("user is not allowed to perform this action")
)

// JoinRequestService drives the join-request lifecycle. Accepting a request
// is the money move of the whole product: the fee debit, the status flip and
// the chat provisioning commit atomically or not at all.
type JoinRequestService struct {
	uow             repository.UnitOfWork
	requestRepo     repository.JoinRequestRepositoryInterface
	meetupRepo      repository.MeetupRepositoryInterface
	userRepo        repository.UserRepositoryInterface
	membershipCache *cache.MembershipCache
	notifier        *NotificationService
}

func NewJoinRequestService(
	uow repository.UnitOfWork,
	requestRepo repository.JoinRequestRepositoryInterface,
	meetupRepo repository.MeetupRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	membershipCache *cache.MembershipCache,
	notifier *NotificationService,
) *JoinRequestService {
	return &JoinRequestService{
		uow:             uow,
		requestRepo:     requestRepo,
		meetupRepo:      meetupRepo,
		userRepo:        userRepo,
		membershipCache: membershipCache,
		notifier:        notifier,
	}
}

// JoinRequestEvent is the bus payload for join-request lifecycle events:
// new_join_request to the host, join_request_update to the joiner. ChatID is
// set only once a request is accepted.
type JoinRequestEvent struct {
	Message string             `json:"message"`
	Request models.JoinRequest `json:"request"`
	ChatID  uint               `json:"chat_id,omitempty"`
}

// Create files a join request against a meetup and notifies the host.
func (s *JoinRequestService) Create(meetupID, senderID uint) (*models.JoinRequest, error) {
	meetup, err := s.meetupRepo.FindByID(meetupID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMeetupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load meetup: %w", err)
	}
	if meetup.CreatedBy == senderID {
		return nil, ErrOwnMeetup
	}

	if _, err := s.requestRepo.FindByMeetupAndSender(meetupID, senderID); err == nil {
		return nil, ErrAlreadyRequested
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing request: %w", err)
	}

	request := &models.JoinRequest{
		MeetupID: meetupID,
		SenderID: senderID,
		Status:   models.RequestPending,
	}
	if err := s.requestRepo.Create(request); err != nil {
		// Two concurrent creates race past the existence check; the unique
		// index on (meetup_id, sender_id) settles it.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyRequested
		}
		return nil, fmt.Errorf("failed to create join request: %w", err)
	}

	s.notifyHost(meetup, request)

	return request, nil
}

func (s *JoinRequestService) notifyHost(meetup *models.Meetup, request *models.JoinRequest) {
	senderName := "Someone"
	if sender, err := s.userRepo.FindByID(request.SenderID); err == nil {
		senderName = sender.Name
		request.Sender = *sender
	}
	request.Meetup = *meetup

	message := fmt.Sprintf("%s wants to join your %s meetup", senderName, meetup.SubCategory.Name)
	if _, err := s.notifier.Notify(meetup.CreatedBy, models.NotifyJoinRequest, "New join request", message); err != nil {
		log.Printf("notify host %d: %v", meetup.CreatedBy, err)
	}
	if err := s.notifier.emitter.EmitToUser(meetup.CreatedBy, "new_join_request", JoinRequestEvent{
		Message: message,
		Request: *request,
	}); err != nil {
		log.Printf("emit join request to host %d: %v", meetup.CreatedBy, err)
	}
}

// Accept resolves a pending request in the joiner's favor. Inside one unit
// of work it locks the request row, rechecks that it is still pending,
// debits the joiner's wallet by the subcategory price, flips the status and
// provisions the meetup chat. A failure at any step rolls everything back,
// leaving the request pending and the wallet untouched.
func (s *JoinRequestService) Accept(requestID, actingUserID uint) (*models.JoinRequest, *models.Chat, error) {
	var (
		request *models.JoinRequest
		chat    *models.Chat
	)

	err := s.uow.Do(func(tx repository.RepositorySet) error {
		var err error
		request, err = tx.JoinRequests.FindByIDForUpdate(requestID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock join request: %w", err)
		}

		if request.Meetup.CreatedBy != actingUserID {
			return ErrUnauthorized
		}
		if request.Resolved() {
			return ErrAlreadyResolved
		}

		fee := request.Meetup.SubCategory.Price
		if fee.IsPositive() {
			description := fmt.Sprintf("Joining fee for %s meetup", request.Meetup.SubCategory.Name)
			if _, err := DebitWallet(tx.Wallets, request.SenderID, fee, description); err != nil {
				return err
			}
		}

		if err := tx.JoinRequests.UpdateStatus(request.ID, models.RequestAccepted); err != nil {
			return fmt.Errorf("failed to update request status: %w", err)
		}
		request.Status = models.RequestAccepted

		chat, err = ProvisionMeetupChat(tx.Chats, &request.Meetup, request.SenderID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	// A stale negative verdict would lock the joiner out of their new chat.
	_ = s.membershipCache.Invalidate(request.SenderID, chat.ID)

	s.notifyResolution(request, chat.ID, "Request accepted",
		fmt.Sprintf("You're in! A chat for the %s meetup is ready.", request.Meetup.SubCategory.Name))

	return request, chat, nil
}

// Reject resolves a pending request against the joiner. No money moves.
func (s *JoinRequestService) Reject(requestID, actingUserID uint) (*models.JoinRequest, error) {
	var request *models.JoinRequest

	err := s.uow.Do(func(tx repository.RepositorySet) error {
		var err error
		request, err = tx.JoinRequests.FindByIDForUpdate(requestID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock join request: %w", err)
		}

		if request.Meetup.CreatedBy != actingUserID {
			return ErrUnauthorized
		}
		if request.Resolved() {
			return ErrAlreadyResolved
		}

		if err := tx.JoinRequests.UpdateStatus(request.ID, models.RequestRejected); err != nil {
			return fmt.Errorf("failed to update request status: %w", err)
		}
		request.Status = models.RequestRejected
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyResolution(request, 0, "Request declined",
		fmt.Sprintf("Your request to join the %s meetup was declined.", request.Meetup.SubCategory.Name))

	return request, nil
}

func (s *JoinRequestService) notifyResolution(request *models.JoinRequest, chatID uint, title, subtitle string) {
	if _, err := s.notifier.Notify(request.SenderID, models.NotifyJoinRequestUpdate, title, subtitle); err != nil {
		log.Printf("notify joiner %d: %v", request.SenderID, err)
	}
	if err := s.notifier.emitter.EmitToUser(request.SenderID, "join_request_update", JoinRequestEvent{
		Message: subtitle,
		Request: *request,
		ChatID:  chatID,
	}); err != nil {
		log.Printf("emit request update to user %d: %v", request.SenderID, err)
	}
}

// ListForMeetup returns a meetup's join requests to its host.
func (s *JoinRequestService) ListForMeetup(meetupID, actingUserID uint) ([]models.JoinRequest, error) {
	meetup, err := s.meetupRepo.FindByID(meetupID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMeetupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load meetup: %w", err)
	}
	if meetup.CreatedBy != actingUserID {
		return nil, ErrUnauthorized
	}
	return s.requestRepo.ListForMeetup(meetupID)
}
