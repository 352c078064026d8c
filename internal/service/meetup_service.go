package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/Vanshh16/social-meetup-backend/internal/models"
	"github.com/Vanshh16/social-meetup-backend/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrMeetupNotFound      = errors.New("meetup not found")
	ErrSubCategoryNotFound = errors.New("subcategory not found")
	ErrValidationFailed    = errors.New("validation failed")
)

func parseMeetupDate(value string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidationFailed)
	}
	return date, nil
}

// MeetupService creates and serves meetups. Creating a meetup in a paid
// subcategory debits the host's wallet in the same unit of work, so a host
// who cannot cover the hosting fee never gets a meetup row.
type MeetupService struct {
	uow        repository.UnitOfWork
	meetupRepo repository.MeetupRepositoryInterface
}

func NewMeetupService(uow repository.UnitOfWork, meetupRepo repository.MeetupRepositoryInterface) *MeetupService {
	return &MeetupService{uow: uow, meetupRepo: meetupRepo}
}

// CreateMeetupInput carries the host-supplied meetup fields.
type CreateMeetupInput struct {
	SubCategoryID   uint
	Location        string
	Date            string
	Time            string
	GroupSize       int
	PreferredGender string
	PreferredAgeMin int
	PreferredAgeMax int
}

// CreateMeetup validates the subcategory, debits the hosting fee when the
// subcategory is paid and persists the meetup.
func (s *MeetupService) CreateMeetup(hostID uint, input CreateMeetupInput) (*models.Meetup, error) {
	subCategory, err := s.meetupRepo.FindSubCategory(input.SubCategoryID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load subcategory: %w", err)
	}

	groupSize := input.GroupSize
	if groupSize < 1 {
		groupSize = 1
	}

	meetup := &models.Meetup{
		CreatedBy:       hostID,
		CategoryID:      subCategory.CategoryID,
		SubCategoryID:   subCategory.ID,
		Location:        input.Location,
		Time:            input.Time,
		GroupSize:       groupSize,
		PreferredGender: input.PreferredGender,
		PreferredAgeMin: input.PreferredAgeMin,
		PreferredAgeMax: input.PreferredAgeMax,
	}
	if input.Date != "" {
		date, err := parseMeetupDate(input.Date)
		if err != nil {
			return nil, err
		}
		meetup.Date = date
	}

	err = s.uow.Do(func(tx repository.RepositorySet) error {
		if subCategory.Price.IsPositive() {
			description := fmt.Sprintf("Hosting fee for %s meetup", subCategory.Name)
			if _, err := DebitWallet(tx.Wallets, hostID, subCategory.Price, description); err != nil {
				return err
			}
		}
		return tx.Meetups.Create(meetup)
	})
	if err != nil {
		return nil, err
	}
	return meetup, nil
}

// GetMeetup returns one meetup with its host and subcategory.
func (s *MeetupService) GetMeetup(meetupID uint) (*models.Meetup, error) {
	meetup, err := s.meetupRepo.FindByID(meetupID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMeetupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load meetup: %w", err)
	}
	return meetup, nil
}
