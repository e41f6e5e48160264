package services

import (
	"errors"
	"time"

	"github.com/nathantkn/restockd/internal/models"
	"github.com/nathantkn/restockd/pkg/apperrors"
	"gorm.io/gorm"
)

// MeetupService owns scheduled appointments and the quantity accounting
// they share with postings. Scheduling and completion both run as single
// store transactions so the meetup write and the posting quantity change
// are visible together or not at all.
type MeetupService struct {
	db    *gorm.DB
	cache *ViewCache
	now   func() time.Time
}

func NewMeetupService(db *gorm.DB, cache *ViewCache) *MeetupService {
	return &MeetupService{db: db, cache: cache, now: time.Now}
}

type ScheduleMeetupRequest struct {
	PostingID     uint    `json:"posting_id" binding:"required"`
	Quantity      float64 `json:"quantity" binding:"required"`
	ScheduledDate string  `json:"scheduled_date" binding:"required"`
	ScheduledTime string  `json:"scheduled_time" binding:"required"`
}

type MeetupListRequest struct {
	PostingID  uint   `form:"posting_id"`
	DonorID    uint   `form:"donor_id"`
	FoodBankID uint   `form:"food_bank_id"`
	Completed  *bool  `form:"completed"`
	Status     string `form:"status"`
}

// Schedule books a meetup against a posting. The quantity check and the
// remaining-quantity decrement are a single conditional update, so two
// concurrent schedules can never jointly overcommit a posting: whichever
// lands second finds the remainder already reduced and fails validation.
func (s *MeetupService) Schedule(donorID uint, req *ScheduleMeetupRequest) (*models.Meetup, error) {
	if req.Quantity <= 0 {
		return nil, apperrors.NewValidation("donation quantity must be greater than 0")
	}
	if err := parseDate(req.ScheduledDate); err != nil {
		return nil, err
	}
	if err := parseClock(req.ScheduledTime); err != nil {
		return nil, err
	}

	var meetup models.Meetup
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var posting models.Posting
		if err := tx.First(&posting, req.PostingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFound("posting not found")
			}
			return apperrors.NewDependency("failed to load posting", err)
		}

		if req.ScheduledDate < posting.FromDate || req.ScheduledDate > posting.ToDate {
			return apperrors.NewValidation("meeting date must be within the posting availability window")
		}
		if req.ScheduledTime < posting.FromTime || req.ScheduledTime > posting.ToTime {
			return apperrors.NewValidation("meeting time must be within the posting availability window")
		}
		if req.Quantity > posting.QuantityNeeded {
			return apperrors.NewValidation("donation quantity exceeds quantity needed")
		}

		// Conditional decrement: guards against a concurrent schedule that
		// consumed the remainder after the read above.
		res := tx.Model(&models.Posting{}).
			Where("id = ? AND quantity_needed >= ?", posting.ID, req.Quantity).
			UpdateColumn("quantity_needed", gorm.Expr("quantity_needed - ?", req.Quantity))
		if res.Error != nil {
			return apperrors.NewDependency("failed to reserve quantity", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NewValidation("donation quantity exceeds quantity needed")
		}

		meetup = models.Meetup{
			PostingID:        posting.ID,
			DonorID:          donorID,
			FoodBankID:       posting.FoodBankID,
			DonationItem:     posting.FoodName,
			Quantity:         req.Quantity,
			ScheduledDate:    req.ScheduledDate,
			ScheduledTime:    req.ScheduledTime,
			CompletionStatus: models.CompletionPending,
		}
		if err := tx.Create(&meetup).Error; err != nil {
			return apperrors.NewDependency("failed to store meetup", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.invalidateMeetupViews(meetup.PostingID, donorID)
	return &meetup, nil
}

// SetCompletion resolves a pending meetup as completed or not_completed.
// Both outcomes are terminal; a second call reports a conflict. A
// not_completed outcome restores the pledged quantity to the owning posting
// in the same transaction. If the posting was deleted in the interim the
// restoration silently becomes a no-op but the meetup still resolves.
func (s *MeetupService) SetCompletion(meetupID uint, outcome models.CompletionStatus) (*models.Meetup, error) {
	if !outcome.Terminal() {
		return nil, apperrors.NewValidation("outcome must be completed or not_completed")
	}

	var meetup models.Meetup
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&meetup, meetupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFound("meetup not found")
			}
			return apperrors.NewDependency("failed to load meetup", err)
		}

		now := s.now()
		// Guarded transition: only a pending meetup may flip, exactly once.
		res := tx.Model(&models.Meetup{}).
			Where("id = ? AND completion_status = ?", meetupID, models.CompletionPending).
			Updates(map[string]interface{}{
				"completion_status": outcome,
				"completed":         true,
				"completed_at":      now,
			})
		if res.Error != nil {
			return apperrors.NewDependency("failed to update meetup", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NewConflict("meetup is already resolved")
		}

		if outcome == models.CompletionNotCompleted {
			// Soft-deleted postings are excluded by gorm, which is exactly
			// the wanted no-op when the posting is gone.
			if err := tx.Model(&models.Posting{}).
				Where("id = ?", meetup.PostingID).
				UpdateColumn("quantity_needed", gorm.Expr("quantity_needed + ?", meetup.Quantity)).Error; err != nil {
				return apperrors.NewDependency("failed to restore posting quantity", err)
			}
		}

		meetup.CompletionStatus = outcome
		meetup.Completed = true
		meetup.CompletedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.invalidateMeetupViews(meetup.PostingID, meetup.DonorID)
	return &meetup, nil
}

// List returns meetups matching the given filters, newest first.
func (s *MeetupService) List(req *MeetupListRequest) ([]models.Meetup, error) {
	query := s.db.Model(&models.Meetup{}).Order("created_at DESC")

	if req.PostingID != 0 {
		query = query.Where("posting_id = ?", req.PostingID)
	}
	if req.DonorID != 0 {
		query = query.Where("donor_id = ?", req.DonorID)
	}
	if req.FoodBankID != 0 {
		query = query.Where("food_bank_id = ?", req.FoodBankID)
	}
	if req.Completed != nil {
		query = query.Where("completed = ?", *req.Completed)
	}
	if req.Status != "" {
		status := models.CompletionStatus(req.Status)
		if !status.Valid() {
			return nil, apperrors.NewValidation("unknown completion status filter")
		}
		query = query.Where("completion_status = ?", status)
	}

	var meetups []models.Meetup
	if err := query.Find(&meetups).Error; err != nil {
		return nil, apperrors.NewDependency("failed to list meetups", err)
	}
	return meetups, nil
}

// GetByID returns a meetup by id.
func (s *MeetupService) GetByID(id uint) (*models.Meetup, error) {
	var meetup models.Meetup
	if err := s.db.First(&meetup, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("meetup not found")
		}
		return nil, apperrors.NewDependency("failed to load meetup", err)
	}
	return &meetup, nil
}
