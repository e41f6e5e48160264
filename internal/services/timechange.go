package services

import (
	"errors"
	"time"

	"github.com/nathantkn/restockd/internal/models"
	"github.com/nathantkn/restockd/pkg/apperrors"
	"gorm.io/gorm"
)

// TimeChangeService runs the reschedule handshake: a food bank proposes a
// new date/time for a meetup, the donor approves or rejects. The meetup is
// only rewritten on approval, and only one proposal per meetup may be open
// at a time.
type TimeChangeService struct {
	db    *gorm.DB
	cache *ViewCache
	now   func() time.Time
}

func NewTimeChangeService(db *gorm.DB, cache *ViewCache) *TimeChangeService {
	return &TimeChangeService{db: db, cache: cache, now: time.Now}
}

type CreateTimeChangeRequest struct {
	MeetupID uint   `json:"meetup_id" binding:"required"`
	NewDate  string `json:"new_date" binding:"required"`
	NewTime  string `json:"new_time" binding:"required"`
	Reason   string `json:"reason"`
}

type RespondTimeChangeRequest struct {
	Action string `json:"action" binding:"required"` // "approve" or "reject"
}

type TimeChangeListRequest struct {
	MeetupID   uint   `form:"meetup_id"`
	DonorID    uint   `form:"donor_id"`
	FoodBankID uint   `form:"food_bank_id"`
	Status     string `form:"status"`
}

// Create opens a reschedule proposal for a pending meetup. The unique
// pending key turns a concurrent duplicate into a store-level duplicate-key
// failure, which surfaces as the same conflict a sequential duplicate gets.
func (s *TimeChangeService) Create(foodBankID uint, req *CreateTimeChangeRequest) (*models.TimeChangeRequest, error) {
	if err := parseDate(req.NewDate); err != nil {
		return nil, err
	}
	if err := parseClock(req.NewTime); err != nil {
		return nil, err
	}
	if err := validateFutureMoment(s.now(), req.NewDate, req.NewTime, "proposed"); err != nil {
		return nil, err
	}

	var tcr models.TimeChangeRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var meetup models.Meetup
		if err := tx.First(&meetup, req.MeetupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFound("meetup not found")
			}
			return apperrors.NewDependency("failed to load meetup", err)
		}
		if foodBankID != 0 && meetup.FoodBankID != foodBankID {
			return apperrors.NewNotFound("meetup not found")
		}
		if meetup.CompletionStatus != models.CompletionPending {
			return apperrors.NewConflict("meetup is already resolved")
		}

		pendingKey := meetup.ID
		tcr = models.TimeChangeRequest{
			MeetupID:   meetup.ID,
			FoodBankID: meetup.FoodBankID,
			NewDate:    req.NewDate,
			NewTime:    req.NewTime,
			Reason:     req.Reason,
			Status:     models.RequestPending,
			PendingKey: &pendingKey,
		}
		if err := tx.Create(&tcr).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.NewConflict("meetup already has a pending time change request")
			}
			return apperrors.NewDependency("failed to store time change request", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The donor's history view annotates open proposals.
	s.cache.InvalidatePrefix(cacheKeyDonorHistory)
	return &tcr, nil
}

// Respond resolves a pending proposal. Approval copies the proposed
// date/time onto the meetup in the same transaction that marks the request
// approved; rejection only flips the request. Either way the pending key is
// cleared so a new proposal may follow.
func (s *TimeChangeService) Respond(requestID uint, donorID uint, req *RespondTimeChangeRequest) (*models.TimeChangeRequest, error) {
	var next models.RequestStatus
	switch req.Action {
	case "approve":
		next = models.RequestApproved
	case "reject":
		next = models.RequestRejected
	default:
		return nil, apperrors.NewValidation("action must be approve or reject")
	}

	var tcr models.TimeChangeRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&tcr, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFound("time change request not found")
			}
			return apperrors.NewDependency("failed to load time change request", err)
		}

		var meetup models.Meetup
		if err := tx.First(&meetup, tcr.MeetupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFound("meetup not found")
			}
			return apperrors.NewDependency("failed to load meetup", err)
		}
		if donorID != 0 && meetup.DonorID != donorID {
			return apperrors.NewNotFound("time change request not found")
		}

		// Guarded flip: only a pending request resolves, exactly once.
		res := tx.Model(&models.TimeChangeRequest{}).
			Where("id = ? AND status = ?", requestID, models.RequestPending).
			Updates(map[string]interface{}{
				"status":      next,
				"pending_key": nil,
			})
		if res.Error != nil {
			return apperrors.NewDependency("failed to update time change request", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NewConflict("time change request is already resolved")
		}

		if next == models.RequestApproved {
			if meetup.CompletionStatus != models.CompletionPending {
				return apperrors.NewConflict("meetup is already resolved")
			}
			if err := tx.Model(&models.Meetup{}).
				Where("id = ?", meetup.ID).
				Updates(map[string]interface{}{
					"scheduled_date": tcr.NewDate,
					"scheduled_time": tcr.NewTime,
				}).Error; err != nil {
				return apperrors.NewDependency("failed to reschedule meetup", err)
			}
		}

		tcr.Status = next
		tcr.PendingKey = nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidatePrefix(cacheKeyDonorHistory)
	return &tcr, nil
}

// List returns time change requests matching the filters, newest first. The
// donor filter joins through meetups since requests only carry the food
// bank side directly.
func (s *TimeChangeService) List(req *TimeChangeListRequest) ([]models.TimeChangeRequest, error) {
	query := s.db.Model(&models.TimeChangeRequest{}).Order("meetup_time_change_requests.created_at DESC")

	if req.MeetupID != 0 {
		query = query.Where("meetup_time_change_requests.meetup_id = ?", req.MeetupID)
	}
	if req.FoodBankID != 0 {
		query = query.Where("meetup_time_change_requests.food_bank_id = ?", req.FoodBankID)
	}
	if req.DonorID != 0 {
		query = query.
			Joins("JOIN meetups ON meetups.id = meetup_time_change_requests.meetup_id").
			Where("meetups.donor_id = ?", req.DonorID)
	}
	if req.Status != "" {
		status := models.RequestStatus(req.Status)
		if !status.Valid() {
			return nil, apperrors.NewValidation("unknown request status filter")
		}
		query = query.Where("meetup_time_change_requests.status = ?", status)
	}

	var requests []models.TimeChangeRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, apperrors.NewDependency("failed to list time change requests", err)
	}
	return requests, nil
}
