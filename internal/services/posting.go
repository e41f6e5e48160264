package services

import (
	"errors"
	"time"

	"github.com/nathantkn/restockd/internal/models"
	"github.com/nathantkn/restockd/pkg/apperrors"
	"gorm.io/gorm"
)

// PostingService owns donation postings and their remaining-quantity
// accounting. The decrement/restore paths live in MeetupService because they
// must share a transaction with the meetup writes.
type PostingService struct {
	db    *gorm.DB
	cache *ViewCache
	queue TaskQueue
	now   func() time.Time
}

func NewPostingService(db *gorm.DB, cache *ViewCache, queue TaskQueue) *PostingService {
	return &PostingService{db: db, cache: cache, queue: queue, now: time.Now}
}

type CreatePostingRequest struct {
	FoodName       string         `json:"food_name" binding:"required"`
	Urgency        models.Urgency `json:"urgency"`
	QuantityNeeded float64        `json:"qty_needed" binding:"required"`
	FromDate       string         `json:"from_date" binding:"required"`
	ToDate         string         `json:"to_date" binding:"required"`
	FromTime       string         `json:"from_time" binding:"required"`
	ToTime         string         `json:"to_time" binding:"required"`
}

// PostingWithDonors is a posting annotated with its count of currently
// scheduled (pending) meetups.
type PostingWithDonors struct {
	models.Posting
	DonorCount int64 `json:"donor_count"`
}

// Create validates the availability window and registers a new posting.
func (s *PostingService) Create(foodBankID uint, req *CreatePostingRequest) (*models.Posting, error) {
	if req.Urgency == "" {
		req.Urgency = models.UrgencyMedium
	}
	if !req.Urgency.Valid() {
		return nil, apperrors.NewValidation("urgency must be Low, Medium or High")
	}
	if req.QuantityNeeded <= 0 {
		return nil, apperrors.NewValidation("quantity needed must be greater than 0")
	}
	if err := validateWindow(s.now(), req.FromDate, req.ToDate, req.FromTime, req.ToTime); err != nil {
		return nil, err
	}

	posting := models.Posting{
		FoodBankID:     foodBankID,
		FoodName:       req.FoodName,
		Urgency:        req.Urgency,
		QuantityNeeded: req.QuantityNeeded,
		FromDate:       req.FromDate,
		ToDate:         req.ToDate,
		FromTime:       req.FromTime,
		ToTime:         req.ToTime,
	}

	if err := s.db.Create(&posting).Error; err != nil {
		return nil, apperrors.NewDependency("failed to store posting", err)
	}

	s.cache.InvalidatePrefix(cacheKeyPostingList)
	s.cache.Invalidate(cacheKeyFoodBanks)
	s.enqueueIndexRefresh(posting.ID)

	return &posting, nil
}

// GetByID returns a posting by id.
func (s *PostingService) GetByID(id uint) (*models.Posting, error) {
	var posting models.Posting
	if err := s.db.First(&posting, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("posting not found")
		}
		return nil, apperrors.NewDependency("failed to load posting", err)
	}
	return &posting, nil
}

// List returns postings, optionally filtered to one food bank, each
// annotated with its pending donor count. Results are served from the view
// cache until the next meetup or posting write.
func (s *PostingService) List(foodBankID uint) ([]PostingWithDonors, error) {
	key := postingListKey(foodBankID)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]PostingWithDonors), nil
	}

	query := s.db.Model(&models.Posting{}).Order("created_at DESC")
	if foodBankID != 0 {
		query = query.Where("food_bank_id = ?", foodBankID)
	}

	var postings []models.Posting
	if err := query.Find(&postings).Error; err != nil {
		return nil, apperrors.NewDependency("failed to list postings", err)
	}

	result := make([]PostingWithDonors, 0, len(postings))
	for _, p := range postings {
		var count int64
		// A failed count degrades that row to zero rather than failing the list.
		if err := s.db.Model(&models.Meetup{}).
			Where("posting_id = ? AND completion_status = ?", p.ID, models.CompletionPending).
			Count(&count).Error; err != nil {
			count = 0
		}
		result = append(result, PostingWithDonors{Posting: p, DonorCount: count})
	}

	s.cache.Set(key, result)
	return result, nil
}

// Delete removes a posting. It fails with a conflict while any meetup
// against it is still pending; resolved meetups are history and survive the
// deletion (the posting is soft-deleted, never cascaded).
func (s *PostingService) Delete(id uint, foodBankID uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var posting models.Posting
		if err := tx.First(&posting, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFound("posting not found")
			}
			return apperrors.NewDependency("failed to load posting", err)
		}
		if foodBankID != 0 && posting.FoodBankID != foodBankID {
			return apperrors.NewNotFound("posting not found")
		}

		var pending int64
		if err := tx.Model(&models.Meetup{}).
			Where("posting_id = ? AND completion_status = ?", id, models.CompletionPending).
			Count(&pending).Error; err != nil {
			return apperrors.NewDependency("failed to count meetups", err)
		}
		if pending > 0 {
			return apperrors.NewConflict("posting has scheduled meetups awaiting completion")
		}

		if err := tx.Delete(&models.Posting{}, id).Error; err != nil {
			return apperrors.NewDependency("failed to delete posting", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.InvalidatePrefix(cacheKeyPostingList)
	s.cache.Invalidate(donorCountKey(id), cacheKeyFoodBanks)
	s.enqueueIndexRefresh(id)

	return nil
}

func (s *PostingService) enqueueIndexRefresh(postingID uint) {
	if s.queue == nil {
		return
	}
	if err := s.queue.Enqueue(&IndexTask{PostingID: postingID}); err != nil {
		// Index refresh is best effort; the cron rebuild catches up.
		logQueueError(err)
	}
}
