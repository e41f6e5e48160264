package services

import (
	"errors"
	"time"

	"github.com/nathantkn/restockd/internal/models"
	"github.com/nathantkn/restockd/pkg/apperrors"
	"gorm.io/gorm"
)

// Leaderboard timeframes.
const (
	TimeframeWeek    = "week"
	TimeframeMonth   = "month"
	TimeframeAllTime = "alltime"
)

// AggregatorService composes read-side views that join meetups with users
// and postings: donor counts, donation history, the leaderboard and the
// food bank directory. All views go through the view cache; joins degrade
// per row so one missing record never empties a whole response.
type AggregatorService struct {
	db    *gorm.DB
	cache *ViewCache
	now   func() time.Time
}

func NewAggregatorService(db *gorm.DB, cache *ViewCache) *AggregatorService {
	return &AggregatorService{db: db, cache: cache, now: time.Now}
}

// DonorCount is the number of donors with a pending meetup against a posting.
type DonorCount struct {
	PostingID  uint  `json:"posting_id"`
	DonorCount int64 `json:"donor_count"`
}

// HistoryEntry is one meetup in a donor's history, annotated with the
// posting and food bank it was scheduled against and any open reschedule
// proposal. Annotation fields fall back to placeholders when the source
// record is gone.
type HistoryEntry struct {
	MeetupID         uint                      `json:"meetup_id"`
	PostingID        uint                      `json:"posting_id"`
	DonationItem     string                    `json:"donation_item"`
	Quantity         float64                   `json:"quantity"`
	ScheduledDate    string                    `json:"scheduled_date"`
	ScheduledTime    string                    `json:"scheduled_time"`
	CompletionStatus models.CompletionStatus   `json:"completion_status"`
	FoodBankName     string                    `json:"food_bank_name"`
	Urgency          models.Urgency            `json:"urgency"`
	PendingRequest   *models.TimeChangeRequest `json:"pending_request,omitempty"`
}

// LeaderboardRow is one donor's standing for a timeframe.
type LeaderboardRow struct {
	DonorID      uint    `json:"donor_id"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	TotalMeetups int64   `json:"total_meetups"`
	TotalWeight  float64 `json:"total_weight"`
}

// FoodBankEntry is one food bank in the public directory.
type FoodBankEntry struct {
	ID             uint   `json:"id"`
	OrgName        string `json:"org_name"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	ActivePostings int64  `json:"active_postings"`
	PendingMeetups int64  `json:"pending_meetups"`
}

// PostingDonorCount returns how many distinct donors hold a pending meetup
// against the posting.
func (s *AggregatorService) PostingDonorCount(postingID uint) (*DonorCount, error) {
	key := donorCountKey(postingID)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*DonorCount), nil
	}

	var count int64
	if err := s.db.Model(&models.Meetup{}).
		Where("posting_id = ? AND completion_status = ?", postingID, models.CompletionPending).
		Distinct("donor_id").
		Count(&count).Error; err != nil {
		return nil, apperrors.NewDependency("failed to count donors", err)
	}

	result := &DonorCount{PostingID: postingID, DonorCount: count}
	s.cache.Set(key, result)
	return result, nil
}

// DonorHistory returns a donor's meetups, latest scheduled moment first,
// each annotated with posting urgency, food bank name, and the open
// reschedule proposal if one exists. A missing posting or food bank
// degrades that row's annotations instead of failing the view.
func (s *AggregatorService) DonorHistory(donorID uint) ([]HistoryEntry, error) {
	key := donorHistoryKey(donorID)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]HistoryEntry), nil
	}

	var meetups []models.Meetup
	if err := s.db.Where("donor_id = ?", donorID).
		Order("scheduled_date DESC, scheduled_time DESC").
		Find(&meetups).Error; err != nil {
		return nil, apperrors.NewDependency("failed to load donor history", err)
	}

	history := make([]HistoryEntry, 0, len(meetups))
	for _, m := range meetups {
		entry := HistoryEntry{
			MeetupID:         m.ID,
			PostingID:        m.PostingID,
			DonationItem:     m.DonationItem,
			Quantity:         m.Quantity,
			ScheduledDate:    m.ScheduledDate,
			ScheduledTime:    m.ScheduledTime,
			CompletionStatus: m.CompletionStatus,
			FoodBankName:     "Unknown",
		}

		var posting models.Posting
		if err := s.db.Unscoped().First(&posting, m.PostingID).Error; err == nil {
			entry.Urgency = posting.Urgency
		}
		var bank models.User
		if err := s.db.First(&bank, m.FoodBankID).Error; err == nil {
			entry.FoodBankName = bank.DisplayName()
		}
		var pending models.TimeChangeRequest
		if err := s.db.Where("meetup_id = ? AND status = ?", m.ID, models.RequestPending).
			First(&pending).Error; err == nil {
			entry.PendingRequest = &pending
		}

		history = append(history, entry)
	}

	s.cache.Set(key, history)
	return history, nil
}

// Leaderboard ranks donors by completed meetups within the timeframe,
// heaviest contribution first, donor id breaking ties. Only meetups
// resolved as completed count; the window is measured from CompletedAt.
func (s *AggregatorService) Leaderboard(timeframe string) ([]LeaderboardRow, error) {
	switch timeframe {
	case TimeframeWeek, TimeframeMonth, TimeframeAllTime:
	case "":
		timeframe = TimeframeAllTime
	default:
		return nil, apperrors.NewValidation("timeframe must be week, month or alltime")
	}

	key := leaderboardKey(timeframe)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]LeaderboardRow), nil
	}

	query := s.db.Model(&models.Meetup{}).
		Select("donor_id, COUNT(*) AS total_meetups, SUM(quantity) AS total_weight").
		Where("completion_status = ?", models.CompletionCompleted).
		Group("donor_id").
		Order("total_weight DESC, donor_id ASC")

	now := s.now()
	switch timeframe {
	case TimeframeWeek:
		query = query.Where("completed_at >= ?", now.AddDate(0, 0, -7))
	case TimeframeMonth:
		query = query.Where("completed_at >= ?", now.AddDate(0, 0, -30))
	}

	var totals []struct {
		DonorID      uint
		TotalMeetups int64
		TotalWeight  float64
	}
	if err := query.Scan(&totals).Error; err != nil {
		return nil, apperrors.NewDependency("failed to aggregate leaderboard", err)
	}

	rows := make([]LeaderboardRow, 0, len(totals))
	for _, t := range totals {
		row := LeaderboardRow{
			DonorID:      t.DonorID,
			FirstName:    "Unknown",
			TotalMeetups: t.TotalMeetups,
			TotalWeight:  t.TotalWeight,
		}
		var donor models.User
		if err := s.db.First(&donor, t.DonorID).Error; err == nil {
			row.FirstName = donor.FirstName
			row.LastName = donor.LastName
		}
		rows = append(rows, row)
	}

	s.cache.Set(key, rows)
	return rows, nil
}

// FoodBankDirectory lists food bank accounts with their live posting and
// pending meetup counts.
func (s *AggregatorService) FoodBankDirectory() ([]FoodBankEntry, error) {
	if cached, ok := s.cache.Get(cacheKeyFoodBanks); ok {
		return cached.([]FoodBankEntry), nil
	}

	var banks []models.User
	if err := s.db.Where("role = ? AND is_active = ?", models.RoleFoodBank, true).
		Order("id ASC").
		Find(&banks).Error; err != nil {
		return nil, apperrors.NewDependency("failed to list food banks", err)
	}

	entries := make([]FoodBankEntry, 0, len(banks))
	for _, b := range banks {
		entry := FoodBankEntry{
			ID:      b.ID,
			OrgName: b.DisplayName(),
			Address: b.Address,
			Phone:   b.Phone,
		}
		// Counts degrade to zero rather than failing the directory.
		var postings int64
		if err := s.db.Model(&models.Posting{}).
			Where("food_bank_id = ?", b.ID).
			Count(&postings).Error; err == nil {
			entry.ActivePostings = postings
		}
		var pending int64
		if err := s.db.Model(&models.Meetup{}).
			Where("food_bank_id = ? AND completion_status = ?", b.ID, models.CompletionPending).
			Count(&pending).Error; err == nil {
			entry.PendingMeetups = pending
		}
		entries = append(entries, entry)
	}

	s.cache.Set(cacheKeyFoodBanks, entries)
	return entries, nil
}

// DonorProfile returns a donor's public profile with lifetime totals.
func (s *AggregatorService) DonorProfile(donorID uint) (*LeaderboardRow, error) {
	var donor models.User
	if err := s.db.First(&donor, donorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("donor not found")
		}
		return nil, apperrors.NewDependency("failed to load donor", err)
	}

	row := &LeaderboardRow{
		DonorID:   donor.ID,
		FirstName: donor.FirstName,
		LastName:  donor.LastName,
	}

	var total struct {
		TotalMeetups int64
		TotalWeight  float64
	}
	if err := s.db.Model(&models.Meetup{}).
		Select("COUNT(*) AS total_meetups, COALESCE(SUM(quantity), 0) AS total_weight").
		Where("donor_id = ? AND completion_status = ?", donorID, models.CompletionCompleted).
		Scan(&total).Error; err == nil {
		row.TotalMeetups = total.TotalMeetups
		row.TotalWeight = total.TotalWeight
	}

	return row, nil
}
