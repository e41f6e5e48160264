package models

import (
	"time"
)

// CompletionStatus tracks a meetup through its lifecycle. The only legal
// transitions are pending -> completed and pending -> not_completed; both
// targets are terminal.
type CompletionStatus string

const (
	CompletionPending      CompletionStatus = "pending"
	CompletionCompleted    CompletionStatus = "completed"
	CompletionNotCompleted CompletionStatus = "not_completed"
)

// Valid reports whether s is one of the closed completion values.
func (s CompletionStatus) Valid() bool {
	switch s {
	case CompletionPending, CompletionCompleted, CompletionNotCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted from s.
func (s CompletionStatus) Terminal() bool {
	return s == CompletionCompleted || s == CompletionNotCompleted
}

// CanTransitionTo reports whether s -> next is a legal transition.
func (s CompletionStatus) CanTransitionTo(next CompletionStatus) bool {
	return s == CompletionPending && next.Terminal()
}

// Meetup is a scheduled appointment where a donor delivers a pledged
// quantity against a posting. Quantity is fixed at creation and never
// changes. The posting reference is a back-reference, not ownership:
// deleting the posting leaves the meetup record intact for history.
type Meetup struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	PostingID        uint             `gorm:"index;not null" json:"posting_id"`
	DonorID          uint             `gorm:"index;not null" json:"donor_id"`
	FoodBankID       uint             `gorm:"index;not null" json:"food_bank_id"`
	DonationItem     string           `gorm:"size:200" json:"donation_item"`
	Quantity         float64          `gorm:"not null" json:"quantity"`
	ScheduledDate    string           `gorm:"size:10;not null" json:"scheduled_date"`
	ScheduledTime    string           `gorm:"size:5;not null" json:"scheduled_time"`
	Completed        bool             `gorm:"default:false" json:"completed"`
	CompletionStatus CompletionStatus `gorm:"size:20;default:pending;index" json:"completion_status"`
	CompletedAt      *time.Time       `json:"completed_at"`
	CreatedAt        time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

func (Meetup) TableName() string { return "meetups" }
