package models

import (
	"time"
)

// RequestStatus tracks a time-change request. pending -> approved and
// pending -> rejected are the only legal transitions; both are terminal.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// Valid reports whether s is one of the closed request statuses.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected:
		return true
	}
	return false
}

// Terminal reports whether the request has been resolved.
func (s RequestStatus) Terminal() bool {
	return s == RequestApproved || s == RequestRejected
}

// CanTransitionTo reports whether s -> next is a legal transition.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	return s == RequestPending && next.Terminal()
}

// TimeChangeRequest is a food bank's proposal to reschedule a meetup. The
// meetup itself is untouched until the donor approves. At most one request
// per meetup may be pending at any time; resolved requests accumulate as
// history, the most recent by creation time being the "current" one.
type TimeChangeRequest struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	MeetupID   uint          `gorm:"index;not null" json:"meetup_id"`
	FoodBankID uint          `gorm:"index;not null" json:"food_bank_id"`
	NewDate    string        `gorm:"size:10;not null" json:"new_date"`
	NewTime    string        `gorm:"size:5;not null" json:"new_time"`
	Reason     string        `gorm:"size:500" json:"reason"`
	Status     RequestStatus `gorm:"size:20;default:pending;index" json:"status"`
	// PendingKey holds the meetup id while the request is pending and NULL
	// once resolved. The unique index on it is what enforces at most one
	// pending request per meetup at the store level.
	PendingKey *uint     `gorm:"uniqueIndex" json:"-"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (TimeChangeRequest) TableName() string { return "meetup_time_change_requests" }
