package models

import (
	"time"

	"gorm.io/gorm"
)

// Urgency is the food bank's declared priority for a posting.
type Urgency string

const (
	UrgencyLow    Urgency = "Low"
	UrgencyMedium Urgency = "Medium"
	UrgencyHigh   Urgency = "High"
)

// Valid reports whether u is one of the closed urgency values.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	}
	return false
}

// Posting is a food bank's declared need for a food item. QuantityNeeded is
// the remaining (unfulfilled) quantity in pounds; it is decremented when a
// meetup is scheduled and restored when one resolves as not completed. It is
// never allowed to go negative.
//
// Dates are stored as zero-padded YYYY-MM-DD and times as zero-padded HH:MM,
// so lexicographic comparison matches chronological order.
type Posting struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	FoodBankID     uint           `gorm:"index;not null" json:"food_bank_id"`
	FoodName       string         `gorm:"size:200;not null" json:"food_name"`
	Urgency        Urgency        `gorm:"size:20;default:Medium" json:"urgency"`
	QuantityNeeded float64        `gorm:"not null" json:"qty_needed"`
	FromDate       string         `gorm:"size:10;not null" json:"from_date"`
	ToDate         string         `gorm:"size:10;not null" json:"to_date"`
	FromTime       string         `gorm:"size:5;not null" json:"from_time"`
	ToTime         string         `gorm:"size:5;not null" json:"to_time"`
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Posting) TableName() string { return "donation_postings" }
