package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/nathantkn/restockd/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Posting{},
		&models.Meetup{},
		&models.TimeChangeRequest{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// newTestCache returns a view cache that is torn down with the test.
func newTestCache(t *testing.T) *ViewCache {
	t.Helper()
	cache := NewViewCache(30 * time.Second)
	t.Cleanup(cache.Close)
	return cache
}

func createTestFoodBank(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	bank := &models.User{
		Email:    email,
		Role:     models.RoleFoodBank,
		OrgName:  "Harvest Share",
		Address:  "12 Mill Road",
		Phone:    "555-0100",
		IsActive: true,
	}
	if err := db.Create(bank).Error; err != nil {
		t.Fatalf("failed to create food bank: %v", err)
	}
	return bank
}

func createTestDonor(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	donor := &models.User{
		Email:     email,
		Role:      models.RoleDonor,
		FirstName: "Alex",
		LastName:  "Rivera",
		IsActive:  true,
	}
	if err := db.Create(donor).Error; err != nil {
		t.Fatalf("failed to create donor: %v", err)
	}
	return donor
}

func createTestPosting(t *testing.T, db *gorm.DB, foodBankID uint, quantity float64) *models.Posting {
	t.Helper()
	posting := &models.Posting{
		FoodBankID:     foodBankID,
		FoodName:       "Canned Beans",
		Urgency:        models.UrgencyHigh,
		QuantityNeeded: quantity,
		FromDate:       "2030-01-01",
		ToDate:         "2030-12-31",
		FromTime:       "08:00",
		ToTime:         "18:00",
	}
	if err := db.Create(posting).Error; err != nil {
		t.Fatalf("failed to create posting: %v", err)
	}
	return posting
}

func createTestMeetup(t *testing.T, db *gorm.DB, posting *models.Posting, donorID uint, quantity float64) *models.Meetup {
	t.Helper()
	meetup := &models.Meetup{
		PostingID:        posting.ID,
		DonorID:          donorID,
		FoodBankID:       posting.FoodBankID,
		DonationItem:     posting.FoodName,
		Quantity:         quantity,
		ScheduledDate:    "2030-06-15",
		ScheduledTime:    "10:00",
		CompletionStatus: models.CompletionPending,
	}
	if err := db.Create(meetup).Error; err != nil {
		t.Fatalf("failed to create meetup: %v", err)
	}
	return meetup
}

func postingQuantity(t *testing.T, db *gorm.DB, id uint) float64 {
	t.Helper()
	var posting models.Posting
	if err := db.Unscoped().First(&posting, id).Error; err != nil {
		t.Fatalf("failed to reload posting: %v", err)
	}
	return posting.QuantityNeeded
}
