package services

import (
	"testing"

	"github.com/nathantkn/restockd/internal/models"
	"github.com/nathantkn/restockd/pkg/apperrors"
	"gorm.io/gorm"
)

func newPostingFixture(t *testing.T) (*PostingService, *gorm.DB, *models.User) {
	t.Helper()
	db := newTestDB(t)
	cache := newTestCache(t)
	bank := createTestFoodBank(t, db, "bank@harvest.org")
	return NewPostingService(db, cache, nil), db, bank
}

func validCreateRequest() *CreatePostingRequest {
	return &CreatePostingRequest{
		FoodName:       "Rice",
		Urgency:        models.UrgencyHigh,
		QuantityNeeded: 50,
		FromDate:       "2030-01-01",
		ToDate:         "2030-01-31",
		FromTime:       "09:00",
		ToTime:         "17:00",
	}
}

func TestCreatePosting(t *testing.T) {
	svc, _, bank := newPostingFixture(t)

	posting, err := svc.Create(bank.ID, validCreateRequest())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if posting.ID == 0 {
		t.Error("posting should have an id")
	}
	if posting.FoodBankID != bank.ID {
		t.Errorf("FoodBankID = %d, expected %d", posting.FoodBankID, bank.ID)
	}
	if posting.QuantityNeeded != 50 {
		t.Errorf("QuantityNeeded = %v, expected 50", posting.QuantityNeeded)
	}
}

func TestCreatePosting_DefaultsUrgency(t *testing.T) {
	svc, _, bank := newPostingFixture(t)

	req := validCreateRequest()
	req.Urgency = ""
	posting, err := svc.Create(bank.ID, req)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if posting.Urgency != models.UrgencyMedium {
		t.Errorf("Urgency = %q, expected default Medium", posting.Urgency)
	}
}

func TestCreatePosting_Validation(t *testing.T) {
	svc, _, bank := newPostingFixture(t)

	cases := []struct {
		name   string
		mutate func(*CreatePostingRequest)
	}{
		{"unknown urgency", func(r *CreatePostingRequest) { r.Urgency = "Critical" }},
		{"zero quantity", func(r *CreatePostingRequest) { r.QuantityNeeded = 0 }},
		{"negative quantity", func(r *CreatePostingRequest) { r.QuantityNeeded = -3 }},
		{"malformed from date", func(r *CreatePostingRequest) { r.FromDate = "2030-1-1" }},
		{"malformed to time", func(r *CreatePostingRequest) { r.ToTime = "5pm" }},
		{"window end before start", func(r *CreatePostingRequest) { r.ToDate = "2029-12-01" }},
		{"same-day end time before start", func(r *CreatePostingRequest) {
			r.ToDate = r.FromDate
			r.FromTime = "14:00"
			r.ToTime = "09:00"
		}},
		{"window in the past", func(r *CreatePostingRequest) {
			r.FromDate = "2020-01-01"
			r.ToDate = "2020-01-31"
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(req)
			if _, err := svc.Create(bank.ID, req); !apperrors.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestListPostings_AnnotatesDonorCounts(t *testing.T) {
	svc, db, bank := newPostingFixture(t)
	donor := createTestDonor(t, db, "alex@donors.org")

	posting := createTestPosting(t, db, bank.ID, 100)
	createTestMeetup(t, db, posting, donor.ID, 10)
	createTestMeetup(t, db, posting, donor.ID, 5)

	list, err := svc.List(0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 posting, got %d", len(list))
	}
	if list[0].DonorCount != 2 {
		t.Errorf("DonorCount = %d, expected 2", list[0].DonorCount)
	}
}

func TestListPostings_CacheInvalidatedByWrite(t *testing.T) {
	svc, _, bank := newPostingFixture(t)

	first, err := svc.List(0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(first) != 0 {
		t.Fatalf("expected empty list, got %d", len(first))
	}

	if _, err := svc.Create(bank.ID, validCreateRequest()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	second, err := svc.List(0)
	if err != nil {
		t.Fatalf("List after create failed: %v", err)
	}
	if len(second) != 1 {
		t.Errorf("expected fresh list with 1 posting, got %d", len(second))
	}
}

func TestDeletePosting(t *testing.T) {
	svc, db, bank := newPostingFixture(t)
	posting := createTestPosting(t, db, bank.ID, 100)

	if err := svc.Delete(posting.ID, bank.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := svc.GetByID(posting.ID); !apperrors.IsNotFound(err) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestDeletePosting_BlockedByPendingMeetup(t *testing.T) {
	svc, db, bank := newPostingFixture(t)
	donor := createTestDonor(t, db, "alex@donors.org")
	posting := createTestPosting(t, db, bank.ID, 100)
	createTestMeetup(t, db, posting, donor.ID, 10)

	if err := svc.Delete(posting.ID, bank.ID); !apperrors.IsConflict(err) {
		t.Fatalf("expected conflict while meetup is pending, got %v", err)
	}
}

func TestDeletePosting_AllowedOnceMeetupsResolved(t *testing.T) {
	svc, db, bank := newPostingFixture(t)
	cache := newTestCache(t)
	meetups := NewMeetupService(db, cache)
	donor := createTestDonor(t, db, "alex@donors.org")
	posting := createTestPosting(t, db, bank.ID, 100)
	meetup := createTestMeetup(t, db, posting, donor.ID, 10)

	if _, err := meetups.SetCompletion(meetup.ID, models.CompletionCompleted); err != nil {
		t.Fatalf("SetCompletion failed: %v", err)
	}
	if err := svc.Delete(posting.ID, bank.ID); err != nil {
		t.Fatalf("Delete after resolution failed: %v", err)
	}

	// Resolved meetups are history and survive the deletion.
	var surviving models.Meetup
	if err := db.First(&surviving, meetup.ID).Error; err != nil {
		t.Errorf("resolved meetup should survive posting deletion: %v", err)
	}
}

func TestDeletePosting_OwnershipEnforced(t *testing.T) {
	svc, db, bank := newPostingFixture(t)
	other := createTestFoodBank(t, db, "other@pantry.org")
	posting := createTestPosting(t, db, bank.ID, 100)

	if err := svc.Delete(posting.ID, other.ID); !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found for foreign food bank, got %v", err)
	}
	if err := svc.Delete(9999, bank.ID); !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found for missing posting, got %v", err)
	}
}
