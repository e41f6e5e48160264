package services

import (
	"context"
	"testing"

	"github.com/nathantkn/restockd/internal/models"
)

func seedIndexPostings(t *testing.T) *SearchIndexService {
	t.Helper()
	db := newTestDB(t)
	bank := createTestFoodBank(t, db, "bank@harvest.org")

	for _, name := range []string{"Canned Beans", "canned corn", "Rice", "Pasta"} {
		p := &models.Posting{
			FoodBankID:     bank.ID,
			FoodName:       name,
			Urgency:        models.UrgencyLow,
			QuantityNeeded: 10,
			FromDate:       "2030-01-01",
			ToDate:         "2030-12-31",
			FromTime:       "08:00",
			ToTime:         "18:00",
		}
		if err := db.Create(p).Error; err != nil {
			t.Fatalf("failed to seed posting: %v", err)
		}
	}

	svc := NewSearchIndexService(db)
	if err := svc.Rebuild(); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	return svc
}

func TestAutocomplete_PrefixCaseInsensitive(t *testing.T) {
	svc := seedIndexPostings(t)

	names := svc.Autocomplete("CAN", 10)
	if len(names) != 2 {
		t.Fatalf("expected 2 suggestions, got %v", names)
	}
	if names[0] != "Canned Beans" || names[1] != "canned corn" {
		t.Errorf("suggestions = %v, expected alphabetical canned items", names)
	}
}

func TestAutocomplete_Limit(t *testing.T) {
	svc := seedIndexPostings(t)

	names := svc.Autocomplete("", 2)
	if len(names) != 2 {
		t.Errorf("expected limit of 2 suggestions, got %v", names)
	}
}

func TestSearch_Substring(t *testing.T) {
	svc := seedIndexPostings(t)

	results := svc.Search("corn")
	if len(results) != 1 || results[0].FoodName != "canned corn" {
		t.Errorf("results = %+v, expected the corn posting", results)
	}

	if got := svc.Search("zucchini"); len(got) != 0 {
		t.Errorf("expected no results, got %+v", got)
	}
}

func TestProcess_RefreshDropsDeletedPosting(t *testing.T) {
	db := newTestDB(t)
	bank := createTestFoodBank(t, db, "bank@harvest.org")
	posting := createTestPosting(t, db, bank.ID, 10)

	svc := NewSearchIndexService(db)
	if err := svc.Rebuild(); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	if got := svc.Search("beans"); len(got) != 1 {
		t.Fatalf("expected posting in index, got %+v", got)
	}

	if err := db.Delete(&models.Posting{}, posting.ID).Error; err != nil {
		t.Fatalf("failed to delete posting: %v", err)
	}
	if err := svc.Process(context.Background(), &IndexTask{PostingID: posting.ID}); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if got := svc.Search("beans"); len(got) != 0 {
		t.Errorf("deleted posting should drop out of search, got %+v", got)
	}
}

func TestSearch_ColdIndexFallsBackToStore(t *testing.T) {
	db := newTestDB(t)
	bank := createTestFoodBank(t, db, "bank@harvest.org")
	createTestPosting(t, db, bank.ID, 10)

	// No Rebuild: the index is cold and queries must hit the store.
	svc := NewSearchIndexService(db)

	if got := svc.Search("beans"); len(got) != 1 {
		t.Errorf("cold search should fall back to the store, got %+v", got)
	}
	if got := svc.Autocomplete("can", 10); len(got) != 1 || got[0] != "Canned Beans" {
		t.Errorf("cold autocomplete should fall back to the store, got %v", got)
	}
}

func TestProcess_FullRebuildTask(t *testing.T) {
	db := newTestDB(t)
	bank := createTestFoodBank(t, db, "bank@harvest.org")
	createTestPosting(t, db, bank.ID, 10)

	svc := NewSearchIndexService(db)
	if err := svc.Process(context.Background(), &IndexTask{PostingID: 0}); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if got := svc.Search(""); len(got) != 1 {
		t.Errorf("rebuild task should load all postings, got %+v", got)
	}
}
