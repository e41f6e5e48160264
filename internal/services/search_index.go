package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/nathantkn/restockd/internal/models"
	"github.com/nathantkn/restockd/pkg/apperrors"
	"github.com/nathantkn/restockd/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// indexEntry is one posting's searchable projection.
type indexEntry struct {
	PostingID uint
	FoodName  string
	Urgency   models.Urgency
	lowered   string
}

// SearchIndexService keeps an in-memory index of live postings for item
// autocomplete and posting search. Writers enqueue refresh tasks after each
// posting mutation; a cron job rebuilds the whole index periodically so the
// index converges even when individual refreshes are lost.
type SearchIndexService struct {
	db            *gorm.DB
	mu            sync.RWMutex
	entries       map[uint]indexEntry
	loaded        bool
	cronScheduler *cron.Cron
}

func NewSearchIndexService(db *gorm.DB) *SearchIndexService {
	return &SearchIndexService{
		db:      db,
		entries: make(map[uint]indexEntry),
	}
}

// SearchResult is one posting hit for a search query.
type SearchResult struct {
	PostingID uint           `json:"posting_id"`
	FoodName  string         `json:"food_name"`
	Urgency   models.Urgency `json:"urgency"`
}

// Process handles one refresh task. PostingID 0 rebuilds everything.
func (s *SearchIndexService) Process(ctx context.Context, task *IndexTask) error {
	if task.PostingID == 0 {
		return s.Rebuild()
	}
	return s.refreshOne(task.PostingID)
}

// Rebuild reloads the whole index from live postings.
func (s *SearchIndexService) Rebuild() error {
	var postings []models.Posting
	if err := s.db.Find(&postings).Error; err != nil {
		return apperrors.NewDependency("failed to load postings for index", err)
	}

	fresh := make(map[uint]indexEntry, len(postings))
	for _, p := range postings {
		fresh[p.ID] = indexEntry{
			PostingID: p.ID,
			FoodName:  p.FoodName,
			Urgency:   p.Urgency,
			lowered:   strings.ToLower(p.FoodName),
		}
	}

	s.mu.Lock()
	s.entries = fresh
	s.loaded = true
	s.mu.Unlock()

	logger.Infof("[SearchIndex] Rebuilt with %d postings", len(fresh))
	return nil
}

// refreshOne reloads a single posting, removing it when it no longer exists
// (deleted postings drop out of search).
func (s *SearchIndexService) refreshOne(postingID uint) error {
	var posting models.Posting
	err := s.db.First(&posting, postingID).Error
	if err != nil {
		s.mu.Lock()
		delete(s.entries, postingID)
		s.mu.Unlock()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apperrors.NewDependency("failed to load posting for index", err)
	}

	s.mu.Lock()
	s.entries[posting.ID] = indexEntry{
		PostingID: posting.ID,
		FoodName:  posting.FoodName,
		Urgency:   posting.Urgency,
		lowered:   strings.ToLower(posting.FoodName),
	}
	s.mu.Unlock()
	return nil
}

// Autocomplete returns up to limit distinct item names with the given
// case-insensitive prefix, alphabetically.
func (s *SearchIndexService) Autocomplete(prefix string, limit int) []string {
	if limit <= 0 {
		limit = 10
	}
	prefix = strings.ToLower(strings.TrimSpace(prefix))

	s.mu.RLock()
	if !s.loaded {
		s.mu.RUnlock()
		return s.autocompleteFromStore(prefix, limit)
	}
	seen := make(map[string]string)
	for _, e := range s.entries {
		if prefix != "" && !strings.HasPrefix(e.lowered, prefix) {
			continue
		}
		seen[e.lowered] = e.FoodName
	}
	s.mu.RUnlock()

	names := make([]string, 0, len(seen))
	for _, name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > limit {
		names = names[:limit]
	}
	return names
}

// Search returns postings whose item name contains the query,
// case-insensitively, ordered by posting id.
func (s *SearchIndexService) Search(query string) []SearchResult {
	query = strings.ToLower(strings.TrimSpace(query))

	s.mu.RLock()
	if !s.loaded {
		s.mu.RUnlock()
		return s.searchFromStore(query)
	}
	results := make([]SearchResult, 0)
	for _, e := range s.entries {
		if query != "" && !strings.Contains(e.lowered, query) {
			continue
		}
		results = append(results, SearchResult{
			PostingID: e.PostingID,
			FoodName:  e.FoodName,
			Urgency:   e.Urgency,
		})
	}
	s.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool { return results[i].PostingID < results[j].PostingID })
	return results
}

// autocompleteFromStore is the cold-index fallback: a LIKE query straight
// against the postings table.
func (s *SearchIndexService) autocompleteFromStore(prefix string, limit int) []string {
	var names []string
	query := s.db.Model(&models.Posting{}).Distinct("food_name").Order("food_name ASC").Limit(limit)
	if prefix != "" {
		query = query.Where("LOWER(food_name) LIKE ?", prefix+"%")
	}
	if err := query.Pluck("food_name", &names).Error; err != nil {
		logger.Warnf("[SearchIndex] Fallback autocomplete failed: %v", err)
		return []string{}
	}
	return names
}

// searchFromStore is the cold-index fallback for posting search.
func (s *SearchIndexService) searchFromStore(query string) []SearchResult {
	var postings []models.Posting
	q := s.db.Order("id ASC")
	if query != "" {
		q = q.Where("LOWER(food_name) LIKE ?", "%"+query+"%")
	}
	if err := q.Find(&postings).Error; err != nil {
		logger.Warnf("[SearchIndex] Fallback search failed: %v", err)
		return []SearchResult{}
	}

	results := make([]SearchResult, 0, len(postings))
	for _, p := range postings {
		results = append(results, SearchResult{PostingID: p.ID, FoodName: p.FoodName, Urgency: p.Urgency})
	}
	return results
}

// StartScheduler begins the periodic full rebuild.
func (s *SearchIndexService) StartScheduler() {
	s.cronScheduler = cron.New()

	if _, err := s.cronScheduler.AddFunc("*/10 * * * *", func() {
		if err := s.Rebuild(); err != nil {
			logger.Warnf("[SearchIndex] Scheduled rebuild failed: %v", err)
		}
	}); err != nil {
		logger.Warnf("[SearchIndex] Failed to add cron job: %v", err)
		return
	}

	s.cronScheduler.Start()
	logger.Infof("[SearchIndex] Scheduler started")
}

// StopScheduler halts the periodic rebuild.
func (s *SearchIndexService) StopScheduler() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
	}
}
