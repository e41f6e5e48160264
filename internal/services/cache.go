package services

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Cache key prefixes. Writers invalidate by prefix so a mutation never
// leaves a stale composed view behind.
const (
	cacheKeyPostingDonors = "posting_donors:" // + posting id
	cacheKeyDonorHistory  = "donor_history:"  // + donor id
	cacheKeyLeaderboard   = "leaderboard:"    // + timeframe
	cacheKeyPostingList   = "posting_list:"   // + food bank id ("all" for unfiltered)
	cacheKeyFoodBanks     = "food_banks"
)

type cacheEntry struct {
	value     interface{}
	expiresAt time.Time
}

// ViewCache is a short-lived read-through cache for composed views. Entries
// carry an explicit expiry and are additionally invalidated by the mutating
// services, so a hit is never older than the last relevant write.
type ViewCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	stop    chan struct{}
	once    sync.Once
}

// NewViewCache creates a cache with the given default TTL and starts a
// background janitor that drops expired entries.
func NewViewCache(ttl time.Duration) *ViewCache {
	c := &ViewCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		stop:    make(chan struct{}),
	}
	go c.janitor()
	return c
}

// Get returns the cached value for key if present and not expired.
func (c *ViewCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.value, true
}

// Set stores value under key with the default TTL.
func (c *ViewCache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key with an explicit TTL.
func (c *ViewCache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, expiresAt: time.Now().Add(ttl)}
}

// Invalidate removes the given keys immediately.
func (c *ViewCache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
}

// InvalidatePrefix removes every entry whose key starts with prefix.
func (c *ViewCache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

// Close stops the janitor goroutine.
func (c *ViewCache) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *ViewCache) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for key, entry := range c.entries {
				if now.After(entry.expiresAt) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

func donorCountKey(postingID uint) string {
	return fmt.Sprintf("%s%d", cacheKeyPostingDonors, postingID)
}

func donorHistoryKey(donorID uint) string {
	return fmt.Sprintf("%s%d", cacheKeyDonorHistory, donorID)
}

func leaderboardKey(timeframe string) string {
	return cacheKeyLeaderboard + timeframe
}

func postingListKey(foodBankID uint) string {
	if foodBankID == 0 {
		return cacheKeyPostingList + "all"
	}
	return fmt.Sprintf("%s%d", cacheKeyPostingList, foodBankID)
}

// invalidateMeetupViews drops every composed view a meetup write can touch.
func (c *ViewCache) invalidateMeetupViews(postingID, donorID uint) {
	c.Invalidate(donorCountKey(postingID), donorHistoryKey(donorID), cacheKeyFoodBanks)
	c.InvalidatePrefix(cacheKeyLeaderboard)
	c.InvalidatePrefix(cacheKeyPostingList)
}
