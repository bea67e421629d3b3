// Package service orchestrates pricing cycles over persisted matches.
package service

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/ChrisJamesShevlin/snooker/internal/engine"
	"github.com/ChrisJamesShevlin/snooker/internal/metrics"
)

// SheetKey identifies one priced snapshot of a live match. Two
// snapshots with the same score, cumulative shot counts and book odds
// price identically within the cache TTL; season-stat edits surface
// once the TTL lapses.
type SheetKey struct {
	MatchID uuid.UUID
	FramesA int
	FramesB int
	ShotsA  int
	ShotsB  int
	OddsA   float64
	OddsB   float64
}

// String returns string representation of the sheet key
func (k SheetKey) String() string {
	return fmt.Sprintf("sheet:%s:%d-%d:%d:%d:%g:%g", k.MatchID, k.FramesA, k.FramesB, k.ShotsA, k.ShotsB, k.OddsA, k.OddsB)
}

// InversionKey identifies one pre-match odds inversion
type InversionKey struct {
	OddsA        float64
	OddsB        float64
	TargetFrames int
}

// String returns string representation of the inversion key
func (k InversionKey) String() string {
	return fmt.Sprintf("inv:%g:%g:%d", k.OddsA, k.OddsB, k.TargetFrames)
}

// EvaluationCache provides in-memory caching for price sheets and
// pre-match inversion results
type EvaluationCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewEvaluationCache creates a new evaluation cache
func NewEvaluationCache(ttl, cleanupInterval time.Duration, maxSize int) *EvaluationCache {
	return &EvaluationCache{
		cache:   cache.New(ttl, cleanupInterval),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// GetSheet retrieves a cached price sheet
func (ec *EvaluationCache) GetSheet(key SheetKey) *engine.PriceSheet {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	if result, found := ec.cache.Get(key.String()); found {
		if sheet, ok := result.(*engine.PriceSheet); ok {
			ec.hitCount++
			ec.updateMetricsLocked()
			return sheet
		}
	}

	ec.missCount++
	ec.updateMetricsLocked()
	return nil
}

// SetSheet stores a price sheet in cache
func (ec *EvaluationCache) SetSheet(key SheetKey, sheet *engine.PriceSheet) {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	// Check size limit
	if ec.cache.ItemCount() >= ec.maxSize {
		// Remove expired items first
		ec.cache.DeleteExpired()
	}

	ec.cache.Set(key.String(), sheet, ec.ttl)
}

// GetInversion retrieves a cached pre-match inversion result.
// Inversions never expire within a process run since the bisection is
// deterministic for a given odds pair and target.
func (ec *EvaluationCache) GetInversion(key InversionKey) *engine.InversionResult {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	if result, found := ec.cache.Get(key.String()); found {
		if inv, ok := result.(*engine.InversionResult); ok {
			ec.hitCount++
			ec.updateMetricsLocked()
			return inv
		}
	}

	ec.missCount++
	ec.updateMetricsLocked()
	return nil
}

// SetInversion stores a pre-match inversion result in cache
func (ec *EvaluationCache) SetInversion(key InversionKey, result *engine.InversionResult) {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	if ec.cache.ItemCount() >= ec.maxSize {
		ec.cache.DeleteExpired()
	}

	ec.cache.Set(key.String(), result, cache.NoExpiration)
}

// InvalidateMatch removes all cached sheets for a specific match
func (ec *EvaluationCache) InvalidateMatch(matchID uuid.UUID) {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	prefix := "sheet:" + matchID.String() + ":"
	for key := range ec.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			ec.cache.Delete(key)
		}
	}
}

// Clear flushes the entire cache
func (ec *EvaluationCache) Clear() {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	ec.cache.Flush()
	ec.hitCount = 0
	ec.missCount = 0
}

// Stats returns cache statistics
func (ec *EvaluationCache) Stats() (hits, misses uint64, ratio float64) {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	return ec.statsLocked()
}

func (ec *EvaluationCache) statsLocked() (hits, misses uint64, ratio float64) {
	hits = ec.hitCount
	misses = ec.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// updateMetricsLocked updates the Prometheus hit ratio gauge
func (ec *EvaluationCache) updateMetricsLocked() {
	_, _, ratio := ec.statsLocked()
	metrics.CacheHitRatio.Set(ratio)
}

// ItemCount returns the number of items in cache
func (ec *EvaluationCache) ItemCount() int {
	return ec.cache.ItemCount()
}
