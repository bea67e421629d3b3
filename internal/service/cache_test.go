package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisJamesShevlin/snooker/internal/engine"
)

// TestSheetKeyString tests sheet key string representation
func TestSheetKeyString(t *testing.T) {
	key := SheetKey{
		MatchID: uuid.MustParse("12345678-1234-5678-1234-567812345678"),
		FramesA: 4,
		FramesB: 2,
		ShotsA:  120,
		ShotsB:  95,
		OddsA:   1.65,
		OddsB:   2.4,
	}

	keyStr := key.String()
	assert.NotEmpty(t, keyStr)
	assert.Contains(t, keyStr, "12345678")
	assert.Contains(t, keyStr, "4-2")
	assert.Contains(t, keyStr, "1.65")
}

// TestSheetKeyEquality tests that identical snapshots share one key
func TestSheetKeyEquality(t *testing.T) {
	matchID := uuid.New()

	key1 := SheetKey{MatchID: matchID, FramesA: 3, FramesB: 1, ShotsA: 80, ShotsB: 60, OddsA: 1.8, OddsB: 2.1}
	key2 := SheetKey{MatchID: matchID, FramesA: 3, FramesB: 1, ShotsA: 80, ShotsB: 60, OddsA: 1.8, OddsB: 2.1}
	key3 := SheetKey{MatchID: matchID, FramesA: 3, FramesB: 1, ShotsA: 80, ShotsB: 60, OddsA: 1.75, OddsB: 2.1}

	assert.Equal(t, key1.String(), key2.String())
	assert.NotEqual(t, key1.String(), key3.String())
}

// TestEvaluationCacheSheet tests sheet set and get
func TestEvaluationCacheSheet(t *testing.T) {
	cache := NewEvaluationCache(time.Hour, time.Hour, 100)
	defer cache.Clear()

	key := SheetKey{MatchID: uuid.New(), FramesA: 2, FramesB: 2, ShotsA: 100, ShotsB: 100, OddsA: 1.9, OddsB: 1.9}

	// Get non-existent key should return nil
	assert.Nil(t, cache.GetSheet(key))

	sheet := &engine.PriceSheet{FrameProb: 0.55, MatchProb: 0.62}
	cache.SetSheet(key, sheet)

	retrieved := cache.GetSheet(key)
	require.NotNil(t, retrieved)
	assert.Equal(t, sheet.FrameProb, retrieved.FrameProb)
	assert.Equal(t, sheet.MatchProb, retrieved.MatchProb)
}

// TestEvaluationCacheExpiration tests sheet TTL expiration
func TestEvaluationCacheExpiration(t *testing.T) {
	cache := NewEvaluationCache(100*time.Millisecond, 50*time.Millisecond, 100)
	defer cache.Clear()

	key := SheetKey{MatchID: uuid.New(), FramesA: 1, FramesB: 0, ShotsA: 30, ShotsB: 25, OddsA: 1.5, OddsB: 2.6}
	cache.SetSheet(key, &engine.PriceSheet{FrameProb: 0.6})

	// Should be in cache immediately
	require.NotNil(t, cache.GetSheet(key))

	// Wait for expiration
	time.Sleep(150 * time.Millisecond)

	assert.Nil(t, cache.GetSheet(key))
}

// TestEvaluationCacheInversionPersists tests that inversion results
// outlive the sheet TTL
func TestEvaluationCacheInversionPersists(t *testing.T) {
	cache := NewEvaluationCache(100*time.Millisecond, 50*time.Millisecond, 100)
	defer cache.Clear()

	key := InversionKey{OddsA: 1.8, OddsB: 2.1, TargetFrames: 6}
	cache.SetInversion(key, &engine.InversionResult{PriorProb: 0.53, Converged: true})

	time.Sleep(150 * time.Millisecond)

	retrieved := cache.GetInversion(key)
	require.NotNil(t, retrieved)
	assert.Equal(t, 0.53, retrieved.PriorProb)
	assert.True(t, retrieved.Converged)
}

// TestEvaluationCacheInvalidateMatch tests invalidation by match ID
func TestEvaluationCacheInvalidateMatch(t *testing.T) {
	cache := NewEvaluationCache(time.Hour, time.Hour, 100)
	defer cache.Clear()

	matchID := uuid.New()
	otherMatchID := uuid.New()

	key1 := SheetKey{MatchID: matchID, FramesA: 2, FramesB: 1, ShotsA: 70, ShotsB: 55, OddsA: 1.7, OddsB: 2.2}
	key2 := SheetKey{MatchID: matchID, FramesA: 3, FramesB: 1, ShotsA: 95, ShotsB: 70, OddsA: 1.6, OddsB: 2.5}
	key3 := SheetKey{MatchID: otherMatchID, FramesA: 2, FramesB: 1, ShotsA: 70, ShotsB: 55, OddsA: 1.7, OddsB: 2.2}
	invKey := InversionKey{OddsA: 1.8, OddsB: 2.1, TargetFrames: 6}

	sheet := &engine.PriceSheet{FrameProb: 0.5}
	cache.SetSheet(key1, sheet)
	cache.SetSheet(key2, sheet)
	cache.SetSheet(key3, sheet)
	cache.SetInversion(invKey, &engine.InversionResult{PriorProb: 0.53})

	cache.InvalidateMatch(matchID)

	// Both sheets for the match should be gone
	assert.Nil(t, cache.GetSheet(key1))
	assert.Nil(t, cache.GetSheet(key2))

	// Other match and the odds-keyed inversion survive
	require.NotNil(t, cache.GetSheet(key3))
	require.NotNil(t, cache.GetInversion(invKey))
}

// TestEvaluationCacheStats tests hit and miss tracking
func TestEvaluationCacheStats(t *testing.T) {
	cache := NewEvaluationCache(time.Hour, time.Hour, 100)
	defer cache.Clear()

	key := SheetKey{MatchID: uuid.New(), FramesA: 0, FramesB: 0, ShotsA: 0, ShotsB: 0, OddsA: 1.9, OddsB: 1.9}

	// Initial stats
	hits, misses, ratio := cache.Stats()
	assert.Equal(t, uint64(0), hits)
	assert.Equal(t, uint64(0), misses)
	assert.Equal(t, 0.0, ratio)

	// Miss
	_ = cache.GetSheet(key)
	hits, misses, ratio = cache.Stats()
	assert.Equal(t, uint64(0), hits)
	assert.Equal(t, uint64(1), misses)
	assert.Equal(t, 0.0, ratio)

	// Set and hit
	cache.SetSheet(key, &engine.PriceSheet{FrameProb: 0.5})
	_ = cache.GetSheet(key)
	hits, misses, ratio = cache.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.Equal(t, 0.5, ratio)
}

// TestEvaluationCacheClear tests that Clear resets entries and stats
func TestEvaluationCacheClear(t *testing.T) {
	cache := NewEvaluationCache(time.Hour, time.Hour, 100)

	key := SheetKey{MatchID: uuid.New(), FramesA: 1, FramesB: 1, ShotsA: 40, ShotsB: 45, OddsA: 2.0, OddsB: 1.85}
	cache.SetSheet(key, &engine.PriceSheet{FrameProb: 0.5})
	_ = cache.GetSheet(key)

	cache.Clear()

	assert.Equal(t, 0, cache.ItemCount())
	hits, misses, _ := cache.Stats()
	assert.Equal(t, uint64(0), hits)
	assert.Equal(t, uint64(0), misses)
}
