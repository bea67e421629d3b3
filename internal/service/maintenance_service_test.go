package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// TestPurgeExpired tests retention deletion across both tables
func TestPurgeExpired(t *testing.T) {
	evals := &MockEvaluationRepository{}
	tips := &MockTipRepository{}
	svc := NewMaintenanceService(evals, tips, silentLogger())

	cutoff := time.Now().AddDate(0, 0, -90)
	tips.On("DeleteOlderThan", mock.Anything, cutoff).Return(int64(7), nil)
	evals.On("DeleteOlderThan", mock.Anything, cutoff).Return(int64(12), nil)

	evalsDeleted, tipsDeleted, err := svc.PurgeExpired(context.Background(), cutoff)
	require.NoError(t, err)

	assert.Equal(t, int64(12), evalsDeleted)
	assert.Equal(t, int64(7), tipsDeleted)
	evals.AssertExpectations(t)
	tips.AssertExpectations(t)
}

// TestPurgeExpiredNothingToDelete tests the empty purge path
func TestPurgeExpiredNothingToDelete(t *testing.T) {
	evals := &MockEvaluationRepository{}
	tips := &MockTipRepository{}
	svc := NewMaintenanceService(evals, tips, silentLogger())

	cutoff := time.Now().AddDate(0, 0, -90)
	tips.On("DeleteOlderThan", mock.Anything, cutoff).Return(int64(0), nil)
	evals.On("DeleteOlderThan", mock.Anything, cutoff).Return(int64(0), nil)

	evalsDeleted, tipsDeleted, err := svc.PurgeExpired(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Zero(t, evalsDeleted)
	assert.Zero(t, tipsDeleted)
}

// TestPurgeExpiredTipFailure tests that a tip purge failure stops the
// evaluation purge
func TestPurgeExpiredTipFailure(t *testing.T) {
	evals := &MockEvaluationRepository{}
	tips := &MockTipRepository{}
	svc := NewMaintenanceService(evals, tips, silentLogger())

	cutoff := time.Now().AddDate(0, 0, -90)
	purgeErr := errors.New("deadlock detected")
	tips.On("DeleteOlderThan", mock.Anything, cutoff).Return(int64(0), purgeErr)

	_, _, err := svc.PurgeExpired(context.Background(), cutoff)
	assert.ErrorIs(t, err, purgeErr)
	evals.AssertNotCalled(t, "DeleteOlderThan")
}
