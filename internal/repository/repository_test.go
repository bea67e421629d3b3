package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ChrisJamesShevlin/snooker/internal/database"
	"github.com/ChrisJamesShevlin/snooker/internal/models"
)

const skipIntegrationMsg = "Integration test - requires database setup"

// TestNewRepositoriesRequiresDB tests the nil connection guard
func TestNewRepositoriesRequiresDB(t *testing.T) {
	repos, err := NewRepositories(nil)
	if err == nil {
		t.Fatal("expected an error for a nil database connection")
	}
	if repos != nil {
		t.Errorf("expected nil repositories, got %+v", repos)
	}
}

// TestRepositoriesLifecycle walks one evaluation cycle through every
// repository: players, the match between them, the evaluation and the
// tip it produced
func TestRepositoriesLifecycle(t *testing.T) {
	t.Skip(skipIntegrationMsg)

	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	playerA := &models.Player{
		ID:            uuid.New(),
		Name:          "Judd Trump " + uuid.NewString()[:8],
		SeasonPoints:  12400,
		MatchesPlayed: 38,
		WinRate:       0.71,
		AvgShotTime:   16.5,
		Breaks50Plus:  61,
		Breaks100Plus: 22,
	}
	if err := repos.Player.Create(ctx, playerA); err != nil {
		t.Fatalf("failed to create player: %v", err)
	}

	playerB := &models.Player{
		ID:            uuid.New(),
		Name:          "Mark Selby " + uuid.NewString()[:8],
		SeasonPoints:  9800,
		MatchesPlayed: 35,
		WinRate:       0.63,
		AvgShotTime:   24.8,
		Breaks50Plus:  48,
		Breaks100Plus: 15,
	}
	if err := repos.Player.Create(ctx, playerB); err != nil {
		t.Fatalf("failed to create player: %v", err)
	}

	retrieved, err := repos.Player.GetByID(ctx, playerA.ID)
	if err != nil {
		t.Fatalf("failed to retrieve player: %v", err)
	}
	if retrieved.Name != playerA.Name {
		t.Errorf("expected player name %q, got %q", playerA.Name, retrieved.Name)
	}

	match := &models.Match{
		ID:           uuid.New(),
		PlayerAID:    playerA.ID,
		PlayerBID:    playerB.ID,
		BestOf:       7,
		TargetFrames: 4,
		Status:       models.MatchStatusScheduled,
	}
	if err := repos.Match.Create(ctx, match); err != nil {
		t.Fatalf("failed to create match: %v", err)
	}

	now := time.Now().UTC()
	match.Status = models.MatchStatusLive
	match.StartedAt = &now
	match.FramesA = 2
	match.FramesB = 1
	if err := repos.Match.Update(ctx, match); err != nil {
		t.Fatalf("failed to update match: %v", err)
	}

	live, err := repos.Match.GetLive(ctx)
	if err != nil {
		t.Fatalf("failed to query live matches: %v", err)
	}
	if len(live) == 0 {
		t.Error("expected at least one live match")
	}

	eval := &models.Evaluation{
		ID:        uuid.New(),
		MatchID:   match.ID,
		PriorProb: 0.58,
		FrameProb: 0.61,
		MatchProb: 0.74,
		FairOddsA: 1.35,
		FairOddsB: 3.85,
		Snapshot:  []byte(`{"score":{"frames_a":2,"frames_b":1,"target_frames":4}}`),
		CreatedAt: now,
	}
	if err := repos.Evaluation.Insert(ctx, eval); err != nil {
		t.Fatalf("failed to insert evaluation: %v", err)
	}

	latest, err := repos.Evaluation.GetLatestByMatch(ctx, match.ID)
	if err != nil {
		t.Fatalf("failed to get latest evaluation: %v", err)
	}
	if latest.ID != eval.ID {
		t.Errorf("expected latest evaluation %v, got %v", eval.ID, latest.ID)
	}

	tip := &models.Tip{
		ID:             uuid.New(),
		MatchID:        match.ID,
		EvaluationID:   eval.ID,
		Side:           models.TipSidePlayerA,
		BookOdds:       2.10,
		FairOdds:       1.92,
		Edge:           0.094,
		Classification: "VALUE",
		SuggestedStake: 25.00,
		Status:         models.TipStatusOpen,
		CreatedAt:      now,
	}
	if err := repos.Tip.Insert(ctx, tip); err != nil {
		t.Fatalf("failed to insert tip: %v", err)
	}

	unnotified, err := repos.Tip.GetUnnotified(ctx, 10)
	if err != nil {
		t.Fatalf("failed to query unnotified tips: %v", err)
	}
	if len(unnotified) == 0 {
		t.Fatal("expected at least one unnotified tip")
	}

	if err := repos.Tip.MarkNotified(ctx, tip.ID, time.Now().UTC()); err != nil {
		t.Fatalf("failed to mark tip notified: %v", err)
	}

	if err := repos.Tip.UpdateStatus(ctx, tip.ID, models.TipStatusSettled); err != nil {
		t.Fatalf("failed to settle tip: %v", err)
	}

	settled, err := repos.Tip.GetByID(ctx, tip.ID)
	if err != nil {
		t.Fatalf("failed to retrieve tip: %v", err)
	}
	if !settled.IsNotified() {
		t.Error("expected tip to be marked notified")
	}
	if settled.Status != models.TipStatusSettled {
		t.Errorf("expected tip status %q, got %q", models.TipStatusSettled, settled.Status)
	}
}

// TestRetentionPurge tests cutoff-based deletion for evaluations and tips
func TestRetentionPurge(t *testing.T) {
	t.Skip(skipIntegrationMsg)

	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cutoff := time.Now().UTC().AddDate(0, 0, -90)

	// Tips go first since they reference evaluations
	tipsDeleted, err := repos.Tip.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		t.Fatalf("failed to purge tips: %v", err)
	}

	evalsDeleted, err := repos.Evaluation.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		t.Fatalf("failed to purge evaluations: %v", err)
	}

	t.Logf("purged %d evaluations and %d tips", evalsDeleted, tipsDeleted)
}

// TestMissingRowsMapToNotFound tests pgx.ErrNoRows translation
func TestMissingRowsMapToNotFound(t *testing.T) {
	t.Skip(skipIntegrationMsg)

	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := repos.Player.GetByID(ctx, uuid.New()); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing player, got %v", err)
	}
	if _, err := repos.Match.GetByID(ctx, uuid.New()); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing match, got %v", err)
	}
	if _, err := repos.Tip.GetByID(ctx, uuid.New()); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing tip, got %v", err)
	}
}
