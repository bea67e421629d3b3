package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ChrisJamesShevlin/snooker/internal/database"
	"github.com/ChrisJamesShevlin/snooker/internal/models"
)

const errScanMatch = "failed to scan match: %w"

// PostgresMatchRepository implements MatchRepository for PostgreSQL
type PostgresMatchRepository struct {
	db *database.DB
}

// NewPostgresMatchRepository creates a new match repository
func NewPostgresMatchRepository(db *database.DB) MatchRepository {
	return &PostgresMatchRepository{db: db}
}

// Create inserts a new match
func (r *PostgresMatchRepository) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (id, player_a_id, player_b_id, best_of, target_frames,
		                     frames_a, frames_b, status, pre_match_odds_a, pre_match_odds_b)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		match.ID, match.PlayerAID, match.PlayerBID, match.BestOf, match.TargetFrames,
		match.FramesA, match.FramesB, match.Status, match.PreMatchOddsA, match.PreMatchOddsB,
	)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}

	return nil
}

// GetByID retrieves a match by ID
func (r *PostgresMatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	query := `
		SELECT id, player_a_id, player_b_id, best_of, target_frames, frames_a, frames_b,
		       status, pre_match_odds_a, pre_match_odds_b, started_at, finished_at,
		       created_at, updated_at
		FROM matches WHERE id = $1
	`

	match := &models.Match{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&match.ID, &match.PlayerAID, &match.PlayerBID, &match.BestOf, &match.TargetFrames,
		&match.FramesA, &match.FramesB, &match.Status, &match.PreMatchOddsA, &match.PreMatchOddsB,
		&match.StartedAt, &match.FinishedAt, &match.CreatedAt, &match.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	return match, nil
}

// GetLive retrieves matches currently in play ordered by start time
func (r *PostgresMatchRepository) GetLive(ctx context.Context) ([]*models.Match, error) {
	query := `
		SELECT id, player_a_id, player_b_id, best_of, target_frames, frames_a, frames_b,
		       status, pre_match_odds_a, pre_match_odds_b, started_at, finished_at,
		       created_at, updated_at
		FROM matches
		WHERE status = 'live'
		ORDER BY started_at ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query live matches: %w", err)
	}
	defer rows.Close()

	var matches []*models.Match
	for rows.Next() {
		match := &models.Match{}
		err := rows.Scan(
			&match.ID, &match.PlayerAID, &match.PlayerBID, &match.BestOf, &match.TargetFrames,
			&match.FramesA, &match.FramesB, &match.Status, &match.PreMatchOddsA, &match.PreMatchOddsB,
			&match.StartedAt, &match.FinishedAt, &match.CreatedAt, &match.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanMatch, err)
		}
		matches = append(matches, match)
	}

	return matches, rows.Err()
}

// GetRecent retrieves the most recently created matches
func (r *PostgresMatchRepository) GetRecent(ctx context.Context, limit int) ([]*models.Match, error) {
	query := `
		SELECT id, player_a_id, player_b_id, best_of, target_frames, frames_a, frames_b,
		       status, pre_match_odds_a, pre_match_odds_b, started_at, finished_at,
		       created_at, updated_at
		FROM matches
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent matches: %w", err)
	}
	defer rows.Close()

	var matches []*models.Match
	for rows.Next() {
		match := &models.Match{}
		err := rows.Scan(
			&match.ID, &match.PlayerAID, &match.PlayerBID, &match.BestOf, &match.TargetFrames,
			&match.FramesA, &match.FramesB, &match.Status, &match.PreMatchOddsA, &match.PreMatchOddsB,
			&match.StartedAt, &match.FinishedAt, &match.CreatedAt, &match.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanMatch, err)
		}
		matches = append(matches, match)
	}

	return matches, rows.Err()
}

// Update updates the mutable fields of a match
func (r *PostgresMatchRepository) Update(ctx context.Context, match *models.Match) error {
	query := `
		UPDATE matches SET
			frames_a = $2, frames_b = $3, status = $4,
			pre_match_odds_a = $5, pre_match_odds_b = $6,
			started_at = $7, finished_at = $8, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query,
		match.ID, match.FramesA, match.FramesB, match.Status,
		match.PreMatchOddsA, match.PreMatchOddsB, match.StartedAt, match.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update match: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Delete deletes a match
func (r *PostgresMatchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := "DELETE FROM matches WHERE id = $1"

	commandTag, err := r.db.GetPool().Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
