package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ChrisJamesShevlin/snooker/internal/database"
	"github.com/ChrisJamesShevlin/snooker/internal/models"
)

const errScanPlayer = "failed to scan player: %w"

// PostgresPlayerRepository implements PlayerRepository for PostgreSQL
type PostgresPlayerRepository struct {
	db *database.DB
}

// NewPostgresPlayerRepository creates a new player repository
func NewPostgresPlayerRepository(db *database.DB) PlayerRepository {
	return &PostgresPlayerRepository{db: db}
}

// Create inserts a new player
func (r *PostgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (id, name, season_points, matches_played, win_rate,
		                     avg_shot_time, breaks_50_plus, breaks_100_plus)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		player.ID, player.Name, player.SeasonPoints, player.MatchesPlayed,
		player.WinRate, player.AvgShotTime, player.Breaks50Plus, player.Breaks100Plus,
	)
	if err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}

	return nil
}

// GetByID retrieves a player by ID
func (r *PostgresPlayerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	query := `
		SELECT id, name, season_points, matches_played, win_rate,
		       avg_shot_time, breaks_50_plus, breaks_100_plus, created_at, updated_at
		FROM players WHERE id = $1
	`

	player := &models.Player{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&player.ID, &player.Name, &player.SeasonPoints, &player.MatchesPlayed,
		&player.WinRate, &player.AvgShotTime, &player.Breaks50Plus, &player.Breaks100Plus,
		&player.CreatedAt, &player.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

// GetByName retrieves a player by exact name
func (r *PostgresPlayerRepository) GetByName(ctx context.Context, name string) (*models.Player, error) {
	query := `
		SELECT id, name, season_points, matches_played, win_rate,
		       avg_shot_time, breaks_50_plus, breaks_100_plus, created_at, updated_at
		FROM players WHERE name = $1
	`

	player := &models.Player{}
	err := r.db.GetPool().QueryRow(ctx, query, name).Scan(
		&player.ID, &player.Name, &player.SeasonPoints, &player.MatchesPlayed,
		&player.WinRate, &player.AvgShotTime, &player.Breaks50Plus, &player.Breaks100Plus,
		&player.CreatedAt, &player.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player by name: %w", err)
	}

	return player, nil
}

// List retrieves players ordered by name
func (r *PostgresPlayerRepository) List(ctx context.Context, limit int) ([]*models.Player, error) {
	query := `
		SELECT id, name, season_points, matches_played, win_rate,
		       avg_shot_time, breaks_50_plus, breaks_100_plus, created_at, updated_at
		FROM players
		ORDER BY name ASC
		LIMIT $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		player := &models.Player{}
		err := rows.Scan(
			&player.ID, &player.Name, &player.SeasonPoints, &player.MatchesPlayed,
			&player.WinRate, &player.AvgShotTime, &player.Breaks50Plus, &player.Breaks100Plus,
			&player.CreatedAt, &player.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanPlayer, err)
		}
		players = append(players, player)
	}

	return players, rows.Err()
}

// GetWithMatches retrieves players with at least one match played this season.
// Used by the baseline refresh job.
func (r *PostgresPlayerRepository) GetWithMatches(ctx context.Context) ([]*models.Player, error) {
	query := `
		SELECT id, name, season_points, matches_played, win_rate,
		       avg_shot_time, breaks_50_plus, breaks_100_plus, created_at, updated_at
		FROM players
		WHERE matches_played > 0
		ORDER BY name ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query players with matches: %w", err)
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		player := &models.Player{}
		err := rows.Scan(
			&player.ID, &player.Name, &player.SeasonPoints, &player.MatchesPlayed,
			&player.WinRate, &player.AvgShotTime, &player.Breaks50Plus, &player.Breaks100Plus,
			&player.CreatedAt, &player.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanPlayer, err)
		}
		players = append(players, player)
	}

	return players, rows.Err()
}

// UpdateSeasonStats updates a player's season-to-date form
func (r *PostgresPlayerRepository) UpdateSeasonStats(ctx context.Context, player *models.Player) error {
	query := `
		UPDATE players SET
			season_points = $2, matches_played = $3, win_rate = $4,
			avg_shot_time = $5, breaks_50_plus = $6, breaks_100_plus = $7,
			updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query,
		player.ID, player.SeasonPoints, player.MatchesPlayed, player.WinRate,
		player.AvgShotTime, player.Breaks50Plus, player.Breaks100Plus,
	)
	if err != nil {
		return fmt.Errorf("failed to update player season stats: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Delete deletes a player
func (r *PostgresPlayerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := "DELETE FROM players WHERE id = $1"

	commandTag, err := r.db.GetPool().Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
