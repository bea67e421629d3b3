package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ChrisJamesShevlin/snooker/internal/database"
	"github.com/ChrisJamesShevlin/snooker/internal/models"
)

const errScanTip = "failed to scan tip: %w"

const tipColumns = `id, match_id, evaluation_id, side, book_odds, fair_odds, edge,
		       classification, suggested_stake, status, notified_at, created_at`

// PostgresTipRepository implements TipRepository for PostgreSQL
type PostgresTipRepository struct {
	db *database.DB
}

// NewPostgresTipRepository creates a new tip repository
func NewPostgresTipRepository(db *database.DB) TipRepository {
	return &PostgresTipRepository{db: db}
}

// Insert stores a new tip
func (r *PostgresTipRepository) Insert(ctx context.Context, tip *models.Tip) error {
	query := `
		INSERT INTO tips (id, match_id, evaluation_id, side, book_odds, fair_odds, edge,
		                  classification, suggested_stake, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		tip.ID, tip.MatchID, tip.EvaluationID, tip.Side, tip.BookOdds, tip.FairOdds,
		tip.Edge, tip.Classification, tip.SuggestedStake, tip.Status, tip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert tip: %w", err)
	}

	return nil
}

// InsertWithTx stores a new tip using a provided transaction
func (r *PostgresTipRepository) InsertWithTx(ctx context.Context, tx pgx.Tx, tip *models.Tip) error {
	query := `
		INSERT INTO tips (id, match_id, evaluation_id, side, book_odds, fair_odds, edge,
		                  classification, suggested_stake, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := tx.Exec(ctx, query,
		tip.ID, tip.MatchID, tip.EvaluationID, tip.Side, tip.BookOdds, tip.FairOdds,
		tip.Edge, tip.Classification, tip.SuggestedStake, tip.Status, tip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert tip within transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a tip by ID
func (r *PostgresTipRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tip, error) {
	query := fmt.Sprintf("SELECT %s FROM tips WHERE id = $1", tipColumns)

	tip := &models.Tip{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&tip.ID, &tip.MatchID, &tip.EvaluationID, &tip.Side, &tip.BookOdds, &tip.FairOdds,
		&tip.Edge, &tip.Classification, &tip.SuggestedStake, &tip.Status, &tip.NotifiedAt, &tip.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tip: %w", err)
	}

	return tip, nil
}

// GetByMatchID retrieves all tips for a match, newest first
func (r *PostgresTipRepository) GetByMatchID(ctx context.Context, matchID uuid.UUID) ([]*models.Tip, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tips
		WHERE match_id = $1
		ORDER BY created_at DESC
	`, tipColumns)

	rows, err := r.db.GetPool().Query(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tips by match: %w", err)
	}
	defer rows.Close()

	return scanTips(rows)
}

// GetByClassification retrieves recent tips with the given classification
func (r *PostgresTipRepository) GetByClassification(ctx context.Context, classification string, limit int) ([]*models.Tip, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tips
		WHERE classification = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, tipColumns)

	rows, err := r.db.GetPool().Query(ctx, query, classification, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query tips by classification: %w", err)
	}
	defer rows.Close()

	return scanTips(rows)
}

// GetUnnotified retrieves tips not yet pushed to the webhook, oldest first
func (r *PostgresTipRepository) GetUnnotified(ctx context.Context, limit int) ([]*models.Tip, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tips
		WHERE notified_at IS NULL
		ORDER BY created_at ASC
		LIMIT $1
	`, tipColumns)

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unnotified tips: %w", err)
	}
	defer rows.Close()

	return scanTips(rows)
}

// MarkNotified records a successful webhook delivery for a tip
func (r *PostgresTipRepository) MarkNotified(ctx context.Context, id uuid.UUID, notifiedAt time.Time) error {
	query := "UPDATE tips SET notified_at = $2 WHERE id = $1"

	commandTag, err := r.db.GetPool().Exec(ctx, query, id, notifiedAt)
	if err != nil {
		return fmt.Errorf("failed to mark tip notified: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// UpdateStatus moves a tip to a new settlement state
func (r *PostgresTipRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.TipStatus) error {
	query := "UPDATE tips SET status = $2 WHERE id = $1"

	commandTag, err := r.db.GetPool().Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update tip status: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// DeleteOlderThan purges settled and voided tips created before the
// cutoff. Open tips are kept regardless of age.
// Returns the number of rows removed for the retention audit log.
func (r *PostgresTipRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := "DELETE FROM tips WHERE created_at < $1 AND status <> $2"

	commandTag, err := r.db.GetPool().Exec(ctx, query, cutoff, models.TipStatusOpen)
	if err != nil {
		return 0, fmt.Errorf("failed to purge tips: %w", err)
	}

	return commandTag.RowsAffected(), nil
}

func scanTips(rows pgx.Rows) ([]*models.Tip, error) {
	var tips []*models.Tip
	for rows.Next() {
		tip := &models.Tip{}
		err := rows.Scan(
			&tip.ID, &tip.MatchID, &tip.EvaluationID, &tip.Side, &tip.BookOdds, &tip.FairOdds,
			&tip.Edge, &tip.Classification, &tip.SuggestedStake, &tip.Status, &tip.NotifiedAt, &tip.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanTip, err)
		}
		tips = append(tips, tip)
	}

	return tips, rows.Err()
}
