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

const errScanEvaluation = "failed to scan evaluation: %w"

const evaluationColumns = `id, match_id, season_strength_a, season_strength_b, live_boost,
		       prior_prob, frame_prob, match_prob, fair_odds_a, fair_odds_b,
		       edge_a, edge_b, classification_a, classification_b, snapshot, created_at`

// PostgresEvaluationRepository implements EvaluationRepository for PostgreSQL
type PostgresEvaluationRepository struct {
	db *database.DB
}

// NewPostgresEvaluationRepository creates a new evaluation repository
func NewPostgresEvaluationRepository(db *database.DB) EvaluationRepository {
	return &PostgresEvaluationRepository{db: db}
}

// Insert stores one evaluation cycle
func (r *PostgresEvaluationRepository) Insert(ctx context.Context, eval *models.Evaluation) error {
	query := `
		INSERT INTO evaluations (id, match_id, season_strength_a, season_strength_b, live_boost,
		                         prior_prob, frame_prob, match_prob, fair_odds_a, fair_odds_b,
		                         edge_a, edge_b, classification_a, classification_b, snapshot, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		eval.ID, eval.MatchID, eval.SeasonStrengthA, eval.SeasonStrengthB, eval.LiveBoost,
		eval.PriorProb, eval.FrameProb, eval.MatchProb, eval.FairOddsA, eval.FairOddsB,
		eval.EdgeA, eval.EdgeB, eval.ClassificationA, eval.ClassificationB, eval.Snapshot, eval.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert evaluation: %w", err)
	}

	return nil
}

// InsertWithTx stores one evaluation cycle using a provided transaction
func (r *PostgresEvaluationRepository) InsertWithTx(ctx context.Context, tx pgx.Tx, eval *models.Evaluation) error {
	query := `
		INSERT INTO evaluations (id, match_id, season_strength_a, season_strength_b, live_boost,
		                         prior_prob, frame_prob, match_prob, fair_odds_a, fair_odds_b,
		                         edge_a, edge_b, classification_a, classification_b, snapshot, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := tx.Exec(ctx, query,
		eval.ID, eval.MatchID, eval.SeasonStrengthA, eval.SeasonStrengthB, eval.LiveBoost,
		eval.PriorProb, eval.FrameProb, eval.MatchProb, eval.FairOddsA, eval.FairOddsB,
		eval.EdgeA, eval.EdgeB, eval.ClassificationA, eval.ClassificationB, eval.Snapshot, eval.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert evaluation within transaction: %w", err)
	}

	return nil
}

// GetByMatchID retrieves recent evaluations for a match, newest first
func (r *PostgresEvaluationRepository) GetByMatchID(ctx context.Context, matchID uuid.UUID, limit int) ([]*models.Evaluation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM evaluations
		WHERE match_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, evaluationColumns)

	rows, err := r.db.GetPool().Query(ctx, query, matchID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluations: %w", err)
	}
	defer rows.Close()

	var evals []*models.Evaluation
	for rows.Next() {
		eval := &models.Evaluation{}
		err := rows.Scan(
			&eval.ID, &eval.MatchID, &eval.SeasonStrengthA, &eval.SeasonStrengthB, &eval.LiveBoost,
			&eval.PriorProb, &eval.FrameProb, &eval.MatchProb, &eval.FairOddsA, &eval.FairOddsB,
			&eval.EdgeA, &eval.EdgeB, &eval.ClassificationA, &eval.ClassificationB, &eval.Snapshot, &eval.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanEvaluation, err)
		}
		evals = append(evals, eval)
	}

	return evals, rows.Err()
}

// GetLatestByMatch retrieves the most recent evaluation for a match
func (r *PostgresEvaluationRepository) GetLatestByMatch(ctx context.Context, matchID uuid.UUID) (*models.Evaluation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM evaluations
		WHERE match_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, evaluationColumns)

	eval := &models.Evaluation{}
	err := r.db.GetPool().QueryRow(ctx, query, matchID).Scan(
		&eval.ID, &eval.MatchID, &eval.SeasonStrengthA, &eval.SeasonStrengthB, &eval.LiveBoost,
		&eval.PriorProb, &eval.FrameProb, &eval.MatchProb, &eval.FairOddsA, &eval.FairOddsB,
		&eval.EdgeA, &eval.EdgeB, &eval.ClassificationA, &eval.ClassificationB, &eval.Snapshot, &eval.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest evaluation: %w", err)
	}

	return eval, nil
}

// DeleteOlderThan purges evaluations created before the cutoff.
// Evaluations still referenced by a tip are kept so surviving tips
// retain their audit trail. Returns the number of rows removed for
// the retention audit log.
func (r *PostgresEvaluationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM evaluations e
		WHERE e.created_at < $1
		  AND NOT EXISTS (SELECT 1 FROM tips t WHERE t.evaluation_id = e.id)
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge evaluations: %w", err)
	}

	return commandTag.RowsAffected(), nil
}
