package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ChrisJamesShevlin/snooker/internal/models"
)

// PlayerRepository defines the interface for player data access
type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error)
	GetByName(ctx context.Context, name string) (*models.Player, error)
	List(ctx context.Context, limit int) ([]*models.Player, error)
	GetWithMatches(ctx context.Context) ([]*models.Player, error)
	UpdateSeasonStats(ctx context.Context, player *models.Player) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MatchRepository defines the interface for match data access
type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error)
	GetLive(ctx context.Context) ([]*models.Match, error)
	GetRecent(ctx context.Context, limit int) ([]*models.Match, error)
	Update(ctx context.Context, match *models.Match) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// EvaluationRepository defines the interface for price sheet history access
type EvaluationRepository interface {
	Insert(ctx context.Context, eval *models.Evaluation) error
	InsertWithTx(ctx context.Context, tx pgx.Tx, eval *models.Evaluation) error
	GetByMatchID(ctx context.Context, matchID uuid.UUID, limit int) ([]*models.Evaluation, error)
	GetLatestByMatch(ctx context.Context, matchID uuid.UUID) (*models.Evaluation, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// TipRepository defines the interface for tip data access
type TipRepository interface {
	Insert(ctx context.Context, tip *models.Tip) error
	InsertWithTx(ctx context.Context, tx pgx.Tx, tip *models.Tip) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tip, error)
	GetByMatchID(ctx context.Context, matchID uuid.UUID) ([]*models.Tip, error)
	GetByClassification(ctx context.Context, classification string, limit int) ([]*models.Tip, error)
	GetUnnotified(ctx context.Context, limit int) ([]*models.Tip, error)
	MarkNotified(ctx context.Context, id uuid.UUID, notifiedAt time.Time) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.TipStatus) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
