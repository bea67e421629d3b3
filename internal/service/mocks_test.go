package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/ChrisJamesShevlin/snooker/internal/models"
)

// MockPlayerRepository mocks player repository
type MockPlayerRepository struct {
	mock.Mock
}

func (m *MockPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	args := m.Called(ctx, player)
	return args.Error(0)
}

func (m *MockPlayerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) GetByName(ctx context.Context, name string) (*models.Player, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) List(ctx context.Context, limit int) ([]*models.Player, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) GetWithMatches(ctx context.Context) ([]*models.Player, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) UpdateSeasonStats(ctx context.Context, player *models.Player) error {
	args := m.Called(ctx, player)
	return args.Error(0)
}

func (m *MockPlayerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMatchRepository mocks match repository
type MockMatchRepository struct {
	mock.Mock
}

func (m *MockMatchRepository) Create(ctx context.Context, match *models.Match) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *MockMatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Match), args.Error(1)
}

func (m *MockMatchRepository) GetLive(ctx context.Context) ([]*models.Match, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Match), args.Error(1)
}

func (m *MockMatchRepository) GetRecent(ctx context.Context, limit int) ([]*models.Match, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Match), args.Error(1)
}

func (m *MockMatchRepository) Update(ctx context.Context, match *models.Match) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *MockMatchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEvaluationRepository mocks evaluation repository
type MockEvaluationRepository struct {
	mock.Mock
}

func (m *MockEvaluationRepository) Insert(ctx context.Context, eval *models.Evaluation) error {
	args := m.Called(ctx, eval)
	return args.Error(0)
}

func (m *MockEvaluationRepository) InsertWithTx(ctx context.Context, tx pgx.Tx, eval *models.Evaluation) error {
	args := m.Called(ctx, tx, eval)
	return args.Error(0)
}

func (m *MockEvaluationRepository) GetByMatchID(ctx context.Context, matchID uuid.UUID, limit int) ([]*models.Evaluation, error) {
	args := m.Called(ctx, matchID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Evaluation), args.Error(1)
}

func (m *MockEvaluationRepository) GetLatestByMatch(ctx context.Context, matchID uuid.UUID) (*models.Evaluation, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Evaluation), args.Error(1)
}

func (m *MockEvaluationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockTipRepository mocks tip repository
type MockTipRepository struct {
	mock.Mock
}

func (m *MockTipRepository) Insert(ctx context.Context, tip *models.Tip) error {
	args := m.Called(ctx, tip)
	return args.Error(0)
}

func (m *MockTipRepository) InsertWithTx(ctx context.Context, tx pgx.Tx, tip *models.Tip) error {
	args := m.Called(ctx, tx, tip)
	return args.Error(0)
}

func (m *MockTipRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tip), args.Error(1)
}

func (m *MockTipRepository) GetByMatchID(ctx context.Context, matchID uuid.UUID) ([]*models.Tip, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tip), args.Error(1)
}

func (m *MockTipRepository) GetByClassification(ctx context.Context, classification string, limit int) ([]*models.Tip, error) {
	args := m.Called(ctx, classification, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tip), args.Error(1)
}

func (m *MockTipRepository) GetUnnotified(ctx context.Context, limit int) ([]*models.Tip, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tip), args.Error(1)
}

func (m *MockTipRepository) MarkNotified(ctx context.Context, id uuid.UUID, notifiedAt time.Time) error {
	args := m.Called(ctx, id, notifiedAt)
	return args.Error(0)
}

func (m *MockTipRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.TipStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockTipRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockTipNotifier mocks the webhook delivery client
type MockTipNotifier struct {
	mock.Mock
}

func (m *MockTipNotifier) Deliver(ctx context.Context, tip *models.Tip) (int, int, error) {
	args := m.Called(ctx, tip)
	return args.Int(0), args.Int(1), args.Error(2)
}

// stubTxRunner runs the transaction body directly with a nil tx
type stubTxRunner struct {
	err error
}

func (s *stubTxRunner) WithTransaction(ctx context.Context, fn func(pgx.Tx) error) error {
	if s.err != nil {
		return s.err
	}
	return fn(nil)
}

// captureBroadcaster records broadcast payloads for assertions
type captureBroadcaster struct {
	messages [][]byte
}

func (c *captureBroadcaster) Broadcast(message []byte) {
	c.messages = append(c.messages, message)
}
