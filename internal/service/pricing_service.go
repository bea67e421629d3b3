package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ChrisJamesShevlin/snooker/internal/config"
	"github.com/ChrisJamesShevlin/snooker/internal/engine"
	"github.com/ChrisJamesShevlin/snooker/internal/logger"
	"github.com/ChrisJamesShevlin/snooker/internal/metrics"
	"github.com/ChrisJamesShevlin/snooker/internal/models"
	"github.com/ChrisJamesShevlin/snooker/internal/repository"
)

// TxRunner executes a function inside one database transaction
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(pgx.Tx) error) error
}

// SheetBroadcaster pushes fresh price sheets to stream subscribers
type SheetBroadcaster interface {
	Broadcast(message []byte)
}

// TipNotifier pushes an issued tip to the configured webhook
type TipNotifier interface {
	Deliver(ctx context.Context, tip *models.Tip) (statusCode int, attempts int, err error)
}

// LiveSnapshot is the operator-entered in-play state for one
// evaluation cycle
type LiveSnapshot struct {
	LiveA     engine.PlayerLiveStats
	LiveB     engine.PlayerLiveStats
	BookOddsA float64
	BookOddsB float64
}

// EvaluationOutcome bundles one priced cycle with any issued tips.
// Evaluation and Tips are nil when the sheet came from cache.
type EvaluationOutcome struct {
	Match      *models.Match      `json:"match"`
	Evaluation *models.Evaluation `json:"evaluation,omitempty"`
	Sheet      *engine.PriceSheet `json:"sheet"`
	Tips       []*models.Tip      `json:"tips,omitempty"`
	CacheHit   bool               `json:"cache_hit"`
}

// StreamEvent is the websocket payload pushed after every fresh cycle
type StreamEvent struct {
	Type      string             `json:"type"`
	MatchID   uuid.UUID          `json:"match_id"`
	FramesA   int                `json:"frames_a"`
	FramesB   int                `json:"frames_b"`
	Sheet     *engine.PriceSheet `json:"sheet"`
	Tips      []*models.Tip      `json:"tips,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

// PricingService orchestrates evaluation cycles: it loads the match
// state, runs the engine, persists the price sheet, issues tips and
// fans the result out to stream and webhook subscribers.
type PricingService struct {
	txRunner TxRunner
	players  repository.PlayerRepository
	matches  repository.MatchRepository
	evals    repository.EvaluationRepository
	tips     repository.TipRepository

	cache   *EvaluationCache
	staking config.StakingConfig

	logger     *logrus.Logger
	pricingLog *logger.PricingLogger
	auditLog   *logger.AuditLogger

	broadcaster SheetBroadcaster
	notifier    TipNotifier

	mu        sync.RWMutex
	evaluator *engine.Evaluator
}

// NewPricingService creates a new pricing service
func NewPricingService(
	txRunner TxRunner,
	repos *repository.Repositories,
	evaluator *engine.Evaluator,
	evalCache *EvaluationCache,
	staking config.StakingConfig,
	baseLogger *logrus.Logger,
) *PricingService {
	return &PricingService{
		txRunner:   txRunner,
		players:    repos.Player,
		matches:    repos.Match,
		evals:      repos.Evaluation,
		tips:       repos.Tip,
		cache:      evalCache,
		staking:    staking,
		logger:     baseLogger,
		pricingLog: logger.NewPricingLogger(baseLogger),
		auditLog:   logger.NewAuditLogger(baseLogger),
		evaluator:  evaluator,
	}
}

// SetBroadcaster wires the websocket hub. Optional.
func (s *PricingService) SetBroadcaster(b SheetBroadcaster) {
	s.broadcaster = b
}

// SetNotifier wires the tip webhook client. Optional.
func (s *PricingService) SetNotifier(n TipNotifier) {
	s.notifier = n
}

// CreateMatch validates and stores a new match. When both pre-match
// odds are present the prior inversion runs immediately so the result
// is cached and logged before the first live cycle.
func (s *PricingService) CreateMatch(ctx context.Context, match *models.Match) error {
	if match.ID == uuid.Nil {
		match.ID = uuid.New()
	}
	if match.TargetFrames == 0 {
		match.TargetFrames = engine.TargetFromBestOf(match.BestOf)
	}
	if match.Status == "" {
		match.Status = models.MatchStatusScheduled
	}
	if err := match.Validate(); err != nil {
		return err
	}

	if _, err := s.players.GetByID(ctx, match.PlayerAID); err != nil {
		return fmt.Errorf("player A lookup failed: %w", err)
	}
	if _, err := s.players.GetByID(ctx, match.PlayerBID); err != nil {
		return fmt.Errorf("player B lookup failed: %w", err)
	}

	if match.PreMatchOddsA != nil && match.PreMatchOddsB != nil {
		if _, err := s.invertOdds(match.ID.String(), *match.PreMatchOddsA, *match.PreMatchOddsB, match.TargetFrames); err != nil {
			return fmt.Errorf("pre-match odds rejected: %w", err)
		}
	}

	if err := s.matches.Create(ctx, match); err != nil {
		return err
	}

	now := time.Now().UTC()
	match.CreatedAt = now
	match.UpdatedAt = now
	return nil
}

// GetMatch loads a match by ID
func (s *PricingService) GetMatch(ctx context.Context, matchID uuid.UUID) (*models.Match, error) {
	return s.matches.GetByID(ctx, matchID)
}

// UpdateScore applies a new frame score and advances the match
// lifecycle: the first score update marks the match live, reaching the
// frame target finishes it.
func (s *PricingService) UpdateScore(ctx context.Context, matchID uuid.UUID, framesA, framesB int) (*models.Match, error) {
	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.IsFinished() {
		return nil, models.ErrMatchFinished
	}
	if framesA < 0 || framesB < 0 || framesA > match.TargetFrames || framesB > match.TargetFrames {
		return nil, fmt.Errorf("score %d-%d outside race to %d", framesA, framesB, match.TargetFrames)
	}

	now := time.Now().UTC()
	match.FramesA = framesA
	match.FramesB = framesB
	if match.Status == models.MatchStatusScheduled {
		match.Status = models.MatchStatusLive
		match.StartedAt = &now
	}
	if match.Decided() {
		match.Status = models.MatchStatusFinished
		match.FinishedAt = &now
	}

	if err := s.matches.Update(ctx, match); err != nil {
		return nil, err
	}
	match.UpdatedAt = now

	s.cache.InvalidateMatch(matchID)
	return match, nil
}

// EvaluateMatch prices one live snapshot against the stored match
// state. Identical consecutive snapshots are served from cache without
// touching the database.
func (s *PricingService) EvaluateMatch(ctx context.Context, matchID uuid.UUID, snap LiveSnapshot) (*EvaluationOutcome, error) {
	start := time.Now()

	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.IsFinished() {
		return nil, models.ErrMatchFinished
	}

	playerA, err := s.players.GetByID(ctx, match.PlayerAID)
	if err != nil {
		return nil, fmt.Errorf("player A lookup failed: %w", err)
	}
	playerB, err := s.players.GetByID(ctx, match.PlayerBID)
	if err != nil {
		return nil, fmt.Errorf("player B lookup failed: %w", err)
	}

	input := engine.EvaluationInput{
		SeasonA:   playerA.SeasonStats(),
		SeasonB:   playerB.SeasonStats(),
		LiveA:     snap.LiveA,
		LiveB:     snap.LiveB,
		Score:     match.Score(),
		BookOddsA: snap.BookOddsA,
		BookOddsB: snap.BookOddsB,
	}

	if match.PreMatchOddsA != nil && match.PreMatchOddsB != nil {
		inv, err := s.invertOdds(matchID.String(), *match.PreMatchOddsA, *match.PreMatchOddsB, match.TargetFrames)
		if err != nil {
			return nil, err
		}
		input.PriorProb = inv.PriorProb
	}

	key := SheetKey{
		MatchID: matchID,
		FramesA: match.FramesA,
		FramesB: match.FramesB,
		ShotsA:  snap.LiveA.ShotsTaken,
		ShotsB:  snap.LiveB.ShotsTaken,
		OddsA:   snap.BookOddsA,
		OddsB:   snap.BookOddsB,
	}
	if sheet := s.cache.GetSheet(key); sheet != nil {
		s.pricingLog.LogEvaluation(matchID.String(), sheet.FrameProb, sheet.MatchProb, true, durationMs(start))
		return &EvaluationOutcome{Match: match, Sheet: sheet, CacheHit: true}, nil
	}

	sheet, err := s.currentEvaluator().Evaluate(input)
	if err != nil {
		s.pricingLog.LogEvaluationError(matchID.String(), err.Error())
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}
	s.cache.SetSheet(key, sheet)

	eval, err := models.NewEvaluation(matchID, input, sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to build evaluation record: %w", err)
	}

	tips := s.buildTips(match, eval, sheet, snap)

	err = s.txRunner.WithTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.evals.InsertWithTx(ctx, tx, eval); err != nil {
			return err
		}
		for _, tip := range tips {
			if err := s.tips.InsertWithTx(ctx, tx, tip); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist evaluation: %w", err)
	}

	metrics.RecordEvaluation(time.Since(start).Seconds())
	s.pricingLog.LogEvaluation(matchID.String(), sheet.FrameProb, sheet.MatchProb, false, durationMs(start))

	for _, tip := range tips {
		metrics.RecordTipIssued(tip.Classification)
		s.pricingLog.LogValueFlag(matchID.String(), string(tip.Side), tip.Edge, tip.BookOdds, tip.FairOdds, tip.Classification)
		s.auditLog.LogTipIssued(tip.ID.String(), matchID.String(), eval.ID.String(), string(tip.Side),
			tip.BookOdds, tip.FairOdds, tip.Edge, tip.SuggestedStake, tip.Classification, tip.CreatedAt)
	}

	s.broadcast(match, sheet, tips)
	s.notifyValueTips(tips)

	return &EvaluationOutcome{
		Match:      match,
		Evaluation: eval,
		Sheet:      sheet,
		Tips:       tips,
	}, nil
}

// Quote prices a standalone snapshot without any persistence
func (s *PricingService) Quote(input engine.EvaluationInput) (*engine.PriceSheet, error) {
	sheet, err := s.currentEvaluator().Evaluate(input)
	if err != nil {
		return nil, fmt.Errorf("quote failed: %w", err)
	}
	metrics.RecordQuote()
	return sheet, nil
}

// GetEvaluations returns recent price sheets for a match, newest first
func (s *PricingService) GetEvaluations(ctx context.Context, matchID uuid.UUID, limit int) ([]*models.Evaluation, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	return s.evals.GetByMatchID(ctx, matchID, limit)
}

// GetTips returns recent tips filtered by classification
func (s *PricingService) GetTips(ctx context.Context, classification string, limit int) ([]*models.Tip, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	return s.tips.GetByClassification(ctx, classification, limit)
}

// SettleTip closes an open tip as settled or void. Settled and voided
// tips become eligible for the retention purge.
func (s *PricingService) SettleTip(ctx context.Context, tipID uuid.UUID, status models.TipStatus) (*models.Tip, error) {
	if status != models.TipStatusSettled && status != models.TipStatusVoid {
		return nil, fmt.Errorf("status must be %s or %s", models.TipStatusSettled, models.TipStatusVoid)
	}

	tip, err := s.tips.GetByID(ctx, tipID)
	if err != nil {
		return nil, err
	}
	if !tip.IsOpen() {
		return nil, models.ErrTipNotOpen
	}

	if err := s.tips.UpdateStatus(ctx, tipID, status); err != nil {
		return nil, err
	}

	tip.Status = status
	s.auditLog.LogTipSettled(tip.ID.String(), string(status), "api")
	return tip, nil
}

// RedeliverPending retries webhook delivery for tips that were issued
// but never acknowledged, oldest first. Called at startup.
func (s *PricingService) RedeliverPending(ctx context.Context, limit int) (int, error) {
	if s.notifier == nil {
		return 0, nil
	}

	pending, err := s.tips.GetUnnotified(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to load pending tips: %w", err)
	}

	delivered := 0
	for _, tip := range pending {
		if tip.Classification != string(engine.ClassificationValue) {
			continue
		}
		if s.deliverTip(ctx, tip) {
			delivered++
		}
	}
	return delivered, nil
}

// SwapBaselines installs recomputed league baselines atomically.
// In-flight evaluations finish on the old coefficient set.
func (s *PricingService) SwapBaselines(baselines engine.LeagueBaselines) error {
	cfg := s.currentEvaluator().Config()
	old := cfg.Baselines
	cfg.Baselines = baselines

	evaluator, err := engine.NewEvaluator(cfg)
	if err != nil {
		return fmt.Errorf("recomputed baselines rejected: %w", err)
	}

	s.mu.Lock()
	s.evaluator = evaluator
	s.mu.Unlock()

	s.cache.Clear()
	s.auditLog.LogCoefficientChange("engine", "baselines", old, baselines, "baseline-refresh")
	return nil
}

func (s *PricingService) currentEvaluator() *engine.Evaluator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.evaluator
}

// invertOdds runs the cached pre-match inversion for one odds pair
func (s *PricingService) invertOdds(matchID string, oddsA, oddsB float64, targetFrames int) (*engine.InversionResult, error) {
	key := InversionKey{OddsA: oddsA, OddsB: oddsB, TargetFrames: targetFrames}
	if inv := s.cache.GetInversion(key); inv != nil {
		return inv, nil
	}

	result, err := engine.InvertPreMatchOdds(oddsA, oddsB, targetFrames, s.currentEvaluator().Config().Inversion)
	if err != nil {
		return nil, err
	}

	metrics.RecordInversion(result.Iterations, result.Converged)
	s.pricingLog.LogPriorInversion(matchID, result.ImpliedProb, result.PriorProb, result.Residual, result.Iterations, result.Converged)
	if !result.Converged {
		s.pricingLog.LogInversionStall(matchID, result.Residual, result.Iterations)
	}

	s.cache.SetInversion(key, &result)
	return &result, nil
}

// buildTips turns flagged value lines into tip records
func (s *PricingService) buildTips(match *models.Match, eval *models.Evaluation, sheet *engine.PriceSheet, snap LiveSnapshot) []*models.Tip {
	var tips []*models.Tip
	now := time.Now().UTC()

	if sheet.ValueA != nil && sheet.ValueA.Classification != engine.ClassificationNoValue {
		tips = append(tips, &models.Tip{
			ID:             uuid.New(),
			MatchID:        match.ID,
			EvaluationID:   eval.ID,
			Side:           models.TipSidePlayerA,
			BookOdds:       snap.BookOddsA,
			FairOdds:       sheet.FairOddsA,
			Edge:           sheet.ValueA.Edge,
			Classification: string(sheet.ValueA.Classification),
			SuggestedStake: s.suggestStake(sheet.ValueA.Edge, snap.BookOddsA),
			Status:         models.TipStatusOpen,
			CreatedAt:      now,
		})
	}
	if sheet.ValueB != nil && sheet.ValueB.Classification != engine.ClassificationNoValue {
		tips = append(tips, &models.Tip{
			ID:             uuid.New(),
			MatchID:        match.ID,
			EvaluationID:   eval.ID,
			Side:           models.TipSidePlayerB,
			BookOdds:       snap.BookOddsB,
			FairOdds:       sheet.FairOddsB,
			Edge:           sheet.ValueB.Edge,
			Classification: string(sheet.ValueB.Classification),
			SuggestedStake: s.suggestStake(sheet.ValueB.Edge, snap.BookOddsB),
			Status:         models.TipStatusOpen,
			CreatedAt:      now,
		})
	}
	return tips
}

// suggestStake sizes a tip with fractional Kelly, rounded to 2dp.
// Returns 0 when staking is disabled or the edge is not positive.
func (s *PricingService) suggestStake(edge, bookOdds float64) float64 {
	if s.staking.Bankroll <= 0 || edge <= 0 || bookOdds <= 1 {
		return 0
	}

	kelly := decimal.NewFromFloat(edge).Div(decimal.NewFromFloat(bookOdds - 1))
	stake := decimal.NewFromFloat(s.staking.Bankroll).
		Mul(kelly).
		Mul(decimal.NewFromFloat(s.staking.KellyFraction))

	if s.staking.MaxStake > 0 {
		maxStake := decimal.NewFromFloat(s.staking.MaxStake)
		if stake.GreaterThan(maxStake) {
			stake = maxStake
		}
	}

	value, _ := stake.Round(2).Float64()
	return value
}

func (s *PricingService) broadcast(match *models.Match, sheet *engine.PriceSheet, tips []*models.Tip) {
	if s.broadcaster == nil {
		return
	}

	payload, err := json.Marshal(StreamEvent{
		Type:      "price_sheet",
		MatchID:   match.ID,
		FramesA:   match.FramesA,
		FramesB:   match.FramesB,
		Sheet:     sheet,
		Tips:      tips,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		s.logger.WithError(err).Warn("Failed to encode stream event")
		return
	}
	s.broadcaster.Broadcast(payload)
}

// notifyValueTips pushes VALUE tips to the webhook off the request path
func (s *PricingService) notifyValueTips(tips []*models.Tip) {
	if s.notifier == nil {
		return
	}

	for _, tip := range tips {
		if tip.Classification != string(engine.ClassificationValue) {
			continue
		}

		go func(t models.Tip) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			s.deliverTip(ctx, &t)
		}(*tip)
	}
}

// deliverTip performs one webhook delivery and records the outcome
func (s *PricingService) deliverTip(ctx context.Context, tip *models.Tip) bool {
	statusCode, attempts, err := s.notifier.Deliver(ctx, tip)
	if err != nil {
		s.logger.WithError(err).WithField("tip_id", tip.ID).Warn("Tip delivery failed")
		return false
	}

	if err := s.tips.MarkNotified(ctx, tip.ID, time.Now().UTC()); err != nil {
		s.logger.WithError(err).WithField("tip_id", tip.ID).Warn("Failed to mark tip notified")
		return false
	}

	s.auditLog.LogTipNotified(tip.ID.String(), statusCode, attempts)
	return true
}

func durationMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
