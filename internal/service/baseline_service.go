package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ChrisJamesShevlin/snooker/internal/engine"
	"github.com/ChrisJamesShevlin/snooker/internal/logger"
	"github.com/ChrisJamesShevlin/snooker/internal/models"
	"github.com/ChrisJamesShevlin/snooker/internal/repository"
)

// BaselineSwapper installs a recomputed baseline set on the live engine
type BaselineSwapper interface {
	SwapBaselines(baselines engine.LeagueBaselines) error
}

// BaselineService recomputes league-average baselines from stored
// player season form. Strength scores centre on these averages, so a
// drifting field would otherwise skew every price the same way.
type BaselineService struct {
	players    repository.PlayerRepository
	pricing    BaselineSwapper
	logger     *logrus.Logger
	pricingLog *logger.PricingLogger
}

// NewBaselineService creates a new baseline service
func NewBaselineService(players repository.PlayerRepository, pricing BaselineSwapper, baseLogger *logrus.Logger) *BaselineService {
	return &BaselineService{
		players:    players,
		pricing:    pricing,
		logger:     baseLogger,
		pricingLog: logger.NewPricingLogger(baseLogger),
	}
}

// RefreshBaselines recomputes the league averages and swaps them onto
// the live evaluator. Returns the number of players counted. Players
// without completed matches carry no signal and are excluded upstream.
func (s *BaselineService) RefreshBaselines(ctx context.Context) (int, error) {
	start := time.Now()

	players, err := s.players.GetWithMatches(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load players for baseline refresh: %w", err)
	}

	if len(players) == 0 {
		s.logger.Warn("Baseline refresh skipped: no players with recorded matches")
		return 0, nil
	}

	baselines := computeBaselines(players)
	if err := s.pricing.SwapBaselines(baselines); err != nil {
		return 0, fmt.Errorf("failed to install refreshed baselines: %w", err)
	}

	durationMs := float64(time.Since(start).Microseconds()) / 1000.0
	s.pricingLog.LogBaselineRefresh(len(players), durationMs)

	s.logger.WithFields(logrus.Fields{
		"players":            len(players),
		"win_rate":           baselines.WinRate,
		"points_per_match":   baselines.PointsPerMatch,
		"fifties_per_match":  baselines.FiftiesPerMatch,
		"hundreds_per_match": baselines.HundredsPerMatch,
		"shot_time":          baselines.ShotTime,
	}).Info("League baselines refreshed")

	return len(players), nil
}

// computeBaselines averages each player's per-match rates so that a
// player with 40 matches weighs the same as one with 4.
func computeBaselines(players []*models.Player) engine.LeagueBaselines {
	var b engine.LeagueBaselines
	n := float64(len(players))

	for _, p := range players {
		matches := float64(p.MatchesPlayed)
		b.WinRate += p.WinRate / n
		b.PointsPerMatch += p.SeasonPoints / matches / n
		b.FiftiesPerMatch += float64(p.Breaks50Plus) / matches / n
		b.HundredsPerMatch += float64(p.Breaks100Plus) / matches / n
		b.ShotTime += p.AvgShotTime / n
	}
	return b
}
