package engine

import "math"

// Fair prices are floored here so a decided match prints a huge but
// finite odds figure instead of failing.
const minFairProb = 1e-9

// EvaluationInput is one full operator snapshot for a live match. Odds
// fields left at zero mean the corresponding market price was not
// supplied: a missing pre-match market yields a 0.5 prior, a missing
// book price skips that side's value line.
type EvaluationInput struct {
	SeasonA PlayerSeasonStats `json:"season_a"`
	SeasonB PlayerSeasonStats `json:"season_b"`
	LiveA   PlayerLiveStats   `json:"live_a"`
	LiveB   PlayerLiveStats   `json:"live_b"`
	Score   ScoreState        `json:"score"`

	// PriorProb in (0,1) supplies the frame prior directly; the
	// pre-match odds are then ignored and no inversion runs.
	PriorProb float64 `json:"prior_prob,omitempty"`

	PreMatchOddsA float64 `json:"pre_match_odds_a,omitempty"`
	PreMatchOddsB float64 `json:"pre_match_odds_b,omitempty"`
	BookOddsA     float64 `json:"book_odds_a,omitempty"`
	BookOddsB     float64 `json:"book_odds_b,omitempty"`
}

// PriceSheet is the complete output of one evaluation cycle.
type PriceSheet struct {
	SeasonStrengthA float64 `json:"season_strength_a"`
	SeasonStrengthB float64 `json:"season_strength_b"`
	LiveBoost       float64 `json:"live_boost"`

	PriorProb      float64 `json:"prior_prob"`
	PriorResidual  float64 `json:"prior_residual"`
	PriorConverged bool    `json:"prior_converged"`

	FrameProb     float64 `json:"frame_prob"`
	FrameFairOdds float64 `json:"frame_fair_odds"`
	MatchProb     float64 `json:"match_prob"`
	FairOddsA     float64 `json:"fair_odds_a"`
	FairOddsB     float64 `json:"fair_odds_b"`

	ValueA *ValueResult `json:"value_a,omitempty"`
	ValueB *ValueResult `json:"value_b,omitempty"`
}

// Evaluator runs complete pricing cycles against an immutable
// configuration snapshot. It holds no mutable state and is safe for
// concurrent use.
type Evaluator struct {
	cfg Config
}

// NewEvaluator creates an evaluator after validating the configuration.
func NewEvaluator(cfg Config) (*Evaluator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Evaluator{cfg: cfg}, nil
}

// Config returns the evaluator's configuration snapshot.
func (e *Evaluator) Config() Config {
	return e.cfg
}

// Evaluate runs one full cycle: pre-match prior inversion, season
// strengths, live boost, prior/signal blend, score-adjusted race, fair
// prices for the frame and both match sides, and value comparison for
// any supplied book odds.
func (e *Evaluator) Evaluate(input EvaluationInput) (*PriceSheet, error) {
	sheet := &PriceSheet{PriorProb: 0.5, PriorConverged: true}

	switch {
	case input.PriorProb > 0 && input.PriorProb < 1:
		sheet.PriorProb = input.PriorProb
	case input.PreMatchOddsA > 0 || input.PreMatchOddsB > 0:
		inversion, err := InvertPreMatchOdds(input.PreMatchOddsA, input.PreMatchOddsB, input.Score.TargetFrames, e.cfg.Inversion)
		if err != nil {
			return nil, err
		}
		sheet.PriorProb = inversion.PriorProb
		sheet.PriorResidual = inversion.Residual
		sheet.PriorConverged = inversion.Converged
	}

	sheet.SeasonStrengthA = ComputeSeasonStrength(input.SeasonA, e.cfg.SeasonWeights, e.cfg.Baselines)
	sheet.SeasonStrengthB = ComputeSeasonStrength(input.SeasonB, e.cfg.SeasonWeights, e.cfg.Baselines)
	seasonDiff := sheet.SeasonStrengthA - sheet.SeasonStrengthB

	sheet.LiveBoost = ComputeLiveBoost(input.LiveA, input.LiveB, e.cfg.LiveWeights, e.cfg.LiveSDs, e.cfg.Realism)

	totalShots := input.LiveA.ShotsTaken + input.LiveB.ShotsTaken
	pFrame, err := BlendSignal(seasonDiff, sheet.LiveBoost, sheet.PriorProb, totalShots, e.cfg.Realism)
	if err != nil {
		return nil, err
	}
	sheet.FrameProb = pFrame

	table, err := NewRaceTable(pFrame, input.Score.TargetFrames)
	if err != nil {
		return nil, err
	}
	sheet.MatchProb = table.WinProbability(input.Score.FramesA, input.Score.FramesB)

	if sheet.FrameFairOdds, err = FairOdds(math.Max(minFairProb, pFrame)); err != nil {
		return nil, err
	}
	if sheet.FairOddsA, err = FairOdds(math.Max(minFairProb, sheet.MatchProb)); err != nil {
		return nil, err
	}
	if sheet.FairOddsB, err = FairOdds(math.Max(minFairProb, 1-sheet.MatchProb)); err != nil {
		return nil, err
	}

	if input.BookOddsA > 0 {
		value, err := CompareValue(math.Max(minFairProb, sheet.MatchProb), input.BookOddsA, e.cfg.Thresholds.Value, e.cfg.Thresholds.Marginal)
		if err != nil {
			return nil, err
		}
		sheet.ValueA = &value
	}
	if input.BookOddsB > 0 {
		value, err := CompareValue(math.Max(minFairProb, 1-sheet.MatchProb), input.BookOddsB, e.cfg.Thresholds.Value, e.cfg.Thresholds.Marginal)
		if err != nil {
			return nil, err
		}
		sheet.ValueB = &value
	}

	return sheet, nil
}
