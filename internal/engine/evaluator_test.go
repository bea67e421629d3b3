package engine

import (
	"math"
	"testing"
)

func neutralInput() EvaluationInput {
	return EvaluationInput{
		SeasonA: baselinePlayer(),
		SeasonB: baselinePlayer(),
		LiveA:   evenLivePlayer(),
		LiveB:   evenLivePlayer(),
		Score:   ScoreState{FramesA: 0, FramesB: 0, TargetFrames: 4},
	}
}

func TestEvaluateNeutralMatch(t *testing.T) {
	ev, err := NewEvaluator(DefaultConfig())
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}

	sheet, err := ev.Evaluate(neutralInput())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if math.Abs(sheet.SeasonStrengthA-sheet.SeasonStrengthB) > 1e-12 {
		t.Fatalf("season strengths differ for identical players: %v vs %v", sheet.SeasonStrengthA, sheet.SeasonStrengthB)
	}
	if sheet.LiveBoost != 0 {
		t.Fatalf("live boost = %v, want 0", sheet.LiveBoost)
	}
	if sheet.PriorProb != 0.5 || !sheet.PriorConverged {
		t.Fatalf("missing market should default prior to 0.5, got %v", sheet.PriorProb)
	}
	if sheet.FrameProb != 0.5 {
		t.Fatalf("frame prob = %v, want 0.5", sheet.FrameProb)
	}
	if sheet.MatchProb != 0.5 {
		t.Fatalf("match prob = %v, want 0.5", sheet.MatchProb)
	}
	if sheet.FrameFairOdds != 2.0 || sheet.FairOddsA != 2.0 || sheet.FairOddsB != 2.0 {
		t.Fatalf("fair prices = %v / %v / %v, want 2.0 across", sheet.FrameFairOdds, sheet.FairOddsA, sheet.FairOddsB)
	}
	if sheet.ValueA != nil || sheet.ValueB != nil {
		t.Fatal("no book odds supplied, value lines should be absent")
	}
}

func TestEvaluateBookOdds(t *testing.T) {
	ev, err := NewEvaluator(DefaultConfig())
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}

	input := neutralInput()
	input.BookOddsA = 2.10
	input.BookOddsB = 1.95

	sheet, err := ev.Evaluate(input)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if sheet.ValueA == nil || sheet.ValueB == nil {
		t.Fatal("both value lines should be present")
	}
	if math.Abs(sheet.ValueA.Edge-0.05) > 1e-9 {
		t.Fatalf("edge A = %v, want 0.05", sheet.ValueA.Edge)
	}
	if sheet.ValueA.Classification != ClassificationValue {
		t.Fatalf("classification A = %s, want VALUE", sheet.ValueA.Classification)
	}
	if math.Abs(sheet.ValueB.Edge-(-0.025)) > 1e-9 {
		t.Fatalf("edge B = %v, want -0.025", sheet.ValueB.Edge)
	}
	if sheet.ValueB.Classification != ClassificationNoValue {
		t.Fatalf("classification B = %s, want NO_VALUE", sheet.ValueB.Classification)
	}
}

func TestEvaluatePreMatchMarket(t *testing.T) {
	ev, err := NewEvaluator(DefaultConfig())
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}

	input := neutralInput()
	input.PreMatchOddsA = 2.0
	input.PreMatchOddsB = 2.0

	sheet, err := ev.Evaluate(input)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if math.Abs(sheet.PriorProb-0.5) > 1e-4 {
		t.Fatalf("prior = %v, want ~0.5", sheet.PriorProb)
	}
	if !sheet.PriorConverged {
		t.Fatal("inversion of an even market should converge")
	}

	input.PreMatchOddsA = 1.5
	input.PreMatchOddsB = 2.6
	sheet, err = ev.Evaluate(input)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if sheet.PriorProb <= 0.5 {
		t.Fatalf("prior = %v, favourite should sit above 0.5", sheet.PriorProb)
	}
	if sheet.MatchProb <= 0.5 {
		t.Fatalf("match prob = %v, want above 0.5 for the market favourite", sheet.MatchProb)
	}
}

func TestEvaluatePriorOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Realism.LambdaShrink = 1
	cfg.Realism.CapFrameProb = false
	ev, err := NewEvaluator(cfg)
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}

	input := neutralInput()
	input.PriorProb = 0.6
	input.LiveA.ShotsTaken = 50
	input.LiveB.ShotsTaken = 50
	// Supplied odds must lose to the explicit prior.
	input.PreMatchOddsA = 1.8
	input.PreMatchOddsB = 2.1

	sheet, err := ev.Evaluate(input)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if sheet.PriorProb != 0.6 {
		t.Fatalf("prior = %v, want the supplied 0.6", sheet.PriorProb)
	}
	if sheet.PriorResidual != 0 || !sheet.PriorConverged {
		t.Fatalf("direct prior should skip inversion, got residual %v converged %v", sheet.PriorResidual, sheet.PriorConverged)
	}
	if math.Abs(sheet.FrameProb-0.5337374) > 1e-5 {
		t.Fatalf("frame prob = %v, want ~0.5337374", sheet.FrameProb)
	}
}

func TestEvaluateScoreline(t *testing.T) {
	ev, err := NewEvaluator(DefaultConfig())
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}

	input := neutralInput()
	input.Score = ScoreState{FramesA: 3, FramesB: 1, TargetFrames: 4}

	sheet, err := ev.Evaluate(input)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if sheet.MatchProb != 0.875 {
		t.Fatalf("match prob at 3-1 = %v, want 0.875", sheet.MatchProb)
	}
	if math.Abs(sheet.FairOddsA-8.0/7.0) > 1e-12 {
		t.Fatalf("fair odds A = %v, want 8/7", sheet.FairOddsA)
	}
}

func TestEvaluateDecidedMatch(t *testing.T) {
	ev, err := NewEvaluator(DefaultConfig())
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}

	input := neutralInput()
	input.Score = ScoreState{FramesA: 4, FramesB: 0, TargetFrames: 4}
	input.BookOddsB = 2.0

	sheet, err := ev.Evaluate(input)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if sheet.MatchProb != 1 {
		t.Fatalf("match prob = %v, want 1", sheet.MatchProb)
	}
	if sheet.FairOddsA != 1 {
		t.Fatalf("fair odds A = %v, want 1", sheet.FairOddsA)
	}
	if sheet.FairOddsB < 1e8 {
		t.Fatalf("fair odds B = %v, want a huge but finite price", sheet.FairOddsB)
	}
	if sheet.ValueB == nil || sheet.ValueB.Classification != ClassificationNoValue {
		t.Fatalf("backing the beaten side must never be value, got %+v", sheet.ValueB)
	}
	if sheet.ValueB.Edge > -0.99 {
		t.Fatalf("edge B = %v, want ~-1", sheet.ValueB.Edge)
	}
}

func TestEvaluateInvalidInput(t *testing.T) {
	ev, err := NewEvaluator(DefaultConfig())
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}

	input := neutralInput()
	input.PreMatchOddsA = 1.0
	input.PreMatchOddsB = 2.0
	if _, err := ev.Evaluate(input); err == nil {
		t.Fatal("expected error for sub-minimum pre-match odds")
	}

	input = neutralInput()
	input.Score.TargetFrames = 0
	if _, err := ev.Evaluate(input); err == nil {
		t.Fatal("expected error for zero frame target")
	}
}

func TestNewEvaluatorRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Realism.N0 = 0
	if _, err := NewEvaluator(cfg); err == nil {
		t.Fatal("expected error for non-positive n0")
	}

	cfg = DefaultConfig()
	cfg.Realism.LambdaShrink = 1.4
	if _, err := NewEvaluator(cfg); err == nil {
		t.Fatal("expected error for lambda above 1")
	}

	cfg = DefaultConfig()
	cfg.Thresholds.Marginal = 0.05
	cfg.Thresholds.Value = 0.02
	if _, err := NewEvaluator(cfg); err == nil {
		t.Fatal("expected error for inverted thresholds")
	}
}
