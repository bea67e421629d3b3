package engine

import (
	"math"
	"testing"
)

func baselinePlayer() PlayerSeasonStats {
	// Sits exactly on every default league baseline.
	return PlayerSeasonStats{
		Points:        6000,
		MatchesPlayed: 20,
		WinRate:       0.50,
		AvgShotTime:   30.0,
		Breaks50Plus:  20,
		Breaks100Plus: 3,
	}
}

func TestSeasonStrengthBaselinePlayer(t *testing.T) {
	cfg := DefaultConfig()
	got := ComputeSeasonStrength(baselinePlayer(), cfg.SeasonWeights, cfg.Baselines)
	if math.Abs(got) > 1e-12 {
		t.Fatalf("baseline player strength = %v, want 0", got)
	}
}

func TestSeasonStrengthZeroMatches(t *testing.T) {
	cfg := DefaultConfig()
	stats := PlayerSeasonStats{
		Points:        500,
		MatchesPlayed: 0,
		WinRate:       0.50,
		AvgShotTime:   30.0,
		Breaks50Plus:  4,
		Breaks100Plus: 1,
	}
	if got := ComputeSeasonStrength(stats, cfg.SeasonWeights, cfg.Baselines); got != 0 {
		t.Fatalf("zero-match player at baseline win rate = %v, want 0", got)
	}

	stats.WinRate = 0.75
	got := ComputeSeasonStrength(stats, cfg.SeasonWeights, cfg.Baselines)
	want := cfg.SeasonWeights.GlobalScale * cfg.SeasonWeights.WinRate * 0.25
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("zero-match player strength = %v, want %v", got, want)
	}
}

func TestSeasonStrengthFasterShotTimePositive(t *testing.T) {
	w := SeasonWeights{ShotTime: 0.5, GlobalScale: 2}
	base := LeagueBaselines{WinRate: 0.5, PointsPerMatch: 300, FiftiesPerMatch: 1, HundredsPerMatch: 0.15, ShotTime: 30}
	stats := PlayerSeasonStats{WinRate: 0.5, AvgShotTime: 24}

	got := ComputeSeasonStrength(stats, w, base)
	if math.Abs(got-0.2) > 1e-12 {
		t.Fatalf("shot time term = %v, want 0.2", got)
	}

	stats.AvgShotTime = 36
	if got := ComputeSeasonStrength(stats, w, base); got >= 0 {
		t.Fatalf("slower player should be negative, got %v", got)
	}
}

func TestSeasonStrengthAboveBaseline(t *testing.T) {
	cfg := DefaultConfig()
	strong := baselinePlayer()
	strong.WinRate = 0.70
	strong.Points = 8000
	strong.Breaks100Plus = 10

	weak := baselinePlayer()
	weak.WinRate = 0.35
	weak.AvgShotTime = 34

	strongIdx := ComputeSeasonStrength(strong, cfg.SeasonWeights, cfg.Baselines)
	weakIdx := ComputeSeasonStrength(weak, cfg.SeasonWeights, cfg.Baselines)
	if strongIdx <= 0 {
		t.Fatalf("above-baseline player strength = %v, want positive", strongIdx)
	}
	if weakIdx >= 0 {
		t.Fatalf("below-baseline player strength = %v, want negative", weakIdx)
	}
	if strongIdx <= weakIdx {
		t.Fatalf("ordering violated: %v <= %v", strongIdx, weakIdx)
	}
}
