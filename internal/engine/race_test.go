package engine

import (
	"math"
	"testing"
)

func mustRaceTable(t *testing.T, pFrame float64, target int) *RaceTable {
	t.Helper()
	rt, err := NewRaceTable(pFrame, target)
	if err != nil {
		t.Fatalf("NewRaceTable(%v, %d): %v", pFrame, target, err)
	}
	return rt
}

func TestRaceTableTerminalStates(t *testing.T) {
	rt := mustRaceTable(t, 0.7, 4)
	if got := rt.WinProbability(4, 2); got != 1 {
		t.Fatalf("P(4,2) = %v, want 1", got)
	}
	if got := rt.WinProbability(2, 4); got != 0 {
		t.Fatalf("P(2,4) = %v, want 0", got)
	}
	if got := rt.WinProbability(5, 1); got != 1 {
		t.Fatalf("P(5,1) = %v, want 1", got)
	}
	if got := rt.WinProbability(0, 6); got != 0 {
		t.Fatalf("P(0,6) = %v, want 0", got)
	}
}

func TestRaceTableEvenMatchSymmetry(t *testing.T) {
	rt := mustRaceTable(t, 0.5, 4)
	if got := rt.WinProbability(0, 0); got != 0.5 {
		t.Fatalf("P(0,0) = %v, want exactly 0.5", got)
	}
	for a := 0; a < 4; a++ {
		for b := 0; b < 4; b++ {
			pAB := rt.WinProbability(a, b)
			pBA := rt.WinProbability(b, a)
			if math.Abs(pAB+pBA-1) > 1e-12 {
				t.Fatalf("P(%d,%d)+P(%d,%d) = %v, want 1", a, b, b, a, pAB+pBA)
			}
		}
	}
}

func TestRaceTableKnownValues(t *testing.T) {
	rt := mustRaceTable(t, 0.5, 4)
	if got := rt.WinProbability(3, 1); got != 0.875 {
		t.Fatalf("P(3,1 | 0.5, 4) = %v, want 0.875", got)
	}

	rt = mustRaceTable(t, 0.5, 2)
	if got := rt.WinProbability(1, 0); got != 0.75 {
		t.Fatalf("P(1,0 | 0.5, 2) = %v, want 0.75", got)
	}

	// Deciding frame: match probability collapses to the frame probability.
	rt = mustRaceTable(t, 0.37, 4)
	if got := rt.WinProbability(3, 3); got != 0.37 {
		t.Fatalf("P(3,3 | 0.37, 4) = %v, want 0.37", got)
	}
}

func TestRaceTableDegenerateFrameProb(t *testing.T) {
	rt := mustRaceTable(t, 1, 5)
	if got := rt.WinProbability(0, 0); got != 1 {
		t.Fatalf("P(0,0 | 1) = %v, want 1", got)
	}
	rt = mustRaceTable(t, 0, 5)
	if got := rt.WinProbability(0, 0); got != 0 {
		t.Fatalf("P(0,0 | 0) = %v, want 0", got)
	}
}

func TestRaceTableMonotonicInFrameProb(t *testing.T) {
	prev := -1.0
	for _, p := range []float64{0.2, 0.4, 0.5, 0.6, 0.8} {
		rt := mustRaceTable(t, p, 5)
		got := rt.WinProbability(0, 0)
		if got <= prev {
			t.Fatalf("P(0,0 | %v) = %v, not increasing past %v", p, got, prev)
		}
		prev = got
	}
}

func TestRaceTableLeaderAdvantage(t *testing.T) {
	rt := mustRaceTable(t, 0.5, 5)
	ahead := rt.WinProbability(3, 0)
	level := rt.WinProbability(0, 0)
	behind := rt.WinProbability(0, 3)
	if !(ahead > level && level > behind) {
		t.Fatalf("want P(3,0) > P(0,0) > P(0,3), got %v, %v, %v", ahead, level, behind)
	}
}

func TestNewRaceTableDomain(t *testing.T) {
	cases := []struct {
		pFrame float64
		target int
	}{
		{0.5, 0},
		{0.5, -3},
		{-0.1, 4},
		{1.1, 4},
		{math.NaN(), 4},
	}
	for _, c := range cases {
		if _, err := NewRaceTable(c.pFrame, c.target); err == nil {
			t.Fatalf("NewRaceTable(%v, %d): expected error", c.pFrame, c.target)
		}
	}
}

func TestTargetFromBestOf(t *testing.T) {
	cases := map[int]int{1: 1, 7: 4, 11: 6, 19: 10, 35: 18}
	for bestOf, want := range cases {
		if got := TargetFromBestOf(bestOf); got != want {
			t.Fatalf("TargetFromBestOf(%d) = %d, want %d", bestOf, got, want)
		}
	}
}

func TestMatchWinProbability(t *testing.T) {
	got, err := MatchWinProbability(0.5, ScoreState{FramesA: 3, FramesB: 1, TargetFrames: 4})
	if err != nil {
		t.Fatalf("MatchWinProbability: %v", err)
	}
	if got != 0.875 {
		t.Fatalf("match probability = %v, want 0.875", got)
	}

	if _, err := MatchWinProbability(0.5, ScoreState{TargetFrames: 0}); err == nil {
		t.Fatal("expected error for zero target")
	}
}
