package engine

import "math"

// ScoreState is a live frame score with the number of frames needed to
// win the match.
type ScoreState struct {
	FramesA      int `json:"frames_a"`
	FramesB      int `json:"frames_b"`
	TargetFrames int `json:"target_frames"`
}

// TargetFromBestOf converts a best-of format to the frames needed to win,
// e.g. best-of 7 -> 4, best-of 19 -> 10.
func TargetFromBestOf(bestOf int) int {
	return bestOf/2 + 1
}

// RaceTable holds the tabulated match-win probabilities for one fixed
// (per-frame probability, target) pair. It is valid only for that pair
// and must be rebuilt when either changes.
type RaceTable struct {
	pFrame float64
	target int
	probs  [][]float64
}

// NewRaceTable tabulates P(A wins the match) for every score up to the
// target, working backward from the terminal edges. pFrame of exactly 0
// or 1 is legal and produces exact deterministic results.
func NewRaceTable(pFrame float64, targetFrames int) (*RaceTable, error) {
	if targetFrames <= 0 {
		return nil, NewDomainError("race target", float64(targetFrames))
	}
	if math.IsNaN(pFrame) || pFrame < 0 || pFrame > 1 {
		return nil, NewDomainError("race frame probability", pFrame)
	}

	t := targetFrames
	probs := make([][]float64, t+1)
	for a := range probs {
		probs[a] = make([]float64, t+1)
	}
	for b := 0; b < t; b++ {
		probs[t][b] = 1 // A has already won
	}
	// probs[a][t] stays 0: B has already won.
	for a := t - 1; a >= 0; a-- {
		for b := t - 1; b >= 0; b-- {
			probs[a][b] = pFrame*probs[a+1][b] + (1-pFrame)*probs[a][b+1]
		}
	}

	return &RaceTable{pFrame: pFrame, target: t, probs: probs}, nil
}

// PFrame returns the per-frame probability the table was built for.
func (rt *RaceTable) PFrame() float64 {
	return rt.pFrame
}

// Target returns the frames-needed-to-win the table was built for.
func (rt *RaceTable) Target() int {
	return rt.target
}

// WinProbability returns A's match-win probability from the given score.
// Scores at or beyond the target are terminal.
func (rt *RaceTable) WinProbability(framesA, framesB int) float64 {
	if framesA >= rt.target {
		return 1
	}
	if framesB >= rt.target {
		return 0
	}
	if framesA < 0 {
		framesA = 0
	}
	if framesB < 0 {
		framesB = 0
	}
	return rt.probs[framesA][framesB]
}

// MatchWinProbability answers a single score query, building and
// discarding the tabulation. Callers issuing repeated queries for the
// same per-frame probability should hold a RaceTable instead.
func MatchWinProbability(pFrame float64, score ScoreState) (float64, error) {
	rt, err := NewRaceTable(pFrame, score.TargetFrames)
	if err != nil {
		return 0, err
	}
	return rt.WinProbability(score.FramesA, score.FramesB), nil
}
