package engine

import "math"

// PlayerLiveStats is the latest in-play reading for one player. Shares
// and pot rate are fractions in [0,1].
type PlayerLiveStats struct {
	PotPct           float64 `json:"pot_pct"`
	AvgShotTime      float64 `json:"avg_shot_time"`
	Breaks50Plus     int     `json:"breaks_50_plus"`
	Breaks100Plus    int     `json:"breaks_100_plus"`
	HighestBreak     int     `json:"highest_break"`
	Points           float64 `json:"points"`
	ShotsTaken       int     `json:"shots_taken"`
	TimeOnTableShare float64 `json:"time_on_table_share"`
}

// ComputeLiveBoost turns the in-play differentials between both players
// into a reliability-weighted logit adjustment favouring player A when
// positive. Each differential is z-scored against its configured scale,
// clipped to the z bound, weighted and summed; the total is damped until
// enough shots have accumulated.
func ComputeLiveBoost(liveA, liveB PlayerLiveStats, w LiveWeights, sd LiveSDs, r Realism) float64 {
	z := func(diff, scale float64) float64 {
		return Clip(ZScore(diff, 0, scale), -r.ZClip, r.ZClip)
	}

	potDiff := liveA.PotPct - liveB.PotPct
	shotTimeDiff := liveB.AvgShotTime - liveA.AvgShotTime // faster A positive
	fiftiesDiff := float64(liveA.Breaks50Plus - liveB.Breaks50Plus)
	hundredsDiff := float64(liveA.Breaks100Plus - liveB.Breaks100Plus)
	highBreakDiff := float64(liveA.HighestBreak-liveB.HighestBreak) / 100.0
	pointsShare := liveA.Points/math.Max(1e-9, liveA.Points+liveB.Points) - 0.5
	shotsShare := float64(liveA.ShotsTaken)/math.Max(1e-9, float64(liveA.ShotsTaken+liveB.ShotsTaken)) - 0.5
	tableShare := liveA.TimeOnTableShare - 0.5

	raw := w.PotSuccess*z(potDiff, sd.PotSuccess) +
		w.ShotTime*z(shotTimeDiff, sd.ShotTime) +
		w.Fifties*z(fiftiesDiff, sd.Fifties) +
		w.Hundreds*z(hundredsDiff, sd.Hundreds) +
		w.HighestBreak*z(highBreakDiff, sd.HighestBreak) +
		w.PointsShare*z(pointsShare, sd.PointsShare) +
		w.ShotsShare*z(shotsShare, sd.ShotsShare) +
		w.TableTime*z(tableShare, sd.TableTime)

	totalShots := liveA.ShotsTaken + liveB.ShotsTaken
	return r.BetaLive * ReliabilityWeight(totalShots, r.KShots) * raw
}

// ReliabilityWeight is the fraction of live evidence trusted after
// totalShots observations: n/(n+k), rising toward 1 as shots accumulate.
func ReliabilityWeight(totalShots int, kShots float64) float64 {
	if totalShots <= 0 {
		return 0
	}
	if kShots <= 0 {
		return 1
	}
	n := float64(totalShots)
	return n / (n + kShots)
}
