package engine

import "math"

// PlayerSeasonStats is an immutable snapshot of a player's season to date.
type PlayerSeasonStats struct {
	Points        float64 `json:"points"`
	MatchesPlayed int     `json:"matches_played"`
	WinRate       float64 `json:"win_rate"`
	AvgShotTime   float64 `json:"avg_shot_time"`
	Breaks50Plus  int     `json:"breaks_50_plus"`
	Breaks100Plus int     `json:"breaks_100_plus"`
}

// ComputeSeasonStrength converts season aggregates into a scalar strength
// index, centred near 0 for a league-average player. Each metric
// contributes its weighted deviation from the league baseline; faster
// shot times than baseline count as positive. A player with no matches
// contributes baseline-level strength on the per-match metrics rather
// than an error.
func ComputeSeasonStrength(stats PlayerSeasonStats, w SeasonWeights, base LeagueBaselines) float64 {
	idx := w.WinRate * (stats.WinRate - base.WinRate)

	if base.ShotTime > 0 {
		idx += w.ShotTime * (base.ShotTime - stats.AvgShotTime) / base.ShotTime
	}

	if stats.MatchesPlayed > 0 {
		mp := float64(stats.MatchesPlayed)
		if base.PointsPerMatch > 0 {
			ppm := stats.Points / mp
			idx += w.PointsPerMatch * (ppm - base.PointsPerMatch) / base.PointsPerMatch
		}
		// Break-rate denominators are floored so sparse baselines stay bounded.
		r50 := float64(stats.Breaks50Plus) / mp
		idx += w.Fifties * (r50 - base.FiftiesPerMatch) / math.Max(0.3, base.FiftiesPerMatch)
		r100 := float64(stats.Breaks100Plus) / mp
		idx += w.Hundreds * (r100 - base.HundredsPerMatch) / math.Max(0.05, base.HundredsPerMatch)
	}

	return w.GlobalScale * idx
}
