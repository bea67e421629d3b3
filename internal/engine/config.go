package engine

import (
	"fmt"

	"github.com/ChrisJamesShevlin/snooker/internal/config"
)

// Decimal odds below this are rejected as malformed market prices.
const MinDecimalOdds = 1.01

// Fallbacks when the inversion settings are left zero.
const (
	DefaultInversionTolerance     = 1e-6
	DefaultInversionMaxIterations = 80
)

// SeasonWeights are free coefficients applied to season metric deviations.
// No invariant ties them to sum to 1.
type SeasonWeights struct {
	WinRate        float64
	PointsPerMatch float64
	Fifties        float64
	Hundreds       float64
	ShotTime       float64
	GlobalScale    float64
}

// LiveWeights are free coefficients applied to live metric z-scores.
type LiveWeights struct {
	PotSuccess   float64
	ShotTime     float64
	Fifties      float64
	Hundreds     float64
	HighestBreak float64
	PointsShare  float64
	ShotsShare   float64
	TableTime    float64
}

// LiveSDs are scale estimates for the live differentials, each in the
// natural unit of its differential (fractions for pot rate and shares,
// seconds for shot time, counts for breaks, hundredths for highest break).
type LiveSDs struct {
	PotSuccess   float64
	ShotTime     float64
	Fifties      float64
	Hundreds     float64
	HighestBreak float64
	PointsShare  float64
	ShotsShare   float64
	TableTime    float64
}

// LeagueBaselines are soft league-average centres for the season metrics.
// A player sitting exactly on every baseline has strength 0.
type LeagueBaselines struct {
	WinRate          float64
	PointsPerMatch   float64
	FiftiesPerMatch  float64
	HundredsPerMatch float64
	ShotTime         float64
}

// Realism dampens and bounds the per-frame probability.
type Realism struct {
	LambdaShrink float64
	PMin         float64
	PMax         float64
	CapFrameProb bool
	N0           float64
	BetaLive     float64
	KShots       float64
	ZClip        float64
}

// frameCaps returns the per-frame bounds with min and max pinned to their
// own side of 0.5, swapped if supplied inverted.
func (r Realism) frameCaps() (float64, float64) {
	lo := Clip(r.PMin, 0, 0.5)
	hi := Clip(r.PMax, 0.5, 1)
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

// Inversion bounds the pre-match odds bisection.
type Inversion struct {
	Tolerance     float64
	MaxIterations int
}

// Thresholds classify the computed edge against bookmaker prices.
type Thresholds struct {
	Value    float64
	Marginal float64
}

// Config bundles every coefficient one evaluation cycle consumes. It is
// treated as immutable once handed to an Evaluator.
type Config struct {
	SeasonWeights SeasonWeights
	LiveWeights   LiveWeights
	LiveSDs       LiveSDs
	Baselines     LeagueBaselines
	Realism       Realism
	Inversion     Inversion
	Thresholds    Thresholds
}

// FromConfig converts app config to engine config
func FromConfig(cfg *config.EngineConfig) (Config, error) {
	if cfg == nil {
		return Config{}, fmt.Errorf("engine config is required")
	}

	ec := Config{
		SeasonWeights: SeasonWeights{
			WinRate:        cfg.SeasonWeights.WinRate,
			PointsPerMatch: cfg.SeasonWeights.PointsPerMatch,
			Fifties:        cfg.SeasonWeights.Fifties,
			Hundreds:       cfg.SeasonWeights.Hundreds,
			ShotTime:       cfg.SeasonWeights.ShotTime,
			GlobalScale:    cfg.SeasonWeights.GlobalScale,
		},
		LiveWeights: LiveWeights{
			PotSuccess:   cfg.LiveWeights.PotSuccess,
			ShotTime:     cfg.LiveWeights.ShotTime,
			Fifties:      cfg.LiveWeights.Fifties,
			Hundreds:     cfg.LiveWeights.Hundreds,
			HighestBreak: cfg.LiveWeights.HighestBreak,
			PointsShare:  cfg.LiveWeights.PointsShare,
			ShotsShare:   cfg.LiveWeights.ShotsShare,
			TableTime:    cfg.LiveWeights.TableTime,
		},
		LiveSDs: LiveSDs{
			PotSuccess:   cfg.LiveSDs.PotSuccess,
			ShotTime:     cfg.LiveSDs.ShotTime,
			Fifties:      cfg.LiveSDs.Fifties,
			Hundreds:     cfg.LiveSDs.Hundreds,
			HighestBreak: cfg.LiveSDs.HighestBreak,
			PointsShare:  cfg.LiveSDs.PointsShare,
			ShotsShare:   cfg.LiveSDs.ShotsShare,
			TableTime:    cfg.LiveSDs.TableTime,
		},
		Baselines: LeagueBaselines{
			WinRate:          cfg.Baselines.WinRate,
			PointsPerMatch:   cfg.Baselines.PointsPerMatch,
			FiftiesPerMatch:  cfg.Baselines.FiftiesPerMatch,
			HundredsPerMatch: cfg.Baselines.HundredsPerMatch,
			ShotTime:         cfg.Baselines.ShotTime,
		},
		Realism: Realism{
			LambdaShrink: cfg.Realism.LambdaShrink,
			PMin:         cfg.Realism.PMin,
			PMax:         cfg.Realism.PMax,
			CapFrameProb: cfg.Realism.CapFrameProb,
			N0:           cfg.Realism.N0,
			BetaLive:     cfg.Realism.BetaLive,
			KShots:       cfg.Realism.KShots,
			ZClip:        cfg.Realism.ZClip,
		},
		Inversion: Inversion{
			Tolerance:     cfg.Inversion.Tolerance,
			MaxIterations: cfg.Inversion.MaxIterations,
		},
		Thresholds: Thresholds{
			Value:    cfg.Thresholds.Value,
			Marginal: cfg.Thresholds.Marginal,
		},
	}

	return ec, ec.Validate()
}

// Validate validates engine config parameters
func (c Config) Validate() error {
	if c.Realism.LambdaShrink < 0 || c.Realism.LambdaShrink > 1 {
		return fmt.Errorf("lambda shrink must be between 0 and 1")
	}
	if c.Realism.N0 <= 0 {
		return fmt.Errorf("equivalent-frames constant n0 must be positive")
	}
	if c.Realism.KShots <= 0 {
		return fmt.Errorf("reliability constant k_shots must be positive")
	}
	if c.Realism.ZClip <= 0 {
		return fmt.Errorf("z clip bound must be positive")
	}
	if c.Realism.CapFrameProb {
		if c.Realism.PMin <= 0 || c.Realism.PMin > 0.5 {
			return fmt.Errorf("p_min must be in (0, 0.5]")
		}
		if c.Realism.PMax < 0.5 || c.Realism.PMax >= 1 {
			return fmt.Errorf("p_max must be in [0.5, 1)")
		}
	}
	if c.Baselines.PointsPerMatch <= 0 || c.Baselines.ShotTime <= 0 {
		return fmt.Errorf("points-per-match and shot-time baselines must be positive")
	}
	if c.Thresholds.Marginal > c.Thresholds.Value {
		return fmt.Errorf("marginal threshold cannot exceed value threshold")
	}
	if c.Inversion.Tolerance < 0 {
		return fmt.Errorf("inversion tolerance cannot be negative")
	}
	if c.Inversion.MaxIterations < 0 {
		return fmt.Errorf("inversion iteration cap cannot be negative")
	}
	return nil
}
