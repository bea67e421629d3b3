package engine

import (
	"testing"

	"github.com/ChrisJamesShevlin/snooker/internal/config"
)

func appEngineConfig() *config.EngineConfig {
	return &config.EngineConfig{
		SeasonWeights: config.SeasonWeightsConfig{
			WinRate:        0.82,
			PointsPerMatch: 0.70,
			Fifties:        0.60,
			Hundreds:       0.40,
			ShotTime:       0.46,
			GlobalScale:    0.72,
		},
		LiveWeights: config.LiveWeightsConfig{
			PotSuccess:   0.52,
			ShotTime:     0.44,
			Fifties:      0.34,
			Hundreds:     0.12,
			HighestBreak: 0.20,
			PointsShare:  0.68,
			ShotsShare:   0.43,
			TableTime:    0.44,
		},
		LiveSDs: config.LiveSDsConfig{
			PotSuccess:   0.08,
			ShotTime:     2.2,
			Fifties:      1.8,
			Hundreds:     1.0,
			HighestBreak: 0.30,
			PointsShare:  0.18,
			ShotsShare:   0.18,
			TableTime:    0.16,
		},
		Baselines: config.BaselinesConfig{
			WinRate:          0.50,
			PointsPerMatch:   300.0,
			FiftiesPerMatch:  1.0,
			HundredsPerMatch: 0.15,
			ShotTime:         30.0,
		},
		Realism: config.RealismConfig{
			LambdaShrink: 0.70,
			PMin:         0.45,
			PMax:         0.66,
			CapFrameProb: true,
			N0:           50,
			BetaLive:     0.25,
			KShots:       150,
			ZClip:        3.0,
		},
		Inversion: config.InversionConfig{
			Tolerance:     1e-6,
			MaxIterations: 80,
		},
		Thresholds: config.ThresholdsConfig{
			Value:    0.02,
			Marginal: 0.0,
		},
	}
}

func TestFromConfig(t *testing.T) {
	cfg, err := FromConfig(appEngineConfig())
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}

	want := DefaultConfig()
	if cfg != want {
		t.Fatalf("converted config differs from defaults:\n got %+v\nwant %+v", cfg, want)
	}
}

func TestFromConfigNil(t *testing.T) {
	if _, err := FromConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestFromConfigInvalid(t *testing.T) {
	app := appEngineConfig()
	app.Realism.LambdaShrink = 1.5
	if _, err := FromConfig(app); err == nil {
		t.Fatal("expected error for lambda above 1")
	}

	app = appEngineConfig()
	app.Baselines.ShotTime = 0
	if _, err := FromConfig(app); err == nil {
		t.Fatal("expected error for zero shot-time baseline")
	}
}
