package engine

// DefaultConfig returns the tuned coefficient set the engine ships with.
// Every value can be overridden through configuration.
func DefaultConfig() Config {
	return Config{
		SeasonWeights: SeasonWeights{
			WinRate:        0.82,
			PointsPerMatch: 0.70,
			Fifties:        0.60,
			Hundreds:       0.40,
			ShotTime:       0.46,
			GlobalScale:    0.72,
		},
		LiveWeights: LiveWeights{
			PotSuccess:   0.52,
			ShotTime:     0.44,
			Fifties:      0.34,
			Hundreds:     0.12,
			HighestBreak: 0.20,
			PointsShare:  0.68,
			ShotsShare:   0.43,
			TableTime:    0.44,
		},
		LiveSDs: LiveSDs{
			PotSuccess:   0.08,
			ShotTime:     2.2,
			Fifties:      1.8,
			Hundreds:     1.0,
			HighestBreak: 0.30,
			PointsShare:  0.18,
			ShotsShare:   0.18,
			TableTime:    0.16,
		},
		Baselines: LeagueBaselines{
			WinRate:          0.50,
			PointsPerMatch:   300.0,
			FiftiesPerMatch:  1.0,
			HundredsPerMatch: 0.15,
			ShotTime:         30.0,
		},
		Realism: Realism{
			LambdaShrink: 0.70,
			PMin:         0.45,
			PMax:         0.66,
			CapFrameProb: true,
			N0:           50,
			BetaLive:     0.25,
			KShots:       150,
			ZClip:        3.0,
		},
		Inversion: Inversion{
			Tolerance:     DefaultInversionTolerance,
			MaxIterations: DefaultInversionMaxIterations,
		},
		Thresholds: Thresholds{
			Value:    0.02,
			Marginal: 0.0,
		},
	}
}
