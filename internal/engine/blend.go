package engine

// BlendSignal combines the season-plus-live signal with the market prior
// into a single per-frame probability for player A.
//
// The signal probability is the inverse logit of seasonDiff+liveBoost.
// Prior and signal are blended in logit space with equivalent-frames
// weighting: wPrior = n0/(n0+totalShots), so zero shots gives the prior
// full weight. Shrinkage toward 0.5 is a distinct post-blend step, a
// multiplication of the blended logit by lambda. The pMin/pMax caps,
// when enabled, apply to the signal before blending and to the final
// probability.
//
// Both probabilities are pulled inside (0,1) before any logit, so the
// only error surface is non-finite input.
func BlendSignal(seasonDiff, liveBoost, priorProb float64, totalShots int, r Realism) (float64, error) {
	pSignal := InvLogit(seasonDiff + liveBoost)
	pMin, pMax := r.frameCaps()
	if r.CapFrameProb {
		pSignal = Clip(pSignal, pMin, pMax)
	}

	logitPrior, err := Logit(clampProb(priorProb))
	if err != nil {
		return 0, err
	}
	logitSignal, err := Logit(clampProb(pSignal))
	if err != nil {
		return 0, err
	}

	wPrior := 0.0
	if totalShots <= 0 {
		wPrior = 1.0
	} else if r.N0 > 0 {
		wPrior = r.N0 / (r.N0 + float64(totalShots))
	}
	blended := wPrior*logitPrior + (1-wPrior)*logitSignal

	lambda := Clip(r.LambdaShrink, 0, 1)
	pFrame := InvLogit(lambda * blended)
	if r.CapFrameProb {
		pFrame = Clip(pFrame, pMin, pMax)
	}
	return pFrame, nil
}
