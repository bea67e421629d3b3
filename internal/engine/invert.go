package engine

// InversionResult is the fails-soft outcome of the pre-match odds search.
// PriorProb is always usable; Converged reports whether the bracket
// narrowed below tolerance within the iteration budget, and Residual the
// remaining error at the returned estimate.
type InversionResult struct {
	PriorProb   float64 `json:"prior_prob"`
	ImpliedProb float64 `json:"implied_prob"`
	Residual    float64 `json:"residual"`
	Iterations  int     `json:"iterations"`
	Converged   bool    `json:"converged"`
}

// InvertPreMatchOdds recovers the per-frame probability whose pre-match
// race value reproduces the bookmaker's implied match probability for
// player A, with the overround removed by normalizing both implied
// probabilities to sum to 1.
//
// The race value is strictly increasing in the per-frame probability, so
// bisection over (eps, 1-eps) converges. The search never fails for
// in-domain odds: it returns the final bracket midpoint along with the
// residual and a converged flag.
func InvertPreMatchOdds(oddsA, oddsB float64, targetFrames int, inv Inversion) (InversionResult, error) {
	if oddsA < MinDecimalOdds {
		return InversionResult{}, NewDomainError("invert odds A", oddsA)
	}
	if oddsB < MinDecimalOdds {
		return InversionResult{}, NewDomainError("invert odds B", oddsB)
	}

	rawA := 1 / oddsA
	rawB := 1 / oddsB
	implied := rawA / (rawA + rawB)

	tolerance := inv.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultInversionTolerance
	}
	maxIterations := inv.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultInversionMaxIterations
	}

	lo, hi := probEpsilon, 1-probEpsilon
	iterations := 0
	for iterations < maxIterations && hi-lo > tolerance {
		mid := (lo + hi) / 2
		value, err := MatchWinProbability(mid, ScoreState{TargetFrames: targetFrames})
		if err != nil {
			return InversionResult{}, err
		}
		if value < implied {
			lo = mid
		} else {
			hi = mid
		}
		iterations++
	}

	estimate := (lo + hi) / 2
	value, err := MatchWinProbability(estimate, ScoreState{TargetFrames: targetFrames})
	if err != nil {
		return InversionResult{}, err
	}

	return InversionResult{
		PriorProb:   estimate,
		ImpliedProb: implied,
		Residual:    value - implied,
		Iterations:  iterations,
		Converged:   hi-lo <= tolerance,
	}, nil
}
