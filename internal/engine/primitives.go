package engine

import "math"

// probEpsilon bounds probabilities away from 0 and 1 before internal
// logit transforms.
const probEpsilon = 1e-6

// Logit returns the log-odds ln(p/(1-p)) of a probability in (0,1).
func Logit(p float64) (float64, error) {
	if math.IsNaN(p) || p <= 0 || p >= 1 {
		return 0, NewDomainError("logit", p)
	}
	return math.Log(p / (1 - p)), nil
}

// InvLogit returns 1/(1+e^-x). Defined for every real x.
func InvLogit(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// ZScore standardizes value against mean and sd. A non-positive sd marks
// the metric as uninformative and yields 0 rather than an error.
func ZScore(value, mean, sd float64) float64 {
	if sd <= 0 {
		return 0
	}
	return (value - mean) / sd
}

// Clip bounds x to [lo, hi].
func Clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func clampProb(p float64) float64 {
	return Clip(p, probEpsilon, 1-probEpsilon)
}
