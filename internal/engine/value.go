package engine

import "math"

// Classification buckets the edge of a model price against the book.
type Classification string

// Edge classifications
const (
	ClassificationValue    Classification = "VALUE"
	ClassificationMarginal Classification = "MARGINAL"
	ClassificationNoValue  Classification = "NO_VALUE"
)

// ValueResult pairs a computed edge with its classification.
type ValueResult struct {
	Edge           float64        `json:"edge"`
	Classification Classification `json:"classification"`
}

// FairOdds converts a probability to the break-even decimal price.
func FairOdds(prob float64) (float64, error) {
	if math.IsNaN(prob) || prob <= 0 {
		return 0, NewDomainError("fair odds", prob)
	}
	return 1 / prob, nil
}

// CompareValue computes the expected value per unit stake of backing at
// bookOdds given the model probability, and classifies it: above the
// value threshold is VALUE, between the marginal and value thresholds is
// MARGINAL, below is NO_VALUE.
func CompareValue(prob, bookOdds, valueThreshold, marginalThreshold float64) (ValueResult, error) {
	if math.IsNaN(prob) || prob <= 0 || prob > 1 {
		return ValueResult{}, NewDomainError("compare probability", prob)
	}
	if bookOdds < MinDecimalOdds {
		return ValueResult{}, NewDomainError("compare odds", bookOdds)
	}

	edge := prob*bookOdds - 1
	result := ValueResult{Edge: edge}
	switch {
	case edge > valueThreshold:
		result.Classification = ClassificationValue
	case edge >= marginalThreshold:
		result.Classification = ClassificationMarginal
	default:
		result.Classification = ClassificationNoValue
	}
	return result, nil
}
