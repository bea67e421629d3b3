// Package logger provides pricing-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// PricingLogger provides dedicated logging for evaluation cycles.
type PricingLogger struct {
	*logrus.Entry
}

// NewPricingLogger creates a new pricing logger.
func NewPricingLogger(baseLogger *logrus.Logger) *PricingLogger {
	return &PricingLogger{
		Entry: baseLogger.WithField("component", "pricing"),
	}
}

// LogEvaluation logs a completed evaluation cycle.
func (pl *PricingLogger) LogEvaluation(matchID string, frameProb, matchProb float64, cacheHit bool, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"match_id":    matchID,
		"frame_prob":  frameProb,
		"match_prob":  matchProb,
		"cache_hit":   cacheHit,
		"duration_ms": durationMs,
	}).Info("Evaluation cycle completed")
}

// LogPriorInversion logs a pre-match odds inversion.
func (pl *PricingLogger) LogPriorInversion(matchID string, impliedProb, priorProb, residual float64, iterations int, converged bool) {
	pl.WithFields(logrus.Fields{
		"match_id":     matchID,
		"implied_prob": impliedProb,
		"prior_prob":   priorProb,
		"residual":     residual,
		"iterations":   iterations,
		"converged":    converged,
	}).Info("Pre-match odds inverted")
}

// LogInversionStall logs an inversion that exhausted its iteration budget.
func (pl *PricingLogger) LogInversionStall(matchID string, residual float64, iterations int) {
	pl.WithFields(logrus.Fields{
		"match_id":   matchID,
		"residual":   residual,
		"iterations": iterations,
	}).Warn("Pre-match odds inversion did not converge, using midpoint estimate")
}

// LogValueFlag logs a book price classified against the model.
func (pl *PricingLogger) LogValueFlag(matchID, side string, edge, bookOdds, fairOdds float64, classification string) {
	pl.WithFields(logrus.Fields{
		"match_id":       matchID,
		"side":           side,
		"edge":           edge,
		"book_odds":      bookOdds,
		"fair_odds":      fairOdds,
		"classification": classification,
	}).Info("Book price classified")
}

// LogBaselineRefresh logs a league baseline recomputation.
func (pl *PricingLogger) LogBaselineRefresh(playersCounted int, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"players_counted": playersCounted,
		"duration_ms":     durationMs,
	}).Info("League baselines refreshed")
}

// LogEvaluationError logs evaluation failures.
func (pl *PricingLogger) LogEvaluationError(matchID string, errorReason string) {
	pl.WithFields(logrus.Fields{
		"match_id":     matchID,
		"error_reason": errorReason,
	}).Error("Evaluation cycle failed")
}
