// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogTipIssued logs a tip issuance event.
func (al *AuditLogger) LogTipIssued(tipID, matchID, evaluationID, side string, bookOdds, fairOdds, edge, suggestedStake float64, classification string, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"tip_id":          tipID,
		"match_id":        matchID,
		"evaluation_id":   evaluationID,
		"side":            side,
		"book_odds":       bookOdds,
		"fair_odds":       fairOdds,
		"edge":            edge,
		"suggested_stake": suggestedStake,
		"classification":  classification,
		"timestamp":       timestamp.Unix(),
	}).Info("Tip issuance recorded")
}

// LogTipNotified logs a tip webhook delivery.
func (al *AuditLogger) LogTipNotified(tipID string, statusCode, attempts int) {
	al.WithFields(logrus.Fields{
		"tip_id":      tipID,
		"status_code": statusCode,
		"attempts":    attempts,
	}).Info("Tip delivered to webhook")
}

// LogTipSettled logs a tip settlement decision.
func (al *AuditLogger) LogTipSettled(tipID, status, settledBy string) {
	al.WithFields(logrus.Fields{
		"tip_id":     tipID,
		"status":     status,
		"settled_by": settledBy,
	}).Info("Tip settlement recorded")
}

// LogCoefficientChange logs engine coefficient changes.
func (al *AuditLogger) LogCoefficientChange(section, parameterName string, oldValue, newValue interface{}, changedBy string) {
	al.WithFields(logrus.Fields{
		"section":        section,
		"parameter_name": parameterName,
		"old_value":      oldValue,
		"new_value":      newValue,
		"changed_by":     changedBy,
	}).Info("Engine coefficient changed")
}

// LogNotifierBreakerEvent logs webhook circuit breaker events.
func (al *AuditLogger) LogNotifierBreakerEvent(eventType, reason string, metricsSnapshot map[string]interface{}, actionTaken string) {
	al.WithFields(logrus.Fields{
		"event_type":       eventType,
		"reason":           reason,
		"metrics_snapshot": metricsSnapshot,
		"action_taken":     actionTaken,
	}).Warn("Notifier circuit breaker event recorded")
}

// LogRetentionPurge logs scheduled retention deletes.
func (al *AuditLogger) LogRetentionPurge(evaluationsDeleted, tipsDeleted int64, cutoff time.Time) {
	al.WithFields(logrus.Fields{
		"evaluations_deleted": evaluationsDeleted,
		"tips_deleted":        tipsDeleted,
		"cutoff":              cutoff.Format(time.RFC3339),
	}).Info("Retention purge completed")
}
