package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ChrisJamesShevlin/snooker/internal/logger"
	"github.com/ChrisJamesShevlin/snooker/internal/repository"
)

// MaintenanceService removes evaluation and tip history past the
// retention horizon
type MaintenanceService struct {
	evals    repository.EvaluationRepository
	tips     repository.TipRepository
	logger   *logrus.Logger
	auditLog *logger.AuditLogger
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(evals repository.EvaluationRepository, tips repository.TipRepository, baseLogger *logrus.Logger) *MaintenanceService {
	return &MaintenanceService{
		evals:    evals,
		tips:     tips,
		logger:   baseLogger,
		auditLog: logger.NewAuditLogger(baseLogger),
	}
}

// PurgeExpired deletes evaluations and tips created before the cutoff.
// Tips go first since they reference evaluations. Open tips and the
// evaluations they reference are kept regardless of age.
func (s *MaintenanceService) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, int64, error) {
	tipsDeleted, err := s.tips.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to purge tips: %w", err)
	}

	evalsDeleted, err := s.evals.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return evalsDeleted, tipsDeleted, fmt.Errorf("failed to purge evaluations: %w", err)
	}

	if evalsDeleted > 0 || tipsDeleted > 0 {
		s.auditLog.LogRetentionPurge(evalsDeleted, tipsDeleted, cutoff)
	}

	s.logger.WithFields(logrus.Fields{
		"evaluations": evalsDeleted,
		"tips":        tipsDeleted,
		"cutoff":      cutoff.Format(time.RFC3339),
	}).Debug("Retention purge completed")

	return evalsDeleted, tipsDeleted, nil
}
