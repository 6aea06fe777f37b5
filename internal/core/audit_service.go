package core

import (
	"context"

	"go.uber.org/zap"

	"reviewpilot-backend-go/internal/db"
	"reviewpilot-backend-go/internal/models"
)

// auditService implements the AuditService interface.
type auditService struct {
	auditRepo db.AuditRepository
	logger    *zap.Logger
}

// NewAuditService creates a new AuditService instance.
func NewAuditService(auditRepo db.AuditRepository, logger *zap.Logger) AuditService {
	return &auditService{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// Record writes an audit log entry. Failures are logged and swallowed: audit
// writes must never fail the operation they describe.
func (s *auditService) Record(ctx context.Context, logEntry models.AuditLog) {
	if err := s.auditRepo.Create(ctx, logEntry); err != nil {
		s.logger.Error("Failed to write audit log",
			zap.String("action", logEntry.Action),
			zap.String("targetId", logEntry.TargetID),
			zap.Error(err))
	}
}
