package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gearguard/internal/entities"
	"gearguard/internal/repositories"
)

// AuditServiceInterface is the collaborator every mutating request operation
// reports to. Failures are logged, never propagated: the business write has
// already happened and an audit hiccup must not undo it.
type AuditServiceInterface interface {
	Record(ctx context.Context, action, entityType string, entityID, actorID uint64, details string)
}

type AuditService struct {
	auditRepo repositories.AuditRepositoryInterface
	logger    *zap.Logger
}

func NewAuditService(auditRepo repositories.AuditRepositoryInterface, logger *zap.Logger) AuditServiceInterface {
	return &AuditService{auditRepo: auditRepo, logger: logger}
}

func (s *AuditService) Record(ctx context.Context, action, entityType string, entityID, actorID uint64, details string) {
	entry := &entities.AuditEntry{
		ID:         uuid.NewString(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		ActorID:    actorID,
		Details:    details,
		CreatedAt:  time.Now(),
	}

	if err := s.auditRepo.Insert(ctx, entry); err != nil {
		s.logger.Error("failed to record audit entry",
			zap.String("action", action),
			zap.String("entityType", entityType),
			zap.Uint64("entityId", entityID),
			zap.Error(err),
		)
	}
}
