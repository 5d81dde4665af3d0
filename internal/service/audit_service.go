package service

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/campus-request-api/internal/models"
	"github.com/noah-isme/campus-request-api/internal/repository"
)

// AuditService records staff actions into the append-only trail.
type AuditService interface {
	Record(ctx context.Context, actorID uint, actorRole, action, entityType string, entityID *uint, metadata map[string]any)
	List(ctx context.Context, limit, offset int) ([]models.AuditLog, error)
	ListByEntity(ctx context.Context, entityType string, entityID uint, limit, offset int) ([]models.AuditLog, error)
}

type auditService struct {
	repo   repository.AuditLogRepository
	logger zerolog.Logger
}

// NewAuditService constructs an audit service.
func NewAuditService(repo repository.AuditLogRepository, logger zerolog.Logger) AuditService {
	return &auditService{
		repo:   repo,
		logger: logger.With().Str("component", "audit_service").Logger(),
	}
}

// Record persists an audit entry. Failures are logged, never propagated:
// a broken trail must not abort the business operation it describes.
func (s *auditService) Record(ctx context.Context, actorID uint, actorRole, action, entityType string, entityID *uint, metadata map[string]any) {
	entry := models.AuditLog{
		ActorID:    actorID,
		ActorRole:  actorRole,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
	}
	if len(metadata) > 0 {
		entry.Metadata = datatypes.JSONMap(metadata)
	}

	if err := s.repo.Create(ctx, &entry); err != nil {
		s.logger.Error().Err(err).
			Str("action", action).
			Str("entity_type", entityType).
			Msg("audit entry write failed")
	}
}

func (s *auditService) List(ctx context.Context, limit, offset int) ([]models.AuditLog, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *auditService) ListByEntity(ctx context.Context, entityType string, entityID uint, limit, offset int) ([]models.AuditLog, error) {
	return s.repo.ListByEntity(ctx, entityType, entityID, limit, offset)
}
