package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/medipresence/hospital-system/internal/core/domain"
	"github.com/medipresence/hospital-system/internal/core/ports"
)

const auditListCap = 100

// AuditService persists audit entries. Entries normally arrive through
// the queue dispatcher, which calls Record off the request path.
type AuditService struct {
	repo   ports.AuditRepository
	logger zerolog.Logger
}

func NewAuditService(repo ports.AuditRepository, logger zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, logger: logger}
}

func (s *AuditService) Record(ctx context.Context, in ports.AuditEntryInput) error {
	entry := &domain.AuditLog{
		UserID:    in.UserID,
		Action:    in.Action,
		Details:   in.Details,
		IPAddress: in.IPAddress,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}
	return nil
}

// ListRecent returns the newest entries, capped at auditListCap.
func (s *AuditService) ListRecent(ctx context.Context, limit int64) ([]*domain.AuditLog, error) {
	if limit <= 0 || limit > auditListCap {
		limit = auditListCap
	}
	return s.repo.ListRecent(ctx, limit)
}
