package ports

import (
	"context"

	"github.com/medipresence/hospital-system/internal/core/domain"
)

// AuditEntryInput is the DTO handed from the transport layer to the audit
// dispatcher. UserID shards the entry so one actor's trail stays ordered.
type AuditEntryInput struct {
	UserID    string
	Action    string
	Details   string
	IPAddress string
}

// AuditService persists audit entries and serves the admin view.
type AuditService interface {
	Record(ctx context.Context, in AuditEntryInput) error
	// ListRecent returns the newest entries, capped at limit.
	ListRecent(ctx context.Context, limit int64) ([]*domain.AuditLog, error)
}

// AuditRepository defines persistence for the append-only audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, l *domain.AuditLog) error
	ListRecent(ctx context.Context, limit int64) ([]*domain.AuditLog, error)
}

// AuditRecorder is the narrow fire-and-forget interface handlers use to
// emit audit entries without blocking the request path.
type AuditRecorder interface {
	Enqueue(entry AuditEntryInput)
}
