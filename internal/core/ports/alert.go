package ports

import (
	"context"

	"github.com/medipresence/hospital-system/internal/core/domain"
)

// RaiseAlertInput creates a new operational alert.
type RaiseAlertInput struct {
	AlertType     string
	Message       string
	Priority      string
	RelatedUserID string
}

// AlertService raises and resolves operational alerts.
type AlertService interface {
	Raise(ctx context.Context, in RaiseAlertInput) (*domain.Alert, error)
	ListOpen(ctx context.Context) ([]*domain.Alert, error)
	Acknowledge(ctx context.Context, alertID string) (*domain.Alert, error)
	// HasOpen reports whether an unacknowledged alert of the given type
	// already exists for the user.
	HasOpen(ctx context.Context, alertType, relatedUserID string) (bool, error)
}

// AlertRepository defines persistence for alerts.
type AlertRepository interface {
	Create(ctx context.Context, a *domain.Alert) (*domain.Alert, error)
	FindByID(ctx context.Context, id string) (*domain.Alert, error)
	ListUnacknowledged(ctx context.Context) ([]*domain.Alert, error)
	// HasOpenAlert reports whether an unacknowledged alert of the given
	// type already exists for the user (monitor dedup).
	HasOpenAlert(ctx context.Context, alertType, relatedUserID string) (bool, error)
	Update(ctx context.Context, a *domain.Alert) error
}
