package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/medipresence/hospital-system/internal/api/metrics"
	"github.com/medipresence/hospital-system/internal/core/domain"
	"github.com/medipresence/hospital-system/internal/core/ports"
)

// AlertService raises and resolves operational alerts.
type AlertService struct {
	repo   ports.AlertRepository
	logger zerolog.Logger
}

func NewAlertService(repo ports.AlertRepository, logger zerolog.Logger) *AlertService {
	return &AlertService{repo: repo, logger: logger}
}

func (s *AlertService) Raise(ctx context.Context, in ports.RaiseAlertInput) (*domain.Alert, error) {
	alert := &domain.Alert{
		AlertType:     in.AlertType,
		Message:       in.Message,
		Priority:      in.Priority,
		RelatedUserID: in.RelatedUserID,
		CreatedAt:     time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, alert)
	if err != nil {
		return nil, fmt.Errorf("raise alert: %w", err)
	}

	metrics.AlertsRaisedTotal.WithLabelValues(in.AlertType, in.Priority).Inc()
	s.logger.Warn().
		Str("alert_type", in.AlertType).
		Str("priority", in.Priority).
		Str("related_user_id", in.RelatedUserID).
		Msg(in.Message)
	return created, nil
}

// ListOpen returns unacknowledged alerts, newest first.
func (s *AlertService) ListOpen(ctx context.Context) ([]*domain.Alert, error) {
	return s.repo.ListUnacknowledged(ctx)
}

// HasOpen reports whether an unacknowledged alert of the given type
// already exists for the user. The monitors use it to avoid re-raising
// the same condition every sweep.
func (s *AlertService) HasOpen(ctx context.Context, alertType, relatedUserID string) (bool, error) {
	return s.repo.HasOpenAlert(ctx, alertType, relatedUserID)
}

// Acknowledge flags an alert as handled. Acknowledging twice is harmless.
func (s *AlertService) Acknowledge(ctx context.Context, alertID string) (*domain.Alert, error) {
	alert, err := s.repo.FindByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if alert.Acknowledged {
		return alert, nil
	}

	alert.Acknowledged = true
	alert.AcknowledgedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, alert); err != nil {
		return nil, fmt.Errorf("acknowledge alert: %w", err)
	}
	return alert, nil
}
