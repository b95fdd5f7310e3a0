package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/medipresence/hospital-system/internal/core/domain"
	"github.com/medipresence/hospital-system/internal/core/ports"
)

const (
	shiftSweepInterval  = time.Minute
	idleSweepInterval   = 30 * time.Second
	doctorSweepInterval = 2 * time.Minute

	idleAfter          = 10 * time.Minute
	doctorOfflineAfter = 30 * time.Minute
)

// PresenceMonitor runs the background sweeps over on-duty staff: overdue
// shifts raise alerts, stale heartbeats flip activity to idle, and
// long-inactive doctors raise a critical alert. Sweeps read heartbeats
// from Redis and write presence rows and alerts through the usual ports.
type PresenceMonitor struct {
	presence  ports.PresenceRepository
	users     ports.UserRepository
	alerts    ports.AlertService
	heartbeat ports.HeartbeatTracker
	logger    zerolog.Logger
}

func NewPresenceMonitor(
	presence ports.PresenceRepository,
	users ports.UserRepository,
	alerts ports.AlertService,
	heartbeat ports.HeartbeatTracker,
	logger zerolog.Logger,
) *PresenceMonitor {
	return &PresenceMonitor{
		presence:  presence,
		users:     users,
		alerts:    alerts,
		heartbeat: heartbeat,
		logger:    logger,
	}
}

// Start launches the sweep goroutines. They stop when ctx is cancelled.
func (m *PresenceMonitor) Start(ctx context.Context) {
	go m.loop(ctx, shiftSweepInterval, m.sweepShifts)
	go m.loop(ctx, idleSweepInterval, m.sweepIdle)
	go m.loop(ctx, doctorSweepInterval, m.sweepDoctors)
}

func (m *PresenceMonitor) loop(ctx context.Context, interval time.Duration, sweep func(context.Context, time.Time) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if err := sweep(ctx, now.UTC()); err != nil {
				m.logger.Error().Err(err).Msg("presence sweep failed")
			}
		}
	}
}

// sweepShifts raises a high-priority alert for on-duty staff whose shift
// window has already closed.
func (m *PresenceMonitor) sweepShifts(ctx context.Context, now time.Time) error {
	onDuty, err := m.presence.ListOnDuty(ctx)
	if err != nil {
		return fmt.Errorf("sweep shifts: %w", err)
	}

	for _, p := range onDuty {
		if p.ShiftEnd.IsZero() || !now.After(p.ShiftEnd) {
			continue
		}
		open, err := m.alerts.HasOpen(ctx, domain.AlertShiftOverdue, p.UserID)
		if err != nil || open {
			continue
		}
		_, err = m.alerts.Raise(ctx, ports.RaiseAlertInput{
			AlertType:     domain.AlertShiftOverdue,
			Message:       fmt.Sprintf("staff member %s exceeded shift time", p.UserID),
			Priority:      "high",
			RelatedUserID: p.UserID,
		})
		if err != nil {
			m.logger.Error().Err(err).Str("user_id", p.UserID).Msg("failed to raise shift alert")
		}
	}
	return nil
}

// sweepIdle flips on-duty staff to idle when no activity has been seen
// within idleAfter.
func (m *PresenceMonitor) sweepIdle(ctx context.Context, now time.Time) error {
	onDuty, err := m.presence.ListOnDuty(ctx)
	if err != nil {
		return fmt.Errorf("sweep idle: %w", err)
	}

	for _, p := range onDuty {
		if p.Activity == domain.ActivityIdle {
			continue
		}
		if now.Sub(m.lastSeen(ctx, p)) <= idleAfter {
			continue
		}
		p.Activity = domain.ActivityIdle
		if err := m.presence.UpdatePresence(ctx, p); err != nil {
			m.logger.Error().Err(err).Str("user_id", p.UserID).Msg("failed to mark idle")
		}
	}
	return nil
}

// sweepDoctors raises a critical alert for doctors inactive beyond
// doctorOfflineAfter while still marked on-duty.
func (m *PresenceMonitor) sweepDoctors(ctx context.Context, now time.Time) error {
	onDuty, err := m.presence.ListOnDuty(ctx)
	if err != nil {
		return fmt.Errorf("sweep doctors: %w", err)
	}

	for _, p := range onDuty {
		user, err := m.users.FindByID(ctx, p.UserID)
		if err != nil || user.Role != domain.RoleDoctor {
			continue
		}
		if now.Sub(m.lastSeen(ctx, p)) <= doctorOfflineAfter {
			continue
		}
		open, err := m.alerts.HasOpen(ctx, domain.AlertDoctorOffline, p.UserID)
		if err != nil || open {
			continue
		}
		_, err = m.alerts.Raise(ctx, ports.RaiseAlertInput{
			AlertType:     domain.AlertDoctorOffline,
			Message:       fmt.Sprintf("doctor %s inactive for 30+ minutes", user.FullName),
			Priority:      "critical",
			RelatedUserID: p.UserID,
		})
		if err != nil {
			m.logger.Error().Err(err).Str("user_id", p.UserID).Msg("failed to raise doctor alert")
		}
	}
	return nil
}

// lastSeen prefers the Redis heartbeat and falls back to the presence
// row's last_active when no heartbeat is recorded.
func (m *PresenceMonitor) lastSeen(ctx context.Context, p *domain.StaffPresence) time.Time {
	seen, err := m.heartbeat.LastSeen(ctx, p.UserID)
	if err != nil || seen.IsZero() {
		return p.LastActive
	}
	return seen
}
