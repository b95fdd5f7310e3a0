package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/medipresence/hospital-system/internal/core/domain"
	"github.com/medipresence/hospital-system/internal/core/ports"
)

const defaultShiftLength = 8 * time.Hour

// PresenceService maintains the staff presence board. The Mongo presence
// row is authoritative for the roster; Redis heartbeats carry the
// high-frequency liveness signal consumed by the monitors.
type PresenceService struct {
	repo      ports.PresenceRepository
	users     ports.UserRepository
	heartbeat ports.HeartbeatTracker
	logger    zerolog.Logger
}

func NewPresenceService(repo ports.PresenceRepository, users ports.UserRepository, heartbeat ports.HeartbeatTracker, logger zerolog.Logger) *PresenceService {
	return &PresenceService{repo: repo, users: users, heartbeat: heartbeat, logger: logger}
}

// InitFor creates the off-duty presence row for a freshly registered user.
func (s *PresenceService) InitFor(ctx context.Context, userID string) error {
	p := &domain.StaffPresence{
		UserID:     userID,
		Status:     domain.PresenceOffDuty,
		Activity:   domain.ActivityIdle,
		Location:   "Unknown",
		LastActive: time.Now().UTC(),
	}
	if err := s.repo.CreatePresence(ctx, p); err != nil {
		return fmt.Errorf("init presence: %w", err)
	}
	return nil
}

// Roster returns every presence row joined with the owner's display fields.
// Rows whose user cannot be resolved are skipped rather than failing the
// whole board.
func (s *PresenceService) Roster(ctx context.Context) ([]ports.PresenceEntry, error) {
	presences, err := s.repo.ListPresence(ctx)
	if err != nil {
		return nil, fmt.Errorf("list presence: %w", err)
	}

	entries := make([]ports.PresenceEntry, 0, len(presences))
	for _, p := range presences {
		user, err := s.users.FindByID(ctx, p.UserID)
		if err != nil {
			s.logger.Warn().Err(err).Str("user_id", p.UserID).Msg("presence row without user")
			continue
		}
		entries = append(entries, ports.PresenceEntry{
			Presence: *p,
			UserID:   user.ID,
			FullName: user.FullName,
			Role:     user.Role,
		})
	}
	return entries, nil
}

// UpdateStatus applies a staff member's own presence update and touches
// the liveness heartbeat.
func (s *PresenceService) UpdateStatus(ctx context.Context, in ports.StatusUpdateInput) (*domain.StaffPresence, error) {
	if in.Status != domain.PresenceOnDuty && in.Status != domain.PresenceOffDuty {
		return nil, fmt.Errorf("%w: status %q", domain.ErrInvalidTransition, in.Status)
	}

	p, err := s.repo.FindPresenceByUserID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p.Status = in.Status
	if in.Activity != "" {
		p.Activity = in.Activity
	}
	if in.Location != "" {
		p.Location = in.Location
	}
	p.LastActive = now

	if err := s.repo.UpdatePresence(ctx, p); err != nil {
		return nil, fmt.Errorf("update presence: %w", err)
	}
	if err := s.heartbeat.Touch(ctx, in.UserID, now); err != nil {
		s.logger.Warn().Err(err).Str("user_id", in.UserID).Msg("heartbeat touch failed")
	}
	return p, nil
}

// ClockIn opens a shift and flips the presence row to on-duty/active.
// Called by the auth handler after a successful login.
func (s *PresenceService) ClockIn(ctx context.Context, userID string) error {
	now := time.Now().UTC()

	shift := &domain.Shift{
		UserID:  userID,
		ClockIn: now,
		Date:    now.Format("2006-01-02"),
	}
	if err := s.repo.CreateShift(ctx, shift); err != nil {
		return fmt.Errorf("clock in: %w", err)
	}

	p, err := s.repo.FindPresenceByUserID(ctx, userID)
	if err != nil {
		return err
	}
	p.Status = domain.PresenceOnDuty
	p.Activity = domain.ActivityActive
	p.ShiftStart = now
	p.ShiftEnd = now.Add(defaultShiftLength)
	p.LastActive = now

	if err := s.repo.UpdatePresence(ctx, p); err != nil {
		return fmt.Errorf("clock in: %w", err)
	}
	if err := s.heartbeat.Touch(ctx, userID, now); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("heartbeat touch failed")
	}

	s.logger.Info().Str("user_id", userID).Msg("staff clocked in")
	return nil
}

// ClockOff closes the open shift and flips the presence row to off-duty.
func (s *PresenceService) ClockOff(ctx context.Context, userID string) error {
	now := time.Now().UTC()

	if err := s.repo.CloseOpenShift(ctx, userID, now); err != nil {
		return err
	}

	p, err := s.repo.FindPresenceByUserID(ctx, userID)
	if err != nil {
		return err
	}
	p.Status = domain.PresenceOffDuty
	p.Activity = domain.ActivityIdle
	p.LastActive = now

	if err := s.repo.UpdatePresence(ctx, p); err != nil {
		return fmt.Errorf("clock off: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Msg("staff clocked off")
	return nil
}
