package ports

import (
	"context"
	"time"

	"github.com/medipresence/hospital-system/internal/core/domain"
)

// StatusUpdateInput is a staff member's own presence update.
type StatusUpdateInput struct {
	UserID   string
	Status   domain.PresenceStatus
	Activity domain.Activity // optional, empty = unchanged
	Location string          // optional, empty = unchanged
}

// PresenceEntry is one row of the presence board: the presence record
// joined with the owning user's display fields.
type PresenceEntry struct {
	Presence domain.StaffPresence `json:"presence"`
	UserID   string               `json:"user_id"`
	FullName string               `json:"full_name"`
	Role     string               `json:"role"`
}

// PresenceService manages the staff presence board and shift bookkeeping.
type PresenceService interface {
	// InitFor creates the off-duty presence row for a newly registered user.
	InitFor(ctx context.Context, userID string) error
	Roster(ctx context.Context) ([]PresenceEntry, error)
	UpdateStatus(ctx context.Context, in StatusUpdateInput) (*domain.StaffPresence, error)
	// ClockIn opens a shift and flips presence to on-duty/active.
	ClockIn(ctx context.Context, userID string) error
	// ClockOff closes the open shift and flips presence to off-duty.
	ClockOff(ctx context.Context, userID string) error
}

// PresenceRepository defines persistence for presence rows and shifts.
type PresenceRepository interface {
	CreatePresence(ctx context.Context, p *domain.StaffPresence) error
	FindPresenceByUserID(ctx context.Context, userID string) (*domain.StaffPresence, error)
	UpdatePresence(ctx context.Context, p *domain.StaffPresence) error
	ListPresence(ctx context.Context) ([]*domain.StaffPresence, error)
	ListOnDuty(ctx context.Context) ([]*domain.StaffPresence, error)

	CreateShift(ctx context.Context, s *domain.Shift) error
	// CloseOpenShift stamps clock_out on the user's open shift.
	CloseOpenShift(ctx context.Context, userID string, at time.Time) error
}

// HeartbeatTracker records staff liveness out-of-band of the presence row,
// so per-request touches stay off the primary store.
type HeartbeatTracker interface {
	Touch(ctx context.Context, userID string, at time.Time) error
	// LastSeen returns the zero time when no heartbeat is recorded.
	LastSeen(ctx context.Context, userID string) (time.Time, error)
}
