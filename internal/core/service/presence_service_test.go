package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/medipresence/hospital-system/internal/core/domain"
	"github.com/medipresence/hospital-system/internal/core/ports"
)

type stubPresenceRepo struct {
	presences map[string]*domain.StaffPresence // keyed by user ID
	shifts    []*domain.Shift
	nextID    int
}

func newStubPresenceRepo() *stubPresenceRepo {
	return &stubPresenceRepo{presences: make(map[string]*domain.StaffPresence)}
}

func (r *stubPresenceRepo) CreatePresence(_ context.Context, p *domain.StaffPresence) error {
	clone := *p
	r.nextID++
	clone.ID = "presence_" + strconv.Itoa(r.nextID)
	r.presences[clone.UserID] = &clone
	return nil
}

func (r *stubPresenceRepo) FindPresenceByUserID(_ context.Context, userID string) (*domain.StaffPresence, error) {
	if p, ok := r.presences[userID]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, domain.ErrPresenceNotFound
}

func (r *stubPresenceRepo) UpdatePresence(_ context.Context, p *domain.StaffPresence) error {
	if _, ok := r.presences[p.UserID]; !ok {
		return domain.ErrPresenceNotFound
	}
	clone := *p
	r.presences[p.UserID] = &clone
	return nil
}

func (r *stubPresenceRepo) ListPresence(_ context.Context) ([]*domain.StaffPresence, error) {
	out := make([]*domain.StaffPresence, 0, len(r.presences))
	for _, p := range r.presences {
		out = append(out, p)
	}
	return out, nil
}

func (r *stubPresenceRepo) ListOnDuty(_ context.Context) ([]*domain.StaffPresence, error) {
	var out []*domain.StaffPresence
	for _, p := range r.presences {
		if p.Status == domain.PresenceOnDuty {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubPresenceRepo) CreateShift(_ context.Context, s *domain.Shift) error {
	clone := *s
	r.nextID++
	clone.ID = "shift_" + strconv.Itoa(r.nextID)
	r.shifts = append(r.shifts, &clone)
	return nil
}

func (r *stubPresenceRepo) CloseOpenShift(_ context.Context, userID string, at time.Time) error {
	for i := len(r.shifts) - 1; i >= 0; i-- {
		s := r.shifts[i]
		if s.UserID == userID && s.ClockOut.IsZero() {
			s.ClockOut = at
			return nil
		}
	}
	return domain.ErrShiftNotFound
}

type stubHeartbeat struct {
	seen map[string]time.Time
	err  error
}

func newStubHeartbeat() *stubHeartbeat {
	return &stubHeartbeat{seen: make(map[string]time.Time)}
}

func (h *stubHeartbeat) Touch(_ context.Context, userID string, at time.Time) error {
	if h.err != nil {
		return h.err
	}
	h.seen[userID] = at
	return nil
}

func (h *stubHeartbeat) LastSeen(_ context.Context, userID string) (time.Time, error) {
	if h.err != nil {
		return time.Time{}, h.err
	}
	return h.seen[userID], nil
}

func seedStaff(t *testing.T, users *stubUserRepo, username, role string) *domain.User {
	t.Helper()
	u, err := users.Create(context.Background(), &domain.User{
		Username: username,
		Email:    username + "@hospital.test",
		Role:     role,
		FullName: "Dr " + username,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestPresenceService_InitFor(t *testing.T) {
	repo := newStubPresenceRepo()
	svc := NewPresenceService(repo, newStubUserRepo(), newStubHeartbeat(), zerolog.Nop())

	if err := svc.InitFor(context.Background(), "user_1"); err != nil {
		t.Fatalf("init presence: %v", err)
	}

	p, err := repo.FindPresenceByUserID(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("presence row not created: %v", err)
	}
	if p.Status != domain.PresenceOffDuty || p.Activity != domain.ActivityIdle {
		t.Fatalf("new rows start off-duty/idle, got %s/%s", p.Status, p.Activity)
	}
}

func TestPresenceService_Roster_SkipsOrphans(t *testing.T) {
	repo := newStubPresenceRepo()
	users := newStubUserRepo()
	svc := NewPresenceService(repo, users, newStubHeartbeat(), zerolog.Nop())

	u := seedStaff(t, users, "alice", domain.RoleNurse)
	if err := svc.InitFor(context.Background(), u.ID); err != nil {
		t.Fatalf("init presence: %v", err)
	}
	// Row whose user record is gone.
	if err := svc.InitFor(context.Background(), "ghost"); err != nil {
		t.Fatalf("init orphan presence: %v", err)
	}

	entries, err := svc.Roster(context.Background())
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("orphan rows must be skipped, got %d entries", len(entries))
	}
	if entries[0].Role != domain.RoleNurse || entries[0].FullName != "Dr alice" {
		t.Fatalf("user fields not joined: %+v", entries[0])
	}
}

func TestPresenceService_UpdateStatus(t *testing.T) {
	repo := newStubPresenceRepo()
	hb := newStubHeartbeat()
	svc := NewPresenceService(repo, newStubUserRepo(), hb, zerolog.Nop())

	if err := svc.InitFor(context.Background(), "user_1"); err != nil {
		t.Fatalf("init presence: %v", err)
	}

	p, err := svc.UpdateStatus(context.Background(), ports.StatusUpdateInput{
		UserID:   "user_1",
		Status:   domain.PresenceOnDuty,
		Activity: domain.ActivityBusy,
		Location: "ICU",
	})
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if p.Status != domain.PresenceOnDuty || p.Activity != domain.ActivityBusy || p.Location != "ICU" {
		t.Fatalf("update not applied: %+v", p)
	}
	if _, ok := hb.seen["user_1"]; !ok {
		t.Fatalf("heartbeat not touched")
	}
}

func TestPresenceService_UpdateStatus_PreservesOptionalFields(t *testing.T) {
	repo := newStubPresenceRepo()
	svc := NewPresenceService(repo, newStubUserRepo(), newStubHeartbeat(), zerolog.Nop())

	if err := svc.InitFor(context.Background(), "user_1"); err != nil {
		t.Fatalf("init presence: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), ports.StatusUpdateInput{
		UserID:   "user_1",
		Status:   domain.PresenceOnDuty,
		Activity: domain.ActivityBusy,
		Location: "ICU",
	}); err != nil {
		t.Fatalf("first update: %v", err)
	}

	// Empty activity and location leave the previous values in place.
	p, err := svc.UpdateStatus(context.Background(), ports.StatusUpdateInput{
		UserID: "user_1",
		Status: domain.PresenceOnDuty,
	})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if p.Activity != domain.ActivityBusy || p.Location != "ICU" {
		t.Fatalf("optional fields overwritten: %+v", p)
	}
}

func TestPresenceService_UpdateStatus_InvalidStatus(t *testing.T) {
	svc := NewPresenceService(newStubPresenceRepo(), newStubUserRepo(), newStubHeartbeat(), zerolog.Nop())

	_, err := svc.UpdateStatus(context.Background(), ports.StatusUpdateInput{
		UserID: "user_1",
		Status: "napping",
	})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestPresenceService_ClockInClockOff(t *testing.T) {
	repo := newStubPresenceRepo()
	svc := NewPresenceService(repo, newStubUserRepo(), newStubHeartbeat(), zerolog.Nop())

	if err := svc.InitFor(context.Background(), "user_1"); err != nil {
		t.Fatalf("init presence: %v", err)
	}

	if err := svc.ClockIn(context.Background(), "user_1"); err != nil {
		t.Fatalf("clock in: %v", err)
	}
	p, _ := repo.FindPresenceByUserID(context.Background(), "user_1")
	if p.Status != domain.PresenceOnDuty || p.Activity != domain.ActivityActive {
		t.Fatalf("clock in must flip to on-duty/active, got %s/%s", p.Status, p.Activity)
	}
	if p.ShiftEnd.Sub(p.ShiftStart) != defaultShiftLength {
		t.Fatalf("shift window wrong: %v to %v", p.ShiftStart, p.ShiftEnd)
	}
	if len(repo.shifts) != 1 || !repo.shifts[0].ClockOut.IsZero() {
		t.Fatalf("open shift row not created")
	}

	if err := svc.ClockOff(context.Background(), "user_1"); err != nil {
		t.Fatalf("clock off: %v", err)
	}
	p, _ = repo.FindPresenceByUserID(context.Background(), "user_1")
	if p.Status != domain.PresenceOffDuty {
		t.Fatalf("clock off must flip to off-duty, got %s", p.Status)
	}
	if repo.shifts[0].ClockOut.IsZero() {
		t.Fatalf("shift not closed")
	}
}

func TestPresenceService_ClockOff_NoOpenShift(t *testing.T) {
	svc := NewPresenceService(newStubPresenceRepo(), newStubUserRepo(), newStubHeartbeat(), zerolog.Nop())

	if err := svc.ClockOff(context.Background(), "user_1"); !errors.Is(err, domain.ErrShiftNotFound) {
		t.Fatalf("expected ErrShiftNotFound, got %v", err)
	}
}
