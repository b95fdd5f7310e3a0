package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/medipresence/hospital-system/internal/core/domain"
)

func monitorFixture() (*PresenceMonitor, *stubPresenceRepo, *stubUserRepo, *stubAlertRepo, *stubHeartbeat) {
	presence := newStubPresenceRepo()
	users := newStubUserRepo()
	alertRepo := newStubAlertRepo()
	hb := newStubHeartbeat()
	alerts := NewAlertService(alertRepo, zerolog.Nop())
	m := NewPresenceMonitor(presence, users, alerts, hb, zerolog.Nop())
	return m, presence, users, alertRepo, hb
}

func onDutyPresence(userID string, shiftEnd, lastActive time.Time) *domain.StaffPresence {
	return &domain.StaffPresence{
		UserID:     userID,
		Status:     domain.PresenceOnDuty,
		Activity:   domain.ActivityActive,
		ShiftStart: shiftEnd.Add(-8 * time.Hour),
		ShiftEnd:   shiftEnd,
		LastActive: lastActive,
	}
}

func TestMonitor_SweepShifts_RaisesOverdueAlert(t *testing.T) {
	m, presence, _, alertRepo, _ := monitorFixture()
	now := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

	_ = presence.CreatePresence(context.Background(), onDutyPresence("user_1", now.Add(-time.Hour), now))
	_ = presence.CreatePresence(context.Background(), onDutyPresence("user_2", now.Add(time.Hour), now))

	if err := m.sweepShifts(context.Background(), now); err != nil {
		t.Fatalf("sweep shifts: %v", err)
	}

	if len(alertRepo.alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alertRepo.alerts))
	}
	for _, a := range alertRepo.alerts {
		if a.AlertType != domain.AlertShiftOverdue || a.RelatedUserID != "user_1" || a.Priority != "high" {
			t.Fatalf("unexpected alert: %+v", a)
		}
	}
}

func TestMonitor_SweepShifts_SuppressesDuplicates(t *testing.T) {
	m, presence, _, alertRepo, _ := monitorFixture()
	now := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

	_ = presence.CreatePresence(context.Background(), onDutyPresence("user_1", now.Add(-time.Hour), now))

	for i := 0; i < 3; i++ {
		if err := m.sweepShifts(context.Background(), now); err != nil {
			t.Fatalf("sweep %d: %v", i, err)
		}
	}
	if len(alertRepo.alerts) != 1 {
		t.Fatalf("repeated sweeps must not duplicate the alert, got %d", len(alertRepo.alerts))
	}
}

func TestMonitor_SweepIdle_FlipsStaleStaff(t *testing.T) {
	m, presence, _, _, hb := monitorFixture()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Stale heartbeat: idle. Fresh heartbeat: untouched.
	_ = presence.CreatePresence(context.Background(), onDutyPresence("stale", now.Add(4*time.Hour), now))
	_ = presence.CreatePresence(context.Background(), onDutyPresence("fresh", now.Add(4*time.Hour), now))
	hb.seen["stale"] = now.Add(-idleAfter - time.Minute)
	hb.seen["fresh"] = now.Add(-time.Minute)

	if err := m.sweepIdle(context.Background(), now); err != nil {
		t.Fatalf("sweep idle: %v", err)
	}

	p, _ := presence.FindPresenceByUserID(context.Background(), "stale")
	if p.Activity != domain.ActivityIdle {
		t.Fatalf("stale staff should be idle, got %s", p.Activity)
	}
	p, _ = presence.FindPresenceByUserID(context.Background(), "fresh")
	if p.Activity != domain.ActivityActive {
		t.Fatalf("fresh staff must stay active, got %s", p.Activity)
	}
}

func TestMonitor_SweepIdle_FallsBackToLastActive(t *testing.T) {
	m, presence, _, _, _ := monitorFixture()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// No heartbeat recorded; last_active on the row is stale.
	_ = presence.CreatePresence(context.Background(), onDutyPresence("user_1", now.Add(4*time.Hour), now.Add(-time.Hour)))

	if err := m.sweepIdle(context.Background(), now); err != nil {
		t.Fatalf("sweep idle: %v", err)
	}
	p, _ := presence.FindPresenceByUserID(context.Background(), "user_1")
	if p.Activity != domain.ActivityIdle {
		t.Fatalf("expected fallback to last_active, got %s", p.Activity)
	}
}

func TestMonitor_SweepDoctors(t *testing.T) {
	m, presence, users, alertRepo, hb := monitorFixture()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	doc := seedStaff(t, users, "gregory", domain.RoleDoctor)
	nurse := seedStaff(t, users, "carla", domain.RoleNurse)

	_ = presence.CreatePresence(context.Background(), onDutyPresence(doc.ID, now.Add(4*time.Hour), now))
	_ = presence.CreatePresence(context.Background(), onDutyPresence(nurse.ID, now.Add(4*time.Hour), now))
	hb.seen[doc.ID] = now.Add(-doctorOfflineAfter - time.Minute)
	hb.seen[nurse.ID] = now.Add(-doctorOfflineAfter - time.Minute)

	if err := m.sweepDoctors(context.Background(), now); err != nil {
		t.Fatalf("sweep doctors: %v", err)
	}

	if len(alertRepo.alerts) != 1 {
		t.Fatalf("only doctors trigger the offline alert, got %d alerts", len(alertRepo.alerts))
	}
	for _, a := range alertRepo.alerts {
		if a.AlertType != domain.AlertDoctorOffline || a.RelatedUserID != doc.ID || a.Priority != "critical" {
			t.Fatalf("unexpected alert: %+v", a)
		}
	}
}

func TestMonitor_SweepDoctors_ActiveDoctorNotFlagged(t *testing.T) {
	m, presence, users, alertRepo, hb := monitorFixture()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	doc := seedStaff(t, users, "lisa", domain.RoleDoctor)
	_ = presence.CreatePresence(context.Background(), onDutyPresence(doc.ID, now.Add(4*time.Hour), now))
	hb.seen[doc.ID] = now.Add(-time.Minute)

	if err := m.sweepDoctors(context.Background(), now); err != nil {
		t.Fatalf("sweep doctors: %v", err)
	}
	if len(alertRepo.alerts) != 0 {
		t.Fatalf("active doctor must not be flagged")
	}
}
