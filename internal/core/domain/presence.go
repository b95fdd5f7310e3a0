package domain

import "time"

// PresenceStatus is the duty state of a staff member.
type PresenceStatus string

const (
	PresenceOnDuty  PresenceStatus = "on-duty"
	PresenceOffDuty PresenceStatus = "off-duty"
)

// Activity is the fine-grained state shown on the presence board.
type Activity string

const (
	ActivityActive Activity = "active"
	ActivityBusy   Activity = "busy"
	ActivityIdle   Activity = "idle"
)

// StaffPresence is the live presence record for one staff member.
// Exactly one row exists per user, created at registration.
type StaffPresence struct {
	ID               string         `json:"id" bson:"_id,omitempty"`
	UserID           string         `json:"user_id" bson:"user_id"`
	Status           PresenceStatus `json:"status" bson:"status"`
	Activity         Activity       `json:"activity" bson:"activity"`
	Location         string         `json:"location" bson:"location"`
	ShiftStart       time.Time      `json:"shift_start,omitempty" bson:"shift_start,omitempty"`
	ShiftEnd         time.Time      `json:"shift_end,omitempty" bson:"shift_end,omitempty"`
	LastActive       time.Time      `json:"last_active" bson:"last_active"`
	AssignedPatients int            `json:"assigned_patients" bson:"assigned_patients"`
}

// Shift is one clock-in/clock-out interval. ClockOut is zero while the
// shift is still open.
type Shift struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	UserID       string    `json:"user_id" bson:"user_id"`
	ClockIn      time.Time `json:"clock_in" bson:"clock_in"`
	ClockOut     time.Time `json:"clock_out,omitempty" bson:"clock_out,omitempty"`
	BreakMinutes int       `json:"break_minutes" bson:"break_minutes"`
	OvertimeMins int       `json:"overtime_minutes" bson:"overtime_minutes"`
	Date         string    `json:"date" bson:"date"`
}
