package domain

import "errors"

// Auth errors. Unknown username, inactive account, and wrong password all
// surface as ErrInvalidCredentials so callers cannot enumerate users.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrForbidden          = errors.New("access forbidden")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidRole        = errors.New("invalid role")
)

// Resource errors.
var (
	ErrPatientNotFound      = errors.New("patient not found")
	ErrTaskNotFound         = errors.New("task not found")
	ErrAlertNotFound        = errors.New("alert not found")
	ErrMedicationNotFound   = errors.New("medication schedule not found")
	ErrCarePlanStepNotFound = errors.New("care plan step not found")
	ErrPresenceNotFound     = errors.New("presence record not found")
	ErrShiftNotFound        = errors.New("no open shift")
	ErrInvalidTransition    = errors.New("invalid status transition")
)
