package handler

import "time"

// --- Patient request types ---

type createPatientRequest struct {
	Name             string `json:"name"               validate:"required"`
	Age              int    `json:"age"                validate:"required,gt=0"`
	Gender           string `json:"gender"             validate:"required"`
	Illness          string `json:"illness"            validate:"required"`
	RoomNumber       string `json:"room_number"        validate:"required"`
	AssignedDoctorID string `json:"assigned_doctor_id" validate:"required"`
	AssignedNurseID  string `json:"assigned_nurse_id"  validate:"required"`
	MedicalHistory   string `json:"medical_history"`
}

// All measurements are optional; a reading with only notes is valid.
type vitalsRequest struct {
	Temperature      *float64 `json:"temperature"`
	BloodPressure    string   `json:"blood_pressure"`
	Pulse            *int     `json:"pulse"`
	RespirationRate  *int     `json:"respiration_rate"`
	OxygenSaturation *float64 `json:"oxygen_saturation"`
	Notes            string   `json:"notes"`
}

type medicationRequest struct {
	MedicationName  string    `json:"medication_name" validate:"required"`
	Dosage          string    `json:"dosage"          validate:"required"`
	Route           string    `json:"route"`
	FrequencyHours  int       `json:"frequency_hours" validate:"required,gt=0"`
	StartTime       time.Time `json:"start_time"`
	AssignedNurseID string    `json:"assigned_nurse_id"`
}

type administeredRequest struct {
	AdministeredTime time.Time `json:"administered_time"`
}

type carePlanStepRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	AssignedTo  string    `json:"assigned_to"`
	DueTime     time.Time `json:"due_time"`
}

type statusChangeRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in-progress completed"`
}
