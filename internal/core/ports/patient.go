package ports

import (
	"context"
	"time"

	"github.com/medipresence/hospital-system/internal/core/domain"
)

// CreatePatientInput carries patient admission fields.
type CreatePatientInput struct {
	Name             string
	Age              int
	Gender           string
	Illness          string
	RoomNumber       string
	AssignedDoctorID string
	AssignedNurseID  string
	MedicalHistory   string
}

// VitalsInput is one vitals reading. All measurements are optional; the
// recorder is taken from the authenticated identity.
type VitalsInput struct {
	PatientID        string
	RecordedBy       string
	Temperature      *float64
	BloodPressure    string
	Pulse            *int
	RespirationRate  *int
	OxygenSaturation *float64
	Notes            string
}

// MedicationInput schedules a recurring medication for a patient.
type MedicationInput struct {
	PatientID       string
	MedicationName  string
	Dosage          string
	Route           string
	FrequencyHours  int
	StartTime       time.Time // zero = now
	AssignedNurseID string
	CreatedBy       string
}

// CarePlanStepInput adds one step to a patient's care plan.
type CarePlanStepInput struct {
	PatientID   string
	Title       string
	Description string
	AssignedTo  string
	DueTime     time.Time
	CreatedBy   string
}

// PatientService owns patient records and their clinical sub-resources.
type PatientService interface {
	CreatePatient(ctx context.Context, in CreatePatientInput) (*domain.Patient, error)
	ListPatients(ctx context.Context) ([]*domain.Patient, error)

	RecordVitals(ctx context.Context, in VitalsInput) (*domain.VitalRecord, error)
	ListVitals(ctx context.Context, patientID string) ([]*domain.VitalRecord, error)

	ScheduleMedication(ctx context.Context, in MedicationInput) (*domain.MedicationSchedule, error)
	ListMedications(ctx context.Context, patientID string) ([]*domain.MedicationSchedule, error)
	// MarkAdministered stamps the dose and advances next_dose_time by the
	// schedule's frequency. A zero administeredAt means now.
	MarkAdministered(ctx context.Context, medicationID string, administeredAt time.Time) (*domain.MedicationSchedule, error)

	AddCarePlanStep(ctx context.Context, in CarePlanStepInput) (*domain.CarePlanStep, error)
	ListCarePlan(ctx context.Context, patientID string) ([]*domain.CarePlanStep, error)
	UpdateCarePlanStatus(ctx context.Context, stepID string, status domain.StepStatus) (*domain.CarePlanStep, error)
}

// PatientRepository defines persistence for patients and clinical records.
type PatientRepository interface {
	CreatePatient(ctx context.Context, p *domain.Patient) (*domain.Patient, error)
	FindPatientByID(ctx context.Context, id string) (*domain.Patient, error)
	ListPatients(ctx context.Context) ([]*domain.Patient, error)

	InsertVitals(ctx context.Context, v *domain.VitalRecord) (*domain.VitalRecord, error)
	ListVitalsByPatient(ctx context.Context, patientID string) ([]*domain.VitalRecord, error)

	InsertMedication(ctx context.Context, m *domain.MedicationSchedule) (*domain.MedicationSchedule, error)
	FindMedicationByID(ctx context.Context, id string) (*domain.MedicationSchedule, error)
	ListMedicationsByPatient(ctx context.Context, patientID string) ([]*domain.MedicationSchedule, error)
	UpdateMedication(ctx context.Context, m *domain.MedicationSchedule) error

	InsertCarePlanStep(ctx context.Context, s *domain.CarePlanStep) (*domain.CarePlanStep, error)
	FindCarePlanStepByID(ctx context.Context, id string) (*domain.CarePlanStep, error)
	ListCarePlanByPatient(ctx context.Context, patientID string) ([]*domain.CarePlanStep, error)
	UpdateCarePlanStep(ctx context.Context, s *domain.CarePlanStep) error
}
