package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/medipresence/hospital-system/internal/core/domain"
	"github.com/medipresence/hospital-system/internal/core/ports"
)

// PatientService owns patient records and their clinical sub-resources.
// Every write against a missing patient fails with ErrPatientNotFound
// before any row is touched.
type PatientService struct {
	repo   ports.PatientRepository
	logger zerolog.Logger
}

func NewPatientService(repo ports.PatientRepository, logger zerolog.Logger) *PatientService {
	return &PatientService{repo: repo, logger: logger}
}

func (s *PatientService) CreatePatient(ctx context.Context, in ports.CreatePatientInput) (*domain.Patient, error) {
	patient := &domain.Patient{
		Name:             in.Name,
		Age:              in.Age,
		Gender:           in.Gender,
		Illness:          in.Illness,
		RoomNumber:       in.RoomNumber,
		AssignedDoctorID: in.AssignedDoctorID,
		AssignedNurseID:  in.AssignedNurseID,
		MedicalHistory:   in.MedicalHistory,
		AdmittedAt:       time.Now().UTC(),
		Status:           "admitted",
	}

	created, err := s.repo.CreatePatient(ctx, patient)
	if err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}

	s.logger.Info().Str("patient_id", created.ID).Str("room", created.RoomNumber).Msg("patient admitted")
	return created, nil
}

func (s *PatientService) ListPatients(ctx context.Context) ([]*domain.Patient, error) {
	return s.repo.ListPatients(ctx)
}

func (s *PatientService) RecordVitals(ctx context.Context, in ports.VitalsInput) (*domain.VitalRecord, error) {
	if _, err := s.repo.FindPatientByID(ctx, in.PatientID); err != nil {
		return nil, err
	}

	record := &domain.VitalRecord{
		PatientID:        in.PatientID,
		RecordedBy:       in.RecordedBy,
		Temperature:      in.Temperature,
		BloodPressure:    in.BloodPressure,
		Pulse:            in.Pulse,
		RespirationRate:  in.RespirationRate,
		OxygenSaturation: in.OxygenSaturation,
		Notes:            in.Notes,
		RecordedAt:       time.Now().UTC(),
	}

	created, err := s.repo.InsertVitals(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("record vitals: %w", err)
	}
	return created, nil
}

func (s *PatientService) ListVitals(ctx context.Context, patientID string) ([]*domain.VitalRecord, error) {
	return s.repo.ListVitalsByPatient(ctx, patientID)
}

// ScheduleMedication creates a recurring medication order. The first dose
// is due at the start time.
func (s *PatientService) ScheduleMedication(ctx context.Context, in ports.MedicationInput) (*domain.MedicationSchedule, error) {
	if _, err := s.repo.FindPatientByID(ctx, in.PatientID); err != nil {
		return nil, err
	}

	start := in.StartTime
	if start.IsZero() {
		start = time.Now().UTC()
	}

	med := &domain.MedicationSchedule{
		PatientID:       in.PatientID,
		MedicationName:  in.MedicationName,
		Dosage:          in.Dosage,
		Route:           in.Route,
		FrequencyHours:  in.FrequencyHours,
		StartTime:       start,
		NextDoseTime:    start,
		Status:          domain.MedicationScheduled,
		AssignedNurseID: in.AssignedNurseID,
		CreatedBy:       in.CreatedBy,
	}

	created, err := s.repo.InsertMedication(ctx, med)
	if err != nil {
		return nil, fmt.Errorf("schedule medication: %w", err)
	}

	s.logger.Info().Str("patient_id", in.PatientID).Str("medication", in.MedicationName).Msg("medication scheduled")
	return created, nil
}

func (s *PatientService) ListMedications(ctx context.Context, patientID string) ([]*domain.MedicationSchedule, error) {
	return s.repo.ListMedicationsByPatient(ctx, patientID)
}

// MarkAdministered stamps the dose and advances next_dose_time by the
// schedule's frequency, resetting any overdue flag.
func (s *PatientService) MarkAdministered(ctx context.Context, medicationID string, administeredAt time.Time) (*domain.MedicationSchedule, error) {
	med, err := s.repo.FindMedicationByID(ctx, medicationID)
	if err != nil {
		return nil, err
	}

	if administeredAt.IsZero() {
		administeredAt = time.Now().UTC()
	}
	med.LastAdministeredAt = administeredAt
	med.NextDoseTime = administeredAt.Add(time.Duration(med.FrequencyHours) * time.Hour)
	med.Status = domain.MedicationScheduled

	if err := s.repo.UpdateMedication(ctx, med); err != nil {
		return nil, fmt.Errorf("mark administered: %w", err)
	}
	return med, nil
}

func (s *PatientService) AddCarePlanStep(ctx context.Context, in ports.CarePlanStepInput) (*domain.CarePlanStep, error) {
	if _, err := s.repo.FindPatientByID(ctx, in.PatientID); err != nil {
		return nil, err
	}

	step := &domain.CarePlanStep{
		PatientID:   in.PatientID,
		Title:       in.Title,
		Description: in.Description,
		AssignedTo:  in.AssignedTo,
		DueTime:     in.DueTime,
		Status:      domain.StepPending,
		CreatedBy:   in.CreatedBy,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := s.repo.InsertCarePlanStep(ctx, step)
	if err != nil {
		return nil, fmt.Errorf("add care plan step: %w", err)
	}
	return created, nil
}

func (s *PatientService) ListCarePlan(ctx context.Context, patientID string) ([]*domain.CarePlanStep, error) {
	return s.repo.ListCarePlanByPatient(ctx, patientID)
}

// UpdateCarePlanStatus moves a step through the status state machine.
// Completion stamps completed_at.
func (s *PatientService) UpdateCarePlanStatus(ctx context.Context, stepID string, status domain.StepStatus) (*domain.CarePlanStep, error) {
	step, err := s.repo.FindCarePlanStepByID(ctx, stepID)
	if err != nil {
		return nil, err
	}

	if !step.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, step.Status, status)
	}

	step.Status = status
	if status == domain.StepCompleted {
		step.CompletedAt = time.Now().UTC()
	}

	if err := s.repo.UpdateCarePlanStep(ctx, step); err != nil {
		return nil, fmt.Errorf("update care plan status: %w", err)
	}
	return step, nil
}
