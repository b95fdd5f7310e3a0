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

type stubPatientRepo struct {
	patients    map[string]*domain.Patient
	vitals      []*domain.VitalRecord
	medications map[string]*domain.MedicationSchedule
	steps       map[string]*domain.CarePlanStep
	nextID      int
}

func newStubPatientRepo() *stubPatientRepo {
	return &stubPatientRepo{
		patients:    make(map[string]*domain.Patient),
		medications: make(map[string]*domain.MedicationSchedule),
		steps:       make(map[string]*domain.CarePlanStep),
	}
}

func (r *stubPatientRepo) id(prefix string) string {
	r.nextID++
	return prefix + "_" + strconv.Itoa(r.nextID)
}

func (r *stubPatientRepo) CreatePatient(_ context.Context, p *domain.Patient) (*domain.Patient, error) {
	clone := *p
	clone.ID = r.id("patient")
	r.patients[clone.ID] = &clone
	return &clone, nil
}

func (r *stubPatientRepo) FindPatientByID(_ context.Context, id string) (*domain.Patient, error) {
	if p, ok := r.patients[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPatientNotFound
}

func (r *stubPatientRepo) ListPatients(_ context.Context) ([]*domain.Patient, error) {
	out := make([]*domain.Patient, 0, len(r.patients))
	for _, p := range r.patients {
		out = append(out, p)
	}
	return out, nil
}

func (r *stubPatientRepo) InsertVitals(_ context.Context, v *domain.VitalRecord) (*domain.VitalRecord, error) {
	clone := *v
	clone.ID = r.id("vital")
	r.vitals = append(r.vitals, &clone)
	return &clone, nil
}

func (r *stubPatientRepo) ListVitalsByPatient(_ context.Context, patientID string) ([]*domain.VitalRecord, error) {
	var out []*domain.VitalRecord
	for _, v := range r.vitals {
		if v.PatientID == patientID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *stubPatientRepo) InsertMedication(_ context.Context, m *domain.MedicationSchedule) (*domain.MedicationSchedule, error) {
	clone := *m
	clone.ID = r.id("med")
	r.medications[clone.ID] = &clone
	return &clone, nil
}

func (r *stubPatientRepo) FindMedicationByID(_ context.Context, id string) (*domain.MedicationSchedule, error) {
	if m, ok := r.medications[id]; ok {
		clone := *m
		return &clone, nil
	}
	return nil, domain.ErrMedicationNotFound
}

func (r *stubPatientRepo) ListMedicationsByPatient(_ context.Context, patientID string) ([]*domain.MedicationSchedule, error) {
	var out []*domain.MedicationSchedule
	for _, m := range r.medications {
		if m.PatientID == patientID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubPatientRepo) UpdateMedication(_ context.Context, m *domain.MedicationSchedule) error {
	if _, ok := r.medications[m.ID]; !ok {
		return domain.ErrMedicationNotFound
	}
	clone := *m
	r.medications[m.ID] = &clone
	return nil
}

func (r *stubPatientRepo) InsertCarePlanStep(_ context.Context, s *domain.CarePlanStep) (*domain.CarePlanStep, error) {
	clone := *s
	clone.ID = r.id("step")
	r.steps[clone.ID] = &clone
	return &clone, nil
}

func (r *stubPatientRepo) FindCarePlanStepByID(_ context.Context, id string) (*domain.CarePlanStep, error) {
	if s, ok := r.steps[id]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, domain.ErrCarePlanStepNotFound
}

func (r *stubPatientRepo) ListCarePlanByPatient(_ context.Context, patientID string) ([]*domain.CarePlanStep, error) {
	var out []*domain.CarePlanStep
	for _, s := range r.steps {
		if s.PatientID == patientID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *stubPatientRepo) UpdateCarePlanStep(_ context.Context, s *domain.CarePlanStep) error {
	if _, ok := r.steps[s.ID]; !ok {
		return domain.ErrCarePlanStepNotFound
	}
	clone := *s
	r.steps[s.ID] = &clone
	return nil
}

func admitPatient(t *testing.T, svc *PatientService) *domain.Patient {
	t.Helper()
	p, err := svc.CreatePatient(context.Background(), ports.CreatePatientInput{
		Name:             "John Doe",
		Age:              54,
		Gender:           "male",
		Illness:          "pneumonia",
		RoomNumber:       "204",
		AssignedDoctorID: "doc_1",
		AssignedNurseID:  "nurse_1",
	})
	if err != nil {
		t.Fatalf("create patient: %v", err)
	}
	return p
}

func TestPatientService_CreatePatient(t *testing.T) {
	svc := NewPatientService(newStubPatientRepo(), zerolog.Nop())

	p := admitPatient(t, svc)
	if p.ID == "" {
		t.Fatalf("expected generated ID")
	}
	if p.Status != "admitted" {
		t.Fatalf("expected admitted status, got %q", p.Status)
	}
	if p.AdmittedAt.IsZero() {
		t.Fatalf("admitted_at not stamped")
	}
}

func TestPatientService_RecordVitals_MissingPatient(t *testing.T) {
	svc := NewPatientService(newStubPatientRepo(), zerolog.Nop())

	_, err := svc.RecordVitals(context.Background(), ports.VitalsInput{
		PatientID:  "missing",
		RecordedBy: "nurse_1",
	})
	if !errors.Is(err, domain.ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestPatientService_RecordVitals(t *testing.T) {
	repo := newStubPatientRepo()
	svc := NewPatientService(repo, zerolog.Nop())
	p := admitPatient(t, svc)

	temp := 38.4
	v, err := svc.RecordVitals(context.Background(), ports.VitalsInput{
		PatientID:   p.ID,
		RecordedBy:  "nurse_1",
		Temperature: &temp,
		Notes:       "slight fever",
	})
	if err != nil {
		t.Fatalf("record vitals: %v", err)
	}
	if v.RecordedBy != "nurse_1" {
		t.Fatalf("recorder not attributed: %+v", v)
	}
	if v.Temperature == nil || *v.Temperature != 38.4 {
		t.Fatalf("temperature lost: %+v", v)
	}
	if v.RecordedAt.IsZero() {
		t.Fatalf("recorded_at not stamped")
	}
}

func TestPatientService_ScheduleMedication_FirstDoseAtStart(t *testing.T) {
	repo := newStubPatientRepo()
	svc := NewPatientService(repo, zerolog.Nop())
	p := admitPatient(t, svc)

	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	m, err := svc.ScheduleMedication(context.Background(), ports.MedicationInput{
		PatientID:      p.ID,
		MedicationName: "amoxicillin",
		Dosage:         "500mg",
		FrequencyHours: 8,
		StartTime:      start,
		CreatedBy:      "doc_1",
	})
	if err != nil {
		t.Fatalf("schedule medication: %v", err)
	}
	if !m.NextDoseTime.Equal(start) {
		t.Fatalf("first dose must be due at start time, got %v", m.NextDoseTime)
	}
	if m.Status != domain.MedicationScheduled {
		t.Fatalf("unexpected status: %s", m.Status)
	}
}

func TestPatientService_MarkAdministered_AdvancesNextDose(t *testing.T) {
	repo := newStubPatientRepo()
	svc := NewPatientService(repo, zerolog.Nop())
	p := admitPatient(t, svc)

	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	m, err := svc.ScheduleMedication(context.Background(), ports.MedicationInput{
		PatientID:      p.ID,
		MedicationName: "amoxicillin",
		Dosage:         "500mg",
		FrequencyHours: 8,
		StartTime:      start,
		CreatedBy:      "doc_1",
	})
	if err != nil {
		t.Fatalf("schedule medication: %v", err)
	}

	given := start.Add(15 * time.Minute)
	updated, err := svc.MarkAdministered(context.Background(), m.ID, given)
	if err != nil {
		t.Fatalf("mark administered: %v", err)
	}
	if !updated.LastAdministeredAt.Equal(given) {
		t.Fatalf("administration time not stamped: %v", updated.LastAdministeredAt)
	}
	want := given.Add(8 * time.Hour)
	if !updated.NextDoseTime.Equal(want) {
		t.Fatalf("next dose should be %v, got %v", want, updated.NextDoseTime)
	}
}

func TestPatientService_MarkAdministered_Missing(t *testing.T) {
	svc := NewPatientService(newStubPatientRepo(), zerolog.Nop())

	if _, err := svc.MarkAdministered(context.Background(), "missing", time.Time{}); !errors.Is(err, domain.ErrMedicationNotFound) {
		t.Fatalf("expected ErrMedicationNotFound, got %v", err)
	}
}

func TestPatientService_CarePlan_Lifecycle(t *testing.T) {
	repo := newStubPatientRepo()
	svc := NewPatientService(repo, zerolog.Nop())
	p := admitPatient(t, svc)

	step, err := svc.AddCarePlanStep(context.Background(), ports.CarePlanStepInput{
		PatientID: p.ID,
		Title:     "chest x-ray",
		CreatedBy: "doc_1",
	})
	if err != nil {
		t.Fatalf("add step: %v", err)
	}
	if step.Status != domain.StepPending {
		t.Fatalf("new steps start pending, got %s", step.Status)
	}

	step, err = svc.UpdateCarePlanStatus(context.Background(), step.ID, domain.StepInProgress)
	if err != nil {
		t.Fatalf("to in-progress: %v", err)
	}

	step, err = svc.UpdateCarePlanStatus(context.Background(), step.ID, domain.StepCompleted)
	if err != nil {
		t.Fatalf("to completed: %v", err)
	}
	if step.CompletedAt.IsZero() {
		t.Fatalf("completion must stamp completed_at")
	}

	// Completed is terminal.
	if _, err := svc.UpdateCarePlanStatus(context.Background(), step.ID, domain.StepPending); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}
