package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medipresence/hospital-system/internal/core/domain"
)

const (
	collectionPatients    = "patients"
	collectionVitals      = "vital_records"
	collectionMedications = "medication_schedules"
	collectionCarePlans   = "care_plan_steps"
)

// PatientRepository persists patients and their clinical sub-collections.
type PatientRepository struct {
	patients    *mongo.Collection
	vitals      *mongo.Collection
	medications *mongo.Collection
	carePlans   *mongo.Collection
}

func NewPatientRepository(db *mongo.Database) *PatientRepository {
	return &PatientRepository{
		patients:    db.Collection(collectionPatients),
		vitals:      db.Collection(collectionVitals),
		medications: db.Collection(collectionMedications),
		carePlans:   db.Collection(collectionCarePlans),
	}
}

func (r *PatientRepository) CreatePatient(ctx context.Context, p *domain.Patient) (*domain.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if p.ID == "" {
		p.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.patients.InsertOne(ctx, p); err != nil {
		return nil, fmt.Errorf("insert patient: %w", err)
	}
	return p, nil
}

func (r *PatientRepository) FindPatientByID(ctx context.Context, id string) (*domain.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Patient
	if err := r.patients.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPatientNotFound
		}
		return nil, fmt.Errorf("find patient: %w", err)
	}
	return &p, nil
}

func (r *PatientRepository) ListPatients(ctx context.Context) ([]*domain.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.patients.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "admitted_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Patient
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode patients: %w", err)
	}
	return out, nil
}

func (r *PatientRepository) InsertVitals(ctx context.Context, v *domain.VitalRecord) (*domain.VitalRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if v.ID == "" {
		v.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.vitals.InsertOne(ctx, v); err != nil {
		return nil, fmt.Errorf("insert vitals: %w", err)
	}
	return v, nil
}

// ListVitalsByPatient returns vitals newest first.
func (r *PatientRepository) ListVitalsByPatient(ctx context.Context, patientID string) ([]*domain.VitalRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.vitals.Find(ctx, bson.M{"patient_id": patientID},
		options.Find().SetSort(bson.D{{Key: "recorded_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list vitals: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.VitalRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode vitals: %w", err)
	}
	return out, nil
}

func (r *PatientRepository) InsertMedication(ctx context.Context, m *domain.MedicationSchedule) (*domain.MedicationSchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if m.ID == "" {
		m.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.medications.InsertOne(ctx, m); err != nil {
		return nil, fmt.Errorf("insert medication: %w", err)
	}
	return m, nil
}

func (r *PatientRepository) FindMedicationByID(ctx context.Context, id string) (*domain.MedicationSchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m domain.MedicationSchedule
	if err := r.medications.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMedicationNotFound
		}
		return nil, fmt.Errorf("find medication: %w", err)
	}
	return &m, nil
}

// ListMedicationsByPatient returns schedules ordered by next dose.
func (r *PatientRepository) ListMedicationsByPatient(ctx context.Context, patientID string) ([]*domain.MedicationSchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.medications.Find(ctx, bson.M{"patient_id": patientID},
		options.Find().SetSort(bson.D{{Key: "next_dose_time", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.MedicationSchedule
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode medications: %w", err)
	}
	return out, nil
}

func (r *PatientRepository) UpdateMedication(ctx context.Context, m *domain.MedicationSchedule) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.medications.ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if err != nil {
		return fmt.Errorf("update medication: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrMedicationNotFound
	}
	return nil
}

func (r *PatientRepository) InsertCarePlanStep(ctx context.Context, s *domain.CarePlanStep) (*domain.CarePlanStep, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if s.ID == "" {
		s.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.carePlans.InsertOne(ctx, s); err != nil {
		return nil, fmt.Errorf("insert care plan step: %w", err)
	}
	return s, nil
}

func (r *PatientRepository) FindCarePlanStepByID(ctx context.Context, id string) (*domain.CarePlanStep, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.CarePlanStep
	if err := r.carePlans.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCarePlanStepNotFound
		}
		return nil, fmt.Errorf("find care plan step: %w", err)
	}
	return &s, nil
}

// ListCarePlanByPatient returns steps ordered by due time.
func (r *PatientRepository) ListCarePlanByPatient(ctx context.Context, patientID string) ([]*domain.CarePlanStep, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.carePlans.Find(ctx, bson.M{"patient_id": patientID},
		options.Find().SetSort(bson.D{{Key: "due_time", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list care plan: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.CarePlanStep
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode care plan: %w", err)
	}
	return out, nil
}

func (r *PatientRepository) UpdateCarePlanStep(ctx context.Context, s *domain.CarePlanStep) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.carePlans.ReplaceOne(ctx, bson.M{"_id": s.ID}, s)
	if err != nil {
		return fmt.Errorf("update care plan step: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCarePlanStepNotFound
	}
	return nil
}

// EnsureIndexes creates the per-patient lookup indexes.
func (r *PatientRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	byPatient := func(sortKey string, dir int) mongo.IndexModel {
		return mongo.IndexModel{
			Keys: bson.D{{Key: "patient_id", Value: 1}, {Key: sortKey, Value: dir}},
		}
	}

	if _, err := r.vitals.Indexes().CreateOne(ctx, byPatient("recorded_at", -1)); err != nil {
		return fmt.Errorf("create vitals indexes: %w", err)
	}
	if _, err := r.medications.Indexes().CreateOne(ctx, byPatient("next_dose_time", 1)); err != nil {
		return fmt.Errorf("create medication indexes: %w", err)
	}
	if _, err := r.carePlans.Indexes().CreateOne(ctx, byPatient("due_time", 1)); err != nil {
		return fmt.Errorf("create care plan indexes: %w", err)
	}
	return nil
}
