package domain

import "time"

// Patient is an admitted patient record. Clinical history lives in the
// per-patient sub-collections (vitals, medications, care plan).
type Patient struct {
	ID               string    `json:"id" bson:"_id,omitempty"`
	Name             string    `json:"name" bson:"name"`
	Age              int       `json:"age" bson:"age"`
	Gender           string    `json:"gender" bson:"gender"`
	Illness          string    `json:"illness" bson:"illness"`
	RoomNumber       string    `json:"room_number" bson:"room_number"`
	AssignedDoctorID string    `json:"assigned_doctor_id" bson:"assigned_doctor_id"`
	AssignedNurseID  string    `json:"assigned_nurse_id" bson:"assigned_nurse_id"`
	MedicalHistory   string    `json:"medical_history,omitempty" bson:"medical_history,omitempty"`
	AdmittedAt       time.Time `json:"admitted_at" bson:"admitted_at"`
	Status           string    `json:"status" bson:"status"`
}

// VitalRecord is a single vitals reading, attributed to the recorder.
type VitalRecord struct {
	ID               string    `json:"id" bson:"_id,omitempty"`
	PatientID        string    `json:"patient_id" bson:"patient_id"`
	RecordedBy       string    `json:"recorded_by" bson:"recorded_by"`
	Temperature      *float64  `json:"temperature,omitempty" bson:"temperature,omitempty"`
	BloodPressure    string    `json:"blood_pressure,omitempty" bson:"blood_pressure,omitempty"`
	Pulse            *int      `json:"pulse,omitempty" bson:"pulse,omitempty"`
	RespirationRate  *int      `json:"respiration_rate,omitempty" bson:"respiration_rate,omitempty"`
	OxygenSaturation *float64  `json:"oxygen_saturation,omitempty" bson:"oxygen_saturation,omitempty"`
	Notes            string    `json:"notes,omitempty" bson:"notes,omitempty"`
	RecordedAt       time.Time `json:"recorded_at" bson:"recorded_at"`
}

// MedicationStatus is the lifecycle state of a medication schedule.
type MedicationStatus string

const (
	MedicationScheduled MedicationStatus = "scheduled"
	MedicationOverdue   MedicationStatus = "overdue"
)

// MedicationSchedule is a recurring medication order for a patient.
// NextDoseTime advances by FrequencyHours each time a dose is administered.
type MedicationSchedule struct {
	ID                 string           `json:"id" bson:"_id,omitempty"`
	PatientID          string           `json:"patient_id" bson:"patient_id"`
	MedicationName     string           `json:"medication_name" bson:"medication_name"`
	Dosage             string           `json:"dosage" bson:"dosage"`
	Route              string           `json:"route,omitempty" bson:"route,omitempty"`
	FrequencyHours     int              `json:"frequency_hours" bson:"frequency_hours"`
	StartTime          time.Time        `json:"start_time" bson:"start_time"`
	NextDoseTime       time.Time        `json:"next_dose_time" bson:"next_dose_time"`
	LastAdministeredAt time.Time        `json:"last_administered_at,omitempty" bson:"last_administered_at,omitempty"`
	Status             MedicationStatus `json:"status" bson:"status"`
	AssignedNurseID    string           `json:"assigned_nurse_id,omitempty" bson:"assigned_nurse_id,omitempty"`
	CreatedBy          string           `json:"created_by" bson:"created_by"`
}

// StepStatus is the state of a care plan step or task.
type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in-progress"
	StepCompleted  StepStatus = "completed"
)

// stepTransitions defines the allowed step/task status transitions.
var stepTransitions = map[StepStatus][]StepStatus{
	StepPending:    {StepInProgress, StepCompleted},
	StepInProgress: {StepCompleted, StepPending},
}

// CanTransitionTo reports whether moving from s to next is valid.
func (s StepStatus) CanTransitionTo(next StepStatus) bool {
	for _, allowed := range stepTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CarePlanStep is one step of a patient's care plan.
type CarePlanStep struct {
	ID          string     `json:"id" bson:"_id,omitempty"`
	PatientID   string     `json:"patient_id" bson:"patient_id"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	AssignedTo  string     `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	DueTime     time.Time  `json:"due_time,omitempty" bson:"due_time,omitempty"`
	Status      StepStatus `json:"status" bson:"status"`
	CreatedBy   string     `json:"created_by" bson:"created_by"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	CompletedAt time.Time  `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}
