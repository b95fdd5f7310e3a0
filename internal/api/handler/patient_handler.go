package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medipresence/hospital-system/internal/core/domain"
	"github.com/medipresence/hospital-system/internal/core/ports"
)

// PatientHandler serves patient records and their clinical sub-resources
// (vitals, medication schedules, care plans).
type PatientHandler struct {
	patients ports.PatientService
	audit    ports.AuditRecorder
}

func NewPatientHandler(patients ports.PatientService, audit ports.AuditRecorder) *PatientHandler {
	return &PatientHandler{patients: patients, audit: audit}
}

// Create admits a new patient.
//
// @Summary      Admit a patient
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPatientRequest  true  "Patient admission"
// @Success      200   {object}  domain.Patient
// @Failure      422   {object}  map[string]string
// @Router       /patients [post]
func (h *PatientHandler) Create(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createPatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	p, err := h.patients.CreatePatient(c.Request().Context(), ports.CreatePatientInput{
		Name:             req.Name,
		Age:              req.Age,
		Gender:           req.Gender,
		Illness:          req.Illness,
		RoomNumber:       req.RoomNumber,
		AssignedDoctorID: req.AssignedDoctorID,
		AssignedNurseID:  req.AssignedNurseID,
		MedicalHistory:   req.MedicalHistory,
	})
	if err != nil {
		return err
	}

	h.audit.Enqueue(ports.AuditEntryInput{
		UserID:    userID,
		Action:    "patient_admitted",
		Details:   "patient: " + p.Name + ", room: " + p.RoomNumber,
		IPAddress: c.RealIP(),
	})
	return c.JSON(http.StatusOK, p)
}

// List returns every patient on record.
//
// @Summary      List patients
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Patient
// @Router       /patients [get]
func (h *PatientHandler) List(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	patients, err := h.patients.ListPatients(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patients)
}

// RecordVitals stores one vitals reading for a patient.
//
// @Summary      Record patient vitals
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Patient ID"
// @Param        body  body      vitalsRequest  true  "Vitals reading"
// @Success      200   {object}  domain.VitalRecord
// @Failure      404   {object}  map[string]string
// @Router       /patients/{id}/vitals [post]
func (h *PatientHandler) RecordVitals(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req vitalsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	v, err := h.patients.RecordVitals(c.Request().Context(), ports.VitalsInput{
		PatientID:        c.Param("id"),
		RecordedBy:       userID,
		Temperature:      req.Temperature,
		BloodPressure:    req.BloodPressure,
		Pulse:            req.Pulse,
		RespirationRate:  req.RespirationRate,
		OxygenSaturation: req.OxygenSaturation,
		Notes:            req.Notes,
	})
	if err != nil {
		return err
	}

	h.audit.Enqueue(ports.AuditEntryInput{
		UserID:    userID,
		Action:    "vitals_recorded",
		Details:   "patient: " + v.PatientID,
		IPAddress: c.RealIP(),
	})
	return c.JSON(http.StatusOK, v)
}

// ListVitals returns a patient's vitals history, newest first.
//
// @Summary      Patient vitals history
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Patient ID"
// @Success      200  {array}   domain.VitalRecord
// @Failure      404  {object}  map[string]string
// @Router       /patients/{id}/vitals [get]
func (h *PatientHandler) ListVitals(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	records, err := h.patients.ListVitals(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, records)
}

// ScheduleMedication adds a recurring medication schedule for a patient.
//
// @Summary      Schedule a medication
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Patient ID"
// @Param        body  body      medicationRequest  true  "Medication schedule"
// @Success      200   {object}  domain.MedicationSchedule
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /patients/{id}/medications [post]
func (h *PatientHandler) ScheduleMedication(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req medicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	m, err := h.patients.ScheduleMedication(c.Request().Context(), ports.MedicationInput{
		PatientID:       c.Param("id"),
		MedicationName:  req.MedicationName,
		Dosage:          req.Dosage,
		Route:           req.Route,
		FrequencyHours:  req.FrequencyHours,
		StartTime:       req.StartTime,
		AssignedNurseID: req.AssignedNurseID,
		CreatedBy:       userID,
	})
	if err != nil {
		return err
	}

	h.audit.Enqueue(ports.AuditEntryInput{
		UserID:    userID,
		Action:    "medication_scheduled",
		Details:   "patient: " + m.PatientID + ", medication: " + m.MedicationName,
		IPAddress: c.RealIP(),
	})
	return c.JSON(http.StatusOK, m)
}

// ListMedications returns a patient's medication schedules.
//
// @Summary      Patient medication schedules
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Patient ID"
// @Success      200  {array}   domain.MedicationSchedule
// @Failure      404  {object}  map[string]string
// @Router       /patients/{id}/medications [get]
func (h *PatientHandler) ListMedications(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	schedules, err := h.patients.ListMedications(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, schedules)
}

// MarkAdministered stamps a dose as given and advances the next due time.
//
// @Summary      Mark a medication dose administered
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Medication schedule ID"
// @Param        body  body      administeredRequest  false  "Administration time"
// @Success      200   {object}  domain.MedicationSchedule
// @Failure      404   {object}  map[string]string
// @Router       /medications/{id}/administered [post]
func (h *PatientHandler) MarkAdministered(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	// Body is optional: an empty payload means the dose was given now.
	var req administeredRequest
	_ = c.Bind(&req)

	m, err := h.patients.MarkAdministered(c.Request().Context(), c.Param("id"), req.AdministeredTime)
	if err != nil {
		return err
	}

	h.audit.Enqueue(ports.AuditEntryInput{
		UserID:    userID,
		Action:    "medication_administered",
		Details:   "medication: " + m.MedicationName + ", patient: " + m.PatientID,
		IPAddress: c.RealIP(),
	})
	return c.JSON(http.StatusOK, m)
}

// AddCarePlanStep appends a step to a patient's care plan.
//
// @Summary      Add a care plan step
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Patient ID"
// @Param        body  body      carePlanStepRequest  true  "Care plan step"
// @Success      200   {object}  domain.CarePlanStep
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /patients/{id}/care-plan [post]
func (h *PatientHandler) AddCarePlanStep(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req carePlanStepRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	s, err := h.patients.AddCarePlanStep(c.Request().Context(), ports.CarePlanStepInput{
		PatientID:   c.Param("id"),
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		DueTime:     req.DueTime,
		CreatedBy:   userID,
	})
	if err != nil {
		return err
	}

	h.audit.Enqueue(ports.AuditEntryInput{
		UserID:    userID,
		Action:    "care_plan_step_added",
		Details:   "patient: " + s.PatientID + ", step: " + s.Title,
		IPAddress: c.RealIP(),
	})
	return c.JSON(http.StatusOK, s)
}

// ListCarePlan returns a patient's care plan steps.
//
// @Summary      Patient care plan
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Patient ID"
// @Success      200  {array}   domain.CarePlanStep
// @Failure      404  {object}  map[string]string
// @Router       /patients/{id}/care-plan [get]
func (h *PatientHandler) ListCarePlan(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	steps, err := h.patients.ListCarePlan(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, steps)
}

// UpdateCarePlanStatus moves a care plan step through its lifecycle.
//
// @Summary      Update a care plan step status
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Care plan step ID"
// @Param        body  body      statusChangeRequest  true  "New status"
// @Success      200   {object}  domain.CarePlanStep
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /care-plan/{id}/status [post]
func (h *PatientHandler) UpdateCarePlanStatus(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req statusChangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	s, err := h.patients.UpdateCarePlanStatus(c.Request().Context(), c.Param("id"), domain.StepStatus(req.Status))
	if err != nil {
		return err
	}

	h.audit.Enqueue(ports.AuditEntryInput{
		UserID:    userID,
		Action:    "care_plan_status_changed",
		Details:   "step: " + s.Title + ", status: " + string(s.Status),
		IPAddress: c.RealIP(),
	})
	return c.JSON(http.StatusOK, s)
}
