package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medipresence/hospital-system/internal/core/domain"
	"github.com/medipresence/hospital-system/internal/core/ports"
)

// StaffHandler serves the presence board and own-status updates.
type StaffHandler struct {
	presence ports.PresenceService
	audit    ports.AuditRecorder
}

func NewStaffHandler(presence ports.PresenceService, audit ports.AuditRecorder) *StaffHandler {
	return &StaffHandler{presence: presence, audit: audit}
}

type statusUpdateRequest struct {
	Status   string `json:"status"   validate:"required,oneof=on-duty off-duty"`
	Activity string `json:"activity" validate:"omitempty,oneof=active busy idle"`
	Location string `json:"location"`
}

// Roster returns the full presence board.
//
// @Summary      Staff presence board
// @Tags         staff
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  ports.PresenceEntry
// @Router       /staff/presence [get]
func (h *StaffHandler) Roster(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	entries, err := h.presence.Roster(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

// UpdateStatus updates the caller's own presence row.
//
// @Summary      Update own presence status
// @Tags         staff
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      statusUpdateRequest  true  "Status update"
// @Success      200   {object}  domain.StaffPresence
// @Failure      404   {object}  map[string]string
// @Router       /staff/status [post]
func (h *StaffHandler) UpdateStatus(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req statusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	p, err := h.presence.UpdateStatus(c.Request().Context(), ports.StatusUpdateInput{
		UserID:   userID,
		Status:   domain.PresenceStatus(req.Status),
		Activity: domain.Activity(req.Activity),
		Location: req.Location,
	})
	if err != nil {
		return err
	}

	h.audit.Enqueue(ports.AuditEntryInput{
		UserID:    userID,
		Action:    "status_update",
		Details:   "status: " + req.Status + ", activity: " + req.Activity,
		IPAddress: c.RealIP(),
	})
	return c.JSON(http.StatusOK, p)
}

// ClockOff closes the caller's open shift.
//
// @Summary      Clock off the current shift
// @Tags         staff
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /staff/clock-off [post]
func (h *StaffHandler) ClockOff(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.presence.ClockOff(c.Request().Context(), userID); err != nil {
		return err
	}

	h.audit.Enqueue(ports.AuditEntryInput{
		UserID:    userID,
		Action:    "clock_off",
		Details:   "shift closed",
		IPAddress: c.RealIP(),
	})
	return c.JSON(http.StatusOK, map[string]string{"message": "clocked off"})
}
