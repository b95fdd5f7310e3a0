package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medipresence/hospital-system/internal/core/ports"
)

// AlertHandler serves the open-alert board and acknowledgements.
type AlertHandler struct {
	alerts ports.AlertService
	audit  ports.AuditRecorder
}

func NewAlertHandler(alerts ports.AlertService, audit ports.AuditRecorder) *AlertHandler {
	return &AlertHandler{alerts: alerts, audit: audit}
}

// ListOpen returns every unacknowledged alert, newest first.
//
// @Summary      Open alerts
// @Tags         alerts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Alert
// @Router       /alerts [get]
func (h *AlertHandler) ListOpen(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	alerts, err := h.alerts.ListOpen(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, alerts)
}

// Acknowledge marks an alert as handled. Acknowledging twice is a no-op.
//
// @Summary      Acknowledge an alert
// @Tags         alerts
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Alert ID"
// @Success      200  {object}  domain.Alert
// @Failure      404  {object}  map[string]string
// @Router       /alerts/{id}/acknowledge [post]
func (h *AlertHandler) Acknowledge(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	a, err := h.alerts.Acknowledge(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	h.audit.Enqueue(ports.AuditEntryInput{
		UserID:    userID,
		Action:    "alert_acknowledged",
		Details:   "alert: " + a.ID + ", type: " + a.AlertType,
		IPAddress: c.RealIP(),
	})
	return c.JSON(http.StatusOK, a)
}
