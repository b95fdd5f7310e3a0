package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/medipresence/hospital-system/internal/core/ports"
)

const defaultAuditLimit = 100

// AuditHandler serves the admin view of the audit trail.
type AuditHandler struct {
	audit ports.AuditService
}

func NewAuditHandler(audit ports.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// ListRecent returns the newest audit entries.
//
// @Summary      Recent audit entries
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query  int  false  "Max entries (default 100)"
// @Success      200  {array}  domain.AuditLog
// @Router       /audit-logs [get]
func (h *AuditHandler) ListRecent(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	limit := int64(defaultAuditLimit)
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "limit must be a positive integer")
		}
		limit = n
	}

	logs, err := h.audit.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, logs)
}
