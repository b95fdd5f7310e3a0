package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medipresence/hospital-system/internal/api/middleware"
)

// ctxIdentity extracts the verified claims injected by the Auth middleware
// and fails fast when they are absent: a missing role means the middleware
// never ran, so the request must not reach any service call.
func ctxIdentity(c echo.Context) (userID, role string, err error) {
	role, _ = c.Get(middleware.CtxRole).(string)
	userID, _ = c.Get(middleware.CtxUserID).(string)
	if role == "" || userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, role, nil
}
