package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medipresence/hospital-system/internal/api/metrics"
	"github.com/medipresence/hospital-system/internal/core/domain"
	"github.com/medipresence/hospital-system/internal/core/ports"
)

// AuthHandler serves registration, login, and the identity probe. After a
// successful login the user is clocked in; a clock-in failure is logged
// but never fails the login itself.
type AuthHandler struct {
	authService ports.AuthService
	presence    ports.PresenceService
	audit       ports.AuditRecorder
	logger      zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, presence ports.PresenceService, audit ports.AuditRecorder, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, presence: presence, audit: audit, logger: logger}
}

type registerRequest struct {
	Username string `json:"username"  validate:"required"`
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role"      validate:"required,oneof=admin doctor nurse receptionist staff"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Register creates a new staff account.
//
// @Summary      Register a new staff account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      200   {object}  authResponse
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	ctx := c.Request().Context()
	token, user, err := h.authService.Register(ctx, ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	if err := h.presence.InitFor(ctx, user.ID); err != nil {
		h.logger.Warn().Err(err).Str("user_id", user.ID).Msg("presence init failed")
	}

	metrics.RegistrationsTotal.WithLabelValues(user.Role).Inc()
	h.audit.Enqueue(ports.AuditEntryInput{
		UserID:    user.ID,
		Action:    "register",
		Details:   "user " + user.Username + " registered",
		IPAddress: c.RealIP(),
	})

	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// Login authenticates a staff member and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	ctx := c.Request().Context()
	token, user, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		if err == domain.ErrInvalidCredentials {
			metrics.AuthFailuresTotal.WithLabelValues("bad_credentials").Inc()
		}
		return err
	}

	if err := h.presence.ClockIn(ctx, user.ID); err != nil {
		h.logger.Warn().Err(err).Str("user_id", user.ID).Msg("clock-in on login failed")
	}

	metrics.LoginsTotal.Inc()
	h.audit.Enqueue(ports.AuditEntryInput{
		UserID:    user.ID,
		Action:    "login",
		Details:   "user " + user.Username + " logged in",
		IPAddress: c.RealIP(),
	})

	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// Me returns the authenticated user's public projection.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Me(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
