package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medipresence/hospital-system/internal/api/middleware"
	"github.com/medipresence/hospital-system/internal/core/domain"
	"github.com/medipresence/hospital-system/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error)
	loginFn    func(ctx context.Context, username, password string) (string, *domain.User, error)
	meFn       func(ctx context.Context, userID string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.meFn(ctx, userID)
}

func (s *stubAuthService) VerifyToken(string) (*domain.TokenClaims, error) {
	return nil, domain.ErrInvalidToken
}

type stubPresence struct {
	initCalls    []string
	clockInCalls []string
	err          error
}

func (s *stubPresence) InitFor(_ context.Context, userID string) error {
	s.initCalls = append(s.initCalls, userID)
	return s.err
}

func (s *stubPresence) Roster(context.Context) ([]ports.PresenceEntry, error) { return nil, nil }

func (s *stubPresence) UpdateStatus(context.Context, ports.StatusUpdateInput) (*domain.StaffPresence, error) {
	return nil, nil
}

func (s *stubPresence) ClockIn(_ context.Context, userID string) error {
	s.clockInCalls = append(s.clockInCalls, userID)
	return s.err
}

func (s *stubPresence) ClockOff(context.Context, string) error { return nil }

type stubAudit struct {
	entries []ports.AuditEntryInput
}

func (s *stubAudit) Enqueue(entry ports.AuditEntryInput) {
	s.entries = append(s.entries, entry)
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	auth := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (string, *domain.User, error) {
			if in.Username != "alice" || in.Role != domain.RoleNurse {
				t.Fatalf("unexpected input: %+v", in)
			}
			return "tok", &domain.User{ID: "user_1", Username: in.Username, Role: in.Role, IsActive: true}, nil
		},
	}
	presence := &stubPresence{}
	audit := &stubAudit{}
	h := NewAuthHandler(auth, presence, audit, zerolog.Nop())

	c, rec := newTestContext(t, http.MethodPost, "/auth/register",
		`{"username":"alice","email":"alice@hospital.test","password":"s3cretpass","full_name":"Alice","role":"nurse"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "tok" {
		t.Fatalf("token missing from response: %+v", resp)
	}
	user, _ := resp["user"].(map[string]any)
	if user["username"] != "alice" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash leaked in response")
	}

	if len(presence.initCalls) != 1 || presence.initCalls[0] != "user_1" {
		t.Fatalf("presence row not initialised: %+v", presence.initCalls)
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != "register" {
		t.Fatalf("audit entry not enqueued: %+v", audit.entries)
	}
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	auth := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (string, *domain.User, error) {
			t.Fatalf("service must not be reached")
			return "", nil, nil
		},
	}
	h := NewAuthHandler(auth, &stubPresence{}, &stubAudit{}, zerolog.Nop())

	c, _ := newTestContext(t, http.MethodPost, "/auth/register",
		`{"username":"bob","email":"bob@hospital.test","password":"short","full_name":"Bob","role":"staff"}`)

	err := h.Register(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	auth := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (string, *domain.User, error) {
			return "", nil, domain.ErrUserExists
		},
	}
	h := NewAuthHandler(auth, &stubPresence{}, &stubAudit{}, zerolog.Nop())

	c, _ := newTestContext(t, http.MethodPost, "/auth/register",
		`{"username":"bob","email":"bob@hospital.test","password":"s3cretpass","full_name":"Bob","role":"staff"}`)

	if err := h.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists to propagate, got %v", err)
	}
}

func TestAuthHandler_Login_ClocksIn(t *testing.T) {
	auth := &stubAuthService{
		loginFn: func(_ context.Context, username, password string) (string, *domain.User, error) {
			return "tok", &domain.User{ID: "user_1", Username: username}, nil
		},
	}
	presence := &stubPresence{}
	audit := &stubAudit{}
	h := NewAuthHandler(auth, presence, audit, zerolog.Nop())

	c, rec := newTestContext(t, http.MethodPost, "/auth/login",
		`{"username":"carol","password":"s3cretpass"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(presence.clockInCalls) != 1 || presence.clockInCalls[0] != "user_1" {
		t.Fatalf("login must clock the user in: %+v", presence.clockInCalls)
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != "login" {
		t.Fatalf("audit entry not enqueued: %+v", audit.entries)
	}
}

// A clock-in failure is logged but must never fail the login.
func TestAuthHandler_Login_ClockInFailureIgnored(t *testing.T) {
	auth := &stubAuthService{
		loginFn: func(_ context.Context, username, _ string) (string, *domain.User, error) {
			return "tok", &domain.User{ID: "user_1", Username: username}, nil
		},
	}
	presence := &stubPresence{err: errors.New("mongo down")}
	h := NewAuthHandler(auth, presence, &stubAudit{}, zerolog.Nop())

	c, rec := newTestContext(t, http.MethodPost, "/auth/login",
		`{"username":"carol","password":"s3cretpass"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("login must succeed despite clock-in failure: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	auth := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(auth, &stubPresence{}, &stubAudit{}, zerolog.Nop())

	c, _ := newTestContext(t, http.MethodPost, "/auth/login",
		`{"username":"carol","password":"wrong"}`)

	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials to propagate, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	auth := &stubAuthService{
		meFn: func(_ context.Context, userID string) (*domain.User, error) {
			if userID != "user_1" {
				t.Fatalf("unexpected user id: %s", userID)
			}
			return &domain.User{ID: userID, Username: "alice", CreatedAt: time.Now()}, nil
		},
	}
	h := NewAuthHandler(auth, &stubPresence{}, &stubAudit{}, zerolog.Nop())

	c, rec := newTestContext(t, http.MethodGet, "/me", "")
	c.Set(middleware.CtxUserID, "user_1")
	c.Set(middleware.CtxRole, domain.RoleNurse)

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Me_NoClaims(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubPresence{}, &stubAudit{}, zerolog.Nop())

	c, _ := newTestContext(t, http.MethodGet, "/me", "")

	err := h.Me(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
