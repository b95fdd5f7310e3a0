package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/medipresence/hospital-system/internal/api/handler"
	"github.com/medipresence/hospital-system/internal/api/middleware"
	"github.com/medipresence/hospital-system/internal/core/domain"
	"github.com/medipresence/hospital-system/internal/core/ports"
	"github.com/medipresence/hospital-system/internal/core/service"
	"github.com/medipresence/hospital-system/internal/infrastructure/config"
	mongodb "github.com/medipresence/hospital-system/internal/infrastructure/db/mongo"
	redisdb "github.com/medipresence/hospital-system/internal/infrastructure/db/redis"
)

// Deps bundles the shared resources the router wires together.
type Deps struct {
	Config *config.Config
	Mongo  *mongo.Database
	Redis  *redis.Client
	Audit  ports.AuditRecorder
	Logger zerolog.Logger
}

// NewRouter builds the Echo instance with every route registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("medipresence"))

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(d.Mongo)
	presenceRepo := mongodb.NewPresenceRepository(d.Mongo)
	patientRepo := mongodb.NewPatientRepository(d.Mongo)
	taskRepo := mongodb.NewTaskRepository(d.Mongo)
	alertRepo := mongodb.NewAlertRepository(d.Mongo)
	auditRepo := mongodb.NewAuditRepository(d.Mongo)
	heartbeat := redisdb.NewHeartbeatTracker(d.Redis)

	// --- Services ---
	authService := service.NewAuthService(userRepo, d.Config.JWTSecret, d.Config.TokenTTL)
	presenceService := service.NewPresenceService(presenceRepo, userRepo, heartbeat, d.Logger)
	patientService := service.NewPatientService(patientRepo, d.Logger)
	taskService := service.NewTaskService(taskRepo, d.Logger)
	alertService := service.NewAlertService(alertRepo, d.Logger)
	auditService := service.NewAuditService(auditRepo, d.Logger)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService, presenceService, d.Audit, d.Logger)
	staffHandler := handler.NewStaffHandler(presenceService, d.Audit)
	patientHandler := handler.NewPatientHandler(patientService, d.Audit)
	taskHandler := handler.NewTaskHandler(taskService, d.Audit)
	alertHandler := handler.NewAlertHandler(alertService, d.Audit)
	auditHandler := handler.NewAuditHandler(auditService)
	healthHandler := handler.NewHealthHandler(d.Mongo, d.Redis)

	authn := middleware.Auth(authService)

	// --- Public routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Authenticated routes ---
	e.GET("/me", authHandler.Me, authn)

	e.GET("/staff/presence", staffHandler.Roster, authn)
	e.POST("/staff/status", staffHandler.UpdateStatus, authn)
	e.POST("/staff/clock-off", staffHandler.ClockOff, authn)

	e.GET("/patients", patientHandler.List, authn)
	e.POST("/patients", patientHandler.Create, authn,
		middleware.RBAC(domain.RoleAdmin, domain.RoleDoctor, domain.RoleReceptionist))

	e.GET("/patients/:id/vitals", patientHandler.ListVitals, authn)
	e.POST("/patients/:id/vitals", patientHandler.RecordVitals, authn,
		middleware.RBAC(domain.RoleDoctor, domain.RoleNurse))

	e.GET("/patients/:id/medications", patientHandler.ListMedications, authn)
	e.POST("/patients/:id/medications", patientHandler.ScheduleMedication, authn,
		middleware.RBAC(domain.RoleDoctor, domain.RoleNurse))
	e.POST("/medications/:id/administered", patientHandler.MarkAdministered, authn,
		middleware.RBAC(domain.RoleDoctor, domain.RoleNurse))

	e.GET("/patients/:id/care-plan", patientHandler.ListCarePlan, authn)
	e.POST("/patients/:id/care-plan", patientHandler.AddCarePlanStep, authn)
	e.POST("/care-plan/:id/status", patientHandler.UpdateCarePlanStatus, authn)

	e.GET("/tasks", taskHandler.List, authn)
	e.POST("/tasks", taskHandler.Create, authn)
	e.POST("/tasks/:id/status", taskHandler.UpdateStatus, authn)

	e.GET("/alerts", alertHandler.ListOpen, authn)
	e.POST("/alerts/:id/acknowledge", alertHandler.Acknowledge, authn)

	e.GET("/audit-logs", auditHandler.ListRecent, authn,
		middleware.RBAC(domain.RoleAdmin))

	return e
}
