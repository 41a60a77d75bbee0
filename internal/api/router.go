package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/gymcheck/checkin-api/docs"
	"github.com/gymcheck/checkin-api/internal/api/handler"
	"github.com/gymcheck/checkin-api/internal/api/middleware"
	"github.com/gymcheck/checkin-api/internal/core/domain"
	"github.com/gymcheck/checkin-api/internal/core/ports"
)

const metricsSubsystem = "gym_checkin_http"

// Dependencies are constructed once in main and shared by every request.
type Dependencies struct {
	Auth     ports.AuthService
	Gyms     ports.GymService
	CheckIns ports.CheckInService
	Metrics  ports.MetricsService

	Tokens   handler.TokenIssuer
	Throttle handler.LoginThrottle // optional

	ReadinessChecks map[string]handler.CheckFunc
	Logger          zerolog.Logger

	// Registry overrides the default Prometheus registry for HTTP metrics.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  metricsSubsystem,
		Registerer: registerer,
	}))
	e.Use(middleware.RequestLogger(deps.Logger))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Tokens, deps.Throttle, deps.Logger)
	gymHandler := handler.NewGymHandler(deps.Gyms)
	checkInHandler := handler.NewCheckInHandler(deps.CheckIns, deps.Metrics)
	healthHandler := handler.NewHealthHandler(deps.ReadinessChecks, deps.Logger)

	requireAuth := middleware.Auth(deps.Tokens)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Operational endpoints (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth ---
	e.POST("/users", authHandler.Register)
	e.POST("/sessions", authHandler.Authenticate)
	e.PATCH("/token/refresh", authHandler.Refresh)
	e.GET("/me", authHandler.Profile, requireAuth)

	// --- Gyms ---
	gyms := e.Group("/gyms", requireAuth)
	gyms.POST("", gymHandler.Create, adminOnly)
	gyms.GET("/search", gymHandler.Search)
	gyms.GET("/nearby", gymHandler.Nearby)
	gyms.POST("/:gymId/check-ins", checkInHandler.Create)

	// --- Check-ins ---
	checkIns := e.Group("/check-ins", requireAuth)
	checkIns.GET("/history", checkInHandler.History)
	checkIns.GET("/metrics", checkInHandler.Metrics)
	checkIns.PATCH("/:checkInId/validate", checkInHandler.Validate, adminOnly)

	return e
}
