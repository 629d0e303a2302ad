package api

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/storefront/gateway/internal/api/handler"
	"github.com/storefront/gateway/internal/api/middleware"
	"github.com/storefront/gateway/internal/core/domain"
	"github.com/storefront/gateway/internal/core/ports"
	"github.com/storefront/gateway/internal/core/service"
	"github.com/storefront/gateway/internal/infrastructure/http/handlers"
)

// Deps carries everything the router wires into handlers and middleware.
type Deps struct {
	Logger         zerolog.Logger
	Auth           ports.AuthService
	Catalog        ports.CatalogService
	Blobs          ports.BlobGateway
	Resolver       ports.PrincipalResolver
	MaxUploadBytes int64

	// Readiness lists the dependencies pinged by /health/ready.
	Readiness []handlers.Dependency

	// Registerer and Gatherer back the HTTP metrics and /metrics. They
	// default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Pre-routing: CORS headers and preflight on every path ---
	e.Pre(middleware.CORS())

	// --- Global middleware ---
	e.Use(recoverer(deps.Logger))
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "gateway",
		Subsystem:  "http",
		Registerer: registerer,
		Skipper:    skipOperational,
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	catalogHandler := handler.NewCatalogHandler(deps.Catalog)
	fileHandler := handler.NewFileHandler(deps.Blobs, deps.MaxUploadBytes)
	authn := middleware.Authenticate(deps.Resolver)

	// --- Storefront ---
	front := e.Group("/api/front")
	front.POST("/register", authHandler.Register)
	front.POST("/login", authHandler.FrontLogin)
	front.GET("/profile", catalogHandler.Profile, authn, middleware.Require(service.AnyFrontUser))
	front.GET("/orders", catalogHandler.FrontOrders, authn, middleware.Require(service.AnyFrontUser))

	// --- Back office ---
	admin := e.Group("/api/admin")
	admin.POST("/login", authHandler.AdminLogin)
	admin.POST("/create-admin", authHandler.CreateAdmin, authn, middleware.Require(service.AdminWithRole(domain.RoleSuperAdmin)))
	admin.GET("/users", catalogHandler.AdminUsers, authn, middleware.Require(service.AnyAdmin))
	admin.GET("/orders", catalogHandler.AdminOrders, authn, middleware.Require(service.AnyAdmin))
	admin.POST("/products", catalogHandler.CreateProduct, authn, middleware.Require(service.AnyAdmin))

	// --- Public catalog and files ---
	e.GET("/api/products", catalogHandler.Products)
	e.POST("/api/upload", fileHandler.Upload)
	e.GET("/api/file/*", fileHandler.Download)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Readiness...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))

	return e
}

func skipOperational(c echo.Context) bool {
	p := c.Request().URL.Path
	return p == "/metrics" || strings.HasPrefix(p, "/health")
}

// recoverer turns a handler panic into an error for the HTTP error handler,
// which renders it as a 500.
func recoverer(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RecoverWithConfig(echomiddleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Error().
				Err(err).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Str("method", c.Request().Method).
				Str("uri", c.Request().RequestURI).
				Bytes("stack", stack).
				Msg("panic recovered")
			return err
		},
	})
}

// requestLogger writes one zerolog line per request. HandleError lets the
// HTTP error handler commit the response first so the logged status is final.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
