package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quoteboard/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quoteboard/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quoteboard/internal/platform/config"
	"github.com/jsamuelsen/quoteboard/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	Logger     *slog.Logger
	AuthConfig *config.AuthConfig
	AppConfig  *config.AppConfig

	HealthHandler *handlers.HealthHandler
	QuoteHandler  *handlers.QuoteHandler
	VoteHandler   *handlers.VoteHandler
	AdminHandler  *handlers.AdminHandler

	// Timeout is the API request deadline. Zero disables it.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery
//  2. Request ID and correlation ID
//  3. OpenTelemetry
//  4. Logging (skips health endpoints)
//
// The /api/v1 group adds, in order, the request deadline, caller
// authentication and the per-request memo. Vote routes require a login and
// admin routes require the configured admin role.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(cfg.AppConfig.Name),
		telemetry.Middleware(),
		middleware.Logging(),
	)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	api := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		api.Use(middleware.Timeout(cfg.Timeout))
	}

	api.Use(middleware.Authenticate(cfg.AuthConfig), middleware.RequestScope())

	if cfg.QuoteHandler != nil {
		cfg.QuoteHandler.RegisterRoutes(api)
	}

	if cfg.VoteHandler != nil {
		cfg.VoteHandler.RegisterRoutes(api, middleware.RequireLogin(cfg.AuthConfig))
	}

	if cfg.AdminHandler != nil {
		cfg.AdminHandler.RegisterRoutes(api, middleware.RequireRole(cfg.AuthConfig, adminRole(cfg.AuthConfig)))
	}
}

func adminRole(cfg *config.AuthConfig) string {
	if cfg == nil || cfg.AdminRole == "" {
		return config.DefaultAdminRole
	}

	return cfg.AdminRole
}
