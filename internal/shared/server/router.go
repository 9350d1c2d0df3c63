package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"policy-backend/internal/clients"
	"policy-backend/internal/extractions"
	"policy-backend/internal/health"
	"policy-backend/internal/policies"
	"policy-backend/internal/settings"
	"policy-backend/internal/shared/config"
	"policy-backend/internal/shared/metrics"
	"policy-backend/internal/shared/server/middleware"
)

// RouterDeps carries the handlers the router exposes.
type RouterDeps struct {
	Config      config.Config
	Health      *health.Handler
	Extractions *extractions.Handler
	Policies    *policies.Handler
	Clients     *clients.Handler
	Settings    *settings.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
		middleware.RateLimit(rateLimitConfig()),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	if deps.Health != nil {
		deps.Health.RegisterRoutes(api)
	}
	if deps.Extractions != nil {
		deps.Extractions.RegisterRoutes(api)
	}
	if deps.Policies != nil {
		deps.Policies.RegisterRoutes(api)
	}
	if deps.Clients != nil {
		deps.Clients.RegisterRoutes(api)
	}
	if deps.Settings != nil {
		deps.Settings.RegisterRoutes(api)
	}

	return r
}

// Extraction posts hit the model provider, so they get a much tighter budget
// than plain CRUD traffic.
func rateLimitConfig() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT": {Rate: 5, Burst: 10},
			"EXTRACT": {Rate: 1, Burst: 2},
		},
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && strings.HasPrefix(c.Request.URL.Path, "/api/v1/extractions") {
				return "EXTRACT"
			}
			return "DEFAULT"
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
