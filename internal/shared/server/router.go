package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"careercompass-backend/internal/analyses"
	googleauth "careercompass-backend/internal/auth"
	"careercompass-backend/internal/documents"
	"careercompass-backend/internal/roadmaps"
	"careercompass-backend/internal/shared/config"
	"careercompass-backend/internal/shared/metrics"
	"careercompass-backend/internal/shared/server/middleware"
	"careercompass-backend/internal/shared/server/respond"
	"careercompass-backend/internal/usage"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config          config.Config
	DocumentHandler *documents.Handler
	AnalysisHandler *analyses.Handler
	RoadmapHandler  *roadmaps.Handler
	UsageHandler    *usage.Handler
	GoogleAuth      *googleauth.GoogleService
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

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(api)
	}
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(api)
	}
	if deps.RoadmapHandler != nil {
		deps.RoadmapHandler.RegisterRoutes(api)
	}
	if deps.UsageHandler != nil {
		deps.UsageHandler.RegisterRoutes(api)
		if deps.Config.Env == "dev" {
			dev := api.Group("/dev")
			deps.UsageHandler.RegisterDevRoutes(dev)
		}
	}

	return r
}

// rateLimitConfig throttles generation endpoints harder than status polling.
func rateLimitConfig() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		DefaultGroup: "DEFAULT",
		Rules: map[string]middleware.RateLimitRule{
			"MODEL":   {Rate: 0.5, Burst: 5},
			"POLLING": {Rate: 10, Burst: 30},
		},
		GroupFor: func(c *gin.Context) string {
			path := c.FullPath()
			if c.Request.Method == http.MethodPost &&
				(path == "/api/v1/roadmaps" || strings.HasSuffix(path, "/analyses")) {
				return "MODEL"
			}
			if c.Request.Method == http.MethodGet {
				return "POLLING"
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
