package server

import (
	"net/http"

	"apply4me/internal/config"
	"apply4me/internal/handler"
	"apply4me/internal/metrics"
	"apply4me/internal/middleware"
	"apply4me/internal/redis"
	"apply4me/internal/services"
	"apply4me/pkg/logger"
	"apply4me/web"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires middleware and routes onto a gin engine. Middleware order:
// recovery outermost, then request id, logging, metrics, CORS.
func NewRouter(
	cfg *config.Config,
	l *logger.Logger,
	submissions *handler.SubmissionHandler,
	health *handler.HealthHandler,
	adminAuth *services.AdminAuthService,
	limiter *redis.RateLimiter,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery(l, !cfg.IsProduction()))
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggingMiddleware(l))
	r.Use(metrics.Middleware())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	r.GET("/", health.Root)
	r.GET("/health", health.Health)
	r.GET("/api/health", health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/api/submit", middleware.SubmitRateLimit(limiter, l), submissions.Submit)

	admin := r.Group("/api/submissions",
		middleware.AuthRateLimit(limiter, l),
		middleware.RequireAdmin(adminAuth),
	)
	admin.GET("", submissions.List)
	admin.GET("/:id", submissions.Detail)
	admin.GET("/:id/resume", submissions.Resume)

	// Embedded admin console; it authenticates through the API itself.
	r.GET("/admin", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", web.AdminHTML)
	})

	return r
}
