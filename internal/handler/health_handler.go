package handler

import (
	"net/http"
	"time"

	"apply4me/internal/services"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	service  *services.SubmissionService
	env      string
	detailed bool
	started  time.Time
}

func NewHealthHandler(service *services.SubmissionService, env string, detailed bool) *HealthHandler {
	return &HealthHandler{
		service:  service,
		env:      env,
		detailed: detailed,
		started:  time.Now(),
	}
}

// Root is the plain-text banner kept for platform probes and curl checks.
func (h *HealthHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, "Apply4Me API is running (env: %s)", h.env)
}

// Health reports liveness including a quick check against the store.
func (h *HealthHandler) Health(c *gin.Context) {
	if err := h.service.Ping(c.Request.Context()); err != nil {
		msg := "database unavailable"
		if h.detailed {
			msg = err.Error()
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"env":    h.env,
		"uptime": time.Since(h.started).Seconds(),
	})
}
