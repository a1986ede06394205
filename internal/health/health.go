package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger is satisfied by *sql.DB and *redis.Client adapters.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

// PingContext calls f.
func (f PingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

// Handler serves liveness and readiness endpoints.
type Handler struct {
	service    string
	dependency map[string]Pinger
	timeout    time.Duration
	logger     *zap.Logger
}

// NewHandler creates a Handler. Dependencies are checked by the readiness endpoint only.
func NewHandler(service string, dependencies map[string]Pinger, logger *zap.Logger) *Handler {
	if dependencies == nil {
		dependencies = map[string]Pinger{}
	}
	return &Handler{service: service, dependency: dependencies, timeout: 2 * time.Second, logger: logger}
}

// RegisterRoutes registers /health and /health/ready.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.Live)
	r.GET("/health/ready", h.Ready)
}

// Live always reports the process as up.
func (h *Handler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": h.service})
}

// Ready reports 503 when any dependency fails its ping. Failure details are logged, not returned.
func (h *Handler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	checks := make(map[string]string, len(h.dependency))
	status := http.StatusOK
	for name, p := range h.dependency {
		if err := p.PingContext(ctx); err != nil {
			h.logger.Warn("readiness check failed", zap.String("dependency", name), zap.Error(err))
			checks[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not ready"
	}
	c.JSON(status, gin.H{"status": state, "service": h.service, "checks": checks})
}
