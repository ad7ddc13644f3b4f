package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devstudy/devstudy-backend/internal/metrics"
)

type HealthResponse struct {
	Status       string            `json:"status"`
	Timestamp    time.Time         `json:"timestamp"`
	Service      string            `json:"service"`
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// PingFunc checks one backing dependency.
type PingFunc func(ctx context.Context) error

type HealthHandler struct {
	serviceName string
	version     string
	deps        map[string]PingFunc
}

// NewHealthHandler reports on deps by name. A nil PingFunc reads as "disabled".
func NewHealthHandler(serviceName, version string, deps map[string]PingFunc) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		deps:        deps,
	}
}

// HealthCheck answers 200 when every enabled dependency is up, 503 otherwise.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status := "healthy"
	code := http.StatusOK
	deps := make(map[string]string, len(h.deps))

	for name, ping := range h.deps {
		if ping == nil {
			deps[name] = "disabled"
			continue
		}

		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		err := ping(pingCtx)
		cancel()

		if err != nil {
			deps[name] = "down"
			status = "degraded"
			code = http.StatusServiceUnavailable
		} else {
			deps[name] = "up"
		}
	}

	c.JSON(code, HealthResponse{
		Status:       status,
		Timestamp:    time.Now().UTC(),
		Service:      h.serviceName,
		Version:      h.version,
		Dependencies: deps,
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}
