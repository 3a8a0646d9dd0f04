package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/sentinel/internal/application/dto"
	"github.com/turtacn/sentinel/pkg/constants"
	"github.com/turtacn/sentinel/pkg/logger"
)

// HealthCheckFunc probes one dependency.
type HealthCheckFunc func(ctx context.Context) error

const healthCheckTimeout = 3 * time.Second

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	backend string
	checks  map[string]HealthCheckFunc
	log     logger.Logger
	now     func() time.Time
}

// NewHealthHandler creates a new HealthHandler. checks are run by the readiness
// and health endpoints; liveness never touches dependencies.
func NewHealthHandler(backend string, checks map[string]HealthCheckFunc, log logger.Logger) *HealthHandler {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &HealthHandler{backend: backend, checks: checks, log: log, now: time.Now}
}

// HealthCheck handles GET /health.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	checks := h.performChecks(c.Request.Context())

	status := "healthy"
	httpStatus := http.StatusOK
	for name, result := range checks {
		if result != "ok" {
			status = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
			h.log.Warn(c.Request.Context(), "Health check failed",
				logger.String("check", name), logger.String("result", result))
		}
	}

	c.JSON(httpStatus, &dto.HealthResponse{
		Status:    status,
		Version:   constants.ServiceVersion,
		Backend:   h.backend,
		Checks:    checks,
		Timestamp: h.now().UTC(),
	})
}

// ReadinessCheck handles GET /ready.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	h.HealthCheck(c)
}

// LivenessCheck handles GET /live.
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, &dto.HealthResponse{
		Status:    "alive",
		Version:   constants.ServiceVersion,
		Timestamp: h.now().UTC(),
	})
}

func (h *HealthHandler) performChecks(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	var wg sync.WaitGroup
	mu := &sync.Mutex{}
	checks := make(map[string]string, len(h.checks))

	for name, check := range h.checks {
		wg.Add(1)
		go func(name string, check HealthCheckFunc) {
			defer wg.Done()
			status := "ok"
			if err := check(ctx); err != nil {
				status = "error: " + err.Error()
			}
			mu.Lock()
			checks[name] = status
			mu.Unlock()
		}(name, check)
	}
	wg.Wait()
	return checks
}
