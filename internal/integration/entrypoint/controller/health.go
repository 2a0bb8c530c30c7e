package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthDependency checks one dependency. Check returns nil when it is reachable.
type HealthDependency struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthResponse is the body of GET /health. Checks maps each dependency name to
// "up" or "down".
type HealthResponse struct {
	Status    string            `json:"status"`
	Backend   string            `json:"backend"`
	Checks    map[string]string `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
}

// HealthController reports the auth backend and the state of its dependencies.
type HealthController struct {
	backend string
	deps    []HealthDependency
}

func NewHealthController(backend string, deps ...HealthDependency) *HealthController {
	return &HealthController{backend: backend, deps: deps}
}

// Check handles GET /health. Any failing dependency degrades the status and
// answers 503 so load balancers drain the instance.
func (h *HealthController) Check(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		Backend:   h.backend,
		Checks:    make(map[string]string, len(h.deps)),
		Timestamp: time.Now().UTC(),
	}

	for _, dep := range h.deps {
		if err := dep.Check(c.Request.Context()); err != nil {
			slog.WarnContext(c.Request.Context(), "Health check failed", "dependency", dep.Name, "error", err)
			resp.Checks[dep.Name] = "down"
			resp.Status = "degraded"
			continue
		}
		resp.Checks[dep.Name] = "up"
	}

	code := http.StatusOK
	if resp.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}
