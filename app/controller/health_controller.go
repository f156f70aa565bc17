package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// HealthChecker checks the health of one dependency.
type HealthChecker func(ctx context.Context) error

// HealthController provides liveness and readiness endpoints.
type HealthController struct {
	checkers map[string]HealthChecker
}

// NewHealthController creates a health controller with the given named
// dependency checks. Checks run only on the readiness endpoint.
func NewHealthController(checkers map[string]HealthChecker) *HealthController {
	if checkers == nil {
		checkers = make(map[string]HealthChecker)
	}
	return &HealthController{checkers: checkers}
}

// Health handles GET /health. Always 200 while the process is running.
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type readinessCheck struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status string                    `json:"status"`
	Checks map[string]readinessCheck `json:"checks,omitempty"`
}

// Ready handles GET /health/ready. Returns 503 when any dependency check
// fails.
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resp := readinessResponse{
		Status: "ok",
		Checks: make(map[string]readinessCheck, len(c.checkers)),
	}
	status := http.StatusOK

	for name, check := range c.checkers {
		if err := check(ctx); err != nil {
			resp.Checks[name] = readinessCheck{Status: "down", Error: err.Error()}
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		} else {
			resp.Checks[name] = readinessCheck{Status: "up"}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
