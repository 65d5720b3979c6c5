package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/osse101/PrizeKiosk_Go/internal/logger"
)

// HealthResponse represents the response for health endpoints
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthChecker defines the interface for components that can report health
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}

// readinessTimeout bounds a single readiness probe
const readinessTimeout = 2 * time.Second

// HandleHealthz provides a basic liveness check
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

// HandleReadyz reports ready once every checker passes. The engine is not
// ready until a catalog has been applied.
func HandleReadyz(checkers ...HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		for _, c := range checkers {
			if err := c.CheckHealth(ctx); err != nil {
				logger.FromContext(r.Context()).Warn("Readiness check failed", "error", err)
				respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
					Status:  "unavailable",
					Message: err.Error(),
				})
				return
			}
		}

		respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
