package health

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/pulsedash/pulse-platform/pkg/postgres"
)

// Checker provides health check functionality for agents
type Checker struct {
	pg     postgres.Client
	logger *slog.Logger
}

// NewChecker creates a new health checker with the given dependencies.
// pg may be nil for an agent without a database.
func NewChecker(pg postgres.Client, logger *slog.Logger) *Checker {
	return &Checker{
		pg:     pg,
		logger: logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Postgres  *postgres.HealthStatus `json:"postgres,omitempty"`
}

// HandlerFunc returns an HTTP handler function for health checks.
// Returns 200 if the process is alive without checking dependencies,
// which keeps the probe fast for the orchestrator.
func (h *Checker) HandlerFunc() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		}

		h.writeResponse(w, http.StatusOK, response)
	}
}

// DetailedHandlerFunc returns a handler that also reports the state of the
// Postgres connection. Slower than the liveness probe; meant for operators,
// not the scheduler.
func (h *Checker) DetailedHandlerFunc() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		}
		statusCode := http.StatusOK

		if h.pg != nil {
			pgStatus, err := h.pg.HealthCheck(r.Context())
			if err != nil {
				h.logger.Error("Postgres health check failed", "error", err)
				response.Status = "degraded"
				statusCode = http.StatusServiceUnavailable
			} else {
				response.Postgres = pgStatus
				if !pgStatus.Connected {
					response.Status = "degraded"
					statusCode = http.StatusServiceUnavailable
				}
			}
		}

		h.writeResponse(w, statusCode, response)
	}
}

func (h *Checker) writeResponse(w http.ResponseWriter, statusCode int, response HealthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode health response", "error", err)
	}
}
