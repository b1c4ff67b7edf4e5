package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/yourorg/hotdesk/internal/domain"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	users  domain.UserRepository
	logger *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(users domain.UserRepository, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &HealthHandler{
		users:  users,
		logger: logger,
	}
}

// HealthResponse represents the health status response
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadinessResponse represents the readiness check response
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health handles GET /healthz - Simple liveness check
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

// Ready handles GET /readyz. The store lives in process, so readiness only
// reports whether it is wired and how many users it holds.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	checks := make(map[string]string)
	status := "ready"
	statusCode := http.StatusOK

	if h.users == nil {
		checks["store"] = "not configured"
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	} else {
		checks["store"] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ReadinessResponse{Status: status, Checks: checks})
}
