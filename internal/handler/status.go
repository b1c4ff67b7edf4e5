package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/yourorg/hotdesk/internal/security/middleware"
	"github.com/yourorg/hotdesk/internal/service"
)

// StatusHandler reports the visitor count and the caller's own record
type StatusHandler struct {
	occupancy *service.OccupancyService
	logger    *slog.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(occupancy *service.OccupancyService, logger *slog.Logger) *StatusHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &StatusHandler{
		occupancy: occupancy,
		logger:    logger,
	}
}

// UserResponse is the public view of a user record
type UserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Rating    float64 `json:"rating"`
	CheckedIn bool    `json:"checkedIn"`
}

// StatusResponse represents the status payload
type StatusResponse struct {
	CurrentVisitors int          `json:"currentVisitors"`
	User            UserResponse `json:"user"`
}

// ServeHTTP handles GET /status requests
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		http.Error(w, `{"error":"invalid or missing token"}`, http.StatusUnauthorized)
		return
	}

	snap, err := h.occupancy.Status(claims.UserID)
	if err != nil {
		// A token whose identity has no backing record is treated the
		// same as a bad token.
		h.logger.Warn("status for unknown identity", slog.String("user_id", claims.UserID))
		http.Error(w, `{"error":"user not found"}`, http.StatusUnauthorized)
		return
	}

	response := StatusResponse{
		CurrentVisitors: snap.Visitors,
		User: UserResponse{
			ID:        snap.User.ID,
			Email:     snap.User.Email,
			Rating:    snap.User.Rating,
			CheckedIn: snap.User.CheckedIn,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
