package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/yourorg/hotdesk/internal/security/middleware"
	"github.com/yourorg/hotdesk/internal/service"
)

// CheckInHandler toggles the caller between checked in and checked out
type CheckInHandler struct {
	occupancy *service.OccupancyService
	logger    *slog.Logger
}

// NewCheckInHandler creates a new check-in handler
func NewCheckInHandler(occupancy *service.OccupancyService, logger *slog.Logger) *CheckInHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &CheckInHandler{
		occupancy: occupancy,
		logger:    logger,
	}
}

// CheckInResponse represents the state after a toggle
type CheckInResponse struct {
	CheckedIn bool    `json:"checkedIn"`
	Visitors  int     `json:"visitors"`
	Rating    float64 `json:"rating"`
}

// ServeHTTP handles POST /checkin requests
func (h *CheckInHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		http.Error(w, `{"error":"invalid or missing token"}`, http.StatusUnauthorized)
		return
	}

	state, err := h.occupancy.ToggleCheckIn(claims.UserID)
	if err != nil {
		h.logger.Warn("check-in for unknown identity", slog.String("user_id", claims.UserID))
		http.Error(w, `{"error":"user not found"}`, http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(CheckInResponse{
		CheckedIn: state.CheckedIn,
		Visitors:  state.Visitors,
		Rating:    state.Rating,
	})
}
