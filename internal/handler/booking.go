package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/yourorg/hotdesk/internal/domain"
	"github.com/yourorg/hotdesk/internal/security/middleware"
	"github.com/yourorg/hotdesk/internal/service"
)

// BookingHandler answers booking access requests behind the rating gate
type BookingHandler struct {
	occupancy *service.OccupancyService
	logger    *slog.Logger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(occupancy *service.OccupancyService, logger *slog.Logger) *BookingHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &BookingHandler{
		occupancy: occupancy,
		logger:    logger,
	}
}

// BookingResponse represents a granted booking request
type BookingResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ServeHTTP handles POST /booking requests
func (h *BookingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		http.Error(w, `{"error":"invalid or missing token"}`, http.StatusUnauthorized)
		return
	}

	err := h.occupancy.RequestBooking(claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientRating) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Insufficient rating for booking. Increase your rating by visiting the coworking space.",
			})
			return
		}
		h.logger.Warn("booking for unknown identity", slog.String("user_id", claims.UserID))
		http.Error(w, `{"error":"user not found"}`, http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(BookingResponse{Status: "ok", Message: "booking access granted"})
}
