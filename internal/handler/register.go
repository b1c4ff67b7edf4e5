package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/yourorg/hotdesk/internal/domain"
	"github.com/yourorg/hotdesk/internal/service"
)

// RegisterRequest represents an administrative registration request
type RegisterRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Rating   float64 `json:"rating"`
}

// RegisterResponse represents the created user
type RegisterResponse struct {
	ID     string  `json:"id"`
	Email  string  `json:"email"`
	Rating float64 `json:"rating"`
}

// RegisterHandler creates user accounts. This is a bootstrap/operations
// endpoint, not part of the member-facing API.
type RegisterHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

// NewRegisterHandler creates a new register handler
func NewRegisterHandler(authService *service.AuthService, logger *slog.Logger) *RegisterHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &RegisterHandler{
		authService: authService,
		logger:      logger,
	}
}

// ServeHTTP handles POST /api/admin/register requests
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode register request", slog.String("error", err.Error()))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.authService.Register(req.Email, req.Password, req.Rating)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(RegisterResponse{
		ID:     user.ID,
		Email:  user.Email,
		Rating: user.Rating,
	})
}
