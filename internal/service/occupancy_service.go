package service

import (
	"log/slog"

	"github.com/yourorg/hotdesk/internal/domain"
	"github.com/yourorg/hotdesk/internal/observability/metrics"
)

// BookingRatingThreshold is the minimum rating required to request a booking.
const BookingRatingThreshold = 10.0

// CanBook reports whether a rating clears the booking gate
func CanBook(rating float64) bool {
	return rating >= BookingRatingThreshold
}

// OccupancyService exposes the check-in transition, status reads and the
// booking gate over the shared store.
type OccupancyService struct {
	users     domain.UserRepository
	occupancy domain.OccupancyStore
	logger    *slog.Logger
}

// NewOccupancyService creates a new occupancy service
func NewOccupancyService(
	users domain.UserRepository,
	occupancy domain.OccupancyStore,
	logger *slog.Logger,
) *OccupancyService {
	if logger == nil {
		logger = slog.Default()
	}

	return &OccupancyService{
		users:     users,
		occupancy: occupancy,
		logger:    logger,
	}
}

// Status returns the user together with the visitor count. Both come from
// one store snapshot so the count never disagrees with the user's own flag.
func (s *OccupancyService) Status(userID string) (*domain.StatusSnapshot, error) {
	snap, err := s.occupancy.Snapshot(userID)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// ToggleCheckIn flips the user between checked in and checked out. The store
// applies the flag, the visitor counter and the rating credit atomically.
func (s *OccupancyService) ToggleCheckIn(userID string) (*domain.CheckInState, error) {
	state, err := s.occupancy.Toggle(userID)
	if err != nil {
		return nil, err
	}

	direction := "out"
	if state.CheckedIn {
		direction = "in"
	}
	metrics.ObserveCheckInToggle(direction)
	metrics.SetVisitors(state.Visitors)

	s.logger.Info("check-in toggled",
		slog.String("user_id", userID),
		slog.String("direction", direction),
		slog.Int("visitors", state.Visitors),
		slog.Float64("rating", state.Rating),
	)

	return &state, nil
}

// RequestBooking checks the booking gate for the user. It has no side
// effects on occupancy or rating.
func (s *OccupancyService) RequestBooking(userID string) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}

	if !CanBook(user.Rating) {
		metrics.ObserveBooking("denied")
		s.logger.Info("booking denied",
			slog.String("user_id", userID),
			slog.Float64("rating", user.Rating),
		)
		return domain.ErrInsufficientRating
	}

	metrics.ObserveBooking("granted")
	return nil
}
