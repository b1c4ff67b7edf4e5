package repository

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yourorg/hotdesk/internal/domain"
)

// MemoryStore is the authoritative in-process store for user records and the
// shared visitor counter. One mutex guards both: a check-in toggle flips the
// user's presence flag, moves the counter, and applies the rating rule inside
// a single critical section, so the counter equals the number of checked-in
// users at every point a reader can observe.
//
// Records are indexed twice, by email for login and by ID for session lookup.
// Both indices reference the same owned record and are maintained together on
// insert. Reads hand out value copies, never the live pointer.
type MemoryStore struct {
	mu       sync.Mutex
	byEmail  map[string]*domain.User
	byID     map[string]*domain.User
	visitors int
	logger   *slog.Logger
}

// NewMemoryStore creates an empty store
func NewMemoryStore(logger *slog.Logger) *MemoryStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &MemoryStore{
		byEmail: make(map[string]*domain.User),
		byID:    make(map[string]*domain.User),
		logger:  logger,
	}
}

// Create inserts a new user, assigning a UUID when the ID is empty.
// Returns domain.ErrDuplicateEmail if the email is already registered.
func (s *MemoryStore) Create(user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[user.Email]; exists {
		return domain.ErrDuplicateEmail
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	user.CheckedIn = false

	stored := *user
	s.byEmail[stored.Email] = &stored
	s.byID[stored.ID] = &stored
	return nil
}

// GetByEmail retrieves a copy of the user with the given email
func (s *MemoryStore) GetByEmail(email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

// GetByID retrieves a copy of the user with the given ID
func (s *MemoryStore) GetByID(id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

// Count returns the number of registered users
func (s *MemoryStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// Visitors returns the current visitor count
func (s *MemoryStore) Visitors() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visitors
}

// Snapshot returns the user together with the visitor count from the same
// critical section, so the count is consistent with the user's own flag.
func (s *MemoryStore) Snapshot(id string) (domain.StatusSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return domain.StatusSnapshot{}, domain.ErrUserNotFound
	}
	return domain.StatusSnapshot{User: *u, Visitors: s.visitors}, nil
}

// Toggle flips the user's check-in state as one atomic transition.
// Checking in increments the visitor counter. Checking out decrements it and
// credits one rating point for the completed visit. The counter is clamped at
// zero; hitting the clamp means the counter and the per-user flags have
// diverged, so it is logged loudly rather than treated as normal.
func (s *MemoryStore) Toggle(id string) (domain.CheckInState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return domain.CheckInState{}, domain.ErrUserNotFound
	}

	if u.CheckedIn {
		u.CheckedIn = false
		if s.visitors > 0 {
			s.visitors--
		} else {
			s.logger.Warn("visitor counter underflow on check-out",
				slog.String("user_id", u.ID),
			)
		}
		u.Rating += 1.0
	} else {
		u.CheckedIn = true
		s.visitors++
	}

	return domain.CheckInState{
		CheckedIn: u.CheckedIn,
		Visitors:  s.visitors,
		Rating:    u.Rating,
	}, nil
}
