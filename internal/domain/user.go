package domain

import "time"

// User represents a member of the coworking space
type User struct {
	ID           string  // UUID, stable session identity
	Email        string  // Unique login identifier
	PasswordHash string  // Bcrypt hashed password (not returned in API)
	Rating       float64 // Accrued from completed visits, never decremented
	CheckedIn    bool    // Presence flag, toggled only through the store
	CreatedAt    time.Time
}

// CheckInState is the snapshot a check-in toggle returns: the user's new
// presence flag, the visitor count, and the rating after the transition,
// all captured inside the same critical section.
type CheckInState struct {
	CheckedIn bool
	Visitors  int
	Rating    float64
}

// StatusSnapshot pairs a user record with the visitor count, read together
// so the count is consistent with the user's own presence flag.
type StatusSnapshot struct {
	User     User
	Visitors int
}

// UserRepository defines data access for users
type UserRepository interface {
	Create(user *User) error
	GetByEmail(email string) (*User, error)
	GetByID(id string) (*User, error)
	Count() int
}

// OccupancyStore defines the check-in transition and consistent reads over
// user presence and the shared visitor counter.
type OccupancyStore interface {
	Toggle(id string) (CheckInState, error)
	Snapshot(id string) (StatusSnapshot, error)
	Visitors() int
}
