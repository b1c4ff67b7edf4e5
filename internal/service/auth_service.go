package service

import (
	"errors"
	"log/slog"
	"time"

	"github.com/yourorg/hotdesk/internal/domain"
	"github.com/yourorg/hotdesk/internal/observability/metrics"
	"github.com/yourorg/hotdesk/internal/security/auth"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles authentication operations
type AuthService struct {
	users    domain.UserRepository
	tokens   *auth.TokenManager
	tokenTTL time.Duration
	logger   *slog.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users domain.UserRepository,
	tokens *auth.TokenManager,
	tokenTTL time.Duration,
	logger *slog.Logger,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthService{
		users:    users,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// LoginResult represents login response
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login verifies the credentials and issues a bearer token. Unknown email and
// wrong password both return domain.ErrInvalidCredentials so the caller
// cannot tell which one failed. Hashing happens before any store access.
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(email)
	if err != nil {
		s.logger.Info("login attempt with unknown email", slog.String("email", email))
		metrics.ObserveLogin("failure")
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("login failed with wrong password", slog.String("email", email))
		metrics.ObserveLogin("failure")
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Email, s.tokenTTL)
	if err != nil {
		s.logger.Error("failed to sign token", slog.String("error", err.Error()))
		return nil, errors.New("failed to generate token")
	}

	s.logger.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)
	metrics.ObserveLogin("success")

	return &LoginResult{Token: token, ExpiresAt: expiresAt}, nil
}

// VerifyToken resolves a bearer token back to its claims
func (s *AuthService) VerifyToken(tokenString string) (*auth.Claims, error) {
	return s.tokens.ValidateToken(tokenString)
}

// Register creates a new user account with a starting rating. Used by the
// bootstrap seed and the admin endpoint, not by the public runtime API.
func (s *AuthService) Register(email, password string, rating float64) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}

	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	if rating < 0 {
		return nil, errors.New("rating must not be negative")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, errors.New("failed to register user")
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Rating:       rating,
	}

	if err := s.users.Create(user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		s.logger.Error("failed to create user", slog.String("error", err.Error()))
		return nil, errors.New("failed to register user")
	}

	s.logger.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
		slog.Float64("rating", user.Rating),
	)

	return user, nil
}
