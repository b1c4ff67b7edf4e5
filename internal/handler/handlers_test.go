package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yourorg/hotdesk/internal/repository"
	"github.com/yourorg/hotdesk/internal/security/auth"
	"github.com/yourorg/hotdesk/internal/security/middleware"
	"github.com/yourorg/hotdesk/internal/service"
)

// newTestMux wires the full handler stack the way cmd/server does, minus
// metrics/tracing wrappers.
func newTestMux(t *testing.T) (*http.ServeMux, *service.AuthService) {
	t.Helper()

	store := repository.NewMemoryStore(nil)
	tm := auth.NewTokenManager("test-secret", "hotdesk")
	authService := service.NewAuthService(store, tm, time.Hour, nil)
	occupancyService := service.NewOccupancyService(store, store, nil)

	requireAuth := middleware.RequireAuth(tm, nil)

	mux := http.NewServeMux()
	mux.Handle("POST /auth/login", NewLoginHandler(authService, nil))
	mux.Handle("GET /status", requireAuth(NewStatusHandler(occupancyService, nil)))
	mux.Handle("POST /checkin", requireAuth(NewCheckInHandler(occupancyService, nil)))
	mux.Handle("POST /booking", requireAuth(NewBookingHandler(occupancyService, nil)))
	mux.Handle("POST /api/admin/register", NewRegisterHandler(authService, nil))
	healthHandler := NewHealthHandler(store, nil)
	mux.HandleFunc("GET /healthz", healthHandler.Health)
	mux.HandleFunc("GET /readyz", healthHandler.Ready)

	return mux, authService
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func loginToken(t *testing.T, mux *http.ServeMux, email, password string) string {
	t.Helper()

	rec := doJSON(t, mux, http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed with status %d: %s", rec.Code, rec.Body.String())
	}
	var result LoginResponse
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	return result.Token
}

func TestLoginMalformedBody(t *testing.T) {
	mux, _ := newTestMux(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLoginMissingFields(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/auth/login", "", map[string]string{"email": "a@example.com"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLoginFailureShapeIsUniform(t *testing.T) {
	mux, authService := newTestMux(t)
	if _, err := authService.Register("alice@example.com", "password123", 0); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	unknown := doJSON(t, mux, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "password123",
	})
	wrongPass := doJSON(t, mux, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong-password",
	})

	if unknown.Code != http.StatusUnauthorized || wrongPass.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", unknown.Code, wrongPass.Code)
	}
	if unknown.Body.String() != wrongPass.Body.String() {
		t.Fatalf("bodies differ: %q vs %q", unknown.Body.String(), wrongPass.Body.String())
	}
}

func TestLoginIssuesWorkingToken(t *testing.T) {
	mux, authService := newTestMux(t)
	if _, err := authService.Register("bob@example.com", "password123", 2.0); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token := loginToken(t, mux, "bob@example.com", "password123")

	rec := doJSON(t, mux, http.MethodGet, "/status", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /status, got %d", rec.Code)
	}

	var status StatusResponse
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if status.User.Email != "bob@example.com" || status.User.Rating != 2.0 || status.User.CheckedIn {
		t.Fatalf("unexpected status payload: %+v", status)
	}
	if status.CurrentVisitors != 0 {
		t.Fatalf("expected 0 visitors, got %d", status.CurrentVisitors)
	}
}

func TestProtectedRoutesRejectBadTokens(t *testing.T) {
	mux, _ := newTestMux(t)

	expired := auth.NewTokenManager("test-secret", "hotdesk")
	expiredToken, _, err := expired.GenerateToken("user-1", "a@example.com", -time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/status"},
		{http.MethodPost, "/checkin"},
		{http.MethodPost, "/booking"},
	}
	tokens := map[string]string{
		"missing": "",
		"garbage": "not-a-token",
		"expired": expiredToken,
	}

	for _, route := range routes {
		for name, token := range tokens {
			rec := doJSON(t, mux, route.method, route.path, token, nil)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("%s %s with %s token: expected 401, got %d",
					route.method, route.path, name, rec.Code)
			}
		}
	}
}

func TestTokenForDeletedIdentityIsUnauthorized(t *testing.T) {
	mux, _ := newTestMux(t)

	// Valid signature, but the identity has no backing record.
	tm := auth.NewTokenManager("test-secret", "hotdesk")
	token, _, err := tm.GenerateToken("no-such-user", "ghost@example.com", time.Hour)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/status"},
		{http.MethodPost, "/checkin"},
		{http.MethodPost, "/booking"},
	} {
		rec := doJSON(t, mux, route.method, route.path, token, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", route.method, route.path, rec.Code)
		}
	}
}

func TestCheckInToggleResponses(t *testing.T) {
	mux, authService := newTestMux(t)
	if _, err := authService.Register("carol@example.com", "password123", 5.0); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	token := loginToken(t, mux, "carol@example.com", "password123")

	rec := doJSON(t, mux, http.MethodPost, "/checkin", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var state CheckInResponse
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !state.CheckedIn || state.Visitors != 1 || state.Rating != 5.0 {
		t.Fatalf("unexpected check-in response: %+v", state)
	}

	rec = doJSON(t, mux, http.MethodPost, "/checkin", token, nil)
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if state.CheckedIn || state.Visitors != 0 || state.Rating != 6.0 {
		t.Fatalf("unexpected check-out response: %+v", state)
	}
}

func TestBookingGateOverHTTP(t *testing.T) {
	mux, authService := newTestMux(t)
	if _, err := authService.Register("lowrating@example.com", "password123", 5.0); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := authService.Register("regular@example.com", "password123", 10.0); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	low := loginToken(t, mux, "lowrating@example.com", "password123")
	rec := doJSON(t, mux, http.MethodPost, "/booking", low, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	var errResp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if errResp.Error == "" {
		t.Fatalf("expected explanatory message in 403 body")
	}

	ok := loginToken(t, mux, "regular@example.com", "password123")
	rec = doJSON(t, mux, http.MethodPost, "/booking", ok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var booking BookingResponse
	if err := json.NewDecoder(rec.Body).Decode(&booking); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if booking.Status != "ok" {
		t.Fatalf("unexpected booking response: %+v", booking)
	}
}

func TestRegisterEndpoint(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/admin/register", "", RegisterRequest{
		Email: "new@example.com", Password: "password123", Rating: 1.5,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created RegisterResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if created.ID == "" || created.Rating != 1.5 {
		t.Fatalf("unexpected register response: %+v", created)
	}

	// Duplicate email conflicts.
	rec = doJSON(t, mux, http.MethodPost, "/api/admin/register", "", RegisterRequest{
		Email: "new@example.com", Password: "password123",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	// Validation failure.
	rec = doJSON(t, mux, http.MethodPost, "/api/admin/register", "", RegisterRequest{
		Email: "short@example.com", Password: "short",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doJSON(t, mux, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz: expected 200, got %d", rec.Code)
	}
	rec = doJSON(t, mux, http.MethodGet, "/readyz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("readyz: expected 200, got %d", rec.Code)
	}
}
