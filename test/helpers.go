package test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yourorg/hotdesk/internal/handler"
	"github.com/yourorg/hotdesk/internal/infrastructure/logger"
	"github.com/yourorg/hotdesk/internal/repository"
	"github.com/yourorg/hotdesk/internal/security/auth"
	"github.com/yourorg/hotdesk/internal/security/middleware"
	"github.com/yourorg/hotdesk/internal/service"
)

// TestServerHelper runs the full handler stack over httptest
type TestServerHelper struct {
	Server *httptest.Server
	Logger *slog.Logger
	Auth   *service.AuthService
	Store  *repository.MemoryStore
}

func NewTestServer(t *testing.T) *TestServerHelper {
	t.Helper()

	log := logger.NewLogger("error")
	store := repository.NewMemoryStore(log)
	tm := auth.NewTokenManager("integration-secret", "hotdesk")
	authService := service.NewAuthService(store, tm, time.Hour, log)
	occupancyService := service.NewOccupancyService(store, store, log)

	requireAuth := middleware.RequireAuth(tm, log)

	mux := http.NewServeMux()
	mux.Handle("POST /auth/login", handler.NewLoginHandler(authService, log))
	mux.Handle("GET /status", requireAuth(handler.NewStatusHandler(occupancyService, log)))
	mux.Handle("POST /checkin", requireAuth(handler.NewCheckInHandler(occupancyService, log)))
	mux.Handle("POST /booking", requireAuth(handler.NewBookingHandler(occupancyService, log)))
	mux.Handle("POST /api/admin/register", handler.NewRegisterHandler(authService, log))
	healthHandler := handler.NewHealthHandler(store, log)
	mux.HandleFunc("GET /healthz", healthHandler.Health)
	mux.HandleFunc("GET /readyz", healthHandler.Ready)

	root := middleware.ValidateJSONContentType(log)(mux)
	server := httptest.NewServer(root)

	return &TestServerHelper{
		Server: server,
		Logger: log,
		Auth:   authService,
		Store:  store,
	}
}

func (h *TestServerHelper) Close() {
	h.Server.Close()
}

func (h *TestServerHelper) URL() string {
	return h.Server.URL
}

// Post sends a JSON POST with an optional bearer token
func (h *TestServerHelper) Post(t *testing.T, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(http.MethodPost, h.URL()+path, reader)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

// Get sends a GET with an optional bearer token
func (h *TestServerHelper) Get(t *testing.T, path, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, h.URL()+path, nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

// DecodeJSON decodes and closes a response body
func DecodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
}

// AssertStatusCode helper function
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("Expected status %d, got %d", expected, resp.StatusCode)
	}
}
