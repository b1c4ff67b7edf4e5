package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/yourorg/hotdesk/internal/featureflags"
	"github.com/yourorg/hotdesk/internal/handler"
	"github.com/yourorg/hotdesk/internal/infrastructure/logger"
	"github.com/yourorg/hotdesk/internal/observability/metrics"
	"github.com/yourorg/hotdesk/internal/observability/tracing"
	"github.com/yourorg/hotdesk/internal/repository"
	"github.com/yourorg/hotdesk/internal/security/auth"
	"github.com/yourorg/hotdesk/internal/security/middleware"
	"github.com/yourorg/hotdesk/internal/service"
	"github.com/yourorg/hotdesk/internal/worker"
	"github.com/yourorg/hotdesk/pkg/config"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("starting hotdesk server", slog.String("environment", cfg.Environment))

	// 3. Initialize tracing (no-op without an OTLP endpoint)
	shutdownTracing, err := tracing.Init(context.Background(), log, "hotdesk", cfg.Environment)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Initialize the in-memory store (authoritative for this process)
	store := repository.NewMemoryStore(log)

	// 5. Initialize security components and services
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, "hotdesk")
	authService := service.NewAuthService(store, tokenManager, cfg.TokenTTL, log)
	occupancyService := service.NewOccupancyService(store, store, log)

	// 6. Optional seed user for operational testing
	if featureflags.Enabled("seed_user") {
		if _, err := authService.Register(cfg.SeedEmail, cfg.SeedPassword, cfg.SeedRating); err != nil {
			log.Error("failed to create seed user", slog.String("error", err.Error()))
		} else {
			log.Info("seed user created", slog.String("email", cfg.SeedEmail))
		}
	}

	// 7. Initialize handlers
	loginHandler := handler.NewLoginHandler(authService, log)
	statusHandler := handler.NewStatusHandler(occupancyService, log)
	checkInHandler := handler.NewCheckInHandler(occupancyService, log)
	bookingHandler := handler.NewBookingHandler(occupancyService, log)
	registerHandler := handler.NewRegisterHandler(authService, log)
	healthHandler := handler.NewHealthHandler(store, log)

	// 8. Setup HTTP routes
	requireAuth := middleware.RequireAuth(tokenManager, log)

	mux := http.NewServeMux()
	mux.Handle("POST /auth/login", loginHandler)
	mux.Handle("GET /status", requireAuth(statusHandler))
	mux.Handle("POST /checkin", requireAuth(checkInHandler))
	mux.Handle("POST /booking", requireAuth(bookingHandler))
	mux.Handle("POST /api/admin/register", registerHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", healthHandler.Health)
	mux.HandleFunc("GET /readyz", healthHandler.Ready)

	// Static assets are a deployment concern; the core packages take no
	// part in serving them.
	if cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
		log.Info("serving static assets", slog.String("dir", cfg.StaticDir))
	}

	// CORS middleware honoring configured origins
	handlerWithCORS := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(cfg.CORSAllowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else if len(cfg.CORSAllowedOrigins) > 0 {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowedOrigins[0])
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})

	// Chain middleware: request ID -> tracing -> metrics -> JSON validation -> CORS
	rootHandler := withRequestID(
		otelhttp.NewHandler(
			metrics.HTTPMetricsMiddleware(
				middleware.ValidateJSONContentType(log)(handlerWithCORS),
			),
			"hotdesk",
		),
		log,
	)

	// 9. Start occupancy reporter in background
	reporter := worker.NewOccupancyReporter(
		store,
		log,
		time.Duration(cfg.ReportIntervalMinutes)*time.Minute,
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go reporter.Start(ctx)

	// 10. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      rootHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.String("auth", "jwt"),
		slog.Duration("token_ttl", cfg.TokenTTL),
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.String("error", err.Error()))
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Info("shutdown signal received")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}

	cancel() // Stop occupancy reporter
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown error", slog.String("error", err.Error()))
	}
	log.Info("server stopped")
}

type requestIDKey struct{}

// withRequestID attaches a request ID to the context and response headers for traceability
func withRequestID(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := generateRequestID()
		w.Header().Set("X-Request-ID", reqID)

		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		start := time.Now()

		next.ServeHTTP(w, r.WithContext(ctx))

		log.Info("request completed",
			slog.String("request_id", reqID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration_ms", time.Since(start)),
		)
	})
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

func generateRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err == nil {
		return hex.EncodeToString(buf)
	}
	return fmt.Sprintf("req-%d", time.Now().UnixNano())
}
