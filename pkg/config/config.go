package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration
type Config struct {
	Environment           string
	ServerPort            int
	JWTSecret             string
	TokenTTL              time.Duration
	LogLevel              string
	StaticDir             string
	CORSAllowedOrigins    []string
	SeedEmail             string
	SeedPassword          string
	SeedRating            float64
	ReportIntervalMinutes int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	ttlHours, err := strconv.Atoi(getEnv("TOKEN_TTL_HOURS", "8"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL_HOURS: %w", err)
	}

	seedRating, err := strconv.ParseFloat(getEnv("SEED_RATING", "5.0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_RATING: %w", err)
	}

	reportInterval, err := strconv.Atoi(getEnv("REPORT_INTERVAL_MINUTES", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_INTERVAL_MINUTES: %w", err)
	}

	return &Config{
		Environment:           getEnv("ENVIRONMENT", "development"),
		ServerPort:            port,
		JWTSecret:             os.Getenv("JWT_SECRET"),
		TokenTTL:              time.Duration(ttlHours) * time.Hour,
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		StaticDir:             os.Getenv("STATIC_DIR"),
		CORSAllowedOrigins:    parseCSVEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		SeedEmail:             getEnv("SEED_EMAIL", "test@example.com"),
		SeedPassword:          getEnv("SEED_PASSWORD", "password123"),
		SeedRating:            seedRating,
		ReportIntervalMinutes: reportInterval,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseCSVEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
