// Package config provides environment-driven application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	DatabaseURL     string
	Port            string
	LogLevel        string
	LogPretty       bool
	CacheTTL        time.Duration
	RefreshSchedule string // cron expression for the background dataset refresh
	AllowedOrigins  []string

	// Upstream base URLs for the categorized proxy. An empty URL
	// disables that category.
	InventoryAPIURL string
	MarketingAPIURL string
	SalesAPIURL     string
	AnalyticsAPIURL string
}

// Load reads configuration from the environment, loading a .env file
// first if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	ttl, err := parseDuration(getEnv("CACHE_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}

	var origins []string
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		origins = strings.Split(raw, ",")
	} else {
		origins = []string{"*"}
	}

	return &Config{
		DatabaseURL:     dbURL,
		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogPretty:       getEnvAsBool("LOG_PRETTY", false),
		CacheTTL:        ttl,
		RefreshSchedule: getEnv("DATA_REFRESH_SCHEDULE", "@every 30m"),
		AllowedOrigins:  origins,
		InventoryAPIURL: os.Getenv("INVENTORY_API_URL"),
		MarketingAPIURL: os.Getenv("MARKETING_API_URL"),
		SalesAPIURL:     os.Getenv("SALES_API_URL"),
		AnalyticsAPIURL: os.Getenv("ANALYTICS_API_URL"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", s)
	}
	return d, nil
}
