package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config captures everything the dashboard process needs from the
// environment: where to listen, where the upstream gateway lives, and the
// cache/polling knobs.
type Config struct {
	Addr           string
	Environment    string
	GatewayBaseURL string
	GatewayTimeout time.Duration

	// CacheTTL is how long a cached query result is considered fresh before
	// the next access triggers a background revalidation.
	CacheTTL time.Duration
	// DashboardPollInterval drives the overview page's aggregate refresh.
	DashboardPollInterval time.Duration
	// ListPollInterval drives the entity list pages' refresh.
	ListPollInterval time.Duration
}

// Defaults used when the corresponding variable is unset.
const (
	DefaultAddr           = ":3000"
	DefaultGatewayBaseURL = "http://localhost:8080/api"
	DefaultGatewayTimeout = 10 * time.Second
	DefaultCacheTTL       = 30 * time.Second
	DefaultDashboardPoll  = 30 * time.Second
	DefaultListPoll       = 10 * time.Second
)

// FromEnv builds a Config from environment variables so main stays lean.
// A .env file in the working directory is loaded first when present.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		Addr:                  getEnv("OPSDASH_ADDR", DefaultAddr),
		Environment:           getEnv("OPSDASH_ENV", "development"),
		GatewayBaseURL:        getEnv("GATEWAY_BASE_URL", DefaultGatewayBaseURL),
		GatewayTimeout:        getDuration("GATEWAY_TIMEOUT", DefaultGatewayTimeout),
		CacheTTL:              getDuration("CACHE_TTL", DefaultCacheTTL),
		DashboardPollInterval: getDuration("DASHBOARD_POLL_INTERVAL", DefaultDashboardPoll),
		ListPollInterval:      getDuration("LIST_POLL_INTERVAL", DefaultListPoll),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
