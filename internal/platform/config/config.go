// Package config loads process configuration from the environment so main
// stays lean.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the full process configuration. Both API variants and the
// monitor run in one process; each gets its own listener.
type Config struct {
	SecureAddr     string
	VulnerableAddr string
	MonitorAddr    string

	JWTSigningKey string
	JWTIssuer     string
	JWTTTL        time.Duration

	LogDir      string
	LogMaxSize  int64
	LogMaxFiles int

	PollInterval time.Duration
	// TailFromEnd starts the monitor at the current end of the security
	// log instead of replaying history into the stats.
	TailFromEnd bool

	// PostgresDSN switches the stores from memory to postgres when set.
	PostgresDSN string
	// RedisURL switches rate limiting to the shared redis store when set.
	RedisURL string

	RateLimitDisabled bool
}

// FromEnv builds the configuration with development defaults.
func FromEnv() Config {
	return Config{
		SecureAddr:     envOr("SECURE_API_ADDR", ":3001"),
		VulnerableAddr: envOr("VULNERABLE_API_ADDR", ":3002"),
		MonitorAddr:    envOr("MONITOR_ADDR", ":8081"),

		JWTSigningKey: envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:     envOr("JWT_ISSUER", "bola-security-demo"),
		JWTTTL:        envDurationOr("JWT_TTL", 24*time.Hour),

		LogDir:      envOr("LOG_DIR", "logs"),
		LogMaxSize:  envInt64Or("LOG_MAX_SIZE_BYTES", 5*1024*1024),
		LogMaxFiles: int(envInt64Or("LOG_MAX_FILES", 5)),

		PollInterval: envDurationOr("LOG_POLL_INTERVAL", 500*time.Millisecond),
		TailFromEnd:  os.Getenv("LOG_TAIL_FROM_END") == "true",

		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		RedisURL:    os.Getenv("REDIS_URL"),

		RateLimitDisabled: os.Getenv("RATE_LIMIT_DISABLED") == "true",
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envInt64Or(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
