package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	require.Equal(t, ":3001", cfg.SecureAddr)
	require.Equal(t, ":3002", cfg.VulnerableAddr)
	require.Equal(t, ":8081", cfg.MonitorAddr)
	require.Equal(t, 24*time.Hour, cfg.JWTTTL)
	require.Equal(t, 500*time.Millisecond, cfg.PollInterval)
	require.False(t, cfg.TailFromEnd)
	require.False(t, cfg.RateLimitDisabled)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("SECURE_API_ADDR", ":4001")
	t.Setenv("LOG_POLL_INTERVAL", "100ms")
	t.Setenv("LOG_TAIL_FROM_END", "true")
	t.Setenv("LOG_MAX_FILES", "3")

	cfg := FromEnv()
	require.Equal(t, ":4001", cfg.SecureAddr)
	require.Equal(t, 100*time.Millisecond, cfg.PollInterval)
	require.True(t, cfg.TailFromEnd)
	require.Equal(t, 3, cfg.LogMaxFiles)
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("LOG_POLL_INTERVAL", "not-a-duration")
	t.Setenv("LOG_MAX_SIZE_BYTES", "five")

	cfg := FromEnv()
	require.Equal(t, 500*time.Millisecond, cfg.PollInterval)
	require.Equal(t, int64(5*1024*1024), cfg.LogMaxSize)
}
