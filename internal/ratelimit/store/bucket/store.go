// Package bucket implements sliding-window request counting. The memory
// store serves a single node; the redis store shares windows across
// processes.
package bucket

import (
	"context"
	"time"

	"github.com/Alex-byteai/bola-security-demo/internal/ratelimit/models"
)

// Store counts requests per key over a sliding window.
type Store interface {
	// Allow records one request under key and reports whether it fits the
	// limit.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.Result, error)
	// Reset clears the window for key.
	Reset(ctx context.Context, key string) error
}
