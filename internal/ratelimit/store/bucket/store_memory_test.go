package bucket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowUnderLimit(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		result, err := s.Allow(ctx, "k", 5, time.Minute)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Equal(t, 4-i, result.Remaining)
	}
}

func TestDenyOverLimit(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.Allow(ctx, "k", 3, time.Minute)
		require.NoError(t, err)
	}

	result, err := s.Allow(ctx, "k", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Zero(t, result.Remaining)
	assert.False(t, result.ResetAt.IsZero())
}

func TestWindowSlides(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	_, err := s.Allow(ctx, "k", 1, 20*time.Millisecond)
	require.NoError(t, err)

	result, err := s.Allow(ctx, "k", 1, 20*time.Millisecond)
	require.NoError(t, err)
	require.False(t, result.Allowed)

	time.Sleep(25 * time.Millisecond)

	result, err = s.Allow(ctx, "k", 1, 20*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestKeysAreIndependent(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	_, err := s.Allow(ctx, "a", 1, time.Minute)
	require.NoError(t, err)

	result, err := s.Allow(ctx, "b", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestReset(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	_, err := s.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	require.NoError(t, s.Reset(ctx, "k"))

	result, err := s.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}
