package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_DeniesWithinWindow(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := base

	l := NewMemoryLimiter(time.Minute)
	l.now = func() time.Time { return clock }

	_, ok, err := l.Allow(context.Background(), "jo@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	clock = base.Add(30 * time.Second)
	retryAfter, ok, err := l.Allow(context.Background(), "jo@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 30*time.Second, retryAfter)
}

func TestMemoryLimiter_AllowsAfterWindow(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := base

	l := NewMemoryLimiter(time.Minute)
	l.now = func() time.Time { return clock }

	_, ok, err := l.Allow(context.Background(), "jo@example.com")
	require.NoError(t, err)
	require.True(t, ok)

	clock = base.Add(time.Minute)
	_, ok, err = l.Allow(context.Background(), "jo@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryLimiter_TracksEmailsIndependently(t *testing.T) {
	l := NewMemoryLimiter(time.Minute)

	_, ok, err := l.Allow(context.Background(), "a@example.com")
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = l.Allow(context.Background(), "b@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryLimiter_DeniedAttemptDoesNotExtendWindow(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := base

	l := NewMemoryLimiter(time.Minute)
	l.now = func() time.Time { return clock }

	_, ok, _ := l.Allow(context.Background(), "jo@example.com")
	require.True(t, ok)

	// A denied retry must not reset the window start.
	clock = base.Add(59 * time.Second)
	_, ok, _ = l.Allow(context.Background(), "jo@example.com")
	require.False(t, ok)

	clock = base.Add(61 * time.Second)
	_, ok, _ = l.Allow(context.Background(), "jo@example.com")
	assert.True(t, ok)
}

func TestMemoryLimiter_SweepsExpiredEntries(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := base

	l := NewMemoryLimiter(time.Minute)
	l.now = func() time.Time { return clock }

	for i := 0; i < 1500; i++ {
		_, ok, err := l.Allow(context.Background(), fmt.Sprintf("sender%d@example.com", i))
		require.NoError(t, err)
		require.True(t, ok)
	}

	clock = base.Add(2 * time.Minute)
	_, ok, err := l.Allow(context.Background(), "fresh@example.com")
	require.NoError(t, err)
	require.True(t, ok)

	l.mu.Lock()
	size := len(l.last)
	l.mu.Unlock()
	assert.Less(t, size, 1500)
}

func TestNewMemoryLimiter_DefaultsWindow(t *testing.T) {
	l := NewMemoryLimiter(0)
	assert.Equal(t, time.Minute, l.window)
}
