package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter tracks last-accepted-submission times in a process-local
// map. It does not survive restarts and is not shared across instances;
// acceptable for contact-form spam control.
type MemoryLimiter struct {
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	last map[string]time.Time
}

func NewMemoryLimiter(window time.Duration) *MemoryLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &MemoryLimiter{
		window: window,
		now:    time.Now,
		last:   make(map[string]time.Time),
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, email string) (time.Duration, bool, error) {
	_ = ctx

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if last, ok := l.last[email]; ok {
		if elapsed := now.Sub(last); elapsed < l.window {
			return l.window - elapsed, false, nil
		}
	}
	l.last[email] = now
	l.sweepLocked(now)
	return 0, true, nil
}

// sweepLocked drops expired entries so the map stays bounded by the number
// of distinct senders per window.
func (l *MemoryLimiter) sweepLocked(now time.Time) {
	if len(l.last) < 1024 {
		return
	}
	for email, last := range l.last {
		if now.Sub(last) >= l.window {
			delete(l.last, email)
		}
	}
}
