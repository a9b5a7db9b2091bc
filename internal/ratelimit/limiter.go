package ratelimit

import (
	"context"
	"time"
)

// Limiter enforces one accepted submission per email per window. An allowed
// call records the attempt time before returning, so a burst of concurrent
// submissions for the same email admits at most one per window.
//
// Limiting is best-effort by contract: a lost update only weakens it, never
// the persistence path.
type Limiter interface {
	// Allow reports whether a submission for email may proceed now. When
	// denied, retryAfter is the remaining wait.
	Allow(ctx context.Context, email string) (retryAfter time.Duration, ok bool, err error)
}
