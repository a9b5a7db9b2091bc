package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// SubmitRequest carries one submission candidate plus request provenance.
type SubmitRequest struct {
	Fields

	UserAgent string
	IPAddress string
}

// SubmitResult reports the persisted submission and whether the operator
// notification went out. Notification failure never fails the submission.
type SubmitResult struct {
	Submission ContactSubmission
	EmailSent  bool
}

type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (SubmitResult, error)
}

// ErrPersistence means the row was not written; the request must fail.
var ErrPersistence = errors.New("failed to save contact message")

// RateLimitError rejects a repeat submission inside the per-email window.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	wait := int(e.RetryAfter.Round(time.Second).Seconds())
	if wait < 1 {
		wait = 1
	}
	return fmt.Sprintf("Too many submissions. Please wait %d seconds before trying again.", wait)
}
