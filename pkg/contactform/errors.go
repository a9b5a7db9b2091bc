package contactform

import (
	"errors"
	"fmt"
	"time"
)

// ErrConfiguration means the intake endpoint is absent or still a known
// placeholder. Operator-correctable, never user-correctable.
var ErrConfiguration = errors.New("contact form endpoint is not configured")

// ErrSubmissionInFlight rejects a second Submit while one is pending.
var ErrSubmissionInFlight = errors.New("a submission is already in flight")

const failureMessage = "Something went wrong. Please try again, or email us directly at team@thinkzo.ai."

// ValidationError carries the field error map from a rejected local
// validation pass. No network call was made.
type ValidationError struct {
	Fields       map[string]string
	FirstInvalid string
}

func (e *ValidationError) Error() string {
	if msg, ok := e.Fields[e.FirstInvalid]; ok {
		return msg
	}
	return "form validation failed"
}

// RateLimitError rejects a submission made before the local throttle window
// elapsed. No network call was made.
type RateLimitError struct {
	Wait time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("please wait %d seconds before submitting again", waitSeconds(e.Wait))
}

// FailureKind distinguishes the three user-facing submit failure classes.
type FailureKind int

const (
	// FailureNetwork covers connectivity errors; nothing reached the server.
	FailureNetwork FailureKind = iota
	// FailureRateLimited is a server-reported 429.
	FailureRateLimited
	// FailureServer is any other non-success response.
	FailureServer
)

// SubmitError is a failed network submission. The form keeps its values.
type SubmitError struct {
	Kind    FailureKind
	Message string
}

func (e *SubmitError) Error() string {
	return e.Message
}
