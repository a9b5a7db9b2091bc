package domain

import (
	"context"
	"errors"
)

// CreateSessionRequest asks for one payment checkout session. Origin, when
// present, anchors the success/cancel redirect URLs to the calling site.
type CreateSessionRequest struct {
	PriceID  string
	PlanName string
	Origin   string
}

type CreateSessionResponse struct {
	URL string `json:"url"`
}

type Service interface {
	CreateSession(ctx context.Context, req CreateSessionRequest) (CreateSessionResponse, error)
}

var (
	// ErrNotConfigured means the payment credential is absent; operator-
	// correctable, not user-correctable.
	ErrNotConfigured = errors.New("payment provider not configured")
	ErrPriceRequired = errors.New("Price ID is required")
)
