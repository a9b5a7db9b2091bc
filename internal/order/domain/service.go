package domain

import (
	"context"
	"errors"
)

// RecordPaidRequest captures a completed checkout session.
type RecordPaidRequest struct {
	SessionID       string
	PaymentIntentID string
	PlanName        string
	Amount          float64
	Currency        string
	CustomerEmail   string
	CustomerName    string
}

type Service interface {
	// RecordPaid inserts an order for a completed checkout session.
	RecordPaid(ctx context.Context, req RecordPaidRequest) error
	// MarkCompleted transitions a paid order once its payment intent
	// succeeds, attaching the receipt URL.
	MarkCompleted(ctx context.Context, paymentIntentID, receiptURL string) error
	// MarkFailed records a failed payment with its reason.
	MarkFailed(ctx context.Context, paymentIntentID, reason string) error
}

var (
	ErrInvalidSession       = errors.New("invalid_session")
	ErrInvalidPaymentIntent = errors.New("invalid_payment_intent")
)
