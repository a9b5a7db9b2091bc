package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	StatusPaid      = "paid"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Order records one paid checkout session, written by the payment webhook.
type Order struct {
	ID                    snowflake.ID      `gorm:"primaryKey" json:"id"`
	StripeSessionID       string            `gorm:"uniqueIndex;not null" json:"stripe_session_id"`
	StripePaymentIntentID string            `gorm:"index" json:"stripe_payment_intent_id,omitempty"`
	ProductName           string            `gorm:"not null" json:"product_name"`
	PlanType              string            `json:"plan_type,omitempty"`
	Amount                float64           `gorm:"not null;default:0" json:"amount"`
	Currency              string            `gorm:"not null;default:usd" json:"currency"`
	Status                string            `gorm:"not null" json:"status"`
	CustomerEmail         string            `json:"customer_email,omitempty"`
	CustomerName          string            `json:"customer_name,omitempty"`
	ReceiptURL            string            `json:"receipt_url,omitempty"`
	FailureReason         string            `json:"failure_reason,omitempty"`
	Metadata              datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	PaidAt                *time.Time        `json:"paid_at,omitempty"`
	CreatedAt             time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt             time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}
