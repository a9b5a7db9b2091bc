package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, order *Order) error
	UpdateByPaymentIntent(ctx context.Context, db *gorm.DB, paymentIntentID string, values map[string]any) error
}
