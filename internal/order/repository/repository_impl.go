package repository

import (
	"context"

	"github.com/thinkzo/intake/internal/order/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Create(order).Error
}

func (r *repo) UpdateByPaymentIntent(ctx context.Context, db *gorm.DB, paymentIntentID string, values map[string]any) error {
	return db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("stripe_payment_intent_id = ?", paymentIntentID).
		Updates(values).Error
}
