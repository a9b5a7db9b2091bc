package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/thinkzo/intake/internal/order/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("order.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) RecordPaid(ctx context.Context, req domain.RecordPaidRequest) error {
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		return domain.ErrInvalidSession
	}

	planName := strings.TrimSpace(req.PlanName)
	if planName == "" {
		planName = "Unknown Plan"
	}

	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "usd"
	}

	now := time.Now().UTC()
	order := domain.Order{
		ID:                    s.genID.Generate(),
		StripeSessionID:       sessionID,
		StripePaymentIntentID: strings.TrimSpace(req.PaymentIntentID),
		ProductName:           planName,
		PlanType:              planType(planName),
		Amount:                req.Amount,
		Currency:              currency,
		Status:                domain.StatusPaid,
		CustomerEmail:         strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		CustomerName:          strings.TrimSpace(req.CustomerName),
		Metadata: datatypes.JSONMap{
			"plan_name":      planName,
			"session_id":     sessionID,
			"payment_intent": req.PaymentIntentID,
		},
		PaidAt:    &now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &order); err != nil {
		s.log.Error("order insert failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return err
	}

	s.log.Info("order recorded",
		zap.String("id", order.ID.String()),
		zap.String("session_id", sessionID),
	)
	return nil
}

func (s *Service) MarkCompleted(ctx context.Context, paymentIntentID, receiptURL string) error {
	paymentIntentID = strings.TrimSpace(paymentIntentID)
	if paymentIntentID == "" {
		return domain.ErrInvalidPaymentIntent
	}

	return s.repo.UpdateByPaymentIntent(ctx, s.db, paymentIntentID, map[string]any{
		"status":      domain.StatusCompleted,
		"receipt_url": receiptURL,
		"updated_at":  time.Now().UTC(),
	})
}

func (s *Service) MarkFailed(ctx context.Context, paymentIntentID, reason string) error {
	paymentIntentID = strings.TrimSpace(paymentIntentID)
	if paymentIntentID == "" {
		return domain.ErrInvalidPaymentIntent
	}
	if strings.TrimSpace(reason) == "" {
		reason = "Payment failed"
	}

	return s.repo.UpdateByPaymentIntent(ctx, s.db, paymentIntentID, map[string]any{
		"status":         domain.StatusFailed,
		"failure_reason": reason,
		"updated_at":     time.Now().UTC(),
	})
}

// planType maps marketing plan names onto the fixed tier identifiers the
// admin dashboard filters on.
func planType(planName string) string {
	name := strings.ToLower(planName)
	switch {
	case strings.Contains(name, "starter"):
		return "startup"
	case strings.Contains(name, "growth"):
		return "smart_business"
	default:
		return "enterprise"
	}
}
