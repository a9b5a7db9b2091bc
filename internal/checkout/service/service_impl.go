package service

import (
	"context"
	"strings"

	"github.com/stripe/stripe-go/v76"
	checkoutsession "github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/thinkzo/intake/internal/checkout/domain"
	"github.com/thinkzo/intake/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log    *zap.Logger
	Config config.Config
}

type Service struct {
	log        *zap.Logger
	secretKey  string
	successURL string
	cancelURL  string
}

func New(p Params) domain.Service {
	if p.Config.Stripe.SecretKey != "" {
		stripe.Key = p.Config.Stripe.SecretKey
	}
	return &Service{
		log:        p.Log.Named("checkout.service"),
		secretKey:  p.Config.Stripe.SecretKey,
		successURL: p.Config.Stripe.SuccessURL,
		cancelURL:  p.Config.Stripe.CancelURL,
	}
}

// CreateSession creates a one-time-payment checkout session and returns the
// hosted payment page URL.
func (s *Service) CreateSession(ctx context.Context, req domain.CreateSessionRequest) (domain.CreateSessionResponse, error) {
	if s.secretKey == "" {
		return domain.CreateSessionResponse{}, domain.ErrNotConfigured
	}

	priceID := strings.TrimSpace(req.PriceID)
	if priceID == "" {
		return domain.CreateSessionResponse{}, domain.ErrPriceRequired
	}

	successURL, cancelURL := s.redirectURLs(req.Origin)

	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
		Mode:   stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
		}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:               stripe.String(successURL),
		CancelURL:                stripe.String(cancelURL),
		CustomerCreation:         stripe.String(string(stripe.CheckoutSessionCustomerCreationAlways)),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired)),
		PhoneNumberCollection: &stripe.CheckoutSessionPhoneNumberCollectionParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("plan_name", strings.TrimSpace(req.PlanName))

	session, err := checkoutsession.New(params)
	if err != nil {
		s.log.Error("checkout session creation failed",
			zap.String("price_id", priceID),
			zap.Error(err),
		)
		return domain.CreateSessionResponse{}, err
	}

	s.log.Info("checkout session created",
		zap.String("session_id", session.ID),
		zap.String("price_id", priceID),
	)

	return domain.CreateSessionResponse{URL: session.URL}, nil
}

func (s *Service) redirectURLs(origin string) (string, string) {
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	if origin == "" {
		return s.successURL, s.cancelURL
	}
	return origin + "/success?session_id={CHECKOUT_SESSION_ID}", origin + "/#pricing"
}
