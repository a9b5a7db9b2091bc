package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	orderdomain "github.com/thinkzo/intake/internal/order/domain"
	"go.uber.org/zap"
)

// StripeWebhook verifies and applies payment events. Unknown event types are
// acknowledged and ignored so the provider does not retry them.
func (s *Server) StripeWebhook(c *gin.Context) {
	if s.cfg.Stripe.WebhookSecret == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "webhook secret not configured"})
		return
	}

	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read request body"})
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), s.cfg.Stripe.WebhookSecret)
	if err != nil {
		s.log.Warn("webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	s.metrics.RecordPaymentEvent(c.Request.Context(), string(event.Type))

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			s.log.Error("malformed checkout session payload", zap.Error(err))
			break
		}
		req := orderdomain.RecordPaidRequest{
			SessionID: session.ID,
			PlanName:  session.Metadata["plan_name"],
			Currency:  string(session.Currency),
			Amount:    float64(session.AmountTotal) / 100,
		}
		if session.PaymentIntent != nil {
			req.PaymentIntentID = session.PaymentIntent.ID
		}
		if session.CustomerDetails != nil {
			req.CustomerEmail = session.CustomerDetails.Email
			req.CustomerName = session.CustomerDetails.Name
		}
		if err := s.orders.RecordPaid(c.Request.Context(), req); err != nil {
			s.log.Error("failed to record order", zap.String("session_id", session.ID), zap.Error(err))
		}

	case "payment_intent.succeeded":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			s.log.Error("malformed payment intent payload", zap.Error(err))
			break
		}
		receiptURL := ""
		if intent.LatestCharge != nil {
			receiptURL = intent.LatestCharge.ReceiptURL
		}
		if err := s.orders.MarkCompleted(c.Request.Context(), intent.ID, receiptURL); err != nil {
			s.log.Error("failed to complete order", zap.String("payment_intent", intent.ID), zap.Error(err))
		}

	case "payment_intent.payment_failed":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			s.log.Error("malformed payment intent payload", zap.Error(err))
			break
		}
		reason := ""
		if intent.LastPaymentError != nil {
			reason = intent.LastPaymentError.Msg
		}
		if err := s.orders.MarkFailed(c.Request.Context(), intent.ID, reason); err != nil {
			s.log.Error("failed to mark order failed", zap.String("payment_intent", intent.ID), zap.Error(err))
		}

	default:
		s.log.Debug("unhandled webhook event", zap.String("type", string(event.Type)))
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
