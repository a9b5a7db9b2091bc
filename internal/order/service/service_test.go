package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thinkzo/intake/internal/order/domain"
	"github.com/thinkzo/intake/internal/order/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newOrderService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Order{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, db
}

func paidRequest() domain.RecordPaidRequest {
	return domain.RecordPaidRequest{
		SessionID:       "cs_test_123",
		PaymentIntentID: "pi_test_123",
		PlanName:        "Growth Plan",
		Amount:          1999,
		Currency:        "USD",
		CustomerEmail:   "JO@Example.com",
		CustomerName:    " Jo Smith ",
	}
}

func TestRecordPaid(t *testing.T) {
	svc, db := newOrderService(t)

	require.NoError(t, svc.RecordPaid(context.Background(), paidRequest()))

	var order domain.Order
	require.NoError(t, db.First(&order).Error)

	assert.Equal(t, "cs_test_123", order.StripeSessionID)
	assert.Equal(t, "pi_test_123", order.StripePaymentIntentID)
	assert.Equal(t, "Growth Plan", order.ProductName)
	assert.Equal(t, "smart_business", order.PlanType)
	assert.Equal(t, "usd", order.Currency)
	assert.Equal(t, domain.StatusPaid, order.Status)
	assert.Equal(t, "jo@example.com", order.CustomerEmail)
	assert.Equal(t, "Jo Smith", order.CustomerName)
	require.NotNil(t, order.PaidAt)
}

func TestRecordPaid_Defaults(t *testing.T) {
	svc, db := newOrderService(t)

	req := paidRequest()
	req.PlanName = ""
	req.Currency = ""

	require.NoError(t, svc.RecordPaid(context.Background(), req))

	var order domain.Order
	require.NoError(t, db.First(&order).Error)
	assert.Equal(t, "Unknown Plan", order.ProductName)
	assert.Equal(t, "usd", order.Currency)
}

func TestRecordPaid_RequiresSessionID(t *testing.T) {
	svc, _ := newOrderService(t)

	req := paidRequest()
	req.SessionID = "  "

	err := svc.RecordPaid(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidSession)
}

func TestPlanType(t *testing.T) {
	assert.Equal(t, "startup", planType("Starter Plan"))
	assert.Equal(t, "smart_business", planType("growth"))
	assert.Equal(t, "enterprise", planType("Enterprise Plus"))
	assert.Equal(t, "enterprise", planType("Something Else"))
}

func TestMarkCompleted(t *testing.T) {
	svc, db := newOrderService(t)
	require.NoError(t, svc.RecordPaid(context.Background(), paidRequest()))

	err := svc.MarkCompleted(context.Background(), "pi_test_123", "https://pay.stripe.com/receipts/abc")
	require.NoError(t, err)

	var order domain.Order
	require.NoError(t, db.First(&order).Error)
	assert.Equal(t, domain.StatusCompleted, order.Status)
	assert.Equal(t, "https://pay.stripe.com/receipts/abc", order.ReceiptURL)
}

func TestMarkFailed(t *testing.T) {
	svc, db := newOrderService(t)
	require.NoError(t, svc.RecordPaid(context.Background(), paidRequest()))

	require.NoError(t, svc.MarkFailed(context.Background(), "pi_test_123", ""))

	var order domain.Order
	require.NoError(t, db.First(&order).Error)
	assert.Equal(t, domain.StatusFailed, order.Status)
	assert.Equal(t, "Payment failed", order.FailureReason)
}

func TestMark_RequiresPaymentIntent(t *testing.T) {
	svc, _ := newOrderService(t)

	assert.ErrorIs(t, svc.MarkCompleted(context.Background(), "", "url"), domain.ErrInvalidPaymentIntent)
	assert.ErrorIs(t, svc.MarkFailed(context.Background(), " ", "reason"), domain.ErrInvalidPaymentIntent)
}
