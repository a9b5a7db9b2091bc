package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	checkoutdomain "github.com/thinkzo/intake/internal/checkout/domain"
)

type CheckoutRequest struct {
	PriceID  string `json:"priceId"`
	PlanName string `json:"planName"`
}

func (s *Server) CreateCheckoutSession(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, checkoutdomain.ErrPriceRequired)
		return
	}

	result, err := s.checkout.CreateSession(c.Request.Context(), checkoutdomain.CreateSessionRequest{
		PriceID:  req.PriceID,
		PlanName: req.PlanName,
		Origin:   c.GetHeader("Origin"),
	})
	if err != nil {
		s.metrics.RecordCheckoutSession(c.Request.Context(), "failed")
		AbortWithError(c, err)
		return
	}

	s.metrics.RecordCheckoutSession(c.Request.Context(), "created")
	c.JSON(http.StatusOK, result)
}
