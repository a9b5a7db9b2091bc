package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	checkoutdomain "github.com/thinkzo/intake/internal/checkout/domain"
	contactdomain "github.com/thinkzo/intake/internal/contact/domain"
)

// failureResponse is the wire shape for every rejected intake request.
type failureResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// ErrorHandlingMiddleware converts deferred handler errors into the intake
// error contract.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, message := mapError(c, lastErr.Err)
		c.AbortWithStatusJSON(status, failureResponse{
			Success:   false,
			Error:     message,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(c *gin.Context, err error) (int, string) {
	var fieldErr *contactdomain.FieldError
	if errors.As(err, &fieldErr) {
		return http.StatusBadRequest, fieldErr.Message
	}

	var rateErr *contactdomain.RateLimitError
	if errors.As(err, &rateErr) {
		wait := int(rateErr.RetryAfter.Round(time.Second).Seconds())
		if wait < 1 {
			wait = 1
		}
		c.Header("Retry-After", strconv.Itoa(wait))
		return http.StatusTooManyRequests, rateErr.Error()
	}

	switch {
	case errors.Is(err, checkoutdomain.ErrPriceRequired):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, checkoutdomain.ErrNotConfigured):
		return http.StatusServiceUnavailable, "Payment processing is not available right now"
	case errors.Is(err, contactdomain.ErrPersistence):
		return http.StatusInternalServerError, "Failed to save contact message to database"
	default:
		return http.StatusInternalServerError, "Unknown error occurred"
	}
}

// classifyErrorForLog labels errors for the request log without leaking
// internals into response bodies.
func classifyErrorForLog(err error) (string, string) {
	var fieldErr *contactdomain.FieldError
	if errors.As(err, &fieldErr) {
		return "validation_error", fieldErr.Field
	}

	var rateErr *contactdomain.RateLimitError
	if errors.As(err, &rateErr) {
		return "rate_limit_error", "too_many_submissions"
	}

	switch {
	case errors.Is(err, checkoutdomain.ErrPriceRequired):
		return "validation_error", "price_id"
	case errors.Is(err, checkoutdomain.ErrNotConfigured):
		return "configuration_error", "stripe_secret_key"
	case errors.Is(err, contactdomain.ErrPersistence):
		return "persistence_error", "insert_failed"
	default:
		return "internal_error", ""
	}
}
