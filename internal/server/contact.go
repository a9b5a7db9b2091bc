package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	contactdomain "github.com/thinkzo/intake/internal/contact/domain"
)

// ContactRequest is the intake payload. ProjectDescription is the canonical
// field; Message is accepted as a legacy alias.
type ContactRequest struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	Company            string `json:"company"`
	ServiceType        string `json:"serviceType"`
	BudgetRange        string `json:"budgetRange"`
	ProjectDescription string `json:"projectDescription"`
	Message            string `json:"message"`
	TimeFrame          string `json:"timeFrame"`
}

type contactResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	ID        string `json:"id"`
	EmailSent bool   `json:"emailSent"`
}

func (s *Server) SubmitContact(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, &contactdomain.FieldError{
			Field:   "request",
			Message: "Request body must be valid JSON",
		})
		return
	}

	message := req.ProjectDescription
	if strings.TrimSpace(message) == "" {
		message = req.Message
	}

	result, err := s.contactsvc.Submit(c.Request.Context(), contactdomain.SubmitRequest{
		Fields: contactdomain.Fields{
			Name:        req.Name,
			Email:       req.Email,
			Company:     req.Company,
			ServiceType: req.ServiceType,
			BudgetRange: req.BudgetRange,
			Message:     message,
			TimeFrame:   req.TimeFrame,
		},
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, contactResponse{
		Success:   true,
		Message:   "Contact form submitted successfully",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		ID:        result.Submission.ID.String(),
		EmailSent: result.EmailSent,
	})
}
