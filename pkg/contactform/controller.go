// Package contactform drives the contact intake endpoint the way the site's
// form does: synchronous field validation, a client-side submission
// throttle, sanitization, and one POST per accepted submission.
package contactform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/thinkzo/intake/internal/contact/domain"
)

// Canonical field names, also used as keys in the error map.
const (
	FieldName        = "name"
	FieldEmail       = "email"
	FieldCompany     = "company"
	FieldServiceType = "serviceType"
	FieldBudgetRange = "budgetRange"
	FieldMessage     = "message"
	FieldTimeFrame   = "timeFrame"
)

// fieldOrder defines which invalid field receives focus first.
var fieldOrder = []string{FieldName, FieldEmail, FieldMessage}

const (
	defaultMinInterval         = 30 * time.Second
	defaultConfirmationDisplay = 5 * time.Second
)

// Known placeholder values that mean the deployment was never configured.
var placeholderEndpoints = map[string]struct{}{
	"":                                {},
	"https://placeholder.supabase.co": {},
	"https://your-project.example":    {},
}

// Config locates the intake endpoint. Validate fails fast at startup rather
// than scattering placeholder checks through submit logic.
type Config struct {
	// Endpoint is the full URL of the contact intake endpoint.
	Endpoint string
	// HTTPClient defaults to a client with a 15s timeout.
	HTTPClient *http.Client
	// MinInterval between accepted submissions; defaults to 30s.
	MinInterval time.Duration
	// ConfirmationDisplay is how long the submitted confirmation shows
	// before the controller resets it; defaults to 5s.
	ConfirmationDisplay time.Duration
}

func (c Config) Validate() error {
	if _, isPlaceholder := placeholderEndpoints[c.Endpoint]; isPlaceholder {
		return ErrConfiguration
	}
	return nil
}

// Result reports a successful submission.
type Result struct {
	ID        string
	EmailSent bool
}

// Controller owns the form state for one contact form instance. It is safe
// for concurrent use, though the intended usage is event-driven from a
// single goroutine.
type Controller struct {
	cfg Config
	now func() time.Time

	mu             sync.Mutex
	fields         map[string]string
	errors         map[string]string
	generalError   string
	inFlight       bool
	submitted      bool
	lastSubmission time.Time
	submitCount    int
	resetTimer     *time.Timer
}

// New validates the configuration and returns an empty controller.
func New(cfg Config) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = defaultMinInterval
	}
	if cfg.ConfirmationDisplay <= 0 {
		cfg.ConfirmationDisplay = defaultConfirmationDisplay
	}
	return &Controller{
		cfg:    cfg,
		now:    time.Now,
		fields: make(map[string]string),
		errors: make(map[string]string),
	}, nil
}

// SetField updates one field and clears its stale error, plus any general
// error from an earlier attempt.
func (f *Controller) SetField(field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields[field] = value
	delete(f.errors, field)
	f.generalError = ""
}

func (f *Controller) Field(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields[field]
}

// Errors returns a copy of the field error map.
func (f *Controller) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

func (f *Controller) GeneralError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.generalError
}

func (f *Controller) Submitted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitted
}

func (f *Controller) InFlight() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight
}

func (f *Controller) SubmitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitCount
}

// Validate applies the shared field rules without touching controller state.
func (f *Controller) Validate() map[string]string {
	f.mu.Lock()
	fields := f.domainFieldsLocked()
	f.mu.Unlock()
	return errorMap(domain.Validate(fields))
}

// FirstInvalidField names the field that should receive input focus, or
// empty when the form is valid.
func (f *Controller) FirstInvalidField() string {
	errs := f.Validate()
	for _, field := range fieldOrder {
		if _, ok := errs[field]; ok {
			return field
		}
	}
	return ""
}

// Submit runs the guard sequence and issues at most one POST: the local
// submission throttle first, then validation, then the configuration check.
// Only when all three pass does a network call happen.
func (f *Controller) Submit(ctx context.Context) (Result, error) {
	f.mu.Lock()

	if f.inFlight {
		f.mu.Unlock()
		return Result{}, ErrSubmissionInFlight
	}

	if !f.lastSubmission.IsZero() {
		if elapsed := f.now().Sub(f.lastSubmission); elapsed < f.cfg.MinInterval {
			wait := f.cfg.MinInterval - elapsed
			f.generalError = fmt.Sprintf("Please wait %d seconds before submitting again.", waitSeconds(wait))
			f.mu.Unlock()
			return Result{}, &RateLimitError{Wait: wait}
		}
	}

	fields := f.domainFieldsLocked()
	if errs := domain.Validate(fields); len(errs) > 0 {
		f.errors = errorMap(errs)
		first := ""
		for _, field := range fieldOrder {
			if _, ok := f.errors[field]; ok {
				first = field
				break
			}
		}
		f.mu.Unlock()
		return Result{}, &ValidationError{Fields: errorMap(errs), FirstInvalid: first}
	}

	if err := f.cfg.Validate(); err != nil {
		f.generalError = "Configuration error: please contact support. The form cannot be submitted at this time."
		f.mu.Unlock()
		return Result{}, err
	}

	f.inFlight = true
	sanitized := domain.Sanitize(fields)
	f.mu.Unlock()

	result, err := f.post(ctx, sanitized)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight = false

	if err != nil {
		f.generalError = err.Error()
		return Result{}, err
	}

	f.submitted = true
	f.lastSubmission = f.now()
	f.submitCount++
	f.fields = make(map[string]string)
	f.errors = make(map[string]string)
	f.generalError = ""
	f.scheduleResetLocked()

	return result, nil
}

// post issues the network call outside the controller lock.
func (f *Controller) post(ctx context.Context, fields domain.Fields) (Result, error) {
	payload, err := json.Marshal(map[string]string{
		"name":               fields.Name,
		"email":              fields.Email,
		"company":            fields.Company,
		"serviceType":        fields.ServiceType,
		"budgetRange":        fields.BudgetRange,
		"projectDescription": fields.Message,
		"timeFrame":          fields.TimeFrame,
	})
	if err != nil {
		return Result{}, &SubmitError{Kind: FailureServer, Message: failureMessage}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{}, &SubmitError{Kind: FailureServer, Message: failureMessage}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.cfg.HTTPClient.Do(req)
	if err != nil {
		return Result{}, &SubmitError{
			Kind:    FailureNetwork,
			Message: "Network error: please check your connection and try again.",
		}
	}
	defer resp.Body.Close()

	var body struct {
		Success   bool   `json:"success"`
		ID        string `json:"id"`
		EmailSent bool   `json:"emailSent"`
		Error     string `json:"error"`
	}
	// A malformed body on a 200 still counts as success; the submission
	// is already committed server-side.
	_ = json.NewDecoder(resp.Body).Decode(&body)

	switch {
	case resp.StatusCode == http.StatusOK:
		return Result{ID: body.ID, EmailSent: body.EmailSent}, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		message := body.Error
		if message == "" {
			message = "Too many submissions. Please wait before trying again."
		}
		return Result{}, &SubmitError{Kind: FailureRateLimited, Message: message}
	default:
		message := body.Error
		if message == "" {
			message = failureMessage
		}
		return Result{}, &SubmitError{Kind: FailureServer, Message: message}
	}
}

// scheduleResetLocked clears the submitted confirmation after the display
// window so the form returns to its idle state.
func (f *Controller) scheduleResetLocked() {
	if f.resetTimer != nil {
		f.resetTimer.Stop()
	}
	f.resetTimer = time.AfterFunc(f.cfg.ConfirmationDisplay, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.submitted = false
	})
}

func (f *Controller) domainFieldsLocked() domain.Fields {
	return domain.Fields{
		Name:        f.fields[FieldName],
		Email:       f.fields[FieldEmail],
		Company:     f.fields[FieldCompany],
		ServiceType: f.fields[FieldServiceType],
		BudgetRange: f.fields[FieldBudgetRange],
		Message:     f.fields[FieldMessage],
		TimeFrame:   f.fields[FieldTimeFrame],
	}
}

func errorMap(errs []domain.FieldError) map[string]string {
	out := make(map[string]string, len(errs))
	for _, e := range errs {
		out[e.Field] = e.Message
	}
	return out
}

func waitSeconds(d time.Duration) int {
	s := int(d.Round(time.Second).Seconds())
	if s < 1 {
		s = 1
	}
	return s
}
