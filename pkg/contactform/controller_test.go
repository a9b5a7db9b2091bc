package contactform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillValid(c *Controller) {
	c.SetField(FieldName, "Jo Smith")
	c.SetField(FieldEmail, "jo@example.com")
	c.SetField(FieldCompany, "Acme")
	c.SetField(FieldServiceType, "ai-integration")
	c.SetField(FieldMessage, "Build an AI chat assistant for our support site")
	c.SetField(FieldTimeFrame, "1-2-weeks")
}

func intakeStub(t *testing.T, requests *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(requests, 1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":   true,
			"message":   "Contact form submitted successfully",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"id":        "1234567890",
			"emailSent": true,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNew_RejectsPlaceholderEndpoints(t *testing.T) {
	for _, endpoint := range []string{
		"",
		"https://placeholder.supabase.co",
		"https://your-project.example",
	} {
		_, err := New(Config{Endpoint: endpoint})
		assert.ErrorIs(t, err, ErrConfiguration, "endpoint %q", endpoint)
	}
}

func TestNew_AppliesDefaults(t *testing.T) {
	c, err := New(Config{Endpoint: "https://api.thinkzo.ai/api/contact"})
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, c.cfg.MinInterval)
	assert.Equal(t, 5*time.Second, c.cfg.ConfirmationDisplay)
	assert.NotNil(t, c.cfg.HTTPClient)
}

func TestSubmit_Success(t *testing.T) {
	var requests int32
	srv := intakeStub(t, &requests)

	c, err := New(Config{Endpoint: srv.URL})
	require.NoError(t, err)
	fillValid(c)

	result, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1234567890", result.ID)
	assert.True(t, result.EmailSent)

	assert.EqualValues(t, 1, atomic.LoadInt32(&requests))
	assert.True(t, c.Submitted())
	assert.Equal(t, 1, c.SubmitCount())
	assert.Empty(t, c.GeneralError())
	assert.False(t, c.InFlight())

	// Accepted submissions clear the form.
	assert.Empty(t, c.Field(FieldName))
	assert.Empty(t, c.Field(FieldMessage))
}

func TestSubmit_SendsSanitizedPayload(t *testing.T) {
	var payload map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "id": "1"})
	}))
	t.Cleanup(srv.Close)

	c, err := New(Config{Endpoint: srv.URL})
	require.NoError(t, err)
	fillValid(c)
	c.SetField(FieldName, "  Jo <b>Smith</b> ")
	c.SetField(FieldEmail, "JO@Example.COM")

	_, err = c.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Jo bSmith/b", payload["name"])
	assert.Equal(t, "jo@example.com", payload["email"])
	assert.Equal(t, "Acme", payload["company"])
	assert.Equal(t, "ai-integration", payload["serviceType"])
	assert.Equal(t, "Build an AI chat assistant for our support site", payload["projectDescription"])
	assert.Equal(t, "1-2-weeks", payload["timeFrame"])
}

func TestSubmit_ValidationFailureIsLocal(t *testing.T) {
	var requests int32
	srv := intakeStub(t, &requests)

	c, err := New(Config{Endpoint: srv.URL})
	require.NoError(t, err)
	c.SetField(FieldName, "J")
	c.SetField(FieldEmail, "not-an-email")
	c.SetField(FieldMessage, "too short")

	_, err = c.Submit(context.Background())

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, FieldName, valErr.FirstInvalid)
	assert.Len(t, valErr.Fields, 3)

	assert.Zero(t, atomic.LoadInt32(&requests), "no network call on validation failure")
	assert.Equal(t, "Name must be between 2 and 100 characters", c.Errors()[FieldName])
	assert.False(t, c.Submitted())
}

func TestSetField_ClearsStaleErrors(t *testing.T) {
	srv := intakeStub(t, new(int32))

	c, err := New(Config{Endpoint: srv.URL})
	require.NoError(t, err)

	_, err = c.Submit(context.Background())
	require.Error(t, err)
	require.NotEmpty(t, c.Errors()[FieldName])

	c.SetField(FieldName, "Jo Smith")
	_, stillThere := c.Errors()[FieldName]
	assert.False(t, stillThere)
}

func TestFirstInvalidField_FollowsFocusOrder(t *testing.T) {
	c, err := New(Config{Endpoint: "https://api.thinkzo.ai/api/contact"})
	require.NoError(t, err)

	assert.Equal(t, FieldName, c.FirstInvalidField())

	c.SetField(FieldName, "Jo Smith")
	assert.Equal(t, FieldEmail, c.FirstInvalidField())

	c.SetField(FieldEmail, "jo@example.com")
	assert.Equal(t, FieldMessage, c.FirstInvalidField())

	c.SetField(FieldMessage, "Build an AI chat assistant for our site")
	assert.Empty(t, c.FirstInvalidField())
}

func TestSubmit_ThrottlesRepeatSubmissions(t *testing.T) {
	var requests int32
	srv := intakeStub(t, &requests)

	c, err := New(Config{Endpoint: srv.URL})
	require.NoError(t, err)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	c.now = func() time.Time { return clock }

	fillValid(c)
	_, err = c.Submit(context.Background())
	require.NoError(t, err)

	clock = base.Add(10 * time.Second)
	fillValid(c)
	_, err = c.Submit(context.Background())

	var rateErr *RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, 20*time.Second, rateErr.Wait)
	assert.Equal(t, "Please wait 20 seconds before submitting again.", c.GeneralError())
	assert.EqualValues(t, 1, atomic.LoadInt32(&requests), "throttled attempt never reaches the server")

	clock = base.Add(30 * time.Second)
	_, err = c.Submit(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&requests))
}

func TestSubmit_ThrottleCheckedBeforeValidation(t *testing.T) {
	var requests int32
	srv := intakeStub(t, &requests)

	c, err := New(Config{Endpoint: srv.URL})
	require.NoError(t, err)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	c.now = func() time.Time { return clock }

	fillValid(c)
	_, err = c.Submit(context.Background())
	require.NoError(t, err)

	// The form is now empty and invalid, but the throttle fires first.
	clock = base.Add(5 * time.Second)
	_, err = c.Submit(context.Background())

	var rateErr *RateLimitError
	assert.ErrorAs(t, err, &rateErr)
}

func TestSubmit_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	c, err := New(Config{Endpoint: endpoint})
	require.NoError(t, err)
	fillValid(c)

	_, err = c.Submit(context.Background())

	var subErr *SubmitError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, FailureNetwork, subErr.Kind)
	assert.Equal(t, "Network error: please check your connection and try again.", subErr.Message)

	// The form keeps its values so the user can retry.
	assert.Equal(t, "Jo Smith", c.Field(FieldName))
	assert.Equal(t, subErr.Message, c.GeneralError())
	assert.False(t, c.InFlight())
	assert.False(t, c.Submitted())
}

func TestSubmit_ServerRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   "Too many submissions. Please wait 42 seconds before trying again.",
		})
	}))
	t.Cleanup(srv.Close)

	c, err := New(Config{Endpoint: srv.URL})
	require.NoError(t, err)
	fillValid(c)

	_, err = c.Submit(context.Background())

	var subErr *SubmitError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, FailureRateLimited, subErr.Kind)
	assert.Equal(t, "Too many submissions. Please wait 42 seconds before trying again.", subErr.Message)
}

func TestSubmit_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c, err := New(Config{Endpoint: srv.URL})
	require.NoError(t, err)
	fillValid(c)

	_, err = c.Submit(context.Background())

	var subErr *SubmitError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, FailureServer, subErr.Kind)
	assert.Equal(t, failureMessage, subErr.Message)
}

func TestSubmit_MalformedSuccessBodyStillSucceeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	t.Cleanup(srv.Close)

	c, err := New(Config{Endpoint: srv.URL})
	require.NoError(t, err)
	fillValid(c)

	result, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.ID)
	assert.True(t, c.Submitted())
}

func TestSubmit_ConfirmationResets(t *testing.T) {
	srv := intakeStub(t, new(int32))

	c, err := New(Config{
		Endpoint:            srv.URL,
		ConfirmationDisplay: 20 * time.Millisecond,
	})
	require.NoError(t, err)
	fillValid(c)

	_, err = c.Submit(context.Background())
	require.NoError(t, err)
	require.True(t, c.Submitted())

	assert.Eventually(t, func() bool { return !c.Submitted() },
		time.Second, 5*time.Millisecond)
}
