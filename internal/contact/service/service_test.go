package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thinkzo/intake/internal/config"
	"github.com/thinkzo/intake/internal/contact/domain"
	"github.com/thinkzo/intake/internal/contact/notify"
	"github.com/thinkzo/intake/internal/contact/repository"
	"github.com/thinkzo/intake/internal/providers/email"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeLimiter struct {
	retryAfter time.Duration
	deny       bool
	err        error

	emails []string
}

func (l *fakeLimiter) Allow(ctx context.Context, email string) (time.Duration, bool, error) {
	l.emails = append(l.emails, email)
	if l.err != nil {
		return 0, false, l.err
	}
	if l.deny {
		return l.retryAfter, false, nil
	}
	return 0, true, nil
}

type fakeEmailProvider struct {
	configured bool
	err        error

	sent []email.Message
}

func (p *fakeEmailProvider) Send(ctx context.Context, msg email.Message) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, msg)
	return nil
}

func (p *fakeEmailProvider) Configured() bool {
	return p.configured
}

type failingRepo struct{}

func (failingRepo) Insert(ctx context.Context, db *gorm.DB, submission *domain.ContactSubmission) error {
	return errors.New("connection reset")
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.ContactSubmission{}))
	return db
}

type testDeps struct {
	limiter  *fakeLimiter
	provider *fakeEmailProvider
}

func newTestService(t *testing.T, db *gorm.DB, mutate func(*Params)) (domain.Service, *testDeps) {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	deps := &testDeps{
		limiter:  &fakeLimiter{},
		provider: &fakeEmailProvider{configured: true},
	}

	params := Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Repo:     repository.Provide(),
		Limiter:  deps.limiter,
		Notifier: notify.New(deps.provider, "Thinkzo.ai <onboarding@thinkzo.ai>", "team@thinkzo.ai"),
		Options:  config.NewStaticFormOptionsHolder(config.DefaultFormOptions()),
		Config: config.Config{
			Contact: config.ContactConfig{
				OperatorMailbox: "team@thinkzo.ai",
				SourceTag:       "contact_intake_api",
			},
		},
	}
	if mutate != nil {
		mutate(&params)
	}

	return New(params), deps
}

func validRequest() domain.SubmitRequest {
	return domain.SubmitRequest{
		Fields: domain.Fields{
			Name:        "  Jo Smith ",
			Email:       "JO@Example.COM",
			Company:     "Acme",
			ServiceType: "ai-integration",
			BudgetRange: "1000-2500",
			Message:     "  Build an AI chat assistant for our support site  ",
			TimeFrame:   "1-2-weeks",
		},
		UserAgent: "go-test/1.0",
		IPAddress: "203.0.113.9",
	}
}

func TestSubmit_PersistsSanitizedSubmission(t *testing.T) {
	db := newTestDB(t)
	svc, deps := newTestService(t, db, nil)

	result, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotZero(t, result.Submission.ID)
	assert.True(t, result.EmailSent)

	var rows []domain.ContactSubmission
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "Jo Smith", row.Name)
	assert.Equal(t, "jo@example.com", row.Email)
	assert.Equal(t, "Build an AI chat assistant for our support site", row.Message)
	assert.Equal(t, domain.StatusNew, row.Status)
	assert.Equal(t, "contact_intake_api", row.Metadata["source"])
	assert.Equal(t, "go-test/1.0", row.Metadata["user_agent"])
	assert.Equal(t, "203.0.113.9", row.Metadata["ip_address"])

	// Limiter sees the canonical lower-cased address.
	assert.Equal(t, []string{"jo@example.com"}, deps.limiter.emails)

	// submitted_at and created_at come from the same captured instant.
	assert.Equal(t,
		result.Submission.CreatedAt.Format(time.RFC3339),
		result.Submission.Metadata["submitted_at"])
}

func TestSubmit_MissingIPStoredAsUnknown(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestService(t, db, nil)

	req := validRequest()
	req.IPAddress = ""

	result, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "unknown", result.Submission.Metadata["ip_address"])
}

func TestSubmit_ClearsUnknownOptionValues(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestService(t, db, nil)

	req := validRequest()
	req.ServiceType = "teleportation"
	req.BudgetRange = "infinite"
	req.TimeFrame = "yesterday"

	result, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)

	assert.Empty(t, result.Submission.ServiceType)
	assert.Empty(t, result.Submission.BudgetRange)
	assert.Empty(t, result.Submission.TimeFrame)
}

func TestSubmit_RejectsInvalidFields(t *testing.T) {
	db := newTestDB(t)
	svc, deps := newTestService(t, db, nil)

	req := validRequest()
	req.Name = "J"
	req.Email = "not-an-email"

	_, err := svc.Submit(context.Background(), req)

	var fieldErr *domain.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "name", fieldErr.Field)
	assert.Equal(t, "Name must be between 2 and 100 characters", fieldErr.Message)

	// Validation failures never touch the limiter or the database.
	assert.Empty(t, deps.limiter.emails)

	var count int64
	require.NoError(t, db.Model(&domain.ContactSubmission{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubmit_RateLimited(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestService(t, db, func(p *Params) {
		p.Limiter = &fakeLimiter{deny: true, retryAfter: 42 * time.Second}
	})

	_, err := svc.Submit(context.Background(), validRequest())

	var rateErr *domain.RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, 42*time.Second, rateErr.RetryAfter)
	assert.Equal(t, "Too many submissions. Please wait 42 seconds before trying again.", rateErr.Error())

	var count int64
	require.NoError(t, db.Model(&domain.ContactSubmission{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubmit_LimiterFailureAllowsSubmission(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestService(t, db, func(p *Params) {
		p.Limiter = &fakeLimiter{err: errors.New("redis unreachable")}
	})

	result, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotZero(t, result.Submission.ID)
}

func TestSubmit_PersistenceFailure(t *testing.T) {
	db := newTestDB(t)
	svc, deps := newTestService(t, db, func(p *Params) {
		p.Repo = failingRepo{}
	})

	_, err := svc.Submit(context.Background(), validRequest())
	require.ErrorIs(t, err, domain.ErrPersistence)

	// No notification for a row that was never written.
	assert.Empty(t, deps.provider.sent)
}

func TestSubmit_EmailFailureStillSucceeds(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestService(t, db, func(p *Params) {
		provider := &fakeEmailProvider{configured: true, err: errors.New("smtp timeout")}
		p.Notifier = notify.New(provider, "from@thinkzo.ai", "team@thinkzo.ai")
	})

	result, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)
	assert.False(t, result.EmailSent)

	var count int64
	require.NoError(t, db.Model(&domain.ContactSubmission{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSubmit_EmailSkippedWhenUnconfigured(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestService(t, db, func(p *Params) {
		provider := &fakeEmailProvider{configured: false}
		p.Notifier = notify.New(provider, "from@thinkzo.ai", "team@thinkzo.ai")
	})

	result, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)
	assert.False(t, result.EmailSent)
}

func TestSubmit_NotificationContent(t *testing.T) {
	db := newTestDB(t)
	svc, deps := newTestService(t, db, nil)

	result, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)
	require.Len(t, deps.provider.sent, 1)

	msg := deps.provider.sent[0]
	assert.Equal(t, []string{"team@thinkzo.ai"}, msg.To)
	assert.Equal(t, "jo@example.com", msg.ReplyTo)
	assert.Equal(t, "New Project Inquiry from Jo Smith - Thinkzo.ai", msg.Subject)
	assert.Contains(t, msg.HTML, "Jo Smith")
	assert.Contains(t, msg.HTML, result.Submission.ID.String())
}
