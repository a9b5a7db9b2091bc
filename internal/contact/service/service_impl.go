package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/thinkzo/intake/internal/config"
	"github.com/thinkzo/intake/internal/contact/domain"
	"github.com/thinkzo/intake/internal/contact/notify"
	obsmetrics "github.com/thinkzo/intake/internal/observability/metrics"
	"github.com/thinkzo/intake/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Limiter  ratelimit.Limiter
	Notifier *notify.Notifier
	Options  *config.FormOptionsHolder
	Config   config.Config
	Metrics  *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	limiter  ratelimit.Limiter
	notifier *notify.Notifier
	options  *config.FormOptionsHolder
	source   string
	metrics  *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("contact.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		limiter:  p.Limiter,
		notifier: p.Notifier,
		options:  p.Options,
		source:   p.Config.Contact.SourceTag,
		metrics:  p.Metrics,
	}
}

// Submit is the authoritative intake path: it never trusts client-side
// validation. Sanitize and validate run before any side effect; the rate
// limit check records the attempt before the insert; the notification is
// attempted only after the row is committed and cannot fail the request.
func (s *Service) Submit(ctx context.Context, req domain.SubmitRequest) (domain.SubmitResult, error) {
	fields := domain.Sanitize(req.Fields)
	fields = s.normalizeOptions(fields)

	if errs := domain.Validate(fields); len(errs) > 0 {
		first := errs[0]
		return domain.SubmitResult{}, &first
	}

	retryAfter, ok, err := s.limiter.Allow(ctx, fields.Email)
	if err != nil {
		// Limiting is best-effort; a broken limiter must not block intake.
		s.log.Warn("rate limiter unavailable, allowing submission",
			zap.Error(err),
		)
	} else if !ok {
		s.metrics.RecordRateLimitDenied(ctx, "/api/contact")
		return domain.SubmitResult{}, &domain.RateLimitError{RetryAfter: retryAfter}
	}

	// One captured instant feeds both created_at and the metadata
	// submitted_at, so the row and its provenance can never disagree.
	now := time.Now().UTC()
	submission := domain.ContactSubmission{
		ID:          s.genID.Generate(),
		Name:        fields.Name,
		Email:       fields.Email,
		Company:     fields.Company,
		ServiceType: fields.ServiceType,
		BudgetRange: fields.BudgetRange,
		Message:     fields.Message,
		TimeFrame:   fields.TimeFrame,
		Status:      domain.StatusNew,
		Metadata: datatypes.JSONMap{
			"submitted_at": now.Format(time.RFC3339),
			"user_agent":   req.UserAgent,
			"source":       s.source,
			"ip_address":   ipOrUnknown(req.IPAddress),
		},
		CreatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &submission); err != nil {
		s.log.Error("contact submission insert failed",
			zap.String("email", submission.Email),
			zap.Error(err),
		)
		s.metrics.RecordSubmission(ctx, "persistence_error")
		return domain.SubmitResult{}, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	s.metrics.RecordSubmission(ctx, "accepted")
	s.log.Info("contact submission stored",
		zap.String("id", submission.ID.String()),
		zap.String("email", submission.Email),
	)

	emailSent := s.notifyBestEffort(ctx, submission)

	return domain.SubmitResult{
		Submission: submission,
		EmailSent:  emailSent,
	}, nil
}

// notifyBestEffort swallows every failure: the response already reflects a
// committed submission.
func (s *Service) notifyBestEffort(ctx context.Context, submission domain.ContactSubmission) bool {
	if !s.notifier.Configured() {
		s.log.Debug("email delivery not configured, skipping notification")
		s.metrics.RecordNotification(ctx, "skipped")
		return false
	}

	if err := s.notifier.Send(ctx, submission); err != nil {
		s.log.Warn("notification email failed",
			zap.String("id", submission.ID.String()),
			zap.Error(err),
		)
		s.metrics.RecordNotification(ctx, "failed")
		return false
	}

	s.metrics.RecordNotification(ctx, "sent")
	return true
}

// normalizeOptions clears enumerated fields that fall outside the configured
// option sets instead of rejecting the submission.
func (s *Service) normalizeOptions(fields domain.Fields) domain.Fields {
	if s.options == nil {
		return fields
	}
	opts := s.options.Get()
	fields.ServiceType = config.Normalize(opts.ServiceTypes, fields.ServiceType)
	fields.BudgetRange = config.Normalize(opts.BudgetRanges, fields.BudgetRange)
	fields.TimeFrame = config.Normalize(opts.TimeFrames, fields.TimeFrame)
	return fields
}

func ipOrUnknown(ip string) string {
	if ip == "" {
		return "unknown"
	}
	return ip
}
