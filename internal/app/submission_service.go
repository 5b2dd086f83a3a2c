package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jsamuelsen/resource-feed/internal/app/scope"
	"github.com/jsamuelsen/resource-feed/internal/domain"
	"github.com/jsamuelsen/resource-feed/internal/platform/ids"
	"github.com/jsamuelsen/resource-feed/internal/platform/telemetry"
	"github.com/jsamuelsen/resource-feed/internal/ports"
)

// SubmissionIDPrefix prefixes every submission id.
const SubmissionIDPrefix = "sub"

// Submission outcomes recorded in resourcefeed_submissions_total.
const (
	ResultAccepted     = "accepted"
	ResultDisabled     = "disabled"
	ResultUnauthorized = "unauthorized"
	ResultRateLimited  = "rate_limited"
	ResultInvalid      = "invalid"
	ResultDuplicate    = "duplicate"
	ResultFailed       = "failed"
)

// SubmissionService queues submitted URLs for review.
type SubmissionService struct {
	store   ports.SubmissionStore
	events  ports.EventPublisher
	flags   ports.FeatureFlags
	limiter ports.RateLimiter
	metrics *telemetry.FeedMetrics
	logger  *slog.Logger

	newID ids.Generator
	now   func() time.Time
}

// SubmissionServiceConfig holds the dependencies of a SubmissionService.
// Flags, Limiter and Metrics are optional.
type SubmissionServiceConfig struct {
	Store   ports.SubmissionStore
	Events  ports.EventPublisher
	Flags   ports.FeatureFlags
	Limiter ports.RateLimiter
	Metrics *telemetry.FeedMetrics
	Logger  *slog.Logger

	// NewID defaults to ids.NanoID.
	NewID ids.Generator
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewSubmissionService creates a SubmissionService.
// Panics if Store or Events is nil.
func NewSubmissionService(cfg SubmissionServiceConfig) *SubmissionService {
	if cfg.Store == nil {
		panic("SubmissionService: store is required")
	}

	if cfg.Events == nil {
		panic("SubmissionService: event publisher is required")
	}

	svc := &SubmissionService{
		store:   cfg.Store,
		events:  cfg.Events,
		flags:   cfg.Flags,
		limiter: cfg.Limiter,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
		newID:   cfg.NewID,
		now:     cfg.Now,
	}

	if svc.logger == nil {
		svc.logger = slog.Default()
	}

	svc.logger = svc.logger.With(slog.String("component", "app.SubmissionService"))

	if svc.newID == nil {
		svc.newID = ids.NanoID
	}

	if svc.now == nil {
		svc.now = time.Now
	}

	return svc
}

// Enabled reports whether submissions are switched on.
func (s *SubmissionService) Enabled(ctx context.Context) bool {
	return s.flags == nil || s.flags.IsEnabled(ctx, ports.FlagSubmissions, true)
}

// SubmitInput is what a signed-in visitor sends.
type SubmitInput struct {
	User *domain.User
	URL  string
}

// Submit validates the URL, stores it as a pending submission and
// publishes submission.created. If publishing fails the stored record is
// removed again, so a submission is only kept when its event went out.
func (s *SubmissionService) Submit(ctx context.Context, in SubmitInput) (*domain.Submission, error) {
	sub, err := Run(ctx, Command[SubmitInput, *domain.Submission, *domain.Submission]{
		Name:     "submit resource",
		Validate: s.validate,
		Perform:  s.perform,
		Respond: func(_ context.Context, sub *domain.Submission) (*domain.Submission, error) {
			return sub, nil
		},
	}, in)

	s.metrics.CountSubmission(submissionResult(err))

	if err != nil {
		return nil, err
	}

	return sub, nil
}

func (s *SubmissionService) validate(ctx context.Context, in SubmitInput) (*domain.Submission, error) {
	if !s.Enabled(ctx) {
		return nil, ErrSubmissionsDisabled
	}

	if in.User == nil || in.User.ID == "" {
		return nil, domain.NewUnauthorizedError("submit resource")
	}

	normalized, err := domain.NormalizeSubmissionURL(in.URL)
	if err != nil {
		return nil, err
	}

	if s.limiter != nil && !s.limiter.Allow(in.User.ID) {
		return nil, domain.NewRateLimitedError(in.User.ID)
	}

	id, err := s.newID(SubmissionIDPrefix)
	if err != nil {
		return nil, err
	}

	return domain.NewSubmission(id, normalized, in.User, s.now())
}

func (s *SubmissionService) perform(ctx context.Context, sub *domain.Submission) error {
	sc := scope.New(ctx)

	err := errors.Join(
		sc.Stage(scope.Step{
			Name: "store submission",
			Do:   func(ctx context.Context) error { return s.store.CreateSubmission(ctx, sub) },
			Undo: func(ctx context.Context) error { return s.store.DeleteSubmission(ctx, sub.ID) },
		}),
		sc.Stage(scope.Step{
			Name: "publish " + EventSubmissionCreated,
			Do: func(ctx context.Context) error {
				return s.events.Publish(ctx, SubmissionCreated{Submission: *sub})
			},
		}),
	)
	if err != nil {
		return err
	}

	if err := sc.Commit(ctx); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "submission queued",
		slog.String("submission_id", sub.ID),
		slog.String("url", sub.URL),
	)

	return nil
}

// Pending lists submissions waiting for review, newest first.
func (s *SubmissionService) Pending(ctx context.Context) ([]domain.Submission, error) {
	return s.store.ListSubmissions(ctx, domain.SubmissionPending)
}

// ErrSubmissionsDisabled is returned while the submissions flag is off.
var ErrSubmissionsDisabled = domain.NewUnavailableError("submissions", "submissions are disabled")

func submissionResult(err error) string {
	switch {
	case err == nil:
		return ResultAccepted
	case errors.Is(err, ErrSubmissionsDisabled):
		return ResultDisabled
	case domain.IsUnauthorized(err):
		return ResultUnauthorized
	case domain.IsRateLimited(err):
		return ResultRateLimited
	case domain.IsValidation(err):
		return ResultInvalid
	case domain.IsConflict(err):
		return ResultDuplicate
	default:
		return ResultFailed
	}
}
