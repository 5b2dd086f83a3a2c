// Package app contains the use cases behind the feed pages and the API.
// Services depend on ports only; handlers call them and render the result.
package app

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/resource-feed/internal/app/scope"
	"github.com/jsamuelsen/resource-feed/internal/domain"
	"github.com/jsamuelsen/resource-feed/internal/platform/telemetry"
	"github.com/jsamuelsen/resource-feed/internal/ports"
)

// Feed variants, used as span names and metric labels.
const (
	VariantAll     = "all"
	VariantTag     = "tag"
	VariantTagLink = "tag_query"
	VariantRelated = "related"
)

const sidebarKey = "feed.sidebar"

// FeedService assembles resource feeds from the store.
// It keeps no state between requests.
type FeedService struct {
	store   ports.ResourceStore
	flags   ports.FeatureFlags
	metrics *telemetry.FeedMetrics
	logger  *slog.Logger
	now     func() time.Time
}

// FeedServiceConfig holds the dependencies of a FeedService.
// Flags and Metrics are optional.
type FeedServiceConfig struct {
	Store   ports.ResourceStore
	Flags   ports.FeatureFlags
	Metrics *telemetry.FeedMetrics
	Logger  *slog.Logger
}

// NewFeedService creates a FeedService. Panics if Store is nil.
func NewFeedService(cfg FeedServiceConfig) *FeedService {
	if cfg.Store == nil {
		panic("FeedService: store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &FeedService{
		store:   cfg.Store,
		flags:   cfg.Flags,
		metrics: cfg.Metrics,
		logger:  logger.With(slog.String("component", "app.FeedService")),
		now:     time.Now,
	}
}

// FeedPage is a feed together with the sidebar tags.
type FeedPage struct {
	Resources []domain.Resource
	Tags      []domain.Tag

	// TagSlug is the tag the feed was filtered by, if any.
	TagSlug string
}

// ResourcePage is a single resource beside the feed it was opened from.
type ResourcePage struct {
	Resource *domain.Resource
	FeedPage
}

// AllResources returns every resource, newest first.
func (s *FeedService) AllResources(ctx context.Context) ([]domain.Resource, error) {
	ctx, span := s.startSpan(ctx, "FeedService.AllResources")
	defer span.End()

	resources, err := s.store.ListResources(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "list resources", err)
	}

	s.observe(span, VariantAll, resources)

	return resources, nil
}

// ResourcesByTag returns the resources tagged with slug, newest first.
func (s *FeedService) ResourcesByTag(ctx context.Context, slug string) ([]domain.Resource, error) {
	return s.byTag(ctx, VariantTag, slug)
}

// ResourcesByTagQuery is ResourcesByTag for the tag carried in a detail
// page link. An empty slug names no tag and yields an empty feed.
func (s *FeedService) ResourcesByTagQuery(ctx context.Context, slug string) ([]domain.Resource, error) {
	if slug == "" {
		return []domain.Resource{}, nil
	}

	return s.byTag(ctx, VariantTagLink, slug)
}

func (s *FeedService) byTag(ctx context.Context, variant, slug string) ([]domain.Resource, error) {
	ctx, span := s.startSpan(ctx, "FeedService.ResourcesByTag",
		attribute.String("feed.variant", variant),
		attribute.String("feed.tag", slug),
	)
	defer span.End()

	resources, err := s.store.ListResources(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "list resources", err)
	}

	filtered := domain.FilterByTag(resources, slug)
	s.observe(span, variant, filtered)

	return filtered, nil
}

// RelatedResources returns every other resource sharing at least one tag
// with the resource, newest first.
// A resource without tags (or an unknown id) is reported as not found.
func (s *FeedService) RelatedResources(ctx context.Context, id int64) ([]domain.Resource, error) {
	ctx, span := s.startSpan(ctx, "FeedService.RelatedResources",
		attribute.Int64("resource.id", id),
	)
	defer span.End()

	tagIDs, err := s.store.ListTagIDsForResource(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, "list tag ids", err)
	}

	if len(tagIDs) == 0 {
		return nil, domain.NewNotFoundError("resource", strconv.FormatInt(id, 10))
	}

	resourceIDs, err := s.store.ListResourceIDsForTags(ctx, tagIDs)
	if err != nil {
		return nil, s.fail(ctx, span, "list related ids", err)
	}

	resourceIDs = slices.DeleteFunc(resourceIDs, func(other int64) bool { return other == id })
	if len(resourceIDs) == 0 {
		s.observe(span, VariantRelated, nil)

		return []domain.Resource{}, nil
	}

	resources, err := s.store.ListResourcesByIDs(ctx, resourceIDs)
	if err != nil {
		return nil, s.fail(ctx, span, "list related resources", err)
	}

	s.observe(span, VariantRelated, resources)

	return resources, nil
}

// Resource returns one resource. Not found errors pass through unchanged.
func (s *FeedService) Resource(ctx context.Context, id int64) (*domain.Resource, error) {
	ctx, span := s.startSpan(ctx, "FeedService.Resource", attribute.Int64("resource.id", id))
	defer span.End()

	r, err := s.store.GetResource(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, "get resource", err)
	}

	return r, nil
}

// Sidebar returns every tag with its resource count. The list is fetched
// once per request scope.
func (s *FeedService) Sidebar(ctx context.Context) ([]domain.Tag, error) {
	return scope.Memo(ctx, scope.FromContext(ctx), sidebarKey, func(ctx context.Context) ([]domain.Tag, error) {
		ctx, span := s.startSpan(ctx, "FeedService.Sidebar")
		defer span.End()

		tags, err := s.store.ListTags(ctx)
		if err != nil {
			return nil, s.fail(ctx, span, "list tags", err)
		}

		span.SetAttributes(attribute.Int("feed.tags", len(tags)))

		return tags, nil
	})
}

// HomePage returns the full feed and the sidebar. When the
// recent_feed_days flag is positive only resources created within that
// many days are shown.
func (s *FeedService) HomePage(ctx context.Context) (*FeedPage, error) {
	resources, tags, err := Parallel2(ctx, s.AllResources, s.Sidebar)
	if err != nil {
		return nil, err
	}

	if s.flags != nil {
		if days := s.flags.GetInt(ctx, ports.FlagRecentFeedDays, 0); days > 0 {
			since := s.now().Add(-time.Duration(days) * 24 * time.Hour)
			resources = domain.FilterCreatedSince(resources, since)
		}
	}

	return &FeedPage{Resources: resources, Tags: tags}, nil
}

// TagPage returns the feed for one tag and the sidebar.
func (s *FeedService) TagPage(ctx context.Context, slug string) (*FeedPage, error) {
	resources, tags, err := Parallel2(ctx,
		func(ctx context.Context) ([]domain.Resource, error) { return s.ResourcesByTag(ctx, slug) },
		s.Sidebar,
	)
	if err != nil {
		return nil, err
	}

	return &FeedPage{Resources: resources, Tags: tags, TagSlug: slug}, nil
}

// RelatedPage returns the related feed of a resource and the sidebar.
func (s *FeedService) RelatedPage(ctx context.Context, id int64) (*FeedPage, error) {
	resources, tags, err := Parallel2(ctx,
		func(ctx context.Context) ([]domain.Resource, error) { return s.RelatedResources(ctx, id) },
		s.Sidebar,
	)
	if err != nil {
		return nil, err
	}

	return &FeedPage{Resources: resources, Tags: tags}, nil
}

// ResourcePage returns a resource, the feed for the tag it was opened
// from and the sidebar.
func (s *FeedService) ResourcePage(ctx context.Context, id int64, tagSlug string) (*ResourcePage, error) {
	resource, resources, tags, err := Parallel3(ctx,
		func(ctx context.Context) (*domain.Resource, error) { return s.Resource(ctx, id) },
		func(ctx context.Context) ([]domain.Resource, error) { return s.ResourcesByTagQuery(ctx, tagSlug) },
		s.Sidebar,
	)
	if err != nil {
		return nil, err
	}

	return &ResourcePage{
		Resource: resource,
		FeedPage: FeedPage{Resources: resources, Tags: tags, TagSlug: tagSlug},
	}, nil
}

func (s *FeedService) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return telemetry.StartSpan(ctx, name, trace.WithAttributes(attrs...))
}

func (s *FeedService) observe(span trace.Span, variant string, resources []domain.Resource) {
	span.SetAttributes(attribute.Int("feed.items", len(resources)))
	s.metrics.ObserveFeed(variant, len(resources))
}

func (s *FeedService) fail(ctx context.Context, span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, op)

	if !domain.IsNotFound(err) {
		s.logger.ErrorContext(ctx, "feed query failed", slog.String("op", op), slog.Any("error", err))
	}

	return err
}
