package handlers

import (
	"context"

	"github.com/jsamuelsen/resource-feed/internal/app"
	"github.com/jsamuelsen/resource-feed/internal/domain"
)

// FeedQueries is the read side used by the pages and the API.
// *app.FeedService implements it.
type FeedQueries interface {
	HomePage(ctx context.Context) (*app.FeedPage, error)
	TagPage(ctx context.Context, slug string) (*app.FeedPage, error)
	RelatedPage(ctx context.Context, id int64) (*app.FeedPage, error)
	ResourcePage(ctx context.Context, id int64, tagSlug string) (*app.ResourcePage, error)

	AllResources(ctx context.Context) ([]domain.Resource, error)
	ResourcesByTag(ctx context.Context, slug string) ([]domain.Resource, error)
	RelatedResources(ctx context.Context, id int64) ([]domain.Resource, error)
	Resource(ctx context.Context, id int64) (*domain.Resource, error)
	Sidebar(ctx context.Context) ([]domain.Tag, error)
}

// Submitter accepts resource submissions. *app.SubmissionService implements it.
type Submitter interface {
	Enabled(ctx context.Context) bool
	Submit(ctx context.Context, in app.SubmitInput) (*domain.Submission, error)
}

// SubmitOperation names the submission command in unauthorized errors.
const SubmitOperation = "submit resource"
