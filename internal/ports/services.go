// Package ports defines the interfaces the feed depends on.
// Adapters implement them; the application layer only sees these contracts.
//
// Every method takes a context first, returns domain types and reports
// failures with domain errors (domain.ErrNotFound, domain.ErrUnavailable, ...).
package ports

import (
	"context"

	"github.com/jsamuelsen/resource-feed/internal/domain"
)

// ResourceStore is the read side of the backing store.
//
// List methods return an empty, non-nil slice when nothing matches.
// Results that carry resources are ordered newest first and include tags.
type ResourceStore interface {
	// ListResources returns every resource.
	ListResources(ctx context.Context) ([]domain.Resource, error)

	// GetResource returns a single resource.
	// Returns domain.ErrNotFound if no resource has the id.
	GetResource(ctx context.Context, id int64) (*domain.Resource, error)

	// ListResourcesByIDs returns the resources whose ids are in the set.
	// Unknown ids are skipped.
	ListResourcesByIDs(ctx context.Context, ids []int64) ([]domain.Resource, error)

	// ListTagIDsForResource returns the ids of the tags attached to a resource.
	ListTagIDsForResource(ctx context.Context, resourceID int64) ([]int64, error)

	// ListResourceIDsForTags returns the distinct ids of resources carrying any of the tags.
	ListResourceIDsForTags(ctx context.Context, tagIDs []int64) ([]int64, error)

	// ListTags returns every tag with ResourceCount populated, ordered by slug.
	ListTags(ctx context.Context) ([]domain.Tag, error)
}

// SubmissionStore persists submissions waiting for moderation.
type SubmissionStore interface {
	// CreateSubmission stores a new submission.
	// Returns domain.ErrConflict if the URL is already pending review.
	CreateSubmission(ctx context.Context, sub *domain.Submission) error

	// DeleteSubmission removes a submission. Missing ids are not an error.
	DeleteSubmission(ctx context.Context, id string) error

	// ListSubmissions returns submissions with the given status, newest first.
	ListSubmissions(ctx context.Context, status domain.SubmissionStatus) ([]domain.Submission, error)
}

// SessionProvider resolves a session token to the signed-in user.
type SessionProvider interface {
	// CurrentUser returns the user for the token, or nil when the token does
	// not identify anyone (missing, expired or rejected).
	// Errors are reserved for provider failures.
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
}

// EventPublisher defines the contract for publishing domain events.
type EventPublisher interface {
	// Publish sends an event to the configured destination.
	// Returns domain.ErrUnavailable if the messaging system is unreachable.
	Publish(ctx context.Context, event Event) error
}

// Event represents a domain event that can be published.
type Event interface {
	// EventType returns the type identifier for routing.
	EventType() string

	// Payload returns the event data for serialization.
	Payload() any
}

// RateLimiter decides whether the caller identified by key may proceed.
type RateLimiter interface {
	Allow(key string) bool
}
