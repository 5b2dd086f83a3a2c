package dto

import (
	"strconv"
	"time"

	"github.com/jsamuelsen/resource-feed/internal/domain"
)

// TagResponse is a tag in API responses. ResourceCount is only set by the
// tag listing.
type TagResponse struct {
	ID            int64  `json:"id"`
	Slug          string `json:"slug"`
	Name          string `json:"name"`
	ResourceCount *int   `json:"resourceCount,omitempty"`
}

// ResourceResponse is a resource in API responses.
type ResourceResponse struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	Thumbnail   string        `json:"thumbnail,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	Tags        []TagResponse `json:"tags"`
}

// FeedQuery holds the query parameters of GET /api/v1/resources.
type FeedQuery struct {
	PaginationRequest

	Tag string `form:"tag" validate:"omitempty,max=64"`
}

// SubmitRequest is the body of POST /api/v1/submissions.
type SubmitRequest struct {
	URL string `json:"url" form:"url" validate:"notempty,max=2048"`
}

// SubmissionResponse is a queued submission.
type SubmissionResponse struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	Message   string    `json:"message"`
}

// SubmissionReviewMessage tells submitters what happens next.
const SubmissionReviewMessage = "We will review your submission and add it to our collection within 24 hours."

// ToTagResponse converts a sidebar tag, keeping its count.
func ToTagResponse(t domain.Tag) TagResponse {
	count := t.ResourceCount

	return TagResponse{ID: t.ID, Slug: t.Slug, Name: t.Name, ResourceCount: &count}
}

// ToResourceResponse converts a resource with its tags.
func ToResourceResponse(r *domain.Resource) ResourceResponse {
	tags := make([]TagResponse, len(r.Tags))
	for i, t := range r.Tags {
		tags[i] = TagResponse{ID: t.ID, Slug: t.Slug, Name: t.Name}
	}

	return ResourceResponse{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		URL:         r.URL,
		Thumbnail:   r.Thumbnail,
		CreatedAt:   r.CreatedAt,
		Tags:        tags,
	}
}

// ToResourceResponses converts a feed. It never returns nil.
func ToResourceResponses(resources []domain.Resource) []ResourceResponse {
	out := make([]ResourceResponse, len(resources))
	for i := range resources {
		out[i] = ToResourceResponse(&resources[i])
	}

	return out
}

// ToSubmissionResponse converts a queued submission.
func ToSubmissionResponse(s *domain.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:        s.ID,
		URL:       s.URL,
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt,
		Message:   SubmissionReviewMessage,
	}
}

// ResourceCursor is the pagination key of a feed entry.
func ResourceCursor(r ResourceResponse) *CursorData {
	return &CursorData{
		Field: "created_at",
		Value: r.CreatedAt.UTC().Format(time.RFC3339Nano),
		ID:    strconv.FormatInt(r.ID, 10),
	}
}

// ListResponse wraps an unpaginated list.
type ListResponse[T any] struct {
	Items []T `json:"items"`
}
