package domain

import (
	"strconv"
	"strings"
	"time"
)

// Resource is a shared link with its description and tags.
// Resources are read-only from the feed's perspective.
type Resource struct {
	ID          int64
	Title       string
	Description string // markdown
	URL         string
	Thumbnail   string
	CreatedAt   time.Time
	Tags        []Tag
}

// HasTag reports whether any of the resource's tags has the given slug.
func (r Resource) HasTag(slug string) bool {
	for _, t := range r.Tags {
		if t.Slug == slug {
			return true
		}
	}

	return false
}

// Tag is a category attached to resources.
type Tag struct {
	ID   int64
	Slug string
	Name string

	// ResourceCount is only populated by tag listings.
	ResourceCount int
}

// FilterByTag returns the resources carrying a tag with the given slug,
// keeping their relative order. It never returns nil.
func FilterByTag(resources []Resource, slug string) []Resource {
	out := make([]Resource, 0, len(resources))

	for _, r := range resources {
		if r.HasTag(slug) {
			out = append(out, r)
		}
	}

	return out
}

// FilterCreatedSince keeps resources created at or after since, in order.
func FilterCreatedSince(resources []Resource, since time.Time) []Resource {
	out := make([]Resource, 0, len(resources))

	for _, r := range resources {
		if !r.CreatedAt.Before(since) {
			out = append(out, r)
		}
	}

	return out
}

// ParseResourceID parses a path segment into a resource id.
// Anything that is not a positive integer cannot name a resource, so it is
// reported as not found.
func ParseResourceID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, NewNotFoundError("resource", raw)
	}

	return id, nil
}

// Slugify derives a tag slug from its display name.
func Slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
