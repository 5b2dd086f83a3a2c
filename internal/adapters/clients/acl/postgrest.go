package acl

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jsamuelsen/resource-feed/internal/adapters/clients"
	"github.com/jsamuelsen/resource-feed/internal/domain"
	"github.com/jsamuelsen/resource-feed/internal/platform/logging"
)

// PostgRESTPath is where Supabase mounts PostgREST.
const PostgRESTPath = "/rest/v1"

const (
	resourceSelect = "*,tags(*)"
	newestFirst    = "created_at.desc,id.desc"
)

// PostgRESTStore implements ports.ResourceStore and ports.SubmissionStore
// over a Supabase PostgREST endpoint. The client's BaseURL must include
// PostgRESTPath.
type PostgRESTStore struct {
	BaseAdapter
	logger *slog.Logger
}

// NewPostgRESTStore creates a store. Panics if client is nil.
func NewPostgRESTStore(client *clients.Client, logger *slog.Logger) *PostgRESTStore {
	if client == nil {
		panic("PostgRESTStore: client is required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgRESTStore{
		BaseAdapter: NewBaseAdapter(client, "postgrest"),
		logger:      logger.With(slog.String("component", "acl.PostgRESTStore")),
	}
}

// SupabaseHeaders returns the headers every Supabase API call needs.
func SupabaseHeaders(anonKey string) map[string]string {
	return map[string]string{
		"apikey":        anonKey,
		"Authorization": "Bearer " + anonKey,
		"Accept":        "application/json",
	}
}

// External DTOs. They never leave this package.

type restTag struct {
	ID        int64            `json:"id"`
	Slug      string           `json:"slug"`
	Name      string           `json:"name"`
	Resources []restResourceID `json:"resources,omitempty"`
}

type restResourceID struct {
	ID int64 `json:"id"`
}

type restResource struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	URL         string    `json:"url"`
	Thumbnail   *string   `json:"thumbnail"`
	CreatedAt   time.Time `json:"created_at"`
	Tags        []restTag `json:"tags"`
}

type restResourceTag struct {
	ResourceID int64 `json:"resource_id"`
	TagID      int64 `json:"tag_id"`
}

type restSubmission struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	SubmitterID string    `json:"submitter_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func translateTag(ext *restTag) (domain.Tag, error) {
	if ext.ID <= 0 || ext.Slug == "" {
		return domain.Tag{}, fmt.Errorf("tag %d has no slug or id", ext.ID)
	}

	name := ext.Name
	if name == "" {
		name = ext.Slug
	}

	return domain.Tag{ID: ext.ID, Slug: ext.Slug, Name: name, ResourceCount: len(ext.Resources)}, nil
}

func translateResource(ext *restResource) (domain.Resource, error) {
	if ext.ID <= 0 {
		return domain.Resource{}, fmt.Errorf("resource has invalid id %d", ext.ID)
	}

	tags, err := TranslateSlice(ext.Tags, translateTag)
	if err != nil {
		return domain.Resource{}, fmt.Errorf("resource %d: %w", ext.ID, err)
	}

	slices.SortFunc(tags, func(a, b domain.Tag) int { return cmp.Compare(a.Slug, b.Slug) })

	return domain.Resource{
		ID:          ext.ID,
		Title:       ext.Title,
		Description: deref(ext.Description),
		URL:         ext.URL,
		Thumbnail:   deref(ext.Thumbnail),
		CreatedAt:   ext.CreatedAt.UTC(),
		Tags:        tags,
	}, nil
}

func translateSubmission(ext *restSubmission) (domain.Submission, error) {
	return domain.Submission{
		ID:          ext.ID,
		URL:         ext.URL,
		SubmitterID: ext.SubmitterID,
		Status:      domain.SubmissionStatus(ext.Status),
		CreatedAt:   ext.CreatedAt.UTC(),
	}, nil
}

func (s *PostgRESTStore) listResources(ctx context.Context, query url.Values, target Target) ([]domain.Resource, error) {
	query.Set("select", resourceSelect)
	query.Set("order", newestFirst)

	s.logger.Log(ctx, logging.LevelTrace, "postgrest query", slog.String("query", query.Encode()))

	rows, err := fetch[[]restResource](ctx, &s.BaseAdapter, call{path: "/resources", query: query, target: target})
	if err != nil {
		return nil, err
	}

	out, err := TranslateSlice(rows, translateResource)
	if err != nil {
		return nil, domain.NewUnavailableError(s.serviceName, err.Error())
	}

	return out, nil
}

// ListResources implements ports.ResourceStore.
func (s *PostgRESTStore) ListResources(ctx context.Context) ([]domain.Resource, error) {
	return s.listResources(ctx, url.Values{}, Target{Operation: "list resources", Entity: "resource"})
}

// GetResource implements ports.ResourceStore.
func (s *PostgRESTStore) GetResource(ctx context.Context, id int64) (*domain.Resource, error) {
	raw := strconv.FormatInt(id, 10)
	query := url.Values{"id": {"eq." + raw}, "limit": {"1"}}

	out, err := s.listResources(ctx, query, Target{Operation: "get resource", Entity: "resource", ID: raw})
	if err != nil {
		return nil, err
	}

	if len(out) == 0 {
		return nil, domain.NewNotFoundError("resource", raw)
	}

	return &out[0], nil
}

// ListResourcesByIDs implements ports.ResourceStore.
func (s *PostgRESTStore) ListResourcesByIDs(ctx context.Context, ids []int64) ([]domain.Resource, error) {
	if len(ids) == 0 {
		return []domain.Resource{}, nil
	}

	return s.listResources(ctx, url.Values{"id": {inList(ids)}},
		Target{Operation: "list resources by id", Entity: "resource"})
}

// ListTagIDsForResource implements ports.ResourceStore.
func (s *PostgRESTStore) ListTagIDsForResource(ctx context.Context, resourceID int64) ([]int64, error) {
	query := url.Values{
		"select":      {"tag_id"},
		"resource_id": {"eq." + strconv.FormatInt(resourceID, 10)},
	}

	rows, err := fetch[[]restResourceTag](ctx, &s.BaseAdapter, call{
		path: "/resource_tags", query: query,
		target: Target{Operation: "list tag ids", Entity: "resource_tag"},
	})
	if err != nil {
		return nil, err
	}

	return sortedUnique(rows, func(r restResourceTag) int64 { return r.TagID }), nil
}

// ListResourceIDsForTags implements ports.ResourceStore.
func (s *PostgRESTStore) ListResourceIDsForTags(ctx context.Context, tagIDs []int64) ([]int64, error) {
	if len(tagIDs) == 0 {
		return []int64{}, nil
	}

	query := url.Values{
		"select": {"resource_id"},
		"tag_id": {inList(tagIDs)},
	}

	rows, err := fetch[[]restResourceTag](ctx, &s.BaseAdapter, call{
		path: "/resource_tags", query: query,
		target: Target{Operation: "list resource ids", Entity: "resource_tag"},
	})
	if err != nil {
		return nil, err
	}

	return sortedUnique(rows, func(r restResourceTag) int64 { return r.ResourceID }), nil
}

// ListTags implements ports.ResourceStore.
func (s *PostgRESTStore) ListTags(ctx context.Context) ([]domain.Tag, error) {
	query := url.Values{
		"select": {"*,resources(id)"},
		"order":  {"slug.asc"},
	}

	rows, err := fetch[[]restTag](ctx, &s.BaseAdapter, call{
		path: "/tags", query: query,
		target: Target{Operation: "list tags", Entity: "tag"},
	})
	if err != nil {
		return nil, err
	}

	out, err := TranslateSlice(rows, translateTag)
	if err != nil {
		return nil, domain.NewUnavailableError(s.serviceName, err.Error())
	}

	return out, nil
}

// CreateSubmission implements ports.SubmissionStore.
func (s *PostgRESTStore) CreateSubmission(ctx context.Context, sub *domain.Submission) error {
	body, err := json.Marshal(restSubmission{
		ID:          sub.ID,
		URL:         sub.URL,
		SubmitterID: sub.SubmitterID,
		Status:      string(sub.Status),
		CreatedAt:   sub.CreatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}

	resp, err := s.do(ctx, call{
		method: http.MethodPost,
		path:   "/submissions",
		header: http.Header{"Prefer": {"return=minimal"}},
		body:   body,
		target: Target{Operation: "create submission", Entity: "submission", ID: sub.ID},
	})
	if err != nil {
		if domain.IsConflict(err) {
			return domain.NewConflictError("submission", "url is already waiting for review")
		}

		return err
	}

	drain(resp)

	return nil
}

// DeleteSubmission implements ports.SubmissionStore.
func (s *PostgRESTStore) DeleteSubmission(ctx context.Context, id string) error {
	resp, err := s.do(ctx, call{
		method: http.MethodDelete,
		path:   "/submissions",
		query:  url.Values{"id": {"eq." + id}},
		target: Target{Operation: "delete submission", Entity: "submission", ID: id},
	})
	if err != nil {
		return err
	}

	drain(resp)

	return nil
}

// ListSubmissions implements ports.SubmissionStore.
func (s *PostgRESTStore) ListSubmissions(ctx context.Context, status domain.SubmissionStatus) ([]domain.Submission, error) {
	query := url.Values{
		"status": {"eq." + string(status)},
		"order":  {"created_at.desc,id.asc"},
	}

	rows, err := fetch[[]restSubmission](ctx, &s.BaseAdapter, call{
		path: "/submissions", query: query,
		target: Target{Operation: "list submissions", Entity: "submission"},
	})
	if err != nil {
		return nil, err
	}

	return TranslateSlice(rows, translateSubmission)
}

// inList renders ids as a PostgREST in.(...) filter.
func inList(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}

	return "in.(" + strings.Join(parts, ",") + ")"
}

func sortedUnique[T any](rows []T, key func(T) int64) []int64 {
	out := make([]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, key(r))
	}

	slices.Sort(out)

	return slices.Compact(out)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

func drain(resp *http.Response) {
	_ = resp.Body.Close()
}
