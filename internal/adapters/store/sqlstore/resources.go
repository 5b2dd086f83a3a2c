package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jsamuelsen/resource-feed/internal/domain"
)

// resourceColumns must match the scan order in scanResource.
const resourceColumns = `r.id, r.title, r.description, r.url, r.thumbnail, r.created_at`

const newestFirst = ` ORDER BY r.created_at DESC, r.id DESC`

func scanResource(scanner interface{ Scan(dest ...any) error }) (domain.Resource, error) {
	var (
		r         domain.Resource
		createdAt timestamp
	)

	err := scanner.Scan(&r.ID, &r.Title, &r.Description, &r.URL, &r.Thumbnail, &createdAt)
	if err != nil {
		return domain.Resource{}, err
	}

	r.CreatedAt = createdAt.Time
	r.Tags = []domain.Tag{}

	return r, nil
}

func (s *Store) listResources(ctx context.Context, query string, args ...any) ([]domain.Resource, error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Resource, 0)

	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachTags(ctx, out); err != nil {
		return nil, err
	}

	return out, nil
}

// attachTags loads the tags of every resource in one query.
func (s *Store) attachTags(ctx context.Context, resources []domain.Resource) error {
	if len(resources) == 0 {
		return nil
	}

	index := make(map[int64]int, len(resources))
	ids := make([]int64, len(resources))

	for i, r := range resources {
		index[r.ID] = i
		ids[i] = r.ID
	}

	rows, err := s.query(ctx, `
		SELECT rt.resource_id, t.id, t.slug, t.name
		FROM resource_tags rt
		JOIN tags t ON t.id = rt.tag_id
		WHERE rt.resource_id IN (`+placeholders(len(ids))+`)
		ORDER BY t.slug`, int64Args(ids)...)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			resourceID int64
			t          domain.Tag
		)

		if err := rows.Scan(&resourceID, &t.ID, &t.Slug, &t.Name); err != nil {
			return fmt.Errorf("scan tag: %w", err)
		}

		if i, ok := index[resourceID]; ok {
			resources[i].Tags = append(resources[i].Tags, t)
		}
	}

	return rows.Err()
}

// ListResources implements ports.ResourceStore.
func (s *Store) ListResources(ctx context.Context) ([]domain.Resource, error) {
	out, err := s.listResources(ctx, `SELECT `+resourceColumns+` FROM resources r`+newestFirst)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}

	return out, nil
}

// GetResource implements ports.ResourceStore.
func (s *Store) GetResource(ctx context.Context, id int64) (*domain.Resource, error) {
	r, err := scanResource(s.queryRow(ctx, `SELECT `+resourceColumns+` FROM resources r WHERE r.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("resource", strconv.FormatInt(id, 10))
	}

	if err != nil {
		return nil, fmt.Errorf("get resource %d: %w", id, err)
	}

	one := []domain.Resource{r}
	if err := s.attachTags(ctx, one); err != nil {
		return nil, fmt.Errorf("get resource %d: %w", id, err)
	}

	return &one[0], nil
}

// ListResourcesByIDs implements ports.ResourceStore.
func (s *Store) ListResourcesByIDs(ctx context.Context, ids []int64) ([]domain.Resource, error) {
	if len(ids) == 0 {
		return []domain.Resource{}, nil
	}

	out, err := s.listResources(ctx,
		`SELECT `+resourceColumns+` FROM resources r WHERE r.id IN (`+placeholders(len(ids))+`)`+newestFirst,
		int64Args(ids)...)
	if err != nil {
		return nil, fmt.Errorf("list resources by id: %w", err)
	}

	return out, nil
}

// ListTagIDsForResource implements ports.ResourceStore.
func (s *Store) ListTagIDsForResource(ctx context.Context, resourceID int64) ([]int64, error) {
	rows, err := s.query(ctx, `SELECT tag_id FROM resource_tags WHERE resource_id = ? ORDER BY tag_id`, resourceID)
	if err != nil {
		return nil, fmt.Errorf("list tag ids: %w", err)
	}

	return scanInt64s(rows)
}

// ListResourceIDsForTags implements ports.ResourceStore.
func (s *Store) ListResourceIDsForTags(ctx context.Context, tagIDs []int64) ([]int64, error) {
	if len(tagIDs) == 0 {
		return []int64{}, nil
	}

	rows, err := s.query(ctx,
		`SELECT DISTINCT resource_id FROM resource_tags WHERE tag_id IN (`+placeholders(len(tagIDs))+`) ORDER BY resource_id`,
		int64Args(tagIDs)...)
	if err != nil {
		return nil, fmt.Errorf("list resource ids: %w", err)
	}

	return scanInt64s(rows)
}

// ListTags implements ports.ResourceStore.
func (s *Store) ListTags(ctx context.Context) ([]domain.Tag, error) {
	rows, err := s.query(ctx, `
		SELECT t.id, t.slug, t.name, COUNT(rt.resource_id)
		FROM tags t
		LEFT JOIN resource_tags rt ON rt.tag_id = t.id
		GROUP BY t.id, t.slug, t.name
		ORDER BY t.slug`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Tag, 0)

	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Slug, &t.Name, &t.ResourceCount); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}

		out = append(out, t)
	}

	return out, rows.Err()
}
