package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jsamuelsen/resource-feed/internal/domain"
)

// UpsertTag creates the tag or renames an existing one with the same slug,
// returning its id.
func (s *Store) UpsertTag(ctx context.Context, slug, name string) (int64, error) {
	now := s.dialect.timeArg(s.now())

	var id int64

	err := s.queryRow(ctx, `
		INSERT INTO tags (slug, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (slug) DO UPDATE SET name = excluded.name, updated_at = excluded.updated_at
		RETURNING id`, slug, name, now, now).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert tag %q: %w", slug, err)
	}

	return id, nil
}

// CreateResource inserts a resource and links it to the given tags in one
// transaction. r.ID is set on success; a zero CreatedAt means now.
func (s *Store) CreateResource(ctx context.Context, r *domain.Resource, tagIDs []int64) (err error) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = tx.QueryRowContext(ctx, s.dialect.rebind(`
		INSERT INTO resources (title, description, url, thumbnail, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`),
		r.Title, r.Description, r.URL, r.Thumbnail, s.dialect.timeArg(r.CreatedAt)).Scan(&r.ID)
	if err != nil {
		return fmt.Errorf("insert resource: %w", err)
	}

	if err = s.linkTags(ctx, tx, r.ID, tagIDs); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

func (s *Store) linkTags(ctx context.Context, tx *sql.Tx, resourceID int64, tagIDs []int64) error {
	stmt := s.dialect.rebind(`INSERT INTO resource_tags (resource_id, tag_id) VALUES (?, ?) ON CONFLICT DO NOTHING`)

	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx, stmt, resourceID, tagID); err != nil {
			return fmt.Errorf("link tag %d: %w", tagID, err)
		}
	}

	return nil
}
