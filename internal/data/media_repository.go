package data

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const mediaColumns = `id, filename, original_url, thumbnail_url, alt, size, width, height, mime_type, project_id, sort_order, tags, category, created_at`

// SQLMediaRepository stores media library entries.
type SQLMediaRepository struct {
	db *sqlx.DB
}

// NewSQLMediaRepository creates a new SQLMediaRepository.
func NewSQLMediaRepository(db *sqlx.DB) *SQLMediaRepository {
	return &SQLMediaRepository{db: db}
}

// Create inserts a media item.
func (r *SQLMediaRepository) Create(ctx context.Context, m *MediaItem) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Tags == nil {
		m.Tags = StringList{}
	}
	m.CreatedAt = now()
	query := `INSERT INTO media_items (` + mediaColumns + `) VALUES (:id, :filename, :original_url, :thumbnail_url, :alt,
		:size, :width, :height, :mime_type, :project_id, :sort_order, :tags, :category, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return wrapErr(err, "create media item")
	}
	return nil
}

// Get retrieves a media item by id.
func (r *SQLMediaRepository) Get(ctx context.Context, id string) (*MediaItem, error) {
	var m MediaItem
	if err := r.db.GetContext(ctx, &m, `SELECT `+mediaColumns+` FROM media_items WHERE id = ?`, id); err != nil {
		return nil, wrapErr(err, fmt.Sprintf("get media item %s", id))
	}
	return &m, nil
}

// List returns media items matching filter. Items attached to a project come
// in display order; everything else is newest first.
func (r *SQLMediaRepository) List(ctx context.Context, filter MediaFilter) ([]MediaItem, error) {
	var where []string
	var args []any
	if filter.Category != "" {
		where = append(where, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.ProjectID != "" {
		where = append(where, "project_id = ?")
		args = append(args, filter.ProjectID)
	}
	query := `SELECT ` + mediaColumns + ` FROM media_items`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if filter.ProjectID != "" {
		query += " ORDER BY sort_order, created_at"
	} else {
		query += " ORDER BY created_at DESC, id"
	}

	items := []MediaItem{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list media items: %w", err)
	}
	if filter.Tag == "" {
		return items, nil
	}
	// Tags are stored as a JSON array, so the tag filter runs here.
	tagged := items[:0]
	for _, m := range items {
		for _, t := range m.Tags {
			if t == filter.Tag {
				tagged = append(tagged, m)
				break
			}
		}
	}
	return tagged, nil
}

// Update writes the editable metadata of a media item.
func (r *SQLMediaRepository) Update(ctx context.Context, m *MediaItem) error {
	if m.Tags == nil {
		m.Tags = StringList{}
	}
	query := `UPDATE media_items SET alt = :alt, tags = :tags, category = :category, project_id = :project_id,
		sort_order = :sort_order WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, m)
	if err != nil {
		return wrapErr(err, fmt.Sprintf("update media item %s", m.ID))
	}
	return checkAffected(res, fmt.Sprintf("update media item %s", m.ID))
}

// Reorder assigns sort_order by position in ids and attaches each item to
// projectID. Unknown ids fail the whole reorder.
func (r *SQLMediaRepository) Reorder(ctx context.Context, projectID string, ids []string) error {
	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for i, id := range ids {
			res, err := tx.ExecContext(ctx, `UPDATE media_items SET sort_order = ?, project_id = ? WHERE id = ?`, i, projectID, id)
			if err != nil {
				return wrapErr(err, "reorder media")
			}
			if err := checkAffected(res, fmt.Sprintf("reorder media item %s", id)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a media item row.
func (r *SQLMediaRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM media_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete media item: %w", err)
	}
	return checkAffected(res, fmt.Sprintf("delete media item %s", id))
}
