package data

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SQLContentRepository stores content pages and their translations.
type SQLContentRepository struct {
	db *sqlx.DB
}

// NewSQLContentRepository creates a new SQLContentRepository.
func NewSQLContentRepository(db *sqlx.DB) *SQLContentRepository {
	return &SQLContentRepository{db: db}
}

const pageTranslationQuery = `SELECT t.id, t.page_id, t.language_id, l.code, t.title, t.content
	FROM content_page_translations t
	JOIN languages l ON l.id = t.language_id`

// List returns every page with its translations, newest first.
func (r *SQLContentRepository) List(ctx context.Context) ([]ContentPage, error) {
	pages := []ContentPage{}
	query := `SELECT id, slug, published, created_at, updated_at FROM content_pages ORDER BY updated_at DESC`
	if err := r.db.SelectContext(ctx, &pages, query); err != nil {
		return nil, fmt.Errorf("failed to list content pages: %w", err)
	}
	var translations []ContentPageTranslation
	if err := r.db.SelectContext(ctx, &translations, pageTranslationQuery+` ORDER BY l.code`); err != nil {
		return nil, fmt.Errorf("failed to list content page translations: %w", err)
	}
	byPage := make(map[string][]ContentPageTranslation)
	for _, t := range translations {
		byPage[t.PageID] = append(byPage[t.PageID], t)
	}
	for i := range pages {
		pages[i].Translations = byPage[pages[i].ID]
		if pages[i].Translations == nil {
			pages[i].Translations = []ContentPageTranslation{}
		}
	}
	return pages, nil
}

// GetByID retrieves a page with its translations.
func (r *SQLContentRepository) GetByID(ctx context.Context, id string) (*ContentPage, error) {
	return r.get(ctx, "id", id)
}

// GetBySlug retrieves a page by its slug. Slugs are matched case-sensitively.
func (r *SQLContentRepository) GetBySlug(ctx context.Context, slug string) (*ContentPage, error) {
	return r.get(ctx, "slug", slug)
}

func (r *SQLContentRepository) get(ctx context.Context, column, value string) (*ContentPage, error) {
	var page ContentPage
	query := `SELECT id, slug, published, created_at, updated_at FROM content_pages WHERE ` + column + ` = ?`
	if err := r.db.GetContext(ctx, &page, query, value); err != nil {
		return nil, wrapErr(err, fmt.Sprintf("get content page %q", value))
	}
	// MySQL's default collation compares case-insensitively.
	if column == "slug" && page.Slug != value {
		return nil, fmt.Errorf("get content page %q: %w", value, ErrNotFound)
	}
	page.Translations = []ContentPageTranslation{}
	if err := r.db.SelectContext(ctx, &page.Translations, pageTranslationQuery+` WHERE t.page_id = ? ORDER BY l.code`, page.ID); err != nil {
		return nil, fmt.Errorf("failed to get content page translations: %w", err)
	}
	return &page, nil
}

// Create inserts a page together with its translations.
func (r *SQLContentRepository) Create(ctx context.Context, page *ContentPage) error {
	if page.ID == "" {
		page.ID = uuid.NewString()
	}
	page.CreatedAt = now()
	page.UpdatedAt = page.CreatedAt
	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `INSERT INTO content_pages (id, slug, published, created_at, updated_at)
			VALUES (:id, :slug, :published, :created_at, :updated_at)`
		if _, err := tx.NamedExecContext(ctx, query, page); err != nil {
			return wrapErr(err, fmt.Sprintf("create content page %q", page.Slug))
		}
		return insertPageTranslations(ctx, tx, page)
	})
}

// Update writes the slug, the published flag and replaces all translations.
func (r *SQLContentRepository) Update(ctx context.Context, page *ContentPage) error {
	page.UpdatedAt = now()
	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `UPDATE content_pages SET slug = :slug, published = :published, updated_at = :updated_at WHERE id = :id`
		res, err := tx.NamedExecContext(ctx, query, page)
		if err != nil {
			return wrapErr(err, fmt.Sprintf("update content page %s", page.ID))
		}
		if err := checkAffected(res, fmt.Sprintf("update content page %s", page.ID)); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM content_page_translations WHERE page_id = ?`, page.ID); err != nil {
			return fmt.Errorf("failed to clear content page translations: %w", err)
		}
		return insertPageTranslations(ctx, tx, page)
	})
}

func insertPageTranslations(ctx context.Context, tx *sqlx.Tx, page *ContentPage) error {
	for i := range page.Translations {
		t := &page.Translations[i]
		t.ID = uuid.NewString()
		t.PageID = page.ID
		_, err := tx.ExecContext(ctx,
			`INSERT INTO content_page_translations (id, page_id, language_id, title, content) VALUES (?, ?, ?, ?, ?)`,
			t.ID, t.PageID, t.LanguageID, t.Title, t.Content)
		if err != nil {
			return wrapErr(err, "insert content page translation")
		}
	}
	return nil
}

// Delete removes a page.
func (r *SQLContentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM content_pages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete content page: %w", err)
	}
	return checkAffected(res, fmt.Sprintf("delete content page %s", id))
}

// SlugTaken reports whether a content page or a project other than
// excludeID already uses slug.
func (r *SQLContentRepository) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	var taken []string
	query := `SELECT slug FROM content_pages WHERE slug = ? AND id <> ?
		UNION ALL
		SELECT slug FROM projects WHERE slug = ? AND id <> ?`
	if err := r.db.SelectContext(ctx, &taken, query, slug, excludeID, slug, excludeID); err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	for _, s := range taken {
		if s == slug {
			return true, nil
		}
	}
	return false, nil
}

// PublishedSlugs lists the slugs of published pages, for the sitemap.
func (r *SQLContentRepository) PublishedSlugs(ctx context.Context) ([]string, error) {
	slugs := []string{}
	if err := r.db.SelectContext(ctx, &slugs, `SELECT slug FROM content_pages WHERE published = 1 ORDER BY slug`); err != nil {
		return nil, fmt.Errorf("failed to list published slugs: %w", err)
	}
	return slugs, nil
}
