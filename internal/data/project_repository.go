package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const projectColumns = `id, content_type_id, slug, featured, published, created_by, created_at, updated_at`

const projectTranslationQuery = `SELECT t.id, t.project_id, t.language_id, l.code, t.title, t.description, t.materials
	FROM project_translations t
	JOIN languages l ON l.id = t.language_id`

// ProjectFilter narrows a project listing. Nil flags are ignored.
type ProjectFilter struct {
	Featured      *bool
	Published     *bool
	IncludeImages bool
}

// SQLProjectRepository stores projects with their translations and images.
type SQLProjectRepository struct {
	db *sqlx.DB
}

// NewSQLProjectRepository creates a new SQLProjectRepository.
func NewSQLProjectRepository(db *sqlx.DB) *SQLProjectRepository {
	return &SQLProjectRepository{db: db}
}

// List returns the projects matching filter, newest first, with their
// translations and optionally their images.
func (r *SQLProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]Project, error) {
	var where []string
	var args []any
	if filter.Featured != nil {
		where = append(where, "featured = ?")
		args = append(args, *filter.Featured)
	}
	if filter.Published != nil {
		where = append(where, "published = ?")
		args = append(args, *filter.Published)
	}
	query := `SELECT ` + projectColumns + ` FROM projects`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	projects := []Project{}
	if err := r.db.SelectContext(ctx, &projects, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	if len(projects) == 0 {
		return projects, nil
	}

	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	translations, err := r.translationsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	var images map[string][]ProjectImage
	if filter.IncludeImages {
		if images, err = r.imagesFor(ctx, ids); err != nil {
			return nil, err
		}
	}
	for i := range projects {
		projects[i].Translations = nonNil(translations[projects[i].ID])
		if filter.IncludeImages {
			projects[i].Images = nonNil(images[projects[i].ID])
		}
	}
	return projects, nil
}

// Get retrieves a project with its translations and images.
func (r *SQLProjectRepository) Get(ctx context.Context, id string) (*Project, error) {
	var p Project
	if err := r.db.GetContext(ctx, &p, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id); err != nil {
		return nil, wrapErr(err, fmt.Sprintf("get project %s", id))
	}
	translations, err := r.translationsFor(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	images, err := r.imagesFor(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	p.Translations = nonNil(translations[id])
	p.Images = nonNil(images[id])
	return &p, nil
}

func (r *SQLProjectRepository) translationsFor(ctx context.Context, ids []string) (map[string][]ProjectTranslation, error) {
	query, args, err := sqlx.In(projectTranslationQuery+` WHERE t.project_id IN (?) ORDER BY l.code`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build translation query: %w", err)
	}
	var rows []ProjectTranslation
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to load project translations: %w", err)
	}
	out := make(map[string][]ProjectTranslation)
	for _, t := range rows {
		out[t.ProjectID] = append(out[t.ProjectID], t)
	}
	return out, nil
}

func (r *SQLProjectRepository) imagesFor(ctx context.Context, ids []string) (map[string][]ProjectImage, error) {
	query, args, err := sqlx.In(`SELECT id, project_id, original_url, thumbnail_url, alt, sort_order
		FROM project_images WHERE project_id IN (?) ORDER BY sort_order, id`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build image query: %w", err)
	}
	var rows []ProjectImage
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to load project images: %w", err)
	}
	out := make(map[string][]ProjectImage)
	for _, img := range rows {
		out[img.ProjectID] = append(out[img.ProjectID], img)
	}
	return out, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Create inserts a project with its translations and images.
func (r *SQLProjectRepository) Create(ctx context.Context, p *Project) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt
	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `INSERT INTO projects (` + projectColumns + `)
			VALUES (:id, :content_type_id, :slug, :featured, :published, :created_by, :created_at, :updated_at)`
		if _, err := tx.NamedExecContext(ctx, query, p); err != nil {
			return wrapErr(err, "create project")
		}
		if err := insertProjectTranslations(ctx, tx, p.ID, p.Translations); err != nil {
			return err
		}
		return insertProjectImages(ctx, tx, p.ID, p.Images)
	})
}

// Update writes the scalar fields of a project. Translations and images are
// replaced when the respective slice is non-nil.
func (r *SQLProjectRepository) Update(ctx context.Context, p *Project) error {
	p.UpdatedAt = now()
	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `UPDATE projects SET content_type_id = :content_type_id, slug = :slug, featured = :featured,
			published = :published, updated_at = :updated_at WHERE id = :id`
		res, err := tx.NamedExecContext(ctx, query, p)
		if err != nil {
			return wrapErr(err, fmt.Sprintf("update project %s", p.ID))
		}
		if err := checkAffected(res, fmt.Sprintf("update project %s", p.ID)); err != nil {
			return err
		}
		if p.Translations != nil {
			if err := replaceProjectTranslations(ctx, tx, p.ID, p.Translations); err != nil {
				return err
			}
		}
		if p.Images != nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM project_images WHERE project_id = ?`, p.ID); err != nil {
				return fmt.Errorf("failed to clear project images: %w", err)
			}
			if err := insertProjectImages(ctx, tx, p.ID, p.Images); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceTranslations swaps the full translation set of a project in one
// transaction, so readers see either the old or the new set.
func (r *SQLProjectRepository) ReplaceTranslations(ctx context.Context, projectID string, translations []ProjectTranslation) error {
	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE projects SET updated_at = ? WHERE id = ?`, now(), projectID); err != nil {
			return fmt.Errorf("failed to touch project: %w", err)
		}
		return replaceProjectTranslations(ctx, tx, projectID, translations)
	})
}

func replaceProjectTranslations(ctx context.Context, tx *sqlx.Tx, projectID string, translations []ProjectTranslation) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM project_translations WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("failed to clear project translations: %w", err)
	}
	return insertProjectTranslations(ctx, tx, projectID, translations)
}

func insertProjectTranslations(ctx context.Context, tx *sqlx.Tx, projectID string, translations []ProjectTranslation) error {
	for i := range translations {
		t := &translations[i]
		t.ID = uuid.NewString()
		t.ProjectID = projectID
		if t.Materials == nil {
			t.Materials = StringList{}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO project_translations (id, project_id, language_id, title, description, materials) VALUES (?, ?, ?, ?, ?, ?)`,
			t.ID, t.ProjectID, t.LanguageID, t.Title, t.Description, t.Materials)
		if err != nil {
			return wrapErr(err, "insert project translation")
		}
	}
	return nil
}

func insertProjectImages(ctx context.Context, tx *sqlx.Tx, projectID string, images []ProjectImage) error {
	for i := range images {
		img := &images[i]
		if img.ID == "" {
			img.ID = uuid.NewString()
		}
		img.ProjectID = projectID
		_, err := tx.NamedExecContext(ctx, `INSERT INTO project_images (id, project_id, original_url, thumbnail_url, alt, sort_order)
			VALUES (:id, :project_id, :original_url, :thumbnail_url, :alt, :sort_order)`, img)
		if err != nil {
			return wrapErr(err, "insert project image")
		}
	}
	return nil
}

// ToggleFeatured flips the featured flag and returns the new value.
func (r *SQLProjectRepository) ToggleFeatured(ctx context.Context, id string) (bool, error) {
	return r.toggle(ctx, id, "featured")
}

// TogglePublished flips the published flag and returns the new value.
func (r *SQLProjectRepository) TogglePublished(ctx context.Context, id string) (bool, error) {
	return r.toggle(ctx, id, "published")
}

func (r *SQLProjectRepository) toggle(ctx context.Context, id, column string) (bool, error) {
	var value bool
	err := inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `UPDATE projects SET ` + column + ` = CASE WHEN ` + column + ` = 1 THEN 0 ELSE 1 END, updated_at = ? WHERE id = ?`
		res, err := tx.ExecContext(ctx, query, now(), id)
		if err != nil {
			return fmt.Errorf("failed to toggle %s: %w", column, err)
		}
		if err := checkAffected(res, fmt.Sprintf("toggle project %s", id)); err != nil {
			return err
		}
		return tx.GetContext(ctx, &value, `SELECT `+column+` FROM projects WHERE id = ?`, id)
	})
	return value, err
}

// Delete removes a project along with its translations and images.
// Media items that referenced it are kept and detached.
func (r *SQLProjectRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return checkAffected(res, fmt.Sprintf("delete project %s", id))
}

// PublishedSlugs lists the slugs of published projects that have one.
func (r *SQLProjectRepository) PublishedSlugs(ctx context.Context) ([]string, error) {
	slugs := []string{}
	query := `SELECT slug FROM projects WHERE published = 1 AND slug IS NOT NULL ORDER BY slug`
	if err := r.db.SelectContext(ctx, &slugs, query); err != nil {
		return nil, fmt.Errorf("failed to list project slugs: %w", err)
	}
	return slugs, nil
}

// ListContentTypes returns every content type ordered by name.
func (r *SQLProjectRepository) ListContentTypes(ctx context.Context) ([]ContentType, error) {
	types := []ContentType{}
	if err := r.db.SelectContext(ctx, &types, `SELECT id, name FROM content_types ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list content types: %w", err)
	}
	return types, nil
}

// EnsureContentType returns the content type with the given name, creating it
// when missing.
func (r *SQLProjectRepository) EnsureContentType(ctx context.Context, name string) (*ContentType, error) {
	var ct ContentType
	err := inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &ct, `SELECT id, name FROM content_types WHERE name = ?`, name)
		if err == nil {
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to get content type: %w", err)
		}
		ct = ContentType{ID: uuid.NewString(), Name: name}
		_, err = tx.ExecContext(ctx, `INSERT INTO content_types (id, name) VALUES (?, ?)`, ct.ID, ct.Name)
		return wrapErr(err, "create content type")
	})
	if err != nil {
		return nil, err
	}
	return &ct, nil
}
