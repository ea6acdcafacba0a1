package data

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const languageColumns = `id, code, name, is_default, is_active, created_at`

// SQLLanguageRepository stores languages using sqlx.
type SQLLanguageRepository struct {
	db *sqlx.DB
}

// NewSQLLanguageRepository creates a new SQLLanguageRepository.
func NewSQLLanguageRepository(db *sqlx.DB) *SQLLanguageRepository {
	return &SQLLanguageRepository{db: db}
}

// List returns every language, default first, then active ones, then by code.
func (r *SQLLanguageRepository) List(ctx context.Context) ([]Language, error) {
	langs := []Language{}
	query := `SELECT ` + languageColumns + ` FROM languages ORDER BY is_default DESC, is_active DESC, code ASC`
	if err := r.db.SelectContext(ctx, &langs, query); err != nil {
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}
	return langs, nil
}

// GetByID retrieves a language by id.
func (r *SQLLanguageRepository) GetByID(ctx context.Context, id string) (*Language, error) {
	var lang Language
	query := `SELECT ` + languageColumns + ` FROM languages WHERE id = ?`
	if err := r.db.GetContext(ctx, &lang, query, id); err != nil {
		return nil, wrapErr(err, fmt.Sprintf("get language %s", id))
	}
	return &lang, nil
}

// GetByCode retrieves a language by its code.
func (r *SQLLanguageRepository) GetByCode(ctx context.Context, code string) (*Language, error) {
	var lang Language
	query := `SELECT ` + languageColumns + ` FROM languages WHERE code = ?`
	if err := r.db.GetContext(ctx, &lang, query, code); err != nil {
		return nil, wrapErr(err, fmt.Sprintf("get language %q", code))
	}
	return &lang, nil
}

// GetDefault retrieves the default language.
func (r *SQLLanguageRepository) GetDefault(ctx context.Context) (*Language, error) {
	var lang Language
	query := `SELECT ` + languageColumns + ` FROM languages WHERE is_default = 1 LIMIT 1`
	if err := r.db.GetContext(ctx, &lang, query); err != nil {
		return nil, wrapErr(err, "get default language")
	}
	return &lang, nil
}

// Create inserts a language. The first language ever created becomes the
// default regardless of the requested flag. A request for a new default
// demotes the previous one in the same transaction.
func (r *SQLLanguageRepository) Create(ctx context.Context, lang *Language) error {
	if lang.ID == "" {
		lang.ID = uuid.NewString()
	}
	lang.CreatedAt = now()

	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var count int
		if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM languages`); err != nil {
			return fmt.Errorf("failed to count languages: %w", err)
		}
		if count == 0 {
			lang.IsDefault = true
		}
		if lang.IsDefault {
			lang.IsActive = true
			if _, err := tx.ExecContext(ctx, `UPDATE languages SET is_default = 0 WHERE is_default = 1`); err != nil {
				return fmt.Errorf("failed to clear default language: %w", err)
			}
		}
		query := `INSERT INTO languages (` + languageColumns + `) VALUES (:id, :code, :name, :is_default, :is_active, :created_at)`
		if _, err := tx.NamedExecContext(ctx, query, lang); err != nil {
			return wrapErr(err, fmt.Sprintf("create language %q", lang.Code))
		}
		return nil
	})
}

// Update writes the code, name and active flag of a language. The default
// flag is only changed through SetDefault.
func (r *SQLLanguageRepository) Update(ctx context.Context, lang *Language) error {
	query := `UPDATE languages SET code = :code, name = :name, is_active = :is_active WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, lang)
	if err != nil {
		return wrapErr(err, fmt.Sprintf("update language %s", lang.ID))
	}
	return checkAffected(res, fmt.Sprintf("update language %s", lang.ID))
}

// SetDefault makes id the only default language in a single statement, so no
// reader ever observes zero or two defaults. The new default is also
// activated.
func (r *SQLLanguageRepository) SetDefault(ctx context.Context, id string) error {
	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var exists int
		if err := tx.GetContext(ctx, &exists, `SELECT COUNT(*) FROM languages WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to look up language: %w", err)
		}
		if exists == 0 {
			return fmt.Errorf("set default language %s: %w", id, ErrNotFound)
		}
		query := `UPDATE languages
			SET is_default = CASE WHEN id = ? THEN 1 ELSE 0 END,
			    is_active = CASE WHEN id = ? THEN 1 ELSE is_active END`
		if _, err := tx.ExecContext(ctx, query, id, id); err != nil {
			return fmt.Errorf("failed to set default language: %w", err)
		}
		return nil
	})
}

// Delete removes a language and, through cascading keys, its translations.
func (r *SQLLanguageRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM languages WHERE id = ?`, id)
	if err != nil {
		return wrapErr(err, fmt.Sprintf("delete language %s", id))
	}
	return checkAffected(res, fmt.Sprintf("delete language %s", id))
}
