package data

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SQLTranslationRepository stores UI-string keys and their values.
type SQLTranslationRepository struct {
	db *sqlx.DB
}

// NewSQLTranslationRepository creates a new SQLTranslationRepository.
func NewSQLTranslationRepository(db *sqlx.DB) *SQLTranslationRepository {
	return &SQLTranslationRepository{db: db}
}

// ListKeys returns every key ordered by name.
func (r *SQLTranslationRepository) ListKeys(ctx context.Context) ([]TranslationKey, error) {
	keys := []TranslationKey{}
	query := `SELECT id, translation_key, description, created_at FROM translation_keys ORDER BY translation_key`
	if err := r.db.SelectContext(ctx, &keys, query); err != nil {
		return nil, fmt.Errorf("failed to list translation keys: %w", err)
	}
	return keys, nil
}

// GetKey retrieves a key by id.
func (r *SQLTranslationRepository) GetKey(ctx context.Context, id string) (*TranslationKey, error) {
	var key TranslationKey
	query := `SELECT id, translation_key, description, created_at FROM translation_keys WHERE id = ?`
	if err := r.db.GetContext(ctx, &key, query, id); err != nil {
		return nil, wrapErr(err, fmt.Sprintf("get translation key %s", id))
	}
	return &key, nil
}

// CreateKey inserts a new key.
func (r *SQLTranslationRepository) CreateKey(ctx context.Context, key *TranslationKey) error {
	if key.ID == "" {
		key.ID = uuid.NewString()
	}
	key.CreatedAt = now()
	query := `INSERT INTO translation_keys (id, translation_key, description, created_at)
		VALUES (:id, :translation_key, :description, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, key); err != nil {
		return wrapErr(err, fmt.Sprintf("create translation key %q", key.Key))
	}
	return nil
}

// UpdateKey renames a key or changes its description.
func (r *SQLTranslationRepository) UpdateKey(ctx context.Context, key *TranslationKey) error {
	query := `UPDATE translation_keys SET translation_key = :translation_key, description = :description WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, key)
	if err != nil {
		return wrapErr(err, fmt.Sprintf("update translation key %s", key.ID))
	}
	return checkAffected(res, fmt.Sprintf("update translation key %s", key.ID))
}

// DeleteKey removes a key and all of its values.
func (r *SQLTranslationRepository) DeleteKey(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM translation_keys WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete translation key: %w", err)
	}
	return checkAffected(res, fmt.Sprintf("delete translation key %s", id))
}

// Values returns every stored value joined with its key and language code.
func (r *SQLTranslationRepository) Values(ctx context.Context) ([]TranslationValue, error) {
	values := []TranslationValue{}
	query := `SELECT t.key_id, k.translation_key, l.code, t.value
		FROM translations t
		JOIN translation_keys k ON k.id = t.key_id
		JOIN languages l ON l.id = t.language_id
		ORDER BY k.translation_key, l.code`
	if err := r.db.SelectContext(ctx, &values, query); err != nil {
		return nil, fmt.Errorf("failed to list translations: %w", err)
	}
	return values, nil
}

// ValuesForLanguage returns the values stored for one language.
func (r *SQLTranslationRepository) ValuesForLanguage(ctx context.Context, languageID string) ([]TranslationValue, error) {
	values := []TranslationValue{}
	query := `SELECT t.key_id, k.translation_key, l.code, t.value
		FROM translations t
		JOIN translation_keys k ON k.id = t.key_id
		JOIN languages l ON l.id = t.language_id
		WHERE t.language_id = ?
		ORDER BY k.translation_key`
	if err := r.db.SelectContext(ctx, &values, query, languageID); err != nil {
		return nil, fmt.Errorf("failed to list translations for language: %w", err)
	}
	return values, nil
}

// Upsert sets the value of a key in a language, creating the row when it
// does not exist yet.
func (r *SQLTranslationRepository) Upsert(ctx context.Context, keyID, languageID, value string) error {
	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		ts := now()
		var existing int
		err := tx.GetContext(ctx, &existing,
			`SELECT COUNT(*) FROM translations WHERE key_id = ? AND language_id = ?`, keyID, languageID)
		if err != nil {
			return fmt.Errorf("failed to look up translation: %w", err)
		}
		if existing > 0 {
			_, err := tx.ExecContext(ctx,
				`UPDATE translations SET value = ?, updated_at = ? WHERE key_id = ? AND language_id = ?`,
				value, ts, keyID, languageID)
			if err != nil {
				return fmt.Errorf("failed to update translation: %w", err)
			}
			return nil
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO translations (id, key_id, language_id, value, updated_at) VALUES (?, ?, ?, ?, ?)`,
			uuid.NewString(), keyID, languageID, value, ts)
		return wrapErr(err, "insert translation")
	})
}

// CountKeys returns the number of translation keys.
func (r *SQLTranslationRepository) CountKeys(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM translation_keys`); err != nil {
		return 0, fmt.Errorf("failed to count translation keys: %w", err)
	}
	return n, nil
}

// CountTranslated returns, per language id, the number of non-empty values.
func (r *SQLTranslationRepository) CountTranslated(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		LanguageID string `db:"language_id"`
		Count      int    `db:"translated"`
	}
	query := `SELECT language_id, COUNT(*) AS translated FROM translations WHERE value <> '' GROUP BY language_id`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to count translations: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.LanguageID] = row.Count
	}
	return counts, nil
}
