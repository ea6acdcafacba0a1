package data

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLPageDocumentRepository stores page-builder documents as JSON text.
type SQLPageDocumentRepository struct {
	db *sqlx.DB
}

// NewSQLPageDocumentRepository creates a new SQLPageDocumentRepository.
func NewSQLPageDocumentRepository(db *sqlx.DB) *SQLPageDocumentRepository {
	return &SQLPageDocumentRepository{db: db}
}

// Get retrieves the document stored under name.
func (r *SQLPageDocumentRepository) Get(ctx context.Context, name string) (*PageDocument, error) {
	var doc PageDocument
	query := `SELECT name, components, updated_at FROM page_documents WHERE name = ?`
	if err := r.db.GetContext(ctx, &doc, query, name); err != nil {
		return nil, wrapErr(err, fmt.Sprintf("get page document %q", name))
	}
	return &doc, nil
}

// Save creates or replaces the document stored under doc.Name.
func (r *SQLPageDocumentRepository) Save(ctx context.Context, doc *PageDocument) error {
	doc.UpdatedAt = now()
	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var existing int
		if err := tx.GetContext(ctx, &existing, `SELECT COUNT(*) FROM page_documents WHERE name = ?`, doc.Name); err != nil {
			return fmt.Errorf("failed to look up page document: %w", err)
		}
		query := `INSERT INTO page_documents (name, components, updated_at) VALUES (:name, :components, :updated_at)`
		if existing > 0 {
			query = `UPDATE page_documents SET components = :components, updated_at = :updated_at WHERE name = :name`
		}
		if _, err := tx.NamedExecContext(ctx, query, doc); err != nil {
			return wrapErr(err, "save page document")
		}
		return nil
	})
}
