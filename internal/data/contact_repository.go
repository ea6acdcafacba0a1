package data

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const contactColumns = `id, name, email, project_type, message, privacy_accepted, marketing_consent, is_read, replied, created_at`

// SQLContactRepository stores contact form submissions.
type SQLContactRepository struct {
	db *sqlx.DB
}

// NewSQLContactRepository creates a new SQLContactRepository.
func NewSQLContactRepository(db *sqlx.DB) *SQLContactRepository {
	return &SQLContactRepository{db: db}
}

// Create inserts a message.
func (r *SQLContactRepository) Create(ctx context.Context, m *ContactMessage) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = now()
	query := `INSERT INTO contact_messages (` + contactColumns + `) VALUES (:id, :name, :email, :project_type, :message,
		:privacy_accepted, :marketing_consent, :is_read, :replied, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return wrapErr(err, "create contact message")
	}
	return nil
}

// List returns every message, newest first.
func (r *SQLContactRepository) List(ctx context.Context) ([]ContactMessage, error) {
	msgs := []ContactMessage{}
	query := `SELECT ` + contactColumns + ` FROM contact_messages ORDER BY created_at DESC, id`
	if err := r.db.SelectContext(ctx, &msgs, query); err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	return msgs, nil
}

// Get retrieves a message by id.
func (r *SQLContactRepository) Get(ctx context.Context, id string) (*ContactMessage, error) {
	var m ContactMessage
	if err := r.db.GetContext(ctx, &m, `SELECT `+contactColumns+` FROM contact_messages WHERE id = ?`, id); err != nil {
		return nil, wrapErr(err, fmt.Sprintf("get contact message %s", id))
	}
	return &m, nil
}

// SetRead sets the read flag of a message.
func (r *SQLContactRepository) SetRead(ctx context.Context, id string, read bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE contact_messages SET is_read = ? WHERE id = ?`, read, id)
	if err != nil {
		return fmt.Errorf("failed to update contact message: %w", err)
	}
	return checkAffected(res, fmt.Sprintf("mark contact message %s", id))
}

// SetReplied sets the replied flag of a message. A replied message is also read.
func (r *SQLContactRepository) SetReplied(ctx context.Context, id string, replied bool) error {
	query := `UPDATE contact_messages SET replied = ?, is_read = CASE WHEN ? THEN 1 ELSE is_read END WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, replied, replied, id)
	if err != nil {
		return fmt.Errorf("failed to update contact message: %w", err)
	}
	return checkAffected(res, fmt.Sprintf("mark contact message %s", id))
}

// Delete removes a message.
func (r *SQLContactRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact message: %w", err)
	}
	return checkAffected(res, fmt.Sprintf("delete contact message %s", id))
}

// CountUnread returns the number of unread messages.
func (r *SQLContactRepository) CountUnread(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM contact_messages WHERE is_read = 0`); err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return n, nil
}
