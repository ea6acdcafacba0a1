package data

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const eventColumns = `id, session_id, page_path, page_title, referrer, user_agent, language, country, event_type, metadata, created_at`

const pageViewWindow = `event_type = 'pageview' AND created_at >= ? AND created_at <= ?`

// SQLAnalyticsRepository stores cookie consents and analytics events.
type SQLAnalyticsRepository struct {
	db *sqlx.DB
}

// NewSQLAnalyticsRepository creates a new SQLAnalyticsRepository.
func NewSQLAnalyticsRepository(db *sqlx.DB) *SQLAnalyticsRepository {
	return &SQLAnalyticsRepository{db: db}
}

// SaveConsent creates or replaces the consent of a session.
func (r *SQLAnalyticsRepository) SaveConsent(ctx context.Context, c *CookieConsent) error {
	c.UpdatedAt = now()
	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var existing int
		if err := tx.GetContext(ctx, &existing, `SELECT COUNT(*) FROM cookie_consents WHERE session_id = ?`, c.SessionID); err != nil {
			return fmt.Errorf("failed to look up consent: %w", err)
		}
		query := `INSERT INTO cookie_consents (session_id, analytics, marketing, updated_at)
			VALUES (:session_id, :analytics, :marketing, :updated_at)`
		if existing > 0 {
			query = `UPDATE cookie_consents SET analytics = :analytics, marketing = :marketing, updated_at = :updated_at
				WHERE session_id = :session_id`
		}
		if _, err := tx.NamedExecContext(ctx, query, c); err != nil {
			return wrapErr(err, "save consent")
		}
		return nil
	})
}

// GetConsent retrieves the consent of a session.
func (r *SQLAnalyticsRepository) GetConsent(ctx context.Context, sessionID string) (*CookieConsent, error) {
	var c CookieConsent
	query := `SELECT session_id, analytics, marketing, updated_at FROM cookie_consents WHERE session_id = ?`
	if err := r.db.GetContext(ctx, &c, query, sessionID); err != nil {
		return nil, wrapErr(err, "get consent")
	}
	return &c, nil
}

// InsertEvent stores an analytics event.
func (r *SQLAnalyticsRepository) InsertEvent(ctx context.Context, e *AnalyticsEvent) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now()
	}
	e.CreatedAt = stamp(e.CreatedAt)
	query := `INSERT INTO analytics_events (` + eventColumns + `) VALUES (:id, :session_id, :page_path, :page_title,
		:referrer, :user_agent, :language, :country, :event_type, :metadata, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, e); err != nil {
		return wrapErr(err, "insert analytics event")
	}
	return nil
}

// CountPageViews returns the number of page views in [from, to].
func (r *SQLAnalyticsRepository) CountPageViews(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM analytics_events WHERE ` + pageViewWindow
	if err := r.db.GetContext(ctx, &n, query, stamp(from), stamp(to)); err != nil {
		return 0, fmt.Errorf("failed to count page views: %w", err)
	}
	return n, nil
}

// CountVisitors returns the number of distinct sessions with a page view in [from, to].
func (r *SQLAnalyticsRepository) CountVisitors(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	query := `SELECT COUNT(DISTINCT session_id) FROM analytics_events WHERE ` + pageViewWindow
	if err := r.db.GetContext(ctx, &n, query, stamp(from), stamp(to)); err != nil {
		return 0, fmt.Errorf("failed to count visitors: %w", err)
	}
	return n, nil
}

// PageViewsByPath returns view counts per page in [from, to], most viewed
// first. A limit of zero returns every page.
func (r *SQLAnalyticsRepository) PageViewsByPath(ctx context.Context, from, to time.Time, limit int) ([]PageViews, error) {
	rows := []PageViews{}
	query := `SELECT page_path, COUNT(*) AS views FROM analytics_events WHERE ` + pageViewWindow + `
		GROUP BY page_path ORDER BY views DESC, page_path`
	args := []any{stamp(from), stamp(to)}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to count views by page: %w", err)
	}
	return rows, nil
}

// RecentPageViews returns the latest page views in [from, to], newest first.
func (r *SQLAnalyticsRepository) RecentPageViews(ctx context.Context, from, to time.Time, limit int) ([]AnalyticsEvent, error) {
	events := []AnalyticsEvent{}
	query := `SELECT ` + eventColumns + ` FROM analytics_events WHERE ` + pageViewWindow + `
		ORDER BY created_at DESC, id LIMIT ?`
	if err := r.db.SelectContext(ctx, &events, query, stamp(from), stamp(to), limit); err != nil {
		return nil, fmt.Errorf("failed to list recent page views: %w", err)
	}
	return events, nil
}

// PageViewTimes returns the timestamp of every page view in [from, to].
func (r *SQLAnalyticsRepository) PageViewTimes(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	times := []time.Time{}
	query := `SELECT created_at FROM analytics_events WHERE ` + pageViewWindow
	if err := r.db.SelectContext(ctx, &times, query, stamp(from), stamp(to)); err != nil {
		return nil, fmt.Errorf("failed to list page view times: %w", err)
	}
	return times, nil
}

// EventsBetween returns every event in [from, to], newest first.
func (r *SQLAnalyticsRepository) EventsBetween(ctx context.Context, from, to time.Time) ([]AnalyticsEvent, error) {
	events := []AnalyticsEvent{}
	query := `SELECT ` + eventColumns + ` FROM analytics_events WHERE created_at >= ? AND created_at <= ? ORDER BY created_at DESC, id`
	if err := r.db.SelectContext(ctx, &events, query, stamp(from), stamp(to)); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// DeleteBetween removes events in [from, to] and returns how many were deleted.
func (r *SQLAnalyticsRepository) DeleteBetween(ctx context.Context, from, to time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM analytics_events WHERE created_at >= ? AND created_at <= ?`, stamp(from), stamp(to))
	if err != nil {
		return 0, fmt.Errorf("failed to delete events: %w", err)
	}
	return res.RowsAffected()
}

// DeleteBefore removes events older than cutoff and returns how many were deleted.
func (r *SQLAnalyticsRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM analytics_events WHERE created_at < ?`, stamp(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to delete old events: %w", err)
	}
	return res.RowsAffected()
}
