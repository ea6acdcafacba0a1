package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"portfolio-cms/internal/config"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Keys stored in the session.
const (
	KeySubject = "user_subject"
	KeyName    = "user_name"
	KeyState   = "oauth_state"
)

// Manager is an interface that abstracts the session management implementation.
// This allows for easier testing and dependency injection.
type Manager interface {
	LoadAndSave(next http.Handler) http.Handler
	Put(ctx context.Context, key string, val interface{})
	GetString(ctx context.Context, key string) string
	PopString(ctx context.Context, key string) string
	RenewToken(ctx context.Context) error
	Destroy(ctx context.Context) error
	Remove(ctx context.Context, key string)
}

var _ Manager = (*scs.SessionManager)(nil)

// New creates a session manager that stores sessions in the application
// database, using the store that matches the driver.
func New(db *sql.DB, driver string, cfg config.SessionConfig, secure bool) *scs.SessionManager {
	sm := scs.New()
	if driver == "sqlite3" {
		sm.Store = sqlite3store.New(db)
	} else {
		sm.Store = mysqlstore.New(db)
	}
	sm.Lifetime = time.Duration(cfg.Lifetime) * time.Hour
	sm.Cookie.Name = "portfolio_session"
	sm.Cookie.Persist = true
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = secure
	return sm
}
