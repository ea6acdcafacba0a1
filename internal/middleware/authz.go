package middleware

import (
	"encoding/json"
	"net/http"

	"portfolio-cms/internal/logger"
	"portfolio-cms/internal/session"
)

// Enforcer decides whether a subject may perform an action on an object.
// *casbin.Enforcer satisfies it.
type Enforcer interface {
	Enforce(rvals ...interface{}) (bool, error)
}

// Authenticate puts the session user, or an anonymous user, into the
// request context.
func Authenticate(sm session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := sm.GetString(r.Context(), session.KeySubject)
			if subject == "" {
				subject = Anonymous
			}
			userInfo := &UserInfo{Subject: subject, Name: sm.GetString(r.Context(), session.KeyName)}
			next.ServeHTTP(w, r.WithContext(SetUserInfo(r.Context(), userInfo)))
		})
	}
}

// RequireAdmin guards the admin API. Requests without a session get 401,
// requests the policy does not allow get 403. Both stop before the handler runs.
func RequireAdmin(e Enforcer, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUserInfo(r.Context())
			if user.IsAnonymous() {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			allowed, err := e.Enforce(user.Subject, r.URL.Path, r.Method)
			if err != nil {
				log.Error(err, "Authorization check failed")
				writeError(w, http.StatusInternalServerError, "Authorization error")
				return
			}
			if !allowed {
				writeError(w, http.StatusForbidden, "Forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeError writes {"error": message} with the given status.
func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
