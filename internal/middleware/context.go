package middleware

import "context"

// contextKey defines a custom type for context keys to avoid collisions.
type contextKey string

const (
	userContextKey = contextKey("user")
	langContextKey = contextKey("lang")
)

// Anonymous is the subject of requests without a logged-in user.
const Anonymous = "anonymous"

// UserInfo represents the essential user information stored in the session and request context.
type UserInfo struct {
	Subject string
	Name    string
}

// IsAnonymous reports whether the request has no logged-in user.
func (u *UserInfo) IsAnonymous() bool {
	return u.Subject == Anonymous
}

// GetUserInfo retrieves the user information from the request context.
func GetUserInfo(ctx context.Context) *UserInfo {
	if userInfo, ok := ctx.Value(userContextKey).(*UserInfo); ok {
		return userInfo
	}
	// Return an anonymous user if no user info is found in the context.
	return &UserInfo{Subject: Anonymous}
}

// SetUserInfo adds the user information to the request context.
func SetUserInfo(ctx context.Context, userInfo *UserInfo) context.Context {
	return context.WithValue(ctx, userContextKey, userInfo)
}

// Lang returns the language code requested by the visitor, or "" when the
// request did not ask for one.
func Lang(ctx context.Context) string {
	lang, _ := ctx.Value(langContextKey).(string)
	return lang
}

// WithLang stores the requested language code in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langContextKey, lang)
}
