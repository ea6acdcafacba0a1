package middleware

import (
	"net/http"
	"strings"
	"time"

	"portfolio-cms/internal/i18n"

	"golang.org/x/text/language"
)

// LangCookie remembers the visitor's language choice.
const LangCookie = "lang"

// Language determines the visitor's language and stores it in the request
// context. A "lang" query parameter wins and is remembered in a cookie, then
// the cookie, then the first Accept-Language tag. Handlers treat an empty
// code as "use the default language".
func Language(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := normalizeLang(r.URL.Query().Get("lang"))
		if lang != "" {
			http.SetCookie(w, &http.Cookie{
				Name:     LangCookie,
				Value:    lang,
				Path:     "/",
				MaxAge:   int(365 * 24 * time.Hour / time.Second),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				Secure:   r.TLS != nil,
			})
		}
		if lang == "" {
			if c, err := r.Cookie(LangCookie); err == nil {
				lang = normalizeLang(c.Value)
			}
		}
		if lang == "" {
			lang = acceptLanguage(r.Header.Get("Accept-Language"))
		}
		next.ServeHTTP(w, r.WithContext(WithLang(r.Context(), lang)))
	})
}

func normalizeLang(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if !i18n.ValidCode(code) {
		return ""
	}
	return code
}

// acceptLanguage returns the base language of the preferred tag.
func acceptLanguage(header string) string {
	if header == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}
	base, conf := tags[0].Base()
	if conf == language.No {
		return ""
	}
	return normalizeLang(base.String())
}
