package handler

import (
	"io/fs"
	"net/http"
	"strings"

	"portfolio-cms/internal/logger"
	"portfolio-cms/internal/middleware"
	"portfolio-cms/internal/session"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Handlers groups the handlers mounted by NewRouter.
type Handlers struct {
	Site        *SiteHandler
	Auth        *AuthHandler
	SEO         *SeoHandler
	Languages   *LanguageHandler
	Projects    *ProjectHandler
	Content     *ContentHandler
	Media       *MediaHandler
	Contact     *ContactHandler
	Analytics   *AnalyticsHandler
	PageBuilder *PageBuilderHandler
}

// Assets are the file trees served next to the application routes.
type Assets struct {
	Static      fs.FS  // served under /static
	UploadDir   string // directory of uploaded media
	UploadsPath string // URL prefix of uploaded media, e.g. /uploads
}

// NewRouter creates and configures a new chi router.
func NewRouter(h Handlers, sm session.Manager, enforcer middleware.Enforcer, renderer middleware.Renderer, log logger.Logger, assets Assets) *chi.Mux {
	r := chi.NewRouter()

	// A good base middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Use(sm.LoadAndSave)
	r.Use(middleware.Authenticate(sm))
	r.Use(middleware.Language)

	api := func(fn middleware.AppHandler) http.HandlerFunc { return middleware.JSON(log)(fn).ServeHTTP }
	page := func(fn middleware.AppHandler) http.HandlerFunc { return middleware.Error(log, renderer)(fn).ServeHTTP }
	admin := middleware.RequireAdmin(enforcer, log)

	// Assets
	if assets.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(assets.Static))))
	}
	if assets.UploadDir != "" {
		prefix := "/" + strings.Trim(assets.UploadsPath, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix+"/", http.FileServer(http.Dir(assets.UploadDir))))
	}

	// Public site
	r.Get("/", page(h.Site.homeHandler))
	r.Get("/pages/{slug}", page(h.Site.contentHandler))
	r.Get("/projects", page(h.Site.projectsHandler))
	r.Get("/projects/{slug}", page(h.Site.projectHandler))
	r.Get("/robots.txt", h.SEO.robotsHandler)
	r.Get("/sitemap.xml", page(h.SEO.sitemapHandler))

	// Authentication routes
	r.Get("/login", page(h.Auth.handleLogin))
	r.Get("/auth/callback", page(h.Auth.handleCallback))
	r.Get("/logout", page(h.Auth.handleLogout))

	r.Route("/api", func(r chi.Router) {
		// Public API
		r.Get("/auth/me", api(h.Auth.handleMe))
		r.Get("/languages", api(h.Languages.publicLanguages))
		r.Get("/translations/{lang}", api(h.Languages.publicTranslations))
		r.Get("/projects", api(h.Projects.publicList))
		r.Get("/page-builder/{name}", api(h.PageBuilder.load))
		r.Post("/contact", api(h.Contact.submit))
		r.Post("/analytics/consent", api(h.Analytics.consent))
		r.Post("/analytics/track", api(h.Analytics.track))

		// Admin operations outside /api/admin
		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Post("/page-builder/{name}", api(h.PageBuilder.save))
			r.Post("/content/validate-slug", api(h.Content.validateSlug))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(admin)

			r.Get("/languages", api(h.Languages.list))
			r.Post("/languages", api(h.Languages.create))
			r.Put("/languages/{id}", api(h.Languages.update))
			r.Delete("/languages/{id}", api(h.Languages.delete))
			r.Post("/languages/{id}/default", api(h.Languages.setDefault))

			r.Get("/translations", api(h.Languages.listKeys))
			r.Post("/translations", api(h.Languages.createKey))
			r.Get("/translations/coverage/{lang}", api(h.Languages.coverage))
			r.Put("/translations/{id}", api(h.Languages.updateKey))
			r.Delete("/translations/{id}", api(h.Languages.deleteKey))
			r.Put("/translations/{id}/{lang}", api(h.Languages.setValue))

			r.Get("/content-types", api(h.Projects.contentTypes))
			r.Get("/projects", api(h.Projects.list))
			r.Post("/projects", api(h.Projects.create))
			r.Post("/projects/translate-all", api(h.Projects.translateAll))
			r.Get("/projects/{id}", api(h.Projects.get))
			r.Put("/projects/{id}", api(h.Projects.update))
			r.Delete("/projects/{id}", api(h.Projects.delete))
			r.Post("/projects/{id}/toggle-featured", api(h.Projects.toggleFeatured))
			r.Post("/projects/{id}/toggle-published", api(h.Projects.togglePublished))

			r.Get("/content", api(h.Content.list))
			r.Post("/content", api(h.Content.create))
			r.Get("/content/{id}", api(h.Content.get))
			r.Put("/content/{id}", api(h.Content.update))
			r.Delete("/content/{id}", api(h.Content.delete))

			r.Get("/media", api(h.Media.list))
			r.Post("/media", api(h.Media.upload))
			r.Post("/media/reorder", api(h.Media.reorder))
			r.Get("/media/{id}", api(h.Media.get))
			r.Put("/media/{id}", api(h.Media.update))
			r.Delete("/media/{id}", api(h.Media.delete))

			r.Get("/contact", api(h.Contact.list))
			r.Get("/contact/{id}", api(h.Contact.get))
			r.Patch("/contact/{id}", api(h.Contact.mark))
			r.Delete("/contact/{id}", api(h.Contact.delete))

			r.Get("/analytics/stats", api(h.Analytics.stats))
			r.Get("/analytics/export", api(h.Analytics.export))
			r.Delete("/analytics", api(h.Analytics.delete))

			r.Get("/components/defaults/{type}", api(h.PageBuilder.defaults))
			r.Post("/page-builder/{name}/components", api(h.PageBuilder.add))
			r.Post("/page-builder/{name}/components/move", api(h.PageBuilder.move))
			r.Put("/page-builder/{name}/components/{id}", api(h.PageBuilder.update))
			r.Patch("/page-builder/{name}/components/{id}", api(h.PageBuilder.patch))
			r.Delete("/page-builder/{name}/components/{id}", api(h.PageBuilder.delete))
			r.Post("/page-builder/{name}/components/{id}/duplicate", api(h.PageBuilder.duplicate))
		})

		r.NotFound(api(func(w http.ResponseWriter, r *http.Request) *middleware.AppError {
			return &middleware.AppError{Message: "Not found", Code: http.StatusNotFound}
		}))
	})

	r.NotFound(page(h.Site.notFoundHandler))

	return r
}
