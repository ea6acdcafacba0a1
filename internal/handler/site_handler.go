package handler

import (
	"errors"
	"net/http"
	"sort"

	"portfolio-cms/internal/data"
	"portfolio-cms/internal/logger"
	"portfolio-cms/internal/middleware"
	"portfolio-cms/internal/richtext"
	"portfolio-cms/internal/service"
	"portfolio-cms/internal/view"

	"github.com/go-chi/chi/v5"
)

// HomepageName is the page-builder document rendered at "/".
const HomepageName = "homepage"

// SiteHandler renders the public HTML pages.
type SiteHandler struct {
	languages *service.LanguageService
	pages     *service.PageBuilderService
	content   *service.ContentService
	projects  *service.ProjectService
	view      *view.View
	log       logger.Logger
}

// NewSiteHandler creates a new SiteHandler with the given dependencies.
func NewSiteHandler(languages *service.LanguageService, pages *service.PageBuilderService, content *service.ContentService, projects *service.ProjectService, v *view.View, log logger.Logger) *SiteHandler {
	return &SiteHandler{
		languages: languages,
		pages:     pages,
		content:   content,
		projects:  projects,
		view:      v,
		log:       log,
	}
}

// pageData resolves the visitor's language against the registry and returns
// the template data every page starts with, plus the default code.
func (h *SiteHandler) pageData(r *http.Request) (map[string]interface{}, string, string) {
	ctx := r.Context()
	langs, err := h.languages.Active(ctx)
	if err != nil {
		h.log.Warn("failed to load languages: " + err.Error())
	}
	defaultLang := ""
	for _, l := range langs {
		if l.IsDefault {
			defaultLang = l.Code
		}
	}
	lang := middleware.Lang(ctx)
	if lang == "" {
		lang = defaultLang
	}
	return map[string]interface{}{"Lang": lang, "Languages": langs}, lang, defaultLang
}

// homeHandler renders the homepage document.
func (h *SiteHandler) homeHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	pd, lang, defaultLang := h.pageData(r)

	doc, err := h.pages.Load(r.Context(), HomepageName)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to load homepage", Code: http.StatusInternalServerError}
	}

	var featured []view.GalleryItem
	projects, err := h.projects.PublicList(r.Context(), lang, true)
	if err != nil {
		h.log.Warn("failed to load featured projects: " + err.Error())
	}
	for _, p := range projects {
		item := view.GalleryItem{Title: p.Title, Alt: p.Title}
		if len(p.Images) > 0 {
			item.URL = p.Images[0].ThumbnailURL
			if p.Images[0].Alt != "" {
				item.Alt = p.Images[0].Alt
			}
		}
		if p.Slug != "" {
			item.Link = "/projects/" + p.Slug
		}
		if item.URL != "" {
			featured = append(featured, item)
		}
	}

	pd["Blocks"] = view.Blocks(doc, lang, defaultLang, featured)
	if err := h.view.Render(w, r, "home.html", pd); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render homepage", Code: http.StatusInternalServerError}
	}
	return nil
}

// contentHandler renders a published content page by slug.
func (h *SiteHandler) contentHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	pd, lang, defaultLang := h.pageData(r)

	page, err := h.content.GetPublished(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return &middleware.AppError{Error: err, Message: "Page not found", Code: http.StatusNotFound}
		}
		return &middleware.AppError{Error: err, Message: "Failed to load page", Code: http.StatusInternalServerError}
	}
	t, ok := pageTranslation(page.Translations, lang, defaultLang)
	if !ok {
		return &middleware.AppError{Error: errors.New("page has no translations"), Message: "Page not found", Code: http.StatusNotFound}
	}

	pd["Title"] = t.Title
	pd["Content"] = richtext.HTML(t.Content)
	if desc := richtext.PlainText(t.Content); desc != "" {
		if runes := []rune(desc); len(runes) > 160 {
			desc = string(runes[:160])
		}
		pd["Description"] = desc
	}
	if err := h.view.Render(w, r, "page.html", pd); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render page", Code: http.StatusInternalServerError}
	}
	return nil
}

// projectsHandler renders every published project.
func (h *SiteHandler) projectsHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	pd, lang, _ := h.pageData(r)

	projects, err := h.projects.PublicList(r.Context(), lang, false)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to load projects", Code: http.StatusInternalServerError}
	}
	pd["Projects"] = projects
	if err := h.view.Render(w, r, "projects.html", pd); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render projects", Code: http.StatusInternalServerError}
	}
	return nil
}

// projectHandler renders one published project by slug.
func (h *SiteHandler) projectHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	pd, lang, _ := h.pageData(r)
	slug := chi.URLParam(r, "slug")

	projects, err := h.projects.PublicList(r.Context(), lang, false)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to load project", Code: http.StatusInternalServerError}
	}
	for _, p := range projects {
		if p.Slug != slug {
			continue
		}
		pd["Title"] = p.Title
		pd["Project"] = p
		if err := h.view.Render(w, r, "project.html", pd); err != nil {
			return &middleware.AppError{Error: err, Message: "Failed to render project", Code: http.StatusInternalServerError}
		}
		return nil
	}
	return &middleware.AppError{Error: errors.New("unknown project slug " + slug), Message: "Page not found", Code: http.StatusNotFound}
}

// notFoundHandler renders the error page for unknown paths.
func (h *SiteHandler) notFoundHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return &middleware.AppError{Error: errors.New(r.URL.Path), Message: "Page not found", Code: http.StatusNotFound}
}

// pageTranslation follows the requested, default, first-by-code chain.
func pageTranslation(ts []data.ContentPageTranslation, lang, defaultLang string) (data.ContentPageTranslation, bool) {
	byCode := make(map[string]data.ContentPageTranslation, len(ts))
	codes := make([]string, 0, len(ts))
	for _, t := range ts {
		if t.Title == "" {
			continue
		}
		byCode[t.LanguageCode] = t
		codes = append(codes, t.LanguageCode)
	}
	for _, code := range []string{lang, defaultLang} {
		if t, ok := byCode[code]; ok && code != "" {
			return t, true
		}
	}
	if len(codes) == 0 {
		return data.ContentPageTranslation{}, false
	}
	sort.Strings(codes)
	return byCode[codes[0]], true
}
