package handler

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"portfolio-cms/internal/middleware"
)

// SlugLister lists the slugs of published records.
type SlugLister interface {
	PublishedSlugs(ctx context.Context) ([]string, error)
}

// SeoHandler holds dependencies for SEO-related handlers.
type SeoHandler struct {
	baseURL  string
	pages    SlugLister
	projects SlugLister
}

// NewSeoHandler creates a new SeoHandler. baseURL is the public origin of the
// site, e.g. https://example.com.
func NewSeoHandler(baseURL string, pages, projects SlugLister) *SeoHandler {
	return &SeoHandler{baseURL: strings.TrimRight(baseURL, "/"), pages: pages, projects: projects}
}

// robotsHandler serves robots.txt. The admin API is never crawled.
func (h *SeoHandler) robotsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "User-agent: *")
	fmt.Fprintln(w, "Allow: /")
	fmt.Fprintln(w, "Disallow: /api/")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Sitemap: %s/sitemap.xml\n", h.baseURL)
}

type sitemapURL struct {
	XMLName xml.Name `xml:"url"`
	Loc     string   `xml:"loc"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapHandler lists the homepage, the project overview and every
// published content page and project.
func (h *SeoHandler) sitemapHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	pageSlugs, err := h.pages.PublishedSlugs(r.Context())
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to retrieve pages for sitemap", Code: http.StatusInternalServerError}
	}
	projectSlugs, err := h.projects.PublishedSlugs(r.Context())
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to retrieve projects for sitemap", Code: http.StatusInternalServerError}
	}

	sitemap := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  []sitemapURL{{Loc: h.baseURL + "/"}, {Loc: h.baseURL + "/projects"}},
	}
	for _, slug := range pageSlugs {
		sitemap.URLs = append(sitemap.URLs, sitemapURL{Loc: h.baseURL + "/pages/" + slug})
	}
	for _, slug := range projectSlugs {
		sitemap.URLs = append(sitemap.URLs, sitemapURL{Loc: h.baseURL + "/projects/" + slug})
	}

	out, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to generate sitemap XML", Code: http.StatusInternalServerError}
	}
	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(xml.Header))
	w.Write(out)
	return nil
}
