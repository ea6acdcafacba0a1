package handler

import (
	"net/http"

	"portfolio-cms/internal/middleware"
	"portfolio-cms/internal/service"

	"github.com/go-chi/chi/v5"
)

// ContentHandler serves the admin API of content pages.
type ContentHandler struct {
	content *service.ContentService
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(content *service.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

// validateSlug checks {"slug", "excludeId"} against format and existing pages
// and projects.
func (h *ContentHandler) validateSlug(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var body struct {
		Slug      string `json:"slug"`
		ExcludeID string `json:"excludeId"`
	}
	if appErr := decodeJSON(w, r, &body); appErr != nil {
		return appErr
	}
	result, err := h.content.ValidateSlug(r.Context(), body.Slug, body.ExcludeID)
	if err != nil {
		return serviceError(err, "Failed to validate slug")
	}
	return writeJSON(w, http.StatusOK, result)
}

func (h *ContentHandler) list(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	pages, err := h.content.List(r.Context())
	if err != nil {
		return serviceError(err, "Failed to fetch content pages")
	}
	return writeJSON(w, http.StatusOK, pages)
}

func (h *ContentHandler) get(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	page, err := h.content.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return serviceError(err, "Failed to fetch content page")
	}
	return writeJSON(w, http.StatusOK, page)
}

func (h *ContentHandler) create(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var in service.ContentPageInput
	if appErr := decodeJSON(w, r, &in); appErr != nil {
		return appErr
	}
	page, err := h.content.Create(r.Context(), in)
	if err != nil {
		return serviceError(err, "Failed to create content page")
	}
	return writeJSON(w, http.StatusCreated, page)
}

func (h *ContentHandler) update(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var in service.ContentPageInput
	if appErr := decodeJSON(w, r, &in); appErr != nil {
		return appErr
	}
	page, err := h.content.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		return serviceError(err, "Failed to update content page")
	}
	return writeJSON(w, http.StatusOK, page)
}

func (h *ContentHandler) delete(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.content.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		return serviceError(err, "Failed to delete content page")
	}
	return writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
