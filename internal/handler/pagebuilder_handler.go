package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"portfolio-cms/internal/middleware"
	"portfolio-cms/internal/pagebuilder"
	"portfolio-cms/internal/service"

	"github.com/go-chi/chi/v5"
)

// PageBuilderHandler loads, saves and edits page-builder documents.
type PageBuilderHandler struct {
	pages *service.PageBuilderService
}

// NewPageBuilderHandler creates a new PageBuilderHandler.
func NewPageBuilderHandler(pages *service.PageBuilderService) *PageBuilderHandler {
	return &PageBuilderHandler{pages: pages}
}

func writeDocument(w http.ResponseWriter, doc *pagebuilder.Document) *middleware.AppError {
	return writeJSON(w, http.StatusOK, map[string]interface{}{"components": doc})
}

func (h *PageBuilderHandler) load(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	doc, err := h.pages.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		return serviceError(err, "Failed to load page")
	}
	return writeDocument(w, doc)
}

// save replaces the whole document with {"components": [...]}.
func (h *PageBuilderHandler) save(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var body struct {
		Components json.RawMessage `json:"components"`
	}
	if appErr := decodeJSON(w, r, &body); appErr != nil {
		return appErr
	}
	doc, err := h.pages.Save(r.Context(), chi.URLParam(r, "name"), body.Components)
	if err != nil {
		return serviceError(err, "Failed to save page")
	}
	return writeDocument(w, doc)
}

func (h *PageBuilderHandler) add(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var body struct {
		Type pagebuilder.Type `json:"type"`
	}
	if appErr := decodeJSON(w, r, &body); appErr != nil {
		return appErr
	}
	doc, err := h.pages.Add(r.Context(), chi.URLParam(r, "name"), body.Type)
	if err != nil {
		return serviceError(err, "Failed to add component")
	}
	return writeDocument(w, doc)
}

func (h *PageBuilderHandler) move(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var body struct {
		From *int `json:"from"`
		To   *int `json:"to"`
	}
	if appErr := decodeJSON(w, r, &body); appErr != nil {
		return appErr
	}
	if body.From == nil || body.To == nil {
		return badRequest(nil, "from and to are required")
	}
	doc, err := h.pages.Move(r.Context(), chi.URLParam(r, "name"), *body.From, *body.To)
	if err != nil {
		return serviceError(err, "Failed to move component")
	}
	return writeDocument(w, doc)
}

// update replaces the data of one component with the request body.
func (h *PageBuilderHandler) update(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var body json.RawMessage
	if appErr := decodeJSON(w, r, &body); appErr != nil {
		return appErr
	}
	doc, err := h.pages.Update(r.Context(), chi.URLParam(r, "name"), chi.URLParam(r, "id"), body)
	if err != nil {
		return serviceError(err, "Failed to update component")
	}
	return writeDocument(w, doc)
}

// patch merges the request body into the data of one component.
func (h *PageBuilderHandler) patch(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var body json.RawMessage
	if appErr := decodeJSON(w, r, &body); appErr != nil {
		return appErr
	}
	doc, err := h.pages.Patch(r.Context(), chi.URLParam(r, "name"), chi.URLParam(r, "id"), body)
	if err != nil {
		return serviceError(err, "Failed to update component")
	}
	return writeDocument(w, doc)
}

func (h *PageBuilderHandler) delete(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	doc, err := h.pages.Delete(r.Context(), chi.URLParam(r, "name"), chi.URLParam(r, "id"))
	if err != nil {
		return serviceError(err, "Failed to delete component")
	}
	return writeDocument(w, doc)
}

func (h *PageBuilderHandler) duplicate(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	doc, err := h.pages.Duplicate(r.Context(), chi.URLParam(r, "name"), chi.URLParam(r, "id"))
	if err != nil {
		return serviceError(err, "Failed to duplicate component")
	}
	return writeDocument(w, doc)
}

// defaults returns the placeholder data of a component type, for editors
// that build components client side.
func (h *PageBuilderHandler) defaults(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	t := pagebuilder.Type(chi.URLParam(r, "type"))
	d, err := pagebuilder.DefaultData(t)
	if err != nil {
		return badRequest(err, "Unknown component type "+strconv.Quote(string(t)))
	}
	return writeJSON(w, http.StatusOK, d)
}
