package handler

import (
	"context"
	"net/http"

	"portfolio-cms/internal/data"
	"portfolio-cms/internal/logger"
	"portfolio-cms/internal/middleware"
	"portfolio-cms/internal/service"

	"github.com/go-chi/chi/v5"
)

// ProjectHandler serves portfolio projects and the bulk translation run.
type ProjectHandler struct {
	projects   *service.ProjectService
	translator *service.BulkTranslator
	log        logger.Logger
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projects *service.ProjectService, translator *service.BulkTranslator, log logger.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, translator: translator, log: log}
}

// publicList returns the published projects in the visitor's language.
// ?featured=true limits the list to featured projects.
func (h *ProjectHandler) publicList(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	featured := queryBool(r, "featured")
	projects, err := h.projects.PublicList(r.Context(), middleware.Lang(r.Context()), featured != nil && *featured)
	if err != nil {
		return serviceError(err, "Failed to fetch projects")
	}
	return writeJSON(w, http.StatusOK, map[string]interface{}{"projects": projects})
}

func (h *ProjectHandler) list(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	filter := data.ProjectFilter{
		Featured:      queryBool(r, "featured"),
		Published:     queryBool(r, "published"),
		IncludeImages: r.URL.Query().Get("includeImages") == "true",
	}
	projects, err := h.projects.List(r.Context(), filter)
	if err != nil {
		return serviceError(err, "Failed to fetch projects")
	}
	return writeJSON(w, http.StatusOK, map[string]interface{}{"projects": projects})
}

func (h *ProjectHandler) get(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	p, err := h.projects.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return serviceError(err, "Failed to fetch project")
	}
	return writeJSON(w, http.StatusOK, p)
}

func (h *ProjectHandler) contentTypes(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	types, err := h.projects.ContentTypes(r.Context())
	if err != nil {
		return serviceError(err, "Failed to fetch content types")
	}
	return writeJSON(w, http.StatusOK, types)
}

func (h *ProjectHandler) create(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var in service.ProjectInput
	if appErr := decodeJSON(w, r, &in); appErr != nil {
		return appErr
	}
	user := middleware.GetUserInfo(r.Context())
	p, err := h.projects.Create(r.Context(), in, user.Subject)
	if err != nil {
		return serviceError(err, "Failed to create project")
	}
	return writeJSON(w, http.StatusCreated, p)
}

func (h *ProjectHandler) update(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var in service.ProjectInput
	if appErr := decodeJSON(w, r, &in); appErr != nil {
		return appErr
	}
	p, err := h.projects.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		return serviceError(err, "Failed to update project")
	}
	return writeJSON(w, http.StatusOK, p)
}

func (h *ProjectHandler) delete(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.projects.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		return serviceError(err, "Failed to delete project")
	}
	return writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *ProjectHandler) toggleFeatured(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	featured, err := h.projects.ToggleFeatured(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return serviceError(err, "Failed to update project")
	}
	return writeJSON(w, http.StatusOK, map[string]bool{"featured": featured})
}

func (h *ProjectHandler) togglePublished(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	published, err := h.projects.TogglePublished(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return serviceError(err, "Failed to update project")
	}
	return writeJSON(w, http.StatusOK, map[string]bool{"published": published})
}

// translateAll runs the bulk translation for {"projectIds": [...]}. The run
// is not cancelled when the client goes away.
func (h *ProjectHandler) translateAll(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var body struct {
		ProjectIDs []string `json:"projectIds"`
	}
	if appErr := decodeJSON(w, r, &body); appErr != nil {
		return appErr
	}

	user := middleware.GetUserInfo(r.Context())
	h.log.With(map[string]interface{}{"user": user.Subject, "projects": len(body.ProjectIDs)}).Info("bulk translation started")

	result, err := h.translator.TranslateProjects(context.WithoutCancel(r.Context()), body.ProjectIDs)
	if err != nil {
		return serviceError(err, "Failed to translate projects")
	}
	return writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "results": result})
}
