package handler

import (
	"net/http"
	"strings"

	"portfolio-cms/internal/data"
	"portfolio-cms/internal/middleware"
	"portfolio-cms/internal/service"

	"github.com/go-chi/chi/v5"
)

const multipartMemory = 8 << 20

// MediaHandler serves the admin media library.
type MediaHandler struct {
	media *service.MediaService
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(media *service.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// upload stores the multipart "file" field. Optional form fields are alt,
// category, projectId and a comma separated tags list.
func (h *MediaHandler) upload(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return badRequest(err, "Invalid multipart form")
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		return badRequest(err, "No file uploaded")
	}
	defer file.Close()

	in := service.UploadInput{
		Alt:       r.FormValue("alt"),
		Category:  r.FormValue("category"),
		ProjectID: r.FormValue("projectId"),
	}
	if tags := r.FormValue("tags"); tags != "" {
		in.Tags = strings.Split(tags, ",")
	}
	item, err := h.media.Upload(r.Context(), header.Filename, file, in)
	if err != nil {
		return serviceError(err, "Failed to upload file")
	}
	return writeJSON(w, http.StatusCreated, item)
}

func (h *MediaHandler) list(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	q := r.URL.Query()
	items, err := h.media.List(r.Context(), data.MediaFilter{
		Category:  q.Get("category"),
		ProjectID: q.Get("projectId"),
		Tag:       q.Get("tag"),
	})
	if err != nil {
		return serviceError(err, "Failed to fetch media")
	}
	return writeJSON(w, http.StatusOK, items)
}

func (h *MediaHandler) get(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	item, err := h.media.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return serviceError(err, "Failed to fetch media item")
	}
	return writeJSON(w, http.StatusOK, item)
}

func (h *MediaHandler) update(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var in service.MediaUpdateInput
	if appErr := decodeJSON(w, r, &in); appErr != nil {
		return appErr
	}
	item, err := h.media.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		return serviceError(err, "Failed to update media item")
	}
	return writeJSON(w, http.StatusOK, item)
}

// reorder sets the display order of {"projectId", "mediaIds"}.
func (h *MediaHandler) reorder(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var body struct {
		ProjectID string   `json:"projectId"`
		MediaIDs  []string `json:"mediaIds"`
	}
	if appErr := decodeJSON(w, r, &body); appErr != nil {
		return appErr
	}
	if err := h.media.Reorder(r.Context(), body.ProjectID, body.MediaIDs); err != nil {
		return serviceError(err, "Failed to reorder media")
	}
	return writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *MediaHandler) delete(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.media.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		return serviceError(err, "Failed to delete media item")
	}
	return writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
