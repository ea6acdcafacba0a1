package handler

import (
	"net/http"

	"portfolio-cms/internal/middleware"
	"portfolio-cms/internal/service"

	"github.com/go-chi/chi/v5"
)

// ContactHandler serves the contact form and the admin inbox.
type ContactHandler struct {
	contact *service.ContactService
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(contact *service.ContactService) *ContactHandler {
	return &ContactHandler{contact: contact}
}

func (h *ContactHandler) submit(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var in service.ContactInput
	if appErr := decodeJSON(w, r, &in); appErr != nil {
		return appErr
	}
	msg, err := h.contact.Submit(r.Context(), in)
	if err != nil {
		return serviceError(err, "Failed to send message")
	}
	return writeJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "id": msg.ID})
}

func (h *ContactHandler) list(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	msgs, err := h.contact.List(r.Context())
	if err != nil {
		return serviceError(err, "Failed to fetch messages")
	}
	unread, err := h.contact.UnreadCount(r.Context())
	if err != nil {
		return serviceError(err, "Failed to fetch messages")
	}
	return writeJSON(w, http.StatusOK, map[string]interface{}{"messages": msgs, "unread": unread})
}

func (h *ContactHandler) get(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	msg, err := h.contact.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return serviceError(err, "Failed to fetch message")
	}
	return writeJSON(w, http.StatusOK, msg)
}

// mark updates the read or replied flag from {"read": bool} or
// {"replied": bool}.
func (h *ContactHandler) mark(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var body struct {
		Read    *bool `json:"read"`
		Replied *bool `json:"replied"`
	}
	if appErr := decodeJSON(w, r, &body); appErr != nil {
		return appErr
	}
	if body.Read == nil && body.Replied == nil {
		return badRequest(nil, "Nothing to update")
	}
	id := chi.URLParam(r, "id")
	if body.Read != nil {
		if err := h.contact.MarkRead(r.Context(), id, *body.Read); err != nil {
			return serviceError(err, "Failed to update message")
		}
	}
	if body.Replied != nil {
		if err := h.contact.MarkReplied(r.Context(), id, *body.Replied); err != nil {
			return serviceError(err, "Failed to update message")
		}
	}
	return writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *ContactHandler) delete(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.contact.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		return serviceError(err, "Failed to delete message")
	}
	return writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
