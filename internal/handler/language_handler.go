package handler

import (
	"net/http"

	"portfolio-cms/internal/middleware"
	"portfolio-cms/internal/service"

	"github.com/go-chi/chi/v5"
)

// LanguageHandler serves languages and UI-string translations.
type LanguageHandler struct {
	languages    *service.LanguageService
	translations *service.TranslationService
}

// NewLanguageHandler creates a new LanguageHandler.
func NewLanguageHandler(languages *service.LanguageService, translations *service.TranslationService) *LanguageHandler {
	return &LanguageHandler{languages: languages, translations: translations}
}

// publicLanguages lists the active languages, default first.
func (h *LanguageHandler) publicLanguages(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	langs, err := h.languages.Active(r.Context())
	if err != nil {
		return serviceError(err, "Failed to fetch languages")
	}
	return writeJSON(w, http.StatusOK, map[string]interface{}{"languages": langs})
}

// publicTranslations returns the key/value map of one language.
func (h *LanguageHandler) publicTranslations(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	values, err := h.translations.PublicMap(r.Context(), chi.URLParam(r, "lang"))
	if err != nil {
		return serviceError(err, "Failed to fetch translations")
	}
	return writeJSON(w, http.StatusOK, values)
}

func (h *LanguageHandler) list(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	langs, err := h.languages.ListWithCoverage(r.Context())
	if err != nil {
		return serviceError(err, "Failed to fetch languages")
	}
	return writeJSON(w, http.StatusOK, langs)
}

func (h *LanguageHandler) create(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var in service.CreateLanguageInput
	if appErr := decodeJSON(w, r, &in); appErr != nil {
		return appErr
	}
	lang, err := h.languages.Create(r.Context(), in)
	if err != nil {
		return serviceError(err, "Failed to create language")
	}
	return writeJSON(w, http.StatusCreated, lang)
}

func (h *LanguageHandler) update(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var in service.UpdateLanguageInput
	if appErr := decodeJSON(w, r, &in); appErr != nil {
		return appErr
	}
	lang, err := h.languages.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		return serviceError(err, "Failed to update language")
	}
	return writeJSON(w, http.StatusOK, lang)
}

func (h *LanguageHandler) setDefault(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.languages.SetDefault(r.Context(), chi.URLParam(r, "id")); err != nil {
		return serviceError(err, "Failed to set default language")
	}
	return writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *LanguageHandler) delete(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.languages.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		return serviceError(err, "Failed to delete language")
	}
	return writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *LanguageHandler) coverage(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	code := chi.URLParam(r, "lang")
	c, err := h.translations.Coverage(r.Context(), code)
	if err != nil {
		return serviceError(err, "Failed to compute coverage")
	}
	return writeJSON(w, http.StatusOK, map[string]interface{}{"language": code, "coverage": c})
}

func (h *LanguageHandler) listKeys(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	keys, err := h.translations.ListKeys(r.Context())
	if err != nil {
		return serviceError(err, "Failed to fetch translations")
	}
	return writeJSON(w, http.StatusOK, keys)
}

func (h *LanguageHandler) createKey(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var in service.TranslationKeyInput
	if appErr := decodeJSON(w, r, &in); appErr != nil {
		return appErr
	}
	key, err := h.translations.CreateKey(r.Context(), in)
	if err != nil {
		return serviceError(err, "Failed to create translation key")
	}
	return writeJSON(w, http.StatusCreated, key)
}

func (h *LanguageHandler) updateKey(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var in service.TranslationKeyInput
	if appErr := decodeJSON(w, r, &in); appErr != nil {
		return appErr
	}
	key, err := h.translations.UpdateKey(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		return serviceError(err, "Failed to update translation key")
	}
	return writeJSON(w, http.StatusOK, key)
}

func (h *LanguageHandler) deleteKey(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.translations.DeleteKey(r.Context(), chi.URLParam(r, "id")); err != nil {
		return serviceError(err, "Failed to delete translation key")
	}
	return writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// setValue stores a single translation. The body is {"value": "..."}.
func (h *LanguageHandler) setValue(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var body struct {
		Value string `json:"value"`
	}
	if appErr := decodeJSON(w, r, &body); appErr != nil {
		return appErr
	}
	if err := h.translations.SetValue(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "lang"), body.Value); err != nil {
		return serviceError(err, "Failed to save translation")
	}
	return writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
