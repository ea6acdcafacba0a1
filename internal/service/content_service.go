package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"portfolio-cms/internal/data"
	"portfolio-cms/internal/richtext"

	"github.com/goliatone/go-slug"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

const (
	maxSlugSuggestions = 3
	// maxSlugProbes bounds the suffix search when many variants are taken.
	maxSlugProbes = 50
)

// SlugValidation is the outcome of a slug check.
type SlugValidation struct {
	IsValid     bool     `json:"isValid"`
	IsAvailable bool     `json:"isAvailable"`
	Error       string   `json:"error,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// SlugIndex reports whether a slug is used by a page or project other than
// excludeID.
type SlugIndex interface {
	SlugTaken(ctx context.Context, slug, excludeID string) (bool, error)
}

// slugFormatError returns a message when s is not a valid slug.
func slugFormatError(s string) string {
	switch {
	case s == "":
		return "Slug is required"
	case len(s) < 2:
		return "Slug must be at least 2 characters long"
	case !slugPattern.MatchString(s):
		return "Slug may only contain lowercase letters, numbers and hyphens, and cannot start or end with a hyphen"
	}
	return ""
}

// ValidateSlug checks the format and availability of a slug across content
// pages and projects. It never writes.
func ValidateSlug(ctx context.Context, index SlugIndex, candidate, excludeID string) (SlugValidation, error) {
	var res SlugValidation
	if msg := slugFormatError(candidate); msg != "" {
		res.Error = msg
		normalized, err := slug.Normalize(candidate)
		if err == nil && normalized != candidate && slugFormatError(normalized) == "" {
			taken, err := index.SlugTaken(ctx, normalized, excludeID)
			if err != nil {
				return res, err
			}
			if !taken {
				res.Suggestions = []string{normalized}
			}
		}
		return res, nil
	}
	res.IsValid = true

	taken, err := index.SlugTaken(ctx, candidate, excludeID)
	if err != nil {
		return res, err
	}
	if !taken {
		res.IsAvailable = true
		return res, nil
	}

	res.Error = "This slug is already in use"
	for n := 2; len(res.Suggestions) < maxSlugSuggestions && n < 2+maxSlugProbes; n++ {
		next := fmt.Sprintf("%s-%d", candidate, n)
		taken, err := index.SlugTaken(ctx, next, excludeID)
		if err != nil {
			return res, err
		}
		if !taken {
			res.Suggestions = append(res.Suggestions, next)
		}
	}
	return res, nil
}

// requireSlug fails unless slug is valid and free.
func requireSlug(ctx context.Context, index SlugIndex, s, excludeID string) error {
	v, err := ValidateSlug(ctx, index, s, excludeID)
	if err != nil {
		return err
	}
	if !v.IsValid {
		return invalid("%s", v.Error)
	}
	if !v.IsAvailable {
		return conflict("%s", v.Error)
	}
	return nil
}

// PageTranslationInput is one language of a content page. Either
// LanguageID or LanguageCode identifies the language.
type PageTranslationInput struct {
	LanguageID   string            `json:"languageId"`
	LanguageCode string            `json:"languageCode"`
	Title        string            `json:"title"`
	Content      richtext.Document `json:"content"`
}

// ContentPageInput is the payload for creating or updating a content page.
type ContentPageInput struct {
	Slug         string                 `json:"slug"`
	Published    bool                   `json:"published"`
	Translations []PageTranslationInput `json:"translations"`
}

// ContentService manages standalone content pages.
type ContentService struct {
	repo      ContentRepository
	languages LanguageRepository
}

// NewContentService creates a new ContentService.
func NewContentService(repo ContentRepository, languages LanguageRepository) *ContentService {
	return &ContentService{repo: repo, languages: languages}
}

// ValidateSlug checks a slug against content pages and projects.
func (s *ContentService) ValidateSlug(ctx context.Context, candidate, excludeID string) (SlugValidation, error) {
	return ValidateSlug(ctx, s.repo, candidate, excludeID)
}

// List returns every page with its translations.
func (s *ContentService) List(ctx context.Context) ([]data.ContentPage, error) {
	return s.repo.List(ctx)
}

// Get returns a page by id.
func (s *ContentService) Get(ctx context.Context, id string) (*data.ContentPage, error) {
	page, err := s.repo.GetByID(ctx, id)
	return page, fromRepo(err, "Page not found", "")
}

// GetPublished returns a published page by slug.
func (s *ContentService) GetPublished(ctx context.Context, slug string) (*data.ContentPage, error) {
	page, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fromRepo(err, "Page not found", "")
	}
	if !page.Published {
		return nil, notFound("Page not found")
	}
	return page, nil
}

// Create validates and stores a new page.
func (s *ContentService) Create(ctx context.Context, in ContentPageInput) (*data.ContentPage, error) {
	if err := requireSlug(ctx, s.repo, in.Slug, ""); err != nil {
		return nil, err
	}
	translations, err := s.translations(ctx, in.Translations)
	if err != nil {
		return nil, err
	}
	page := &data.ContentPage{Slug: in.Slug, Published: in.Published, Translations: translations}
	if err := s.repo.Create(ctx, page); err != nil {
		return nil, fromRepo(err, "", "This slug is already in use")
	}
	return page, nil
}

// Update replaces the slug, the published flag and the translations of a page.
func (s *ContentService) Update(ctx context.Context, id string, in ContentPageInput) (*data.ContentPage, error) {
	page, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Page not found", "")
	}
	if err := requireSlug(ctx, s.repo, in.Slug, id); err != nil {
		return nil, err
	}
	translations, err := s.translations(ctx, in.Translations)
	if err != nil {
		return nil, err
	}
	page.Slug, page.Published, page.Translations = in.Slug, in.Published, translations
	if err := s.repo.Update(ctx, page); err != nil {
		return nil, fromRepo(err, "Page not found", "This slug is already in use")
	}
	return s.repo.GetByID(ctx, id)
}

// Delete removes a page.
func (s *ContentService) Delete(ctx context.Context, id string) error {
	return fromRepo(s.repo.Delete(ctx, id), "Page not found", "")
}

// PublishedSlugs lists the slugs of published pages.
func (s *ContentService) PublishedSlugs(ctx context.Context) ([]string, error) {
	return s.repo.PublishedSlugs(ctx)
}

func (s *ContentService) translations(ctx context.Context, in []PageTranslationInput) ([]data.ContentPageTranslation, error) {
	if len(in) == 0 {
		return nil, invalid("At least one translation is required")
	}
	out := make([]data.ContentPageTranslation, 0, len(in))
	seen := map[string]bool{}
	for _, t := range in {
		langID, err := resolveLanguage(ctx, s.languages, t.LanguageID, t.LanguageCode)
		if err != nil {
			return nil, err
		}
		if seen[langID] {
			return nil, invalid("Duplicate translation for one language")
		}
		seen[langID] = true
		if t.Title == "" {
			return nil, invalid("Title is required")
		}
		if !t.Content.IsZero() {
			if err := t.Content.Validate(); err != nil {
				return nil, invalid("Invalid content: %v", err)
			}
		}
		out = append(out, data.ContentPageTranslation{LanguageID: langID, Title: t.Title, Content: t.Content})
	}
	return out, nil
}

// resolveLanguage returns the id of the language given by id or code.
func resolveLanguage(ctx context.Context, repo LanguageRepository, id, code string) (string, error) {
	var (
		lang *data.Language
		err  error
	)
	switch {
	case id != "":
		lang, err = repo.GetByID(ctx, id)
	case code != "":
		lang, err = repo.GetByCode(ctx, code)
	default:
		return "", invalid("Translation language is required")
	}
	if errors.Is(err, data.ErrNotFound) {
		return "", invalid("Language not found")
	}
	if err != nil {
		return "", err
	}
	return lang.ID, nil
}
