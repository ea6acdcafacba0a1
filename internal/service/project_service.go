package service

import (
	"context"
	"errors"
	"html/template"
	"sort"

	"portfolio-cms/internal/data"
	"portfolio-cms/internal/richtext"
)

// ProjectTranslationInput is one language of a project.
type ProjectTranslationInput struct {
	LanguageID   string            `json:"languageId"`
	LanguageCode string            `json:"languageCode"`
	Title        string            `json:"title"`
	Description  richtext.Document `json:"description"`
	Materials    []string          `json:"materials"`
}

// ProjectImageInput is an image attached to a project.
type ProjectImageInput struct {
	OriginalURL  string `json:"originalUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Alt          string `json:"alt"`
	Order        *int   `json:"order"`
}

// ProjectInput is the payload for creating or updating a project. On update,
// nil Translations or Images keep the stored ones.
type ProjectInput struct {
	ContentTypeID string                    `json:"contentTypeId"`
	ContentType   string                    `json:"contentType"`
	Slug          *string                   `json:"slug"`
	Featured      *bool                     `json:"featured"`
	Published     *bool                     `json:"published"`
	Translations  []ProjectTranslationInput `json:"translations"`
	Images        []ProjectImageInput       `json:"images"`
}

// PublicProject is a project resolved for one language.
type PublicProject struct {
	ID          string              `json:"id"`
	Slug        string              `json:"slug,omitempty"`
	Featured    bool                `json:"featured"`
	Language    string              `json:"language"`
	Title       string              `json:"title"`
	Description template.HTML       `json:"description"`
	Materials   []string            `json:"materials"`
	Images      []data.ProjectImage `json:"images"`
}

// ProjectService manages portfolio projects.
type ProjectService struct {
	repo      ProjectRepository
	languages LanguageRepository
	slugs     SlugIndex
}

// NewProjectService creates a new ProjectService.
func NewProjectService(repo ProjectRepository, languages LanguageRepository, slugs SlugIndex) *ProjectService {
	return &ProjectService{repo: repo, languages: languages, slugs: slugs}
}

// List returns the projects matching filter.
func (s *ProjectService) List(ctx context.Context, filter data.ProjectFilter) ([]data.Project, error) {
	return s.repo.List(ctx, filter)
}

// Get returns a project with its translations and images.
func (s *ProjectService) Get(ctx context.Context, id string) (*data.Project, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Project not found", "")
	}
	return p, nil
}

// ContentTypes lists the known content types.
func (s *ProjectService) ContentTypes(ctx context.Context) ([]data.ContentType, error) {
	return s.repo.ListContentTypes(ctx)
}

// Create validates and stores a project.
func (s *ProjectService) Create(ctx context.Context, in ProjectInput, createdBy string) (*data.Project, error) {
	if len(in.Translations) == 0 {
		return nil, invalid("At least one translation is required")
	}
	p := &data.Project{CreatedBy: createdBy}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}
	if p.Images == nil {
		p.Images = []data.ProjectImage{}
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fromRepo(err, "", "This slug is already in use")
	}
	return p, nil
}

// Update applies in to an existing project.
func (s *ProjectService) Update(ctx context.Context, id string, in ProjectInput) (*data.Project, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Project not found", "")
	}
	keepTranslations, keepImages := in.Translations == nil, in.Images == nil
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}
	if keepTranslations {
		p.Translations = nil
	}
	if keepImages {
		p.Images = nil
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fromRepo(err, "Project not found", "This slug is already in use")
	}
	return s.repo.Get(ctx, id)
}

func (s *ProjectService) apply(ctx context.Context, p *data.Project, in ProjectInput) error {
	if err := s.applyContentType(ctx, p, in); err != nil {
		return err
	}
	if in.Slug != nil {
		if *in.Slug == "" {
			p.Slug = nil
		} else {
			if err := requireSlug(ctx, s.slugs, *in.Slug, p.ID); err != nil {
				return err
			}
			slug := *in.Slug
			p.Slug = &slug
		}
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.Published != nil {
		p.Published = *in.Published
	}
	if in.Translations != nil {
		translations, err := s.translations(ctx, in.Translations)
		if err != nil {
			return err
		}
		p.Translations = translations
	}
	if in.Images != nil {
		p.Images = make([]data.ProjectImage, 0, len(in.Images))
		for i, img := range in.Images {
			if img.OriginalURL == "" {
				return invalid("Image URL is required")
			}
			order := i
			if img.Order != nil {
				order = *img.Order
			}
			thumb := img.ThumbnailURL
			if thumb == "" {
				thumb = img.OriginalURL
			}
			p.Images = append(p.Images, data.ProjectImage{OriginalURL: img.OriginalURL, ThumbnailURL: thumb, Alt: img.Alt, Order: order})
		}
	}
	return nil
}

func (s *ProjectService) applyContentType(ctx context.Context, p *data.Project, in ProjectInput) error {
	switch {
	case in.ContentTypeID != "":
		types, err := s.repo.ListContentTypes(ctx)
		if err != nil {
			return err
		}
		for _, t := range types {
			if t.ID == in.ContentTypeID {
				p.ContentTypeID = t.ID
				return nil
			}
		}
		return invalid("Content type not found")
	case in.ContentType != "":
		ct, err := s.repo.EnsureContentType(ctx, in.ContentType)
		if err != nil {
			return err
		}
		p.ContentTypeID = ct.ID
	case p.ContentTypeID == "":
		return invalid("Content type is required")
	}
	return nil
}

func (s *ProjectService) translations(ctx context.Context, in []ProjectTranslationInput) ([]data.ProjectTranslation, error) {
	out := make([]data.ProjectTranslation, 0, len(in))
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
		if !t.Description.IsZero() {
			if err := t.Description.Validate(); err != nil {
				return nil, invalid("Invalid description: %v", err)
			}
		}
		materials := data.StringList{}
		for _, m := range t.Materials {
			if m != "" {
				materials = append(materials, m)
			}
		}
		out = append(out, data.ProjectTranslation{LanguageID: langID, Title: t.Title, Description: t.Description, Materials: materials})
	}
	return out, nil
}

// ToggleFeatured flips the featured flag and returns the new value.
func (s *ProjectService) ToggleFeatured(ctx context.Context, id string) (bool, error) {
	v, err := s.repo.ToggleFeatured(ctx, id)
	return v, fromRepo(err, "Project not found", "")
}

// TogglePublished flips the published flag and returns the new value.
func (s *ProjectService) TogglePublished(ctx context.Context, id string) (bool, error) {
	v, err := s.repo.TogglePublished(ctx, id)
	return v, fromRepo(err, "Project not found", "")
}

// Delete removes a project. Media items referencing it are detached.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	return fromRepo(s.repo.Delete(ctx, id), "Project not found", "")
}

// PublishedSlugs lists the slugs of published projects.
func (s *ProjectService) PublishedSlugs(ctx context.Context) ([]string, error) {
	return s.repo.PublishedSlugs(ctx)
}

// PublicList returns the published projects resolved for lang, falling back
// to the default language and then to any translation.
func (s *ProjectService) PublicList(ctx context.Context, lang string, featuredOnly bool) ([]PublicProject, error) {
	published := true
	filter := data.ProjectFilter{Published: &published, IncludeImages: true}
	if featuredOnly {
		filter.Featured = &published
	}
	projects, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	defaultCode := ""
	if def, err := s.languages.GetDefault(ctx); err == nil {
		defaultCode = def.Code
	} else if !errors.Is(err, data.ErrNotFound) {
		return nil, err
	}

	out := make([]PublicProject, 0, len(projects))
	for _, p := range projects {
		t, ok := pickTranslation(p.Translations, lang, defaultCode)
		if !ok {
			continue
		}
		pp := PublicProject{
			ID:          p.ID,
			Featured:    p.Featured,
			Language:    t.LanguageCode,
			Title:       t.Title,
			Description: richtext.HTML(t.Description),
			Materials:   t.Materials,
			Images:      p.Images,
		}
		if p.Slug != nil {
			pp.Slug = *p.Slug
		}
		sort.SliceStable(pp.Images, func(i, j int) bool { return pp.Images[i].Order < pp.Images[j].Order })
		out = append(out, pp)
	}
	return out, nil
}

// pickTranslation follows the requested, default, first-by-code chain.
func pickTranslation(ts []data.ProjectTranslation, lang, defaultCode string) (data.ProjectTranslation, bool) {
	byCode := make(map[string]data.ProjectTranslation, len(ts))
	codes := make([]string, 0, len(ts))
	for _, t := range ts {
		if t.Title == "" {
			continue
		}
		byCode[t.LanguageCode] = t
		codes = append(codes, t.LanguageCode)
	}
	for _, code := range []string{lang, defaultCode} {
		if t, ok := byCode[code]; ok && code != "" {
			return t, true
		}
	}
	if len(codes) == 0 {
		return data.ProjectTranslation{}, false
	}
	sort.Strings(codes)
	return byCode[codes[0]], true
}
