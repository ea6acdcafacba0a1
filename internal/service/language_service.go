package service

import (
	"context"
	"fmt"

	"portfolio-cms/internal/data"
	"portfolio-cms/internal/i18n"
	"portfolio-cms/internal/logger"
	"portfolio-cms/internal/translate"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const activeLanguagesCacheKey = "languages:active"

// LanguageWithCoverage is a language together with its UI-string coverage.
type LanguageWithCoverage struct {
	data.Language
	Coverage float64 `json:"coverage"`
}

// CreateLanguageInput is the payload for creating a language.
type CreateLanguageInput struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	IsDefault     bool   `json:"isDefault"`
	IsActive      *bool  `json:"isActive"`
	AutoTranslate bool   `json:"autoTranslate"`
}

const invalidCodeMessage = "Code must be a lowercase language code such as nl or pt-br"

// Validate checks the required fields and the code format.
func (in CreateLanguageInput) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Code, validation.Required),
		validation.Field(&in.Name, validation.Required),
	)
	if err != nil {
		return invalid("Code and name are required")
	}
	return validateCode(in.Code)
}

func validateCode(code string) error {
	if err := validation.Validate(code, validation.Match(i18n.CodePattern)); err != nil {
		return invalid(invalidCodeMessage)
	}
	return nil
}

// UpdateLanguageInput is a partial update of a language. Nil fields are kept.
type UpdateLanguageInput struct {
	Code      *string `json:"code"`
	Name      *string `json:"name"`
	IsActive  *bool   `json:"isActive"`
	IsDefault *bool   `json:"isDefault"`
}

// LanguageService manages the language registry.
type LanguageService struct {
	repo         LanguageRepository
	translations TranslationRepository
	provider     translate.Provider
	cache        Cache
	log          logger.Logger
	// background runs fire-and-forget work such as auto-translation.
	background func(func())
}

// NewLanguageService creates a new LanguageService.
func NewLanguageService(repo LanguageRepository, translations TranslationRepository, provider translate.Provider, cache Cache, log logger.Logger) *LanguageService {
	return &LanguageService{
		repo:         repo,
		translations: translations,
		provider:     provider,
		cache:        cache,
		log:          log,
		background:   func(fn func()) { go fn() },
	}
}

// ListWithCoverage returns every language, default first, with coverage.
func (s *LanguageService) ListWithCoverage(ctx context.Context) ([]LanguageWithCoverage, error) {
	langs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	total, err := s.translations.CountKeys(ctx)
	if err != nil {
		return nil, err
	}
	translated, err := s.translations.CountTranslated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]LanguageWithCoverage, 0, len(langs))
	for _, l := range langs {
		out = append(out, LanguageWithCoverage{Language: l, Coverage: coverage(translated[l.ID], total)})
	}
	return out, nil
}

// Active returns the active languages, default first. The list is cached
// until a language changes.
func (s *LanguageService) Active(ctx context.Context) ([]data.Language, error) {
	var cached []data.Language
	if s.cache != nil {
		if found, err := s.cache.GetJSON(ctx, activeLanguagesCacheKey, &cached); err == nil && found {
			return cached, nil
		} else if err != nil {
			s.log.Warn(fmt.Sprintf("language cache read failed: %v", err))
		}
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]data.Language, 0, len(all))
	for _, l := range all {
		if l.IsActive {
			active = append(active, l)
		}
	}
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, activeLanguagesCacheKey, active, 0); err != nil {
			s.log.Warn(fmt.Sprintf("language cache write failed: %v", err))
		}
	}
	return active, nil
}

// DefaultCode returns the code of the default language.
func (s *LanguageService) DefaultCode(ctx context.Context) (string, error) {
	active, err := s.Active(ctx)
	if err != nil {
		return "", err
	}
	for _, l := range active {
		if l.IsDefault {
			return l.Code, nil
		}
	}
	return "", notFound("No default language found")
}

// Create adds a language. With AutoTranslate set and a configured provider,
// every UI string is translated into the new language in the background.
func (s *LanguageService) Create(ctx context.Context, in CreateLanguageInput) (*data.Language, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	lang := &data.Language{Code: in.Code, Name: in.Name, IsDefault: in.IsDefault, IsActive: true}
	if in.IsActive != nil {
		lang.IsActive = *in.IsActive
	}
	if err := s.repo.Create(ctx, lang); err != nil {
		return nil, fromRepo(err, "", "Language code already exists")
	}
	s.invalidate(ctx)
	s.log.Info(fmt.Sprintf("language %s created", lang.Code))

	if in.AutoTranslate && s.provider.IsConfigured() && !lang.IsDefault {
		created := *lang
		s.background(func() {
			s.autoTranslate(context.Background(), created)
		})
	}
	return lang, nil
}

func (s *LanguageService) autoTranslate(ctx context.Context, lang data.Language) {
	log := s.log.With(map[string]interface{}{"language": lang.Code})
	def, err := s.repo.GetDefault(ctx)
	if err != nil {
		log.Error(err, "auto-translation skipped: no default language")
		return
	}
	source, err := s.translations.ValuesForLanguage(ctx, def.ID)
	if err != nil {
		log.Error(err, "auto-translation failed to load source values")
		return
	}
	existing, err := s.translations.ValuesForLanguage(ctx, lang.ID)
	if err != nil {
		log.Error(err, "auto-translation failed to load existing values")
		return
	}
	done := make(map[string]bool, len(existing))
	for _, v := range existing {
		done[v.KeyID] = v.Value != ""
	}

	translated := 0
	for _, v := range source {
		if v.Value == "" || done[v.KeyID] {
			continue
		}
		out, err := s.provider.TranslateText(ctx, v.Value, def.Code, []string{lang.Code})
		if err != nil || out[lang.Code] == "" {
			log.Warn(fmt.Sprintf("auto-translation of %q failed: %v", v.Key, err))
			continue
		}
		if err := s.translations.Upsert(ctx, v.KeyID, lang.ID, out[lang.Code]); err != nil {
			log.Error(err, fmt.Sprintf("failed to store translation of %q", v.Key))
			continue
		}
		translated++
	}
	log.Info(fmt.Sprintf("auto-translated %d of %d keys", translated, len(source)))
}

// Update applies a partial update. The default language cannot be
// deactivated.
func (s *LanguageService) Update(ctx context.Context, id string, in UpdateLanguageInput) (*data.Language, error) {
	lang, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Language not found", "")
	}
	if in.Code != nil {
		lang.Code = *in.Code
	}
	if in.Name != nil {
		lang.Name = *in.Name
	}
	if in.IsActive != nil {
		lang.IsActive = *in.IsActive
	}
	if lang.Code == "" || lang.Name == "" {
		return nil, invalid("Code and name are required")
	}
	if err := validateCode(lang.Code); err != nil {
		return nil, err
	}
	if lang.IsDefault && !lang.IsActive {
		return nil, invalid("The default language cannot be deactivated")
	}
	if err := s.repo.Update(ctx, lang); err != nil {
		return nil, fromRepo(err, "Language not found", "Language code already exists")
	}
	if in.IsDefault != nil && *in.IsDefault && !lang.IsDefault {
		if err := s.repo.SetDefault(ctx, id); err != nil {
			return nil, fromRepo(err, "Language not found", "")
		}
	}
	s.invalidate(ctx)
	return s.repo.GetByID(ctx, id)
}

// SetDefault makes the language the only default one.
func (s *LanguageService) SetDefault(ctx context.Context, id string) error {
	if err := s.repo.SetDefault(ctx, id); err != nil {
		return fromRepo(err, "Language not found", "")
	}
	s.invalidate(ctx)
	return nil
}

// Delete removes a language and its translations. The default language
// cannot be deleted.
func (s *LanguageService) Delete(ctx context.Context, id string) error {
	lang, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fromRepo(err, "Language not found", "")
	}
	if lang.IsDefault {
		return invalid("The default language cannot be deleted")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fromRepo(err, "Language not found", "")
	}
	s.invalidate(ctx)
	return nil
}

func (s *LanguageService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, activeLanguagesCacheKey); err != nil {
		s.log.Warn(fmt.Sprintf("language cache invalidation failed: %v", err))
	}
}

// splitDefault splits the languages into the default and the rest.
func splitDefault(langs []data.Language) (*data.Language, []data.Language) {
	var def *data.Language
	var rest []data.Language
	for i := range langs {
		if langs[i].IsDefault && def == nil {
			def = &langs[i]
			continue
		}
		rest = append(rest, langs[i])
	}
	return def, rest
}

func coverage(translated, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(translated) / float64(total)
}
