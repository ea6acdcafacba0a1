package service

import (
	"context"
	"errors"
	"regexp"

	"portfolio-cms/internal/data"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// KeyWithValues is a translation key with its value per language code.
type KeyWithValues struct {
	data.TranslationKey
	Values map[string]string `json:"values"`
}

// TranslationKeyInput is the payload for creating or updating a key.
// Values are keyed by language code.
type TranslationKeyInput struct {
	Key         string            `json:"key"`
	Description string            `json:"description"`
	Values      map[string]string `json:"values"`
}

// Validate checks the key format.
func (in TranslationKeyInput) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Key, validation.Required, validation.Length(1, 191), validation.Match(keyPattern)),
	)
	if err != nil {
		return invalid("Key is required and may only contain letters, digits, dots, dashes and underscores")
	}
	return nil
}

// TranslationService manages UI strings and their per-language values.
type TranslationService struct {
	repo      TranslationRepository
	languages LanguageRepository
}

// NewTranslationService creates a new TranslationService.
func NewTranslationService(repo TranslationRepository, languages LanguageRepository) *TranslationService {
	return &TranslationService{repo: repo, languages: languages}
}

// Coverage returns the share of keys with a non-empty value in the language.
// It is 0 when no keys exist.
func (s *TranslationService) Coverage(ctx context.Context, code string) (float64, error) {
	lang, err := s.languages.GetByCode(ctx, code)
	if err != nil {
		return 0, fromRepo(err, "Language not found", "")
	}
	total, err := s.repo.CountKeys(ctx)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	translated, err := s.repo.CountTranslated(ctx)
	if err != nil {
		return 0, err
	}
	return coverage(translated[lang.ID], total), nil
}

// ListKeys returns every key with its values.
func (s *TranslationService) ListKeys(ctx context.Context) ([]KeyWithValues, error) {
	keys, err := s.repo.ListKeys(ctx)
	if err != nil {
		return nil, err
	}
	values, err := s.repo.Values(ctx)
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]map[string]string, len(keys))
	for _, v := range values {
		if byKey[v.KeyID] == nil {
			byKey[v.KeyID] = map[string]string{}
		}
		byKey[v.KeyID][v.LanguageCode] = v.Value
	}
	out := make([]KeyWithValues, 0, len(keys))
	for _, k := range keys {
		vals := byKey[k.ID]
		if vals == nil {
			vals = map[string]string{}
		}
		out = append(out, KeyWithValues{TranslationKey: k, Values: vals})
	}
	return out, nil
}

// CreateKey adds a key and stores the given values.
func (s *TranslationService) CreateKey(ctx context.Context, in TranslationKeyInput) (*data.TranslationKey, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	langs, err := s.resolveCodes(ctx, in.Values)
	if err != nil {
		return nil, err
	}
	key := &data.TranslationKey{Key: in.Key, Description: in.Description}
	if err := s.repo.CreateKey(ctx, key); err != nil {
		return nil, fromRepo(err, "", "Translation key already exists")
	}
	if err := s.storeValues(ctx, key.ID, langs, in.Values); err != nil {
		return nil, err
	}
	return key, nil
}

// UpdateKey renames a key, updates its description and stores the given values.
func (s *TranslationService) UpdateKey(ctx context.Context, id string, in TranslationKeyInput) (*data.TranslationKey, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	key, err := s.repo.GetKey(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Translation key not found", "")
	}
	langs, err := s.resolveCodes(ctx, in.Values)
	if err != nil {
		return nil, err
	}
	key.Key, key.Description = in.Key, in.Description
	if err := s.repo.UpdateKey(ctx, key); err != nil {
		return nil, fromRepo(err, "Translation key not found", "Translation key already exists")
	}
	if err := s.storeValues(ctx, key.ID, langs, in.Values); err != nil {
		return nil, err
	}
	return key, nil
}

// DeleteKey removes a key and its values.
func (s *TranslationService) DeleteKey(ctx context.Context, id string) error {
	return fromRepo(s.repo.DeleteKey(ctx, id), "Translation key not found", "")
}

// SetValue sets the value of a key in one language.
func (s *TranslationService) SetValue(ctx context.Context, keyID, code, value string) error {
	if _, err := s.repo.GetKey(ctx, keyID); err != nil {
		return fromRepo(err, "Translation key not found", "")
	}
	lang, err := s.languages.GetByCode(ctx, code)
	if err != nil {
		return fromRepo(err, "Language not found", "")
	}
	return s.repo.Upsert(ctx, keyID, lang.ID, value)
}

// PublicMap returns key → value for a language, falling back to the default
// language for keys without a value. Unknown or inactive languages get the
// default language's strings.
func (s *TranslationService) PublicMap(ctx context.Context, code string) (map[string]string, error) {
	def, err := s.languages.GetDefault(ctx)
	if err != nil {
		return nil, fromRepo(err, "No default language found", "")
	}
	out := map[string]string{}
	base, err := s.repo.ValuesForLanguage(ctx, def.ID)
	if err != nil {
		return nil, err
	}
	for _, v := range base {
		out[v.Key] = v.Value
	}
	if code == "" || code == def.Code {
		return out, nil
	}

	lang, err := s.languages.GetByCode(ctx, code)
	if err != nil || !lang.IsActive {
		return out, nil
	}
	values, err := s.repo.ValuesForLanguage(ctx, lang.ID)
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		if v.Value != "" {
			out[v.Key] = v.Value
		}
	}
	return out, nil
}

func (s *TranslationService) resolveCodes(ctx context.Context, values map[string]string) (map[string]*data.Language, error) {
	langs := make(map[string]*data.Language, len(values))
	for code := range values {
		lang, err := s.languages.GetByCode(ctx, code)
		if errors.Is(err, data.ErrNotFound) {
			return nil, invalid("Language %s not found", code)
		}
		if err != nil {
			return nil, err
		}
		langs[code] = lang
	}
	return langs, nil
}

func (s *TranslationService) storeValues(ctx context.Context, keyID string, langs map[string]*data.Language, values map[string]string) error {
	for code, value := range values {
		if err := s.repo.Upsert(ctx, keyID, langs[code].ID, value); err != nil {
			return err
		}
	}
	return nil
}
