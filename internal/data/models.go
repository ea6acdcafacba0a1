package data

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"portfolio-cms/internal/richtext"
)

// Language is a locale the site can be served in.
type Language struct {
	ID        string    `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	Name      string    `db:"name" json:"name"`
	IsDefault bool      `db:"is_default" json:"isDefault"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// TranslationKey identifies one UI string.
type TranslationKey struct {
	ID          string    `db:"id" json:"id"`
	Key         string    `db:"translation_key" json:"key"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// Translation is the value of a key in one language.
type Translation struct {
	ID         string    `db:"id" json:"id"`
	KeyID      string    `db:"key_id" json:"keyId"`
	LanguageID string    `db:"language_id" json:"languageId"`
	Value      string    `db:"value" json:"value"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// TranslationValue is a translation joined with its key and language code.
type TranslationValue struct {
	KeyID        string `db:"key_id" json:"keyId"`
	Key          string `db:"translation_key" json:"key"`
	LanguageCode string `db:"code" json:"languageCode"`
	Value        string `db:"value" json:"value"`
}

// ContentType classifies projects (e.g. furniture, sculpture).
type ContentType struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// ContentPage is a standalone page addressed by slug.
type ContentPage struct {
	ID           string                   `db:"id" json:"id"`
	Slug         string                   `db:"slug" json:"slug"`
	Published    bool                     `db:"published" json:"published"`
	CreatedAt    time.Time                `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time                `db:"updated_at" json:"updatedAt"`
	Translations []ContentPageTranslation `db:"-" json:"translations"`
}

// ContentPageTranslation holds the localized title and body of a page.
type ContentPageTranslation struct {
	ID           string            `db:"id" json:"id"`
	PageID       string            `db:"page_id" json:"pageId"`
	LanguageID   string            `db:"language_id" json:"languageId"`
	LanguageCode string            `db:"code" json:"languageCode,omitempty"`
	Title        string            `db:"title" json:"title"`
	Content      richtext.Document `db:"content" json:"content"`
}

// Project is a portfolio entry.
type Project struct {
	ID            string               `db:"id" json:"id"`
	ContentTypeID string               `db:"content_type_id" json:"contentTypeId"`
	Slug          *string              `db:"slug" json:"slug,omitempty"`
	Featured      bool                 `db:"featured" json:"featured"`
	Published     bool                 `db:"published" json:"published"`
	CreatedBy     string               `db:"created_by" json:"createdBy"`
	CreatedAt     time.Time            `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time            `db:"updated_at" json:"updatedAt"`
	Translations  []ProjectTranslation `db:"-" json:"translations"`
	Images        []ProjectImage       `db:"-" json:"images,omitempty"`
}

// TranslationFor returns the translation in the given language, if any.
func (p *Project) TranslationFor(languageID string) (ProjectTranslation, bool) {
	for _, t := range p.Translations {
		if t.LanguageID == languageID {
			return t, true
		}
	}
	return ProjectTranslation{}, false
}

// ProjectTranslation holds the localized fields of a project.
type ProjectTranslation struct {
	ID           string            `db:"id" json:"id"`
	ProjectID    string            `db:"project_id" json:"projectId"`
	LanguageID   string            `db:"language_id" json:"languageId"`
	LanguageCode string            `db:"code" json:"languageCode,omitempty"`
	Title        string            `db:"title" json:"title"`
	Description  richtext.Document `db:"description" json:"description"`
	Materials    StringList        `db:"materials" json:"materials"`
}

// ProjectImage is an image shown on a project page. Order is a display
// sequence and need not be contiguous.
type ProjectImage struct {
	ID           string `db:"id" json:"id"`
	ProjectID    string `db:"project_id" json:"projectId"`
	OriginalURL  string `db:"original_url" json:"originalUrl"`
	ThumbnailURL string `db:"thumbnail_url" json:"thumbnailUrl"`
	Alt          string `db:"alt" json:"alt"`
	Order        int    `db:"sort_order" json:"order"`
}

// MediaItem is an uploaded file. ProjectID is a weak reference.
type MediaItem struct {
	ID           string     `db:"id" json:"id"`
	Filename     string     `db:"filename" json:"filename"`
	OriginalURL  string     `db:"original_url" json:"originalUrl"`
	ThumbnailURL string     `db:"thumbnail_url" json:"thumbnailUrl"`
	Alt          string     `db:"alt" json:"alt"`
	Size         int64      `db:"size" json:"size"`
	Width        int        `db:"width" json:"width"`
	Height       int        `db:"height" json:"height"`
	MimeType     string     `db:"mime_type" json:"mimeType"`
	ProjectID    *string    `db:"project_id" json:"projectId,omitempty"`
	Order        *int       `db:"sort_order" json:"order,omitempty"`
	Tags         StringList `db:"tags" json:"tags"`
	Category     string     `db:"category" json:"category"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
}

// MediaFilter narrows a media listing. Empty fields are ignored.
type MediaFilter struct {
	Category  string
	ProjectID string
	Tag       string
}

// PageDocument is the stored component list of a page-builder page.
type PageDocument struct {
	Name       string    `db:"name" json:"name"`
	Components string    `db:"components" json:"-"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// ContactMessage is a message submitted through the public contact form.
type ContactMessage struct {
	ID               string    `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	Email            string    `db:"email" json:"email"`
	ProjectType      string    `db:"project_type" json:"projectType"`
	Message          string    `db:"message" json:"message"`
	PrivacyAccepted  bool      `db:"privacy_accepted" json:"privacyAccepted"`
	MarketingConsent bool      `db:"marketing_consent" json:"marketingConsent"`
	Read             bool      `db:"is_read" json:"read"`
	Replied          bool      `db:"replied" json:"replied"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
}

// CookieConsent records what a visitor session agreed to.
type CookieConsent struct {
	SessionID string    `db:"session_id" json:"sessionId"`
	Analytics bool      `db:"analytics" json:"analytics"`
	Marketing bool      `db:"marketing" json:"marketing"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// AnalyticsEvent is a single tracked interaction.
type AnalyticsEvent struct {
	ID        string    `db:"id" json:"id"`
	SessionID string    `db:"session_id" json:"sessionId"`
	PagePath  string    `db:"page_path" json:"pagePath"`
	PageTitle string    `db:"page_title" json:"pageTitle"`
	Referrer  string    `db:"referrer" json:"referrer"`
	UserAgent string    `db:"user_agent" json:"userAgent"`
	Language  string    `db:"language" json:"language"`
	Country   string    `db:"country" json:"country"`
	EventType string    `db:"event_type" json:"eventType"`
	Metadata  JSONText  `db:"metadata" json:"metadata"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// PageViews is a per-path view count.
type PageViews struct {
	PagePath string `db:"page_path" json:"pagePath"`
	Views    int    `db:"views" json:"views"`
}

// StringList is a list of strings stored as a JSON array.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	b, err := scanBytes(src)
	if err != nil {
		return err
	}
	if len(b) == 0 {
		*l = StringList{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("invalid string list: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}

// JSONText is an opaque JSON value stored as text.
type JSONText json.RawMessage

// Value implements driver.Valuer.
func (j JSONText) Value() (driver.Value, error) {
	if len(j) == 0 {
		return "{}", nil
	}
	if !json.Valid(j) {
		return nil, fmt.Errorf("invalid JSON value")
	}
	return string(j), nil
}

// Scan implements sql.Scanner.
func (j *JSONText) Scan(src any) error {
	b, err := scanBytes(src)
	if err != nil {
		return err
	}
	*j = append((*j)[:0], b...)
	return nil
}

// MarshalJSON writes the stored JSON verbatim.
func (j JSONText) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("{}"), nil
	}
	return j, nil
}

// UnmarshalJSON keeps a copy of the raw value.
func (j *JSONText) UnmarshalJSON(b []byte) error {
	*j = append((*j)[:0], b...)
	return nil
}

func scanBytes(src any) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported scan source %T", src)
	}
}
