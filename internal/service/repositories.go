package service

import (
	"context"
	"time"

	"portfolio-cms/internal/data"
)

// LanguageRepository defines the database operations on languages.
type LanguageRepository interface {
	List(ctx context.Context) ([]data.Language, error)
	GetByID(ctx context.Context, id string) (*data.Language, error)
	GetByCode(ctx context.Context, code string) (*data.Language, error)
	GetDefault(ctx context.Context) (*data.Language, error)
	Create(ctx context.Context, lang *data.Language) error
	Update(ctx context.Context, lang *data.Language) error
	SetDefault(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// TranslationRepository defines the database operations on UI strings.
type TranslationRepository interface {
	ListKeys(ctx context.Context) ([]data.TranslationKey, error)
	GetKey(ctx context.Context, id string) (*data.TranslationKey, error)
	CreateKey(ctx context.Context, key *data.TranslationKey) error
	UpdateKey(ctx context.Context, key *data.TranslationKey) error
	DeleteKey(ctx context.Context, id string) error
	Values(ctx context.Context) ([]data.TranslationValue, error)
	ValuesForLanguage(ctx context.Context, languageID string) ([]data.TranslationValue, error)
	Upsert(ctx context.Context, keyID, languageID, value string) error
	CountKeys(ctx context.Context) (int, error)
	CountTranslated(ctx context.Context) (map[string]int, error)
}

// ContentRepository defines the database operations on content pages.
type ContentRepository interface {
	List(ctx context.Context) ([]data.ContentPage, error)
	GetByID(ctx context.Context, id string) (*data.ContentPage, error)
	GetBySlug(ctx context.Context, slug string) (*data.ContentPage, error)
	Create(ctx context.Context, page *data.ContentPage) error
	Update(ctx context.Context, page *data.ContentPage) error
	Delete(ctx context.Context, id string) error
	SlugTaken(ctx context.Context, slug, excludeID string) (bool, error)
	PublishedSlugs(ctx context.Context) ([]string, error)
}

// ProjectRepository defines the database operations on projects.
type ProjectRepository interface {
	List(ctx context.Context, filter data.ProjectFilter) ([]data.Project, error)
	Get(ctx context.Context, id string) (*data.Project, error)
	Create(ctx context.Context, p *data.Project) error
	Update(ctx context.Context, p *data.Project) error
	ReplaceTranslations(ctx context.Context, projectID string, translations []data.ProjectTranslation) error
	ToggleFeatured(ctx context.Context, id string) (bool, error)
	TogglePublished(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
	PublishedSlugs(ctx context.Context) ([]string, error)
	ListContentTypes(ctx context.Context) ([]data.ContentType, error)
	EnsureContentType(ctx context.Context, name string) (*data.ContentType, error)
}

// MediaRepository defines the database operations on media items.
type MediaRepository interface {
	Create(ctx context.Context, m *data.MediaItem) error
	Get(ctx context.Context, id string) (*data.MediaItem, error)
	List(ctx context.Context, filter data.MediaFilter) ([]data.MediaItem, error)
	Update(ctx context.Context, m *data.MediaItem) error
	Reorder(ctx context.Context, projectID string, ids []string) error
	Delete(ctx context.Context, id string) error
}

// ContactRepository defines the database operations on contact messages.
type ContactRepository interface {
	Create(ctx context.Context, m *data.ContactMessage) error
	List(ctx context.Context) ([]data.ContactMessage, error)
	Get(ctx context.Context, id string) (*data.ContactMessage, error)
	SetRead(ctx context.Context, id string, read bool) error
	SetReplied(ctx context.Context, id string, replied bool) error
	Delete(ctx context.Context, id string) error
	CountUnread(ctx context.Context) (int, error)
}

// AnalyticsRepository defines the database operations on consents and events.
type AnalyticsRepository interface {
	SaveConsent(ctx context.Context, c *data.CookieConsent) error
	GetConsent(ctx context.Context, sessionID string) (*data.CookieConsent, error)
	InsertEvent(ctx context.Context, e *data.AnalyticsEvent) error
	CountPageViews(ctx context.Context, from, to time.Time) (int, error)
	CountVisitors(ctx context.Context, from, to time.Time) (int, error)
	PageViewsByPath(ctx context.Context, from, to time.Time, limit int) ([]data.PageViews, error)
	RecentPageViews(ctx context.Context, from, to time.Time, limit int) ([]data.AnalyticsEvent, error)
	PageViewTimes(ctx context.Context, from, to time.Time) ([]time.Time, error)
	EventsBetween(ctx context.Context, from, to time.Time) ([]data.AnalyticsEvent, error)
	DeleteBetween(ctx context.Context, from, to time.Time) (int64, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// PageDocumentRepository defines the database operations on page-builder documents.
type PageDocumentRepository interface {
	Get(ctx context.Context, name string) (*data.PageDocument, error)
	Save(ctx context.Context, doc *data.PageDocument) error
}

// Cache is the key/value cache used for the language registry.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
