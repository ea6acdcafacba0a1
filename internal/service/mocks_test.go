//go:build unit

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"portfolio-cms/internal/cache"
	"portfolio-cms/internal/config"
	"portfolio-cms/internal/data"
	"portfolio-cms/internal/storage"
)

// newTestCache creates a new in-memory cache for testing.
func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := cache.New(config.CacheConfig{FilePath: "file::memory:"})
	if err != nil {
		t.Fatalf("failed to create test cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

// mockLanguageRepository keeps languages in memory.
type mockLanguageRepository struct {
	langs    []data.Language
	listErr  error
	listHits int
}

var _ LanguageRepository = (*mockLanguageRepository)(nil)

func newMockLanguages(langs ...data.Language) *mockLanguageRepository {
	return &mockLanguageRepository{langs: langs}
}

func lang(id, code string, isDefault, active bool) data.Language {
	return data.Language{ID: id, Code: code, Name: strings.ToUpper(code), IsDefault: isDefault, IsActive: active}
}

func (m *mockLanguageRepository) List(ctx context.Context) ([]data.Language, error) {
	m.listHits++
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := append([]data.Language(nil), m.langs...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		if out[i].IsActive != out[j].IsActive {
			return out[i].IsActive
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

func (m *mockLanguageRepository) find(match func(data.Language) bool) (*data.Language, error) {
	for _, l := range m.langs {
		if match(l) {
			l := l
			return &l, nil
		}
	}
	return nil, data.ErrNotFound
}

func (m *mockLanguageRepository) GetByID(ctx context.Context, id string) (*data.Language, error) {
	return m.find(func(l data.Language) bool { return l.ID == id })
}

func (m *mockLanguageRepository) GetByCode(ctx context.Context, code string) (*data.Language, error) {
	return m.find(func(l data.Language) bool { return l.Code == code })
}

func (m *mockLanguageRepository) GetDefault(ctx context.Context) (*data.Language, error) {
	return m.find(func(l data.Language) bool { return l.IsDefault })
}

func (m *mockLanguageRepository) Create(ctx context.Context, l *data.Language) error {
	for _, existing := range m.langs {
		if existing.Code == l.Code {
			return fmt.Errorf("create language: %w", data.ErrConflict)
		}
	}
	if l.ID == "" {
		l.ID = "lang-" + l.Code
	}
	if len(m.langs) == 0 {
		l.IsDefault = true
	}
	if l.IsDefault {
		l.IsActive = true
		for i := range m.langs {
			m.langs[i].IsDefault = false
		}
	}
	m.langs = append(m.langs, *l)
	return nil
}

func (m *mockLanguageRepository) Update(ctx context.Context, l *data.Language) error {
	for i := range m.langs {
		if m.langs[i].ID == l.ID {
			m.langs[i].Code, m.langs[i].Name, m.langs[i].IsActive = l.Code, l.Name, l.IsActive
			return nil
		}
	}
	return data.ErrNotFound
}

func (m *mockLanguageRepository) SetDefault(ctx context.Context, id string) error {
	if _, err := m.GetByID(ctx, id); err != nil {
		return err
	}
	for i := range m.langs {
		m.langs[i].IsDefault = m.langs[i].ID == id
		if m.langs[i].IsDefault {
			m.langs[i].IsActive = true
		}
	}
	return nil
}

func (m *mockLanguageRepository) Delete(ctx context.Context, id string) error {
	for i := range m.langs {
		if m.langs[i].ID == id {
			m.langs = append(m.langs[:i], m.langs[i+1:]...)
			return nil
		}
	}
	return data.ErrNotFound
}

// mockTranslationRepository keeps keys and values (keyID → languageID → value) in memory.
type mockTranslationRepository struct {
	langs  *mockLanguageRepository
	keys   []data.TranslationKey
	values map[string]map[string]string
}

var _ TranslationRepository = (*mockTranslationRepository)(nil)

func newMockTranslations(langs *mockLanguageRepository) *mockTranslationRepository {
	return &mockTranslationRepository{langs: langs, values: map[string]map[string]string{}}
}

func (m *mockTranslationRepository) ListKeys(ctx context.Context) ([]data.TranslationKey, error) {
	return append([]data.TranslationKey(nil), m.keys...), nil
}

func (m *mockTranslationRepository) GetKey(ctx context.Context, id string) (*data.TranslationKey, error) {
	for _, k := range m.keys {
		if k.ID == id {
			k := k
			return &k, nil
		}
	}
	return nil, data.ErrNotFound
}

func (m *mockTranslationRepository) CreateKey(ctx context.Context, key *data.TranslationKey) error {
	for _, k := range m.keys {
		if k.Key == key.Key {
			return data.ErrConflict
		}
	}
	if key.ID == "" {
		key.ID = "key-" + key.Key
	}
	m.keys = append(m.keys, *key)
	return nil
}

func (m *mockTranslationRepository) UpdateKey(ctx context.Context, key *data.TranslationKey) error {
	for i := range m.keys {
		if m.keys[i].ID == key.ID {
			m.keys[i] = *key
			return nil
		}
	}
	return data.ErrNotFound
}

func (m *mockTranslationRepository) DeleteKey(ctx context.Context, id string) error {
	for i := range m.keys {
		if m.keys[i].ID == id {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			delete(m.values, id)
			return nil
		}
	}
	return data.ErrNotFound
}

func (m *mockTranslationRepository) valuesWhere(match func(languageID string) bool) []data.TranslationValue {
	var out []data.TranslationValue
	for _, k := range m.keys {
		for langID, v := range m.values[k.ID] {
			if !match(langID) {
				continue
			}
			l, _ := m.langs.GetByID(context.Background(), langID)
			code := ""
			if l != nil {
				code = l.Code
			}
			out = append(out, data.TranslationValue{KeyID: k.ID, Key: k.Key, LanguageCode: code, Value: v})
		}
	}
	return out
}

func (m *mockTranslationRepository) Values(ctx context.Context) ([]data.TranslationValue, error) {
	return m.valuesWhere(func(string) bool { return true }), nil
}

func (m *mockTranslationRepository) ValuesForLanguage(ctx context.Context, languageID string) ([]data.TranslationValue, error) {
	return m.valuesWhere(func(id string) bool { return id == languageID }), nil
}

func (m *mockTranslationRepository) Upsert(ctx context.Context, keyID, languageID, value string) error {
	if m.values[keyID] == nil {
		m.values[keyID] = map[string]string{}
	}
	m.values[keyID][languageID] = value
	return nil
}

func (m *mockTranslationRepository) CountKeys(ctx context.Context) (int, error) {
	return len(m.keys), nil
}

func (m *mockTranslationRepository) CountTranslated(ctx context.Context) (map[string]int, error) {
	counts := map[string]int{}
	for _, byLang := range m.values {
		for langID, v := range byLang {
			if v != "" {
				counts[langID]++
			}
		}
	}
	return counts, nil
}

// mockSlugIndex maps used slugs to the id of the record that owns them.
type mockSlugIndex struct {
	owners map[string]string
	calls  int
}

var _ SlugIndex = (*mockSlugIndex)(nil)

func (m *mockSlugIndex) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	m.calls++
	owner, ok := m.owners[slug]
	return ok && owner != excludeID, nil
}

// mockProjectRepository keeps projects in memory.
type mockProjectRepository struct {
	projects map[string]*data.Project
	types    []data.ContentType
	replaced map[string][]data.ProjectTranslation
	replErr  error
}

var _ ProjectRepository = (*mockProjectRepository)(nil)

func newMockProjects(projects ...*data.Project) *mockProjectRepository {
	m := &mockProjectRepository{
		projects: map[string]*data.Project{},
		types:    []data.ContentType{{ID: "ct-furniture", Name: "furniture"}},
		replaced: map[string][]data.ProjectTranslation{},
	}
	for _, p := range projects {
		m.projects[p.ID] = p
	}
	return m
}

func (m *mockProjectRepository) List(ctx context.Context, filter data.ProjectFilter) ([]data.Project, error) {
	var out []data.Project
	for _, p := range m.projects {
		if filter.Published != nil && p.Published != *filter.Published {
			continue
		}
		if filter.Featured != nil && p.Featured != *filter.Featured {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockProjectRepository) Get(ctx context.Context, id string) (*data.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, fmt.Errorf("get project %s: %w", id, data.ErrNotFound)
	}
	cp := *p
	cp.Translations = append([]data.ProjectTranslation(nil), p.Translations...)
	return &cp, nil
}

func (m *mockProjectRepository) Create(ctx context.Context, p *data.Project) error {
	if p.ID == "" {
		p.ID = fmt.Sprintf("project-%d", len(m.projects)+1)
	}
	m.projects[p.ID] = p
	return nil
}

func (m *mockProjectRepository) Update(ctx context.Context, p *data.Project) error {
	existing, ok := m.projects[p.ID]
	if !ok {
		return data.ErrNotFound
	}
	cp := *p
	if p.Translations == nil {
		cp.Translations = existing.Translations
	}
	if p.Images == nil {
		cp.Images = existing.Images
	}
	m.projects[p.ID] = &cp
	return nil
}

func (m *mockProjectRepository) ReplaceTranslations(ctx context.Context, projectID string, translations []data.ProjectTranslation) error {
	if m.replErr != nil {
		return m.replErr
	}
	m.replaced[projectID] = translations
	return nil
}

func (m *mockProjectRepository) toggle(id string, flip func(p *data.Project) bool) (bool, error) {
	p, ok := m.projects[id]
	if !ok {
		return false, data.ErrNotFound
	}
	return flip(p), nil
}

func (m *mockProjectRepository) ToggleFeatured(ctx context.Context, id string) (bool, error) {
	return m.toggle(id, func(p *data.Project) bool { p.Featured = !p.Featured; return p.Featured })
}

func (m *mockProjectRepository) TogglePublished(ctx context.Context, id string) (bool, error) {
	return m.toggle(id, func(p *data.Project) bool { p.Published = !p.Published; return p.Published })
}

func (m *mockProjectRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.projects[id]; !ok {
		return data.ErrNotFound
	}
	delete(m.projects, id)
	return nil
}

func (m *mockProjectRepository) PublishedSlugs(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (m *mockProjectRepository) ListContentTypes(ctx context.Context) ([]data.ContentType, error) {
	return m.types, nil
}

func (m *mockProjectRepository) EnsureContentType(ctx context.Context, name string) (*data.ContentType, error) {
	for _, t := range m.types {
		if t.Name == name {
			t := t
			return &t, nil
		}
	}
	ct := data.ContentType{ID: "ct-" + name, Name: name}
	m.types = append(m.types, ct)
	return &ct, nil
}

// mockProvider answers with a function of the request and records every call.
type mockProvider struct {
	configured bool
	fn         func(text, source string, targets []string) (map[string]string, error)
	calls      []string
}

func (m *mockProvider) TranslateText(ctx context.Context, text, source string, targets []string) (map[string]string, error) {
	m.calls = append(m.calls, text)
	if m.fn == nil {
		out := map[string]string{}
		for _, t := range targets {
			out[t] = t + ":" + text
		}
		return out, nil
	}
	return m.fn(text, source, targets)
}

func (m *mockProvider) IsConfigured() bool { return m.configured }

// mockAnalyticsRepository records inserted events and answers stats queries
// from them.
type mockAnalyticsRepository struct {
	consents  map[string]data.CookieConsent
	events    []data.AnalyticsEvent
	insertErr error
	cutoff    time.Time
}

var _ AnalyticsRepository = (*mockAnalyticsRepository)(nil)

func (m *mockAnalyticsRepository) SaveConsent(ctx context.Context, c *data.CookieConsent) error {
	if m.consents == nil {
		m.consents = map[string]data.CookieConsent{}
	}
	m.consents[c.SessionID] = *c
	return nil
}

func (m *mockAnalyticsRepository) GetConsent(ctx context.Context, sessionID string) (*data.CookieConsent, error) {
	c, ok := m.consents[sessionID]
	if !ok {
		return nil, data.ErrNotFound
	}
	return &c, nil
}

func (m *mockAnalyticsRepository) InsertEvent(ctx context.Context, e *data.AnalyticsEvent) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.events = append(m.events, *e)
	return nil
}

func (m *mockAnalyticsRepository) pageViews(from, to time.Time) []data.AnalyticsEvent {
	var out []data.AnalyticsEvent
	for _, e := range m.events {
		if e.EventType == "pageview" && !e.CreatedAt.Before(from) && !e.CreatedAt.After(to) {
			out = append(out, e)
		}
	}
	return out
}

func (m *mockAnalyticsRepository) CountPageViews(ctx context.Context, from, to time.Time) (int, error) {
	return len(m.pageViews(from, to)), nil
}

func (m *mockAnalyticsRepository) CountVisitors(ctx context.Context, from, to time.Time) (int, error) {
	seen := map[string]bool{}
	for _, e := range m.pageViews(from, to) {
		seen[e.SessionID] = true
	}
	return len(seen), nil
}

func (m *mockAnalyticsRepository) PageViewsByPath(ctx context.Context, from, to time.Time, limit int) ([]data.PageViews, error) {
	counts := map[string]int{}
	for _, e := range m.pageViews(from, to) {
		counts[e.PagePath]++
	}
	var out []data.PageViews
	for p, n := range counts {
		out = append(out, data.PageViews{PagePath: p, Views: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Views != out[j].Views {
			return out[i].Views > out[j].Views
		}
		return out[i].PagePath < out[j].PagePath
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockAnalyticsRepository) RecentPageViews(ctx context.Context, from, to time.Time, limit int) ([]data.AnalyticsEvent, error) {
	out := m.pageViews(from, to)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockAnalyticsRepository) PageViewTimes(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	var out []time.Time
	for _, e := range m.pageViews(from, to) {
		out = append(out, e.CreatedAt)
	}
	return out, nil
}

func (m *mockAnalyticsRepository) EventsBetween(ctx context.Context, from, to time.Time) ([]data.AnalyticsEvent, error) {
	var out []data.AnalyticsEvent
	for _, e := range m.events {
		if !e.CreatedAt.Before(from) && !e.CreatedAt.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockAnalyticsRepository) DeleteBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var kept []data.AnalyticsEvent
	for _, e := range m.events {
		if e.CreatedAt.Before(from) || e.CreatedAt.After(to) {
			kept = append(kept, e)
		}
	}
	n := int64(len(m.events) - len(kept))
	m.events = kept
	return n, nil
}

func (m *mockAnalyticsRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	m.cutoff = cutoff
	var kept []data.AnalyticsEvent
	for _, e := range m.events {
		if !e.CreatedAt.Before(cutoff) {
			kept = append(kept, e)
		}
	}
	n := int64(len(m.events) - len(kept))
	m.events = kept
	return n, nil
}

// mockPageDocumentRepository stores documents by name.
type mockPageDocumentRepository struct {
	docs map[string]data.PageDocument
}

var _ PageDocumentRepository = (*mockPageDocumentRepository)(nil)

func (m *mockPageDocumentRepository) Get(ctx context.Context, name string) (*data.PageDocument, error) {
	d, ok := m.docs[name]
	if !ok {
		return nil, data.ErrNotFound
	}
	return &d, nil
}

func (m *mockPageDocumentRepository) Save(ctx context.Context, doc *data.PageDocument) error {
	if m.docs == nil {
		m.docs = map[string]data.PageDocument{}
	}
	m.docs[doc.Name] = *doc
	return nil
}

// mockContactRepository records the last created message.
type mockContactRepository struct {
	created   *data.ContactMessage
	errToRet  error
	readCalls int
}

var _ ContactRepository = (*mockContactRepository)(nil)

func (m *mockContactRepository) Create(ctx context.Context, msg *data.ContactMessage) error {
	m.created = msg
	return m.errToRet
}

func (m *mockContactRepository) List(ctx context.Context) ([]data.ContactMessage, error) {
	return nil, m.errToRet
}

func (m *mockContactRepository) Get(ctx context.Context, id string) (*data.ContactMessage, error) {
	if m.errToRet != nil {
		return nil, m.errToRet
	}
	return &data.ContactMessage{ID: id}, nil
}

func (m *mockContactRepository) SetRead(ctx context.Context, id string, read bool) error {
	m.readCalls++
	return m.errToRet
}

func (m *mockContactRepository) SetReplied(ctx context.Context, id string, replied bool) error {
	return m.errToRet
}

func (m *mockContactRepository) Delete(ctx context.Context, id string) error {
	return m.errToRet
}

func (m *mockContactRepository) CountUnread(ctx context.Context) (int, error) {
	return 0, m.errToRet
}

// mockMediaRepository keeps media items in memory.
type mockMediaRepository struct {
	items     map[string]*data.MediaItem
	createErr error
	reordered []string
}

var _ MediaRepository = (*mockMediaRepository)(nil)

func (m *mockMediaRepository) Create(ctx context.Context, item *data.MediaItem) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.items == nil {
		m.items = map[string]*data.MediaItem{}
	}
	item.ID = fmt.Sprintf("media-%d", len(m.items)+1)
	m.items[item.ID] = item
	return nil
}

func (m *mockMediaRepository) Get(ctx context.Context, id string) (*data.MediaItem, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, data.ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (m *mockMediaRepository) List(ctx context.Context, filter data.MediaFilter) ([]data.MediaItem, error) {
	var out []data.MediaItem
	for _, item := range m.items {
		out = append(out, *item)
	}
	return out, nil
}

func (m *mockMediaRepository) Update(ctx context.Context, item *data.MediaItem) error {
	if _, ok := m.items[item.ID]; !ok {
		return data.ErrNotFound
	}
	m.items[item.ID] = item
	return nil
}

func (m *mockMediaRepository) Reorder(ctx context.Context, projectID string, ids []string) error {
	for _, id := range ids {
		if _, ok := m.items[id]; !ok {
			return data.ErrNotFound
		}
	}
	m.reordered = ids
	return nil
}

func (m *mockMediaRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return data.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

// mockFileStore pretends to store files.
type mockFileStore struct {
	saveErr error
	deleted []string
}

var _ FileStore = (*mockFileStore)(nil)

func (m *mockFileStore) Save(ctx context.Context, name string, r io.Reader) (*storage.Object, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	b, _ := io.ReadAll(r)
	return &storage.Object{
		Filename:     name,
		OriginalURL:  "/uploads/" + name,
		ThumbnailURL: "/uploads/thumbs/" + name,
		Size:         int64(len(b)),
		Width:        800,
		Height:       600,
		MimeType:     "image/png",
	}, nil
}

func (m *mockFileStore) Delete(ctx context.Context, urls ...string) error {
	m.deleted = append(m.deleted, urls...)
	return nil
}

// wantKind fails the test unless err is a service error of the given kind.
func wantKind(t *testing.T, err, kind error) *Error {
	t.Helper()
	var svcErr *Error
	if !errors.As(err, &svcErr) || !errors.Is(err, kind) {
		t.Fatalf("want %v error; got %v", kind, err)
	}
	return svcErr
}
