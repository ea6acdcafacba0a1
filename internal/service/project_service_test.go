//go:build unit

package service

import (
	"context"
	"testing"

	"portfolio-cms/internal/data"
)

func newProjectService(projects *mockProjectRepository, slugs *mockSlugIndex) *ProjectService {
	langs := newMockLanguages(lang("l-nl", "nl", true, true), lang("l-en", "en", false, true))
	if slugs == nil {
		slugs = &mockSlugIndex{}
	}
	return NewProjectService(projects, langs, slugs)
}

func strPtr(s string) *string { return &s }

func TestProjectService_Create(t *testing.T) {
	projects := newMockProjects()
	s := newProjectService(projects, &mockSlugIndex{owners: map[string]string{"taken": "page-1"}})
	ctx := context.Background()

	in := ProjectInput{
		ContentType: "kitchens",
		Slug:        strPtr("oak-kitchen"),
		Translations: []ProjectTranslationInput{
			{LanguageCode: "nl", Title: "Eiken keuken", Materials: []string{"Eik", ""}},
			{LanguageID: "l-en", Title: "Oak kitchen"},
		},
		Images: []ProjectImageInput{{OriginalURL: "/uploads/a.jpg"}},
	}
	p, err := s.Create(ctx, in, "admin@example.com")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.ContentTypeID != "ct-kitchens" || *p.Slug != "oak-kitchen" || p.CreatedBy != "admin@example.com" {
		t.Errorf("unexpected project: %+v", p)
	}
	if len(p.Translations) != 2 || len(p.Translations[0].Materials) != 1 {
		t.Errorf("unexpected translations: %+v", p.Translations)
	}
	if img := p.Images[0]; img.ThumbnailURL != "/uploads/a.jpg" || img.Order != 0 {
		t.Errorf("unexpected image: %+v", img)
	}

	tests := []struct {
		name string
		in   ProjectInput
		kind error
	}{
		{name: "no translations", in: ProjectInput{ContentTypeID: "ct-furniture"}, kind: ErrValidation},
		{name: "no content type", in: ProjectInput{Translations: in.Translations}, kind: ErrValidation},
		{name: "unknown content type", in: ProjectInput{ContentTypeID: "ct-x", Translations: in.Translations}, kind: ErrValidation},
		{name: "unknown language", in: ProjectInput{ContentTypeID: "ct-furniture", Translations: []ProjectTranslationInput{{LanguageCode: "xx", Title: "?"}}}, kind: ErrValidation},
		{name: "duplicate language", in: ProjectInput{ContentTypeID: "ct-furniture", Translations: []ProjectTranslationInput{{LanguageCode: "nl", Title: "a"}, {LanguageID: "l-nl", Title: "b"}}}, kind: ErrValidation},
		{name: "missing title", in: ProjectInput{ContentTypeID: "ct-furniture", Translations: []ProjectTranslationInput{{LanguageCode: "nl"}}}, kind: ErrValidation},
		{name: "bad slug", in: ProjectInput{ContentTypeID: "ct-furniture", Slug: strPtr("Bad Slug"), Translations: in.Translations}, kind: ErrValidation},
		{name: "taken slug", in: ProjectInput{ContentTypeID: "ct-furniture", Slug: strPtr("taken"), Translations: in.Translations}, kind: ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(ctx, tt.in, "")
			wantKind(t, err, tt.kind)
		})
	}
}

func TestProjectService_UpdateKeepsOmittedCollections(t *testing.T) {
	projects := newMockProjects(&data.Project{
		ID:            "p1",
		ContentTypeID: "ct-furniture",
		Translations:  []data.ProjectTranslation{{LanguageID: "l-nl", Title: "Tafel"}},
		Images:        []data.ProjectImage{{OriginalURL: "/a.jpg"}},
	})
	s := newProjectService(projects, nil)

	yes := true
	got, err := s.Update(context.Background(), "p1", ProjectInput{Featured: &yes})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !got.Featured || len(got.Translations) != 1 || len(got.Images) != 1 {
		t.Errorf("unexpected project: %+v", got)
	}

	_, err = s.Update(context.Background(), "missing", ProjectInput{})
	wantKind(t, err, ErrNotFound)
}

func TestProjectService_Toggles(t *testing.T) {
	projects := newMockProjects(&data.Project{ID: "p1"})
	s := newProjectService(projects, nil)
	ctx := context.Background()

	if v, err := s.ToggleFeatured(ctx, "p1"); err != nil || !v {
		t.Errorf("want featured; got %v (%v)", v, err)
	}
	if v, _ := s.ToggleFeatured(ctx, "p1"); v {
		t.Error("second toggle should unfeature")
	}
	if v, _ := s.TogglePublished(ctx, "p1"); !v {
		t.Error("want published")
	}
	_, err := s.TogglePublished(ctx, "missing")
	wantKind(t, err, ErrNotFound)
}

func TestPickTranslation(t *testing.T) {
	ts := []data.ProjectTranslation{
		{LanguageCode: "fr", Title: "Table"},
		{LanguageCode: "nl", Title: "Tafel"},
		{LanguageCode: "de", Title: ""},
		{LanguageCode: "en", Title: "Table (en)"},
	}
	tests := []struct {
		lang, def, want string
	}{
		{"en", "nl", "en"},
		{"de", "nl", "nl"},
		{"es", "it", "en"},
	}
	for _, tt := range tests {
		got, ok := pickTranslation(ts, tt.lang, tt.def)
		if !ok || got.LanguageCode != tt.want {
			t.Errorf("pickTranslation(%s, %s): want %s; got %s", tt.lang, tt.def, tt.want, got.LanguageCode)
		}
	}
	if _, ok := pickTranslation(nil, "en", "nl"); ok {
		t.Error("no translations must not resolve")
	}
}

func TestProjectService_PublicList(t *testing.T) {
	projects := newMockProjects(
		&data.Project{ID: "p1", Published: true, Featured: true, Slug: strPtr("oak"),
			Translations: []data.ProjectTranslation{{LanguageCode: "nl", Title: "Eik"}},
			Images:       []data.ProjectImage{{OriginalURL: "/b", Order: 1}, {OriginalURL: "/a", Order: 0}}},
		&data.Project{ID: "p2", Published: true, Translations: []data.ProjectTranslation{{LanguageCode: "en", Title: "Walnut"}}},
		&data.Project{ID: "p3", Published: false, Translations: []data.ProjectTranslation{{LanguageCode: "en", Title: "Draft"}}},
	)
	s := newProjectService(projects, nil)

	list, err := s.PublicList(context.Background(), "en", false)
	if err != nil {
		t.Fatalf("PublicList failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("want 2 published projects; got %d", len(list))
	}
	if list[0].Title != "Eik" || list[0].Language != "nl" || list[0].Images[0].OriginalURL != "/a" {
		t.Errorf("unexpected first project: %+v", list[0])
	}
	if list[1].Title != "Walnut" {
		t.Errorf("unexpected second project: %+v", list[1])
	}

	featured, _ := s.PublicList(context.Background(), "en", true)
	if len(featured) != 1 || featured[0].Slug != "oak" {
		t.Errorf("unexpected featured list: %+v", featured)
	}
}
