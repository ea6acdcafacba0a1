//go:build integration

package data

import (
	"errors"
	"reflect"
	"testing"

	"portfolio-cms/internal/richtext"
)

func newProject(t *testing.T, db *SQLProjectRepository, langID, title string) *Project {
	t.Helper()
	ct, err := db.EnsureContentType(t.Context(), "furniture")
	if err != nil {
		t.Fatalf("EnsureContentType failed: %v", err)
	}
	desc, _ := richtext.FromPlainText("Solid oak.")
	p := &Project{
		ContentTypeID: ct.ID,
		CreatedBy:     "admin@example.com",
		Translations: []ProjectTranslation{
			{LanguageID: langID, Title: title, Description: desc, Materials: StringList{"Solid Oak", "Natural Oil Finish"}},
		},
		Images: []ProjectImage{
			{OriginalURL: "/uploads/b.jpg", ThumbnailURL: "/uploads/thumbs/b.jpg", Order: 20},
			{OriginalURL: "/uploads/a.jpg", ThumbnailURL: "/uploads/thumbs/a.jpg", Order: 5},
		},
	}
	if err := db.Create(t.Context(), p); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return p
}

func TestProjectRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLProjectRepository(db)
	nl := seedLanguage(t, NewSQLLanguageRepository(db), "nl", true)

	p := newProject(t, repo, nl.ID, "Eiken tafel")
	got, err := repo.Get(t.Context(), p.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got.Translations) != 1 || got.Translations[0].LanguageCode != "nl" {
		t.Fatalf("unexpected translations: %+v", got.Translations)
	}
	tr := got.Translations[0]
	if !reflect.DeepEqual([]string(tr.Materials), []string{"Solid Oak", "Natural Oil Finish"}) {
		t.Errorf("materials not round-tripped: %v", tr.Materials)
	}
	if richtext.PlainText(tr.Description) != "Solid oak." {
		t.Errorf("description not round-tripped: %q", richtext.PlainText(tr.Description))
	}
	if len(got.Images) != 2 || got.Images[0].Order != 5 {
		t.Errorf("images should come in display order: %+v", got.Images)
	}
}

func TestProjectRepository_ReplaceTranslations(t *testing.T) {
	db := setupTestDB(t)
	langs := NewSQLLanguageRepository(db)
	repo := NewSQLProjectRepository(db)
	nl := seedLanguage(t, langs, "nl", true)
	en := seedLanguage(t, langs, "en", true)
	p := newProject(t, repo, nl.ID, "Eiken tafel")

	err := repo.ReplaceTranslations(t.Context(), p.ID, []ProjectTranslation{
		{LanguageID: nl.ID, Title: "Eiken tafel"},
		{LanguageID: en.ID, Title: "Oak table", Materials: StringList{"Oak"}},
	})
	if err != nil {
		t.Fatalf("ReplaceTranslations failed: %v", err)
	}
	got, _ := repo.Get(t.Context(), p.ID)
	if len(got.Translations) != 2 {
		t.Fatalf("want 2 translations; got %d", len(got.Translations))
	}
	if tr, ok := got.TranslationFor(en.ID); !ok || tr.Title != "Oak table" {
		t.Errorf("english translation missing: %+v", got.Translations)
	}

	err = repo.ReplaceTranslations(t.Context(), p.ID, []ProjectTranslation{
		{LanguageID: en.ID, Title: "a"}, {LanguageID: en.ID, Title: "b"},
	})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("want ErrConflict for duplicate language; got %v", err)
	}
	got, _ = repo.Get(t.Context(), p.ID)
	if len(got.Translations) != 2 {
		t.Errorf("failed replace must leave the previous set, got %d", len(got.Translations))
	}
}

func TestProjectRepository_ListFiltersAndToggles(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLProjectRepository(db)
	nl := seedLanguage(t, NewSQLLanguageRepository(db), "nl", true)
	a := newProject(t, repo, nl.ID, "A")
	newProject(t, repo, nl.ID, "B")

	featured, err := repo.ToggleFeatured(t.Context(), a.ID)
	if err != nil || !featured {
		t.Fatalf("want featured=true; got %v (%v)", featured, err)
	}
	yes := true
	list, err := repo.List(t.Context(), ProjectFilter{Featured: &yes})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != a.ID || list[0].Images != nil {
		t.Errorf("unexpected filtered list: %+v", list)
	}

	list, _ = repo.List(t.Context(), ProjectFilter{IncludeImages: true})
	if len(list) != 2 || len(list[0].Images) != 2 {
		t.Errorf("expected both projects with images, got %+v", list)
	}

	if _, err := repo.TogglePublished(t.Context(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound; got %v", err)
	}
}

func TestProjectRepository_DeleteDetachesMedia(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLProjectRepository(db)
	media := NewSQLMediaRepository(db)
	nl := seedLanguage(t, NewSQLLanguageRepository(db), "nl", true)
	p := newProject(t, repo, nl.ID, "A")

	item := &MediaItem{Filename: "a.jpg", OriginalURL: "/uploads/a.jpg", MimeType: "image/jpeg", ProjectID: &p.ID}
	if err := media.Create(t.Context(), item); err != nil {
		t.Fatalf("media Create failed: %v", err)
	}
	if err := repo.Delete(t.Context(), p.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	got, err := media.Get(t.Context(), item.ID)
	if err != nil {
		t.Fatalf("media item should survive project deletion: %v", err)
	}
	if got.ProjectID != nil {
		t.Errorf("want detached media item; got project %s", *got.ProjectID)
	}
}

func TestContentRepository_SlugTaken(t *testing.T) {
	db := setupTestDB(t)
	pages := NewSQLContentRepository(db)
	projects := NewSQLProjectRepository(db)
	nl := seedLanguage(t, NewSQLLanguageRepository(db), "nl", true)

	page := &ContentPage{Slug: "about-us", Translations: []ContentPageTranslation{{LanguageID: nl.ID, Title: "Over ons"}}}
	if err := pages.Create(t.Context(), page); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	p := newProject(t, projects, nl.ID, "Table")
	slug := "oak-table"
	p.Slug = &slug
	if err := projects.Update(t.Context(), p); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	testCases := []struct {
		slug, exclude string
		want          bool
	}{
		{"about-us", "", true},
		{"about-us", page.ID, false},
		{"oak-table", "", true},
		{"oak-table", p.ID, false},
		{"About-us", "", false},
		{"contact", "", false},
	}
	for _, tc := range testCases {
		got, err := pages.SlugTaken(t.Context(), tc.slug, tc.exclude)
		if err != nil {
			t.Fatalf("SlugTaken failed: %v", err)
		}
		if got != tc.want {
			t.Errorf("SlugTaken(%q, %q) = %v; want %v", tc.slug, tc.exclude, got, tc.want)
		}
	}

	got, err := pages.GetBySlug(t.Context(), "about-us")
	if err != nil || len(got.Translations) != 1 || got.Translations[0].Title != "Over ons" {
		t.Errorf("GetBySlug returned %+v (%v)", got, err)
	}
}
