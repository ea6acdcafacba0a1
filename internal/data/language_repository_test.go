//go:build integration

package data

import (
	"errors"
	"testing"
)

func TestLanguageRepository_FirstLanguageBecomesDefault(t *testing.T) {
	repo := NewSQLLanguageRepository(setupTestDB(t))

	nl := seedLanguage(t, repo, "nl", false)
	if !nl.IsDefault || !nl.IsActive {
		t.Errorf("expected first language to be an active default, got %+v", nl)
	}
	en := seedLanguage(t, repo, "en", true)
	if en.IsDefault {
		t.Error("second language must not become default")
	}

	def, err := repo.GetDefault(t.Context())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.Code != "nl" {
		t.Errorf("want default nl; got %s", def.Code)
	}
}

func TestLanguageRepository_DuplicateCode(t *testing.T) {
	repo := NewSQLLanguageRepository(setupTestDB(t))
	seedLanguage(t, repo, "nl", true)

	err := repo.Create(t.Context(), &Language{Code: "nl", Name: "Dutch again"})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("want ErrConflict; got %v", err)
	}
}

func TestLanguageRepository_SetDefault(t *testing.T) {
	repo := NewSQLLanguageRepository(setupTestDB(t))
	seedLanguage(t, repo, "nl", true)
	seedLanguage(t, repo, "en", true)
	fr := seedLanguage(t, repo, "fr", false)

	if err := repo.SetDefault(t.Context(), fr.ID); err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}

	langs, err := repo.List(t.Context())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	defaults := 0
	for _, l := range langs {
		if l.IsDefault {
			defaults++
		}
	}
	if defaults != 1 {
		t.Fatalf("want exactly one default; got %d", defaults)
	}
	if langs[0].Code != "fr" || !langs[0].IsActive {
		t.Errorf("want fr listed first and activated; got %+v", langs[0])
	}
	if langs[1].Code != "en" || langs[2].Code != "nl" {
		t.Errorf("unexpected order: %s, %s", langs[1].Code, langs[2].Code)
	}

	if err := repo.SetDefault(t.Context(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound; got %v", err)
	}
}

func TestLanguageRepository_UpdateAndDelete(t *testing.T) {
	repo := NewSQLLanguageRepository(setupTestDB(t))
	seedLanguage(t, repo, "nl", true)
	de := seedLanguage(t, repo, "de", true)

	de.Name = "Deutsch"
	de.IsActive = false
	if err := repo.Update(t.Context(), de); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, err := repo.GetByCode(t.Context(), "de")
	if err != nil {
		t.Fatalf("GetByCode failed: %v", err)
	}
	if got.Name != "Deutsch" || got.IsActive {
		t.Errorf("update not persisted: %+v", got)
	}

	if err := repo.Delete(t.Context(), de.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.GetByID(t.Context(), de.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound after delete; got %v", err)
	}
	if err := repo.Delete(t.Context(), de.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound for second delete; got %v", err)
	}
}
