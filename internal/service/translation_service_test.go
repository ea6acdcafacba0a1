//go:build unit

package service

import (
	"context"
	"testing"

	"portfolio-cms/internal/data"
)

func TestTranslationService_CoverageWithoutKeysIsZero(t *testing.T) {
	langs := newMockLanguages(lang("1", "nl", true, true))
	s := NewTranslationService(newMockTranslations(langs), langs)

	got, err := s.Coverage(context.Background(), "nl")
	if err != nil {
		t.Fatalf("Coverage failed: %v", err)
	}
	if got != 0 {
		t.Errorf("want 0; got %v", got)
	}

	_, err = s.Coverage(context.Background(), "xx")
	wantKind(t, err, ErrNotFound)
}

func TestTranslationService_Coverage(t *testing.T) {
	langs := newMockLanguages(lang("1", "nl", true, true), lang("2", "en", false, true))
	repo := newMockTranslations(langs)
	s := NewTranslationService(repo, langs)
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c", "d"} {
		if _, err := s.CreateKey(ctx, TranslationKeyInput{Key: key, Values: map[string]string{"nl": "x"}}); err != nil {
			t.Fatalf("CreateKey failed: %v", err)
		}
	}
	if err := s.SetValue(ctx, "key-a", "en", "one"); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}
	if err := s.SetValue(ctx, "key-b", "en", ""); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}

	if got, _ := s.Coverage(ctx, "en"); got != 0.25 {
		t.Errorf("want 0.25 for en; got %v", got)
	}
	if got, _ := s.Coverage(ctx, "nl"); got != 1 {
		t.Errorf("want 1 for nl; got %v", got)
	}
}

func TestTranslationService_CreateKeyValidation(t *testing.T) {
	langs := newMockLanguages(lang("1", "nl", true, true))
	s := NewTranslationService(newMockTranslations(langs), langs)
	ctx := context.Background()

	_, err := s.CreateKey(ctx, TranslationKeyInput{Key: "has space"})
	wantKind(t, err, ErrValidation)

	_, err = s.CreateKey(ctx, TranslationKeyInput{Key: "nav.home", Values: map[string]string{"xx": "?"}})
	wantKind(t, err, ErrValidation)

	if _, err := s.CreateKey(ctx, TranslationKeyInput{Key: "nav.home"}); err != nil {
		t.Fatalf("CreateKey failed: %v", err)
	}
	_, err = s.CreateKey(ctx, TranslationKeyInput{Key: "nav.home"})
	wantKind(t, err, ErrConflict)
}

func TestTranslationService_PublicMapFallsBackToDefault(t *testing.T) {
	langs := newMockLanguages(lang("1", "nl", true, true), lang("2", "en", false, true), lang("3", "fr", false, false))
	repo := newMockTranslations(langs)
	repo.keys = []data.TranslationKey{{ID: "k1", Key: "nav.home"}, {ID: "k2", Key: "nav.contact"}}
	ctx := context.Background()
	repo.Upsert(ctx, "k1", "1", "Start")
	repo.Upsert(ctx, "k2", "1", "Contact")
	repo.Upsert(ctx, "k1", "2", "Home")
	repo.Upsert(ctx, "k2", "2", "")
	repo.Upsert(ctx, "k1", "3", "Accueil")
	s := NewTranslationService(repo, langs)

	got, err := s.PublicMap(ctx, "en")
	if err != nil {
		t.Fatalf("PublicMap failed: %v", err)
	}
	if got["nav.home"] != "Home" || got["nav.contact"] != "Contact" {
		t.Errorf("unexpected en map: %v", got)
	}

	got, _ = s.PublicMap(ctx, "fr")
	if got["nav.home"] != "Start" {
		t.Errorf("inactive language should get default strings: %v", got)
	}

	keys, err := s.ListKeys(ctx)
	if err != nil || len(keys) != 2 {
		t.Fatalf("ListKeys: %v (%v)", keys, err)
	}
	if keys[0].Values["en"] != "Home" || keys[0].Values["nl"] != "Start" {
		t.Errorf("unexpected values: %+v", keys[0])
	}
}
