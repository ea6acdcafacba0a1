//go:build unit

package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"portfolio-cms/internal/data"
	"portfolio-cms/internal/logger"
	"portfolio-cms/internal/storage"
)

func newMediaService(repo *mockMediaRepository, files *mockFileStore) *MediaService {
	projects := newMockProjects(&data.Project{ID: "p1"})
	return NewMediaService(repo, projects, files, logger.Nop())
}

func TestMediaService_Upload(t *testing.T) {
	repo := &mockMediaRepository{}
	s := newMediaService(repo, &mockFileStore{})

	item, err := s.Upload(context.Background(), "oak.png", strings.NewReader("png"), UploadInput{
		Alt:       "Oak table",
		ProjectID: "p1",
		Tags:      []string{"oak", "", "oak", "table"},
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if item.ID == "" || item.Category != "general" || *item.ProjectID != "p1" {
		t.Errorf("unexpected item: %+v", item)
	}
	if !reflect.DeepEqual([]string(item.Tags), []string{"oak", "table"}) {
		t.Errorf("unexpected tags: %v", item.Tags)
	}
	if item.Width != 800 || item.OriginalURL != "/uploads/oak.png" {
		t.Errorf("file metadata not copied: %+v", item)
	}
}

func TestMediaService_UploadErrors(t *testing.T) {
	ctx := context.Background()

	s := newMediaService(&mockMediaRepository{}, &mockFileStore{saveErr: fmt.Errorf("%w: text/plain", storage.ErrUnsupportedType)})
	_, err := s.Upload(ctx, "notes.txt", strings.NewReader("x"), UploadInput{})
	if e := wantKind(t, err, ErrValidation); e.Message != "Only JPEG, PNG, GIF and WebP images are allowed" {
		t.Errorf("unexpected message %q", e.Message)
	}

	_, err = s.Upload(ctx, "oak.png", strings.NewReader("x"), UploadInput{ProjectID: "missing"})
	wantKind(t, err, ErrValidation)

	files := &mockFileStore{}
	s = newMediaService(&mockMediaRepository{createErr: errors.New("insert failed")}, files)
	if _, err := s.Upload(ctx, "oak.png", strings.NewReader("x"), UploadInput{}); err == nil {
		t.Fatal("expected insert error")
	}
	if !reflect.DeepEqual(files.deleted, []string{"/uploads/oak.png", "/uploads/thumbs/oak.png"}) {
		t.Errorf("stored files must be removed; got %v", files.deleted)
	}
}

func TestMediaService_Update(t *testing.T) {
	order := 2
	pid := "p1"
	repo := &mockMediaRepository{items: map[string]*data.MediaItem{
		"m1": {ID: "m1", Alt: "old", Category: "general", ProjectID: &pid, Order: &order},
	}}
	s := newMediaService(repo, &mockFileStore{})
	ctx := context.Background()

	alt := "new"
	got, err := s.Update(ctx, "m1", MediaUpdateInput{Alt: &alt})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Alt != "new" || got.Category != "general" || *got.ProjectID != "p1" {
		t.Errorf("untouched fields must be kept: %+v", got)
	}

	detach := ""
	got, _ = s.Update(ctx, "m1", MediaUpdateInput{ProjectID: &detach})
	if got.ProjectID != nil || got.Order != nil {
		t.Errorf("want item detached; got %+v", got)
	}

	missing := "missing"
	_, err = s.Update(ctx, "m1", MediaUpdateInput{ProjectID: &missing})
	wantKind(t, err, ErrValidation)

	_, err = s.Update(ctx, "nope", MediaUpdateInput{Alt: &alt})
	wantKind(t, err, ErrNotFound)
}

func TestMediaService_Reorder(t *testing.T) {
	repo := &mockMediaRepository{items: map[string]*data.MediaItem{"a": {ID: "a"}, "b": {ID: "b"}}}
	s := newMediaService(repo, &mockFileStore{})
	ctx := context.Background()

	if err := s.Reorder(ctx, "p1", []string{"b", "a"}); err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}
	if !reflect.DeepEqual(repo.reordered, []string{"b", "a"}) {
		t.Errorf("unexpected order %v", repo.reordered)
	}

	wantKind(t, s.Reorder(ctx, "p1", nil), ErrValidation)
	wantKind(t, s.Reorder(ctx, "p1", []string{"a", "a"}), ErrValidation)
	wantKind(t, s.Reorder(ctx, "missing", []string{"a"}), ErrValidation)
	wantKind(t, s.Reorder(ctx, "p1", []string{"a", "zzz"}), ErrNotFound)
}

func TestMediaService_Delete(t *testing.T) {
	repo := &mockMediaRepository{items: map[string]*data.MediaItem{
		"m1": {ID: "m1", OriginalURL: "/uploads/a.png", ThumbnailURL: "/uploads/thumbs/a.png"},
	}}
	files := &mockFileStore{}
	s := newMediaService(repo, files)

	if err := s.Delete(context.Background(), "m1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(repo.items) != 0 || len(files.deleted) != 2 {
		t.Errorf("want entry and files removed; items=%d deleted=%v", len(repo.items), files.deleted)
	}
	wantKind(t, s.Delete(context.Background(), "m1"), ErrNotFound)
}

func TestMediaService_UploadStorageErrorKinds(t *testing.T) {
	tests := []struct {
		name        string
		saveErr     error
		wantKind    error
		wantMessage string
	}{
		{"size limit", fmt.Errorf("%w: oak.png exceeds the 10 MB limit", storage.ErrTooLarge), ErrValidation, "File is too large"},
		{"corrupt image", fmt.Errorf("%w: unexpected EOF", storage.ErrInvalidImage), ErrValidation, "File is not a valid image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newMediaService(&mockMediaRepository{}, &mockFileStore{saveErr: tt.saveErr})
			_, err := s.Upload(context.Background(), "oak.png", strings.NewReader("x"), UploadInput{})
			if e := wantKind(t, err, tt.wantKind); e.Message != tt.wantMessage {
				t.Errorf("want %q; got %q", tt.wantMessage, e.Message)
			}
		})
	}

	diskErr := errors.New("open /srv/portfolio/uploads/1.png: no space left on device")
	s := newMediaService(&mockMediaRepository{}, &mockFileStore{saveErr: diskErr})
	_, err := s.Upload(context.Background(), "oak.png", strings.NewReader("x"), UploadInput{})
	var svcErr *Error
	if errors.As(err, &svcErr) {
		t.Fatalf("write failures must not be client errors; got %v", svcErr)
	}
	if !errors.Is(err, diskErr) {
		t.Errorf("want wrapped write error; got %v", err)
	}
}
