package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"portfolio-cms/internal/data"
	"portfolio-cms/internal/logger"
	"portfolio-cms/internal/storage"
)

// FileStore keeps the bytes of uploaded media.
type FileStore interface {
	Save(ctx context.Context, name string, r io.Reader) (*storage.Object, error)
	Delete(ctx context.Context, urls ...string) error
}

// UploadInput carries the metadata sent along with an upload.
type UploadInput struct {
	Alt       string
	Category  string
	ProjectID string
	Tags      []string
}

// MediaUpdateInput is a partial metadata update. Nil fields are kept; an
// empty ProjectID detaches the item.
type MediaUpdateInput struct {
	Alt       *string  `json:"alt"`
	Category  *string  `json:"category"`
	ProjectID *string  `json:"projectId"`
	Order     *int     `json:"order"`
	Tags      []string `json:"tags"`
}

// MediaService manages the media library.
type MediaService struct {
	repo     MediaRepository
	projects ProjectRepository
	files    FileStore
	log      logger.Logger
}

// NewMediaService creates a new MediaService.
func NewMediaService(repo MediaRepository, projects ProjectRepository, files FileStore, log logger.Logger) *MediaService {
	return &MediaService{repo: repo, projects: projects, files: files, log: log}
}

// Upload stores the file and records it in the library. The stored file is
// removed again when the database insert fails.
func (s *MediaService) Upload(ctx context.Context, filename string, r io.Reader, in UploadInput) (*data.MediaItem, error) {
	if in.ProjectID != "" {
		if err := s.requireProject(ctx, in.ProjectID); err != nil {
			return nil, err
		}
	}
	obj, err := s.files.Save(ctx, filename, r)
	switch {
	case errors.Is(err, storage.ErrUnsupportedType):
		return nil, invalid("Only JPEG, PNG, GIF and WebP images are allowed")
	case errors.Is(err, storage.ErrTooLarge):
		return nil, invalid("File is too large")
	case errors.Is(err, storage.ErrInvalidImage):
		return nil, invalid("File is not a valid image")
	case err != nil:
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	item := &data.MediaItem{
		Filename:     obj.Filename,
		OriginalURL:  obj.OriginalURL,
		ThumbnailURL: obj.ThumbnailURL,
		Alt:          in.Alt,
		Size:         obj.Size,
		Width:        obj.Width,
		Height:       obj.Height,
		MimeType:     obj.MimeType,
		Tags:         cleanTags(in.Tags),
		Category:     in.Category,
	}
	if item.Category == "" {
		item.Category = "general"
	}
	if in.ProjectID != "" {
		pid := in.ProjectID
		item.ProjectID = &pid
	}
	if err := s.repo.Create(ctx, item); err != nil {
		s.removeFiles(ctx, item)
		return nil, err
	}
	return item, nil
}

// List returns media items matching filter.
func (s *MediaService) List(ctx context.Context, filter data.MediaFilter) ([]data.MediaItem, error) {
	return s.repo.List(ctx, filter)
}

// Get returns one media item.
func (s *MediaService) Get(ctx context.Context, id string) (*data.MediaItem, error) {
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Media item not found", "")
	}
	return m, nil
}

// Update applies a metadata update.
func (s *MediaService) Update(ctx context.Context, id string, in MediaUpdateInput) (*data.MediaItem, error) {
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Media item not found", "")
	}
	if in.Alt != nil {
		m.Alt = *in.Alt
	}
	if in.Category != nil {
		m.Category = *in.Category
	}
	if in.Tags != nil {
		m.Tags = cleanTags(in.Tags)
	}
	if in.Order != nil {
		order := *in.Order
		m.Order = &order
	}
	if in.ProjectID != nil {
		if *in.ProjectID == "" {
			m.ProjectID, m.Order = nil, nil
		} else {
			if err := s.requireProject(ctx, *in.ProjectID); err != nil {
				return nil, err
			}
			pid := *in.ProjectID
			m.ProjectID = &pid
		}
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, fromRepo(err, "Media item not found", "")
	}
	return m, nil
}

// Reorder sets the display order of a project's media to the order of ids.
func (s *MediaService) Reorder(ctx context.Context, projectID string, ids []string) error {
	if projectID == "" || len(ids) == 0 {
		return invalid("Project and media ids are required")
	}
	if err := s.requireProject(ctx, projectID); err != nil {
		return err
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return invalid("Duplicate media id %s", id)
		}
		seen[id] = true
	}
	return fromRepo(s.repo.Reorder(ctx, projectID, ids), "Media item not found", "")
}

// Delete removes the library entry, then its files. File removal failures
// are logged only.
func (s *MediaService) Delete(ctx context.Context, id string) error {
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return fromRepo(err, "Media item not found", "")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fromRepo(err, "Media item not found", "")
	}
	s.removeFiles(ctx, m)
	return nil
}

func (s *MediaService) removeFiles(ctx context.Context, m *data.MediaItem) {
	if err := s.files.Delete(ctx, m.OriginalURL, m.ThumbnailURL); err != nil {
		s.log.Error(err, fmt.Sprintf("failed to remove files of media item %s", m.ID))
	}
}

func (s *MediaService) requireProject(ctx context.Context, id string) error {
	if _, err := s.projects.Get(ctx, id); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return invalid("Project not found")
		}
		return err
	}
	return nil
}

func cleanTags(tags []string) data.StringList {
	out := data.StringList{}
	seen := map[string]bool{}
	for _, t := range tags {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
