package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"portfolio-cms/internal/data"
	"portfolio-cms/internal/pagebuilder"
)

var documentNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,63}$`)

// PageBuilderService loads, edits and saves page-builder documents.
type PageBuilderService struct {
	repo PageDocumentRepository
}

// NewPageBuilderService creates a new PageBuilderService.
func NewPageBuilderService(repo PageDocumentRepository) *PageBuilderService {
	return &PageBuilderService{repo: repo}
}

// Load returns the named document. A document that was never saved is empty.
func (s *PageBuilderService) Load(ctx context.Context, name string) (*pagebuilder.Document, error) {
	if !documentNamePattern.MatchString(name) {
		return nil, invalid("Invalid page name")
	}
	stored, err := s.repo.Get(ctx, name)
	if errors.Is(err, data.ErrNotFound) {
		return pagebuilder.New(), nil
	}
	if err != nil {
		return nil, err
	}
	doc, err := pagebuilder.Decode([]byte(stored.Components))
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Save replaces the named document with the given component list. Order
// values are re-derived from list position.
func (s *PageBuilderService) Save(ctx context.Context, name string, body json.RawMessage) (*pagebuilder.Document, error) {
	if !documentNamePattern.MatchString(name) {
		return nil, invalid("Invalid page name")
	}
	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, invalid("Components are required")
	}
	doc, err := pagebuilder.Decode(body)
	if err != nil {
		return nil, invalid("Invalid page document: %v", err)
	}
	if err := s.store(ctx, name, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *PageBuilderService) store(ctx context.Context, name string, doc *pagebuilder.Document) error {
	doc.Normalize()
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return s.repo.Save(ctx, &data.PageDocument{Name: name, Components: string(b)})
}

// edit loads a document, applies fn and saves the result.
func (s *PageBuilderService) edit(ctx context.Context, name string, fn func(doc *pagebuilder.Document) error) (*pagebuilder.Document, error) {
	doc, err := s.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := fn(doc); err != nil {
		return nil, builderError(err)
	}
	if err := s.store(ctx, name, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Add appends a component of the given type with default data.
func (s *PageBuilderService) Add(ctx context.Context, name string, t pagebuilder.Type) (*pagebuilder.Document, error) {
	return s.edit(ctx, name, func(doc *pagebuilder.Document) error {
		_, err := doc.Add(t)
		return err
	})
}

// Move moves the component at from to position to.
func (s *PageBuilderService) Move(ctx context.Context, name string, from, to int) (*pagebuilder.Document, error) {
	return s.edit(ctx, name, func(doc *pagebuilder.Document) error {
		return doc.Move(from, to)
	})
}

// Update replaces the whole data payload of a component. Fields missing from
// raw take their zero value.
func (s *PageBuilderService) Update(ctx context.Context, name, id string, raw json.RawMessage) (*pagebuilder.Document, error) {
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, invalid("Component data must be an object")
	}
	return s.edit(ctx, name, func(doc *pagebuilder.Document) error {
		c, ok := doc.Find(id)
		if !ok {
			return fmt.Errorf("%w: %s", pagebuilder.ErrNotFound, id)
		}
		data, err := pagebuilder.DecodeData(c.Type, raw)
		if err != nil {
			return err
		}
		_, err = doc.Update(id, data)
		return err
	})
}

// Patch merges a partial data object onto a component.
func (s *PageBuilderService) Patch(ctx context.Context, name, id string, patch json.RawMessage) (*pagebuilder.Document, error) {
	return s.edit(ctx, name, func(doc *pagebuilder.Document) error {
		_, err := doc.Patch(id, patch)
		return err
	})
}

// Delete removes a component.
func (s *PageBuilderService) Delete(ctx context.Context, name, id string) (*pagebuilder.Document, error) {
	return s.edit(ctx, name, func(doc *pagebuilder.Document) error {
		return doc.Delete(id)
	})
}

// Duplicate appends a copy of a component.
func (s *PageBuilderService) Duplicate(ctx context.Context, name, id string) (*pagebuilder.Document, error) {
	return s.edit(ctx, name, func(doc *pagebuilder.Document) error {
		_, err := doc.Duplicate(id)
		return err
	})
}

func builderError(err error) error {
	if errors.Is(err, pagebuilder.ErrNotFound) {
		return notFound("Component not found")
	}
	return invalid("%v", err)
}
