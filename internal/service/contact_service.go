package service

import (
	"context"
	"html"
	"strings"

	"portfolio-cms/internal/data"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/microcosm-cc/bluemonday"
)

// ContactInput is a public contact form submission.
type ContactInput struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	ProjectType      string `json:"projectType"`
	Message          string `json:"message"`
	PrivacyAccepted  bool   `json:"privacyAccepted"`
	MarketingConsent bool   `json:"marketingConsent"`
}

// Validate checks the submission and reports the first problem found.
func (in ContactInput) Validate() error {
	if !in.PrivacyAccepted {
		return invalid("You must accept the privacy policy")
	}
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required.Error("Name is required"), validation.Length(1, 200)),
		validation.Field(&in.Email, validation.Required.Error("Email is required"), is.EmailFormat.Error("Email is invalid")),
		validation.Field(&in.ProjectType, validation.Length(0, 100)),
		validation.Field(&in.Message, validation.Required.Error("Message is required"), validation.Length(1, 5000)),
	)
	if err != nil {
		return invalid("%v", err)
	}
	return nil
}

// ContactService handles contact form messages.
type ContactService struct {
	repo      ContactRepository
	sanitizer *bluemonday.Policy
}

// NewContactService creates a new ContactService.
func NewContactService(repo ContactRepository) *ContactService {
	// Messages are shown in the admin as plain text, so all markup is stripped.
	return &ContactService{repo: repo, sanitizer: bluemonday.StrictPolicy()}
}

// Submit validates, sanitises and stores a message.
func (s *ContactService) Submit(ctx context.Context, in ContactInput) (*data.ContactMessage, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)
	if err := in.Validate(); err != nil {
		return nil, err
	}
	msg := &data.ContactMessage{
		Name:             s.plainText(in.Name),
		Email:            in.Email,
		ProjectType:      s.plainText(in.ProjectType),
		Message:          s.plainText(in.Message),
		PrivacyAccepted:  true,
		MarketingConsent: in.MarketingConsent,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// plainText strips markup from v and returns the remaining text unescaped.
func (s *ContactService) plainText(v string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(v)))
}

// List returns every message, newest first.
func (s *ContactService) List(ctx context.Context) ([]data.ContactMessage, error) {
	return s.repo.List(ctx)
}

// Get returns one message.
func (s *ContactService) Get(ctx context.Context, id string) (*data.ContactMessage, error) {
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Message not found", "")
	}
	return m, nil
}

// MarkRead sets the read flag.
func (s *ContactService) MarkRead(ctx context.Context, id string, read bool) error {
	return fromRepo(s.repo.SetRead(ctx, id, read), "Message not found", "")
}

// MarkReplied sets the replied flag. A replied message is also read.
func (s *ContactService) MarkReplied(ctx context.Context, id string, replied bool) error {
	return fromRepo(s.repo.SetReplied(ctx, id, replied), "Message not found", "")
}

// Delete removes a message.
func (s *ContactService) Delete(ctx context.Context, id string) error {
	return fromRepo(s.repo.Delete(ctx, id), "Message not found", "")
}

// UnreadCount returns the number of unread messages.
func (s *ContactService) UnreadCount(ctx context.Context) (int, error) {
	return s.repo.CountUnread(ctx)
}
