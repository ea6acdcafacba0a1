// Package translate talks to machine translation services.
package translate

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by providers that have no backend configured.
var ErrNotConfigured = errors.New("translation provider is not configured")

// Provider translates a text from one language into several others.
type Provider interface {
	// TranslateText returns a map from target language code to translated
	// text. Targets that could not be translated are absent from the map.
	TranslateText(ctx context.Context, text, source string, targets []string) (map[string]string, error)
	IsConfigured() bool
}

// Disabled is the provider used when no translation service is configured.
type Disabled struct{}

// TranslateText always fails with ErrNotConfigured.
func (Disabled) TranslateText(context.Context, string, string, []string) (map[string]string, error) {
	return nil, ErrNotConfigured
}

// IsConfigured reports false.
func (Disabled) IsConfigured() bool { return false }
