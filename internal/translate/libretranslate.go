package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"portfolio-cms/internal/config"
	"portfolio-cms/internal/logger"
)

// LibreTranslate is a Provider backed by a LibreTranslate compatible API.
type LibreTranslate struct {
	apiURL string
	apiKey string
	client *http.Client
	log    logger.Logger
}

// NewLibreTranslate creates a client for the configured endpoint.
func NewLibreTranslate(cfg config.TranslationConfig, log logger.Logger) *LibreTranslate {
	return &LibreTranslate{
		apiURL: cfg.APIURL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log,
	}
}

// IsConfigured reports whether an API URL was provided.
func (lt *LibreTranslate) IsConfigured() bool {
	return lt.apiURL != ""
}

// TranslateText issues one request per target language. Failures for single
// targets are logged and left out of the result; an error is returned only
// when no target could be translated.
func (lt *LibreTranslate) TranslateText(ctx context.Context, text, source string, targets []string) (map[string]string, error) {
	if !lt.IsConfigured() {
		return nil, ErrNotConfigured
	}
	out := make(map[string]string, len(targets))
	var errs []error
	for _, target := range targets {
		if target == source {
			out[target] = text
			continue
		}
		translated, err := lt.translate(ctx, text, source, target)
		if err != nil {
			lt.log.Warn(fmt.Sprintf("Translation %s -> %s failed: %v", source, target, err))
			errs = append(errs, fmt.Errorf("%s: %w", target, err))
			continue
		}
		out[target] = translated
	}
	if len(out) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

func (lt *LibreTranslate) translate(ctx context.Context, text, source, target string) (string, error) {
	body, err := json.Marshal(libreRequest{Q: text, Source: source, Target: target, Format: "text", APIKey: lt.apiKey})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, lt.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := lt.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("translation API returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var result libreResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode translation response: %w", err)
	}
	if result.Error != "" {
		return "", errors.New(result.Error)
	}
	if result.TranslatedText == "" {
		return "", errors.New("empty translation")
	}
	return result.TranslatedText, nil
}
