//go:build unit

package translate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"portfolio-cms/internal/config"
	"portfolio-cms/internal/logger"
)

func newLibreServer(t *testing.T, failTarget string) (*httptest.Server, *[]libreRequest) {
	t.Helper()
	var mu sync.Mutex
	var seen []libreRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req libreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		mu.Lock()
		seen = append(seen, req)
		mu.Unlock()
		if req.Target == failTarget {
			http.Error(w, `{"error":"unsupported language"}`, http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(libreResponse{TranslatedText: req.Target + ":" + req.Q})
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestLibreTranslate_TranslateText(t *testing.T) {
	srv, seen := newLibreServer(t, "")
	lt := NewLibreTranslate(config.TranslationConfig{APIURL: srv.URL, APIKey: "k", Timeout: time.Second}, logger.Nop())

	got, err := lt.TranslateText(context.Background(), "Eiken tafel", "nl", []string{"en", "fr"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["en"] != "en:Eiken tafel" || got["fr"] != "fr:Eiken tafel" {
		t.Errorf("unexpected translations: %v", got)
	}
	if len(*seen) != 2 {
		t.Fatalf("want 2 requests; got %d", len(*seen))
	}
	first := (*seen)[0]
	if first.Source != "nl" || first.Format != "text" || first.APIKey != "k" {
		t.Errorf("unexpected request body: %+v", first)
	}
}

func TestLibreTranslate_PartialFailure(t *testing.T) {
	srv, _ := newLibreServer(t, "fr")
	lt := NewLibreTranslate(config.TranslationConfig{APIURL: srv.URL, Timeout: time.Second}, logger.Nop())

	got, err := lt.TranslateText(context.Background(), "Tafel", "nl", []string{"en", "fr"})
	if err != nil {
		t.Fatalf("partial failure should not be an error: %v", err)
	}
	if _, ok := got["fr"]; ok || got["en"] == "" {
		t.Errorf("want only en; got %v", got)
	}

	_, err = lt.TranslateText(context.Background(), "Tafel", "nl", []string{"fr"})
	if err == nil || !strings.Contains(err.Error(), "unsupported language") {
		t.Errorf("want error mentioning the API message; got %v", err)
	}
}

func TestLibreTranslate_NotConfigured(t *testing.T) {
	lt := NewLibreTranslate(config.TranslationConfig{}, logger.Nop())
	if lt.IsConfigured() {
		t.Error("expected unconfigured provider")
	}
	if _, err := lt.TranslateText(context.Background(), "x", "nl", []string{"en"}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("want ErrNotConfigured; got %v", err)
	}
	if (Disabled{}).IsConfigured() {
		t.Error("Disabled must report unconfigured")
	}
}

type memoryStore struct {
	values map[string]string
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	return m.values[key], nil
}

func (m *memoryStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.values[key] = value
	return nil
}

type countingProvider struct {
	calls   int
	targets [][]string
}

func (p *countingProvider) TranslateText(_ context.Context, text, _ string, targets []string) (map[string]string, error) {
	p.calls++
	p.targets = append(p.targets, targets)
	out := map[string]string{}
	for _, t := range targets {
		out[t] = t + ":" + text
	}
	return out, nil
}

func (p *countingProvider) IsConfigured() bool { return true }

func TestCached_ServesHitsAndForwardsMisses(t *testing.T) {
	next := &countingProvider{}
	c := NewCached(next, &memoryStore{values: map[string]string{}}, time.Hour, logger.Nop())
	ctx := context.Background()

	if _, err := c.TranslateText(ctx, "Tafel", "nl", []string{"en"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := c.TranslateText(ctx, "Tafel", "nl", []string{"en", "fr"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["en"] != "en:Tafel" || got["fr"] != "fr:Tafel" {
		t.Errorf("unexpected result: %v", got)
	}
	if next.calls != 2 || len(next.targets[1]) != 1 || next.targets[1][0] != "fr" {
		t.Errorf("second call should only forward fr, got %v", next.targets)
	}

	if _, err := c.TranslateText(ctx, "Tafel", "nl", []string{"en", "fr"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.calls != 2 {
		t.Errorf("fully cached request must not reach the provider, calls=%d", next.calls)
	}
	if !c.IsConfigured() {
		t.Error("Cached should report the wrapped provider's state")
	}
}
