// Package i18n holds the multilingual field type used across page-builder
// components and its language fallback rules.
package i18n

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Text is a text-bearing field that is either a plain string or a mapping
// from language code to string. The zero value is an empty plain string.
type Text struct {
	plain  string
	values map[string]string
}

// Plain returns a Text holding a single untranslated string.
func Plain(s string) Text {
	return Text{plain: s}
}

// Multi returns a Text holding per-language values. The map is copied.
func Multi(values map[string]string) Text {
	t := Text{values: make(map[string]string, len(values))}
	for code, v := range values {
		t.values[code] = v
	}
	return t
}

// IsMultilingual reports whether t was built from a language map.
func (t Text) IsMultilingual() bool {
	return t.values != nil
}

// Values returns a copy of the per-language values, or nil for plain text.
func (t Text) Values() map[string]string {
	if t.values == nil {
		return nil
	}
	out := make(map[string]string, len(t.values))
	for code, v := range t.values {
		out[code] = v
	}
	return out
}

// IsEmpty reports whether Resolve would return "" for every language.
func (t Text) IsEmpty() bool {
	if t.values == nil {
		return t.plain == ""
	}
	for _, v := range t.values {
		if v != "" {
			return false
		}
	}
	return true
}

// Resolve picks a single string for lang. The fallback chain is: the
// requested language, then defaultLang, then the first non-empty value by
// language code, then "". Empty values count as missing. A plain string is
// returned as is.
func (t Text) Resolve(lang, defaultLang string) string {
	if t.values == nil {
		return t.plain
	}
	if v := t.values[lang]; v != "" {
		return v
	}
	if v := t.values[defaultLang]; v != "" {
		return v
	}
	codes := make([]string, 0, len(t.values))
	for code := range t.values {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		if v := t.values[code]; v != "" {
			return v
		}
	}
	return ""
}

// MarshalJSON writes a plain string or an object, mirroring how the value was built.
func (t Text) MarshalJSON() ([]byte, error) {
	if t.values != nil {
		return json.Marshal(t.values)
	}
	return json.Marshal(t.plain)
}

// UnmarshalJSON accepts a JSON string, an object of strings, or null.
func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*t = Text{}
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text{plain: s}
		return nil
	case b[0] == '{':
		values := map[string]string{}
		if err := json.Unmarshal(b, &values); err != nil {
			return fmt.Errorf("multilingual text must map language codes to strings: %w", err)
		}
		*t = Text{values: values}
		return nil
	default:
		return fmt.Errorf("multilingual text must be a string or an object, got %s", string(b))
	}
}
