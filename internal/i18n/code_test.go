//go:build unit

package i18n

import "testing"

func TestValidCode(t *testing.T) {
	for code, want := range map[string]bool{
		"nl":      true,
		"fil":     true,
		"pt-br":   true,
		"zh-hant": true,
		"NL":      false,
		"pt_BR":   false,
		"pt-BR":   false,
		"e":       false,
		"":        false,
	} {
		if got := ValidCode(code); got != want {
			t.Errorf("ValidCode(%q) = %v; want %v", code, got, want)
		}
	}
}
