package i18n

import "regexp"

// CodePattern matches the language codes the site accepts: a lowercase
// ISO 639 code with an optional lowercase region or script subtag, e.g.
// "nl" or "pt-br".
var CodePattern = regexp.MustCompile(`^[a-z]{2,3}(-[a-z0-9]{2,8})?$`)

// ValidCode reports whether code matches CodePattern.
func ValidCode(code string) bool {
	return CodePattern.MatchString(code)
}
