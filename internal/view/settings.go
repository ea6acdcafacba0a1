package view

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"portfolio-cms/internal/pagebuilder"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	sanitizer = bluemonday.UGCPolicy()

	colorPattern    = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|[a-zA-Z]{3,20}|rgba?\([0-9.,%\s]+\))$`)
	gradientPattern = regexp.MustCompile(`^(linear|radial)-gradient\([#%(),.\sa-zA-Z0-9-]+\)$`)
)

var funcs = template.FuncMap{
	"markdown": Markdown,
}

// Markdown renders markdown, with inline HTML allowed, and sanitises the result.
func Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes()))
}

// css builds an inline style from component settings. Values that do not
// look like colours or gradients are dropped.
func css(s pagebuilder.Style, gradient string) template.CSS {
	var parts []string
	switch {
	case gradient != "" && gradientPattern.MatchString(gradient):
		parts = append(parts, "background:"+gradient)
	case colorPattern.MatchString(s.BackgroundColor):
		parts = append(parts, "background-color:"+s.BackgroundColor)
	}
	if colorPattern.MatchString(s.TextColor) {
		parts = append(parts, "color:"+s.TextColor)
	}
	if p := s.Padding; p != nil {
		parts = append(parts, fmt.Sprintf("padding:%dpx %dpx %dpx %dpx", p.Top, p.Right, p.Bottom, p.Left))
	}
	return template.CSS(strings.Join(parts, ";"))
}
