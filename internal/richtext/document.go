// Package richtext models the editor's rich document tree: a "doc" root
// holding block nodes that hold inline nodes.
package richtext

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"html/template"
	"strings"
)

// Node types the extraction and rendering logic knows about. Unknown types
// are kept as-is and treated as blocks.
const (
	TypeDoc         = "doc"
	TypeParagraph   = "paragraph"
	TypeHeading     = "heading"
	TypeText        = "text"
	TypeHardBreak   = "hardBreak"
	TypeBulletList  = "bulletList"
	TypeOrderedList = "orderedList"
	TypeListItem    = "listItem"
	TypeBlockquote  = "blockquote"
)

// Mark is inline formatting applied to a text node.
type Mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// Node is one element of the document tree.
type Node struct {
	Type    string         `json:"type"`
	Text    string         `json:"text,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []Node         `json:"content,omitempty"`
}

// Document is the root node of a rich text value.
type Document Node

// ErrNotDocument is returned when a decoded value has no "doc" root.
var ErrNotDocument = errors.New("rich document root must be of type 'doc'")

// IsZero reports whether the document carries no root at all.
func (d Document) IsZero() bool {
	return d.Type == "" && len(d.Content) == 0
}

// Validate checks the root type and that every text node is a leaf.
func (d Document) Validate() error {
	if d.Type != TypeDoc {
		return ErrNotDocument
	}
	return validateNode(Node(d))
}

func validateNode(n Node) error {
	if n.Type == "" {
		return errors.New("rich document node without a type")
	}
	if n.Type == TypeText && len(n.Content) > 0 {
		return errors.New("text nodes cannot have children")
	}
	for _, child := range n.Content {
		if err := validateNode(child); err != nil {
			return err
		}
	}
	return nil
}

func isInline(n Node) bool {
	return n.Type == TypeText || n.Type == TypeHardBreak
}

// PlainText flattens the tree in pre-order. Text leaves of the same block are
// concatenated; sibling blocks are separated by "\n".
func PlainText(d Document) string {
	return plainText(Node(d))
}

func plainText(n Node) string {
	switch n.Type {
	case TypeText:
		return n.Text
	case TypeHardBreak:
		return "\n"
	}

	var blocks []string
	var inline strings.Builder
	hasInline := false
	for _, child := range n.Content {
		if isInline(child) {
			inline.WriteString(plainText(child))
			hasInline = true
			continue
		}
		if hasInline {
			blocks = append(blocks, inline.String())
			inline.Reset()
			hasInline = false
		}
		blocks = append(blocks, plainText(child))
	}
	if hasInline {
		blocks = append(blocks, inline.String())
	}
	return strings.Join(blocks, "\n")
}

// FromPlainText builds a minimal document with one paragraph per non-empty
// line. It returns ok=false when text has no non-blank lines.
func FromPlainText(text string) (Document, bool) {
	doc := Document{Type: TypeDoc}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		doc.Content = append(doc.Content, Node{
			Type:    TypeParagraph,
			Content: []Node{{Type: TypeText, Text: line}},
		})
	}
	return doc, len(doc.Content) > 0
}

// HTML renders the document as escaped HTML for the public site.
func HTML(d Document) template.HTML {
	var b strings.Builder
	for _, child := range d.Content {
		renderNode(&b, child)
	}
	return template.HTML(b.String())
}

func renderNode(b *strings.Builder, n Node) {
	switch n.Type {
	case TypeText:
		renderText(b, n)
		return
	case TypeHardBreak:
		b.WriteString("<br>")
		return
	}

	tag := "div"
	switch n.Type {
	case TypeParagraph:
		tag = "p"
	case TypeHeading:
		tag = fmt.Sprintf("h%d", headingLevel(n))
	case TypeBulletList:
		tag = "ul"
	case TypeOrderedList:
		tag = "ol"
	case TypeListItem:
		tag = "li"
	case TypeBlockquote:
		tag = "blockquote"
	}
	b.WriteString("<" + tag + ">")
	for _, child := range n.Content {
		renderNode(b, child)
	}
	b.WriteString("</" + tag + ">")
}

func renderText(b *strings.Builder, n Node) {
	var closing []string
	for _, m := range n.Marks {
		switch m.Type {
		case "bold":
			b.WriteString("<strong>")
			closing = append(closing, "</strong>")
		case "italic":
			b.WriteString("<em>")
			closing = append(closing, "</em>")
		case "underline":
			b.WriteString("<u>")
			closing = append(closing, "</u>")
		case "link":
			href, _ := m.Attrs["href"].(string)
			if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") && !strings.HasPrefix(href, "/") {
				continue
			}
			b.WriteString(`<a href="` + html.EscapeString(href) + `">`)
			closing = append(closing, "</a>")
		}
	}
	b.WriteString(html.EscapeString(n.Text))
	for i := len(closing) - 1; i >= 0; i-- {
		b.WriteString(closing[i])
	}
}

func headingLevel(n Node) int {
	switch level := n.Attrs["level"].(type) {
	case float64:
		if level >= 1 && level <= 6 {
			return int(level)
		}
	case int:
		if level >= 1 && level <= 6 {
			return level
		}
	}
	return 2
}

// Value stores the document as JSON text.
func (d Document) Value() (driver.Value, error) {
	if d.IsZero() {
		return "null", nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan reads a document stored as JSON text.
func (d *Document) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*d = Document{}
		return nil
	case string:
		b = []byte(v)
	case []byte:
		b = v
	default:
		return fmt.Errorf("cannot scan %T into richtext.Document", src)
	}
	if len(b) == 0 || string(b) == "null" {
		*d = Document{}
		return nil
	}
	return json.Unmarshal(b, d)
}
