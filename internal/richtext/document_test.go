//go:build unit

package richtext

import (
	"encoding/json"
	"strings"
	"testing"
)

const sampleDoc = `{
  "type": "doc",
  "content": [
    {"type": "heading", "attrs": {"level": 2}, "content": [{"type": "text", "text": "Oak table"}]},
    {"type": "paragraph", "content": [
      {"type": "text", "text": "Solid "},
      {"type": "text", "text": "oak", "marks": [{"type": "bold"}]},
      {"type": "text", "text": " with oil."}
    ]},
    {"type": "bulletList", "content": [
      {"type": "listItem", "content": [{"type": "paragraph", "content": [{"type": "text", "text": "Seats 8"}]}]},
      {"type": "listItem", "content": [{"type": "paragraph", "content": [{"type": "text", "text": "Hand carved"}]}]}
    ]}
  ]
}`

func decode(t *testing.T, raw string) Document {
	t.Helper()
	var d Document
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		t.Fatalf("failed to decode document: %v", err)
	}
	return d
}

func TestPlainText(t *testing.T) {
	d := decode(t, sampleDoc)

	got := PlainText(d)
	want := "Oak table\nSolid oak with oil.\nSeats 8\nHand carved"
	if got != want {
		t.Errorf("PlainText() = %q; want %q", got, want)
	}
}

func TestPlainText_HardBreakAndEmpty(t *testing.T) {
	d := decode(t, `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"a"},{"type":"hardBreak"},{"type":"text","text":"b"}]}]}`)
	if got := PlainText(d); got != "a\nb" {
		t.Errorf("want %q; got %q", "a\nb", got)
	}
	if got := PlainText(Document{}); got != "" {
		t.Errorf("want empty string for zero document; got %q", got)
	}
}

func TestFromPlainText(t *testing.T) {
	d, ok := FromPlainText("Eiken tafel\n\n  \nMassief eik met olie.")
	if !ok {
		t.Fatal("expected a document")
	}
	if d.Type != TypeDoc {
		t.Errorf("want root type %q; got %q", TypeDoc, d.Type)
	}
	if len(d.Content) != 2 {
		t.Fatalf("want 2 paragraphs; got %d", len(d.Content))
	}
	for i, want := range []string{"Eiken tafel", "Massief eik met olie."} {
		p := d.Content[i]
		if p.Type != TypeParagraph || len(p.Content) != 1 || p.Content[0].Text != want {
			t.Errorf("paragraph %d: got %+v", i, p)
		}
	}

	if _, ok := FromPlainText(" \n\n"); ok {
		t.Error("expected ok=false for blank text")
	}
}

func TestPlainTextRoundTrip(t *testing.T) {
	d, _ := FromPlainText("one\ntwo")
	if got := PlainText(d); got != "one\ntwo" {
		t.Errorf("want %q; got %q", "one\ntwo", got)
	}
}

func TestValidate(t *testing.T) {
	if err := decode(t, sampleDoc).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := decode(t, `{"type":"paragraph"}`).Validate(); err != ErrNotDocument {
		t.Errorf("want ErrNotDocument; got %v", err)
	}
	if err := decode(t, `{"type":"doc","content":[{"content":[]}]}`).Validate(); err == nil {
		t.Error("expected an error for an untyped node")
	}
}

func TestHTML(t *testing.T) {
	d := decode(t, `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"<b>x</b>","marks":[{"type":"italic"}]},{"type":"text","text":"link","marks":[{"type":"link","attrs":{"href":"javascript:alert(1)"}}]}]}]}`)
	got := string(HTML(d))
	if !strings.Contains(got, "<p><em>&lt;b&gt;x&lt;/b&gt;</em>") {
		t.Errorf("expected escaped italic text, got %s", got)
	}
	if strings.Contains(got, "javascript:") {
		t.Errorf("expected unsafe link to be dropped, got %s", got)
	}
}

func TestValueScan(t *testing.T) {
	d := decode(t, sampleDoc)
	v, err := d.Value()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var back Document
	if err := back.Scan(v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if PlainText(back) != PlainText(d) {
		t.Error("document changed across Value/Scan")
	}

	var empty Document
	if err := empty.Scan(nil); err != nil || !empty.IsZero() {
		t.Errorf("expected zero document from nil, got %+v (%v)", empty, err)
	}
}
