//go:build unit

package view

import (
	"net/http/httptest"
	"strings"
	"testing"

	"portfolio-cms/internal/middleware"
	"portfolio-cms/internal/pagebuilder"
	"portfolio-cms/web"
)

const layout = `[
	{"id":"hero-1","type":"hero","order":0,"data":{"title":{"en":"Hello","nl":"Hallo"},"backgroundType":"gradient","gradient":"linear-gradient(135deg, #667eea 0%, #764ba2 100%)"}},
	{"id":"text-1","type":"text","order":1,"data":{"content":{"en":"**Oak** tables<script>alert(1)</script>"},"alignment":"middle","textColor":"red;position:fixed"}},
	{"id":"gallery-1","type":"gallery","order":2,"data":{"showFeatured":true,"maxItems":1,"images":[]}},
	{"id":"image-1","type":"image","order":3,"data":{"imageUrl":""}},
	{"id":"spacer-1","type":"spacer","order":4,"data":{"height":40,"padding":{"top":1,"right":2,"bottom":3,"left":4}}}
]`

func decode(t *testing.T) *pagebuilder.Document {
	t.Helper()
	doc, err := pagebuilder.Decode([]byte(layout))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	return doc
}

func TestBlocks(t *testing.T) {
	featured := []GalleryItem{{URL: "/uploads/a.jpg", Title: "Eik"}, {URL: "/uploads/b.jpg", Title: "Beuk"}}
	blocks := Blocks(decode(t), "nl", "en", featured)

	if len(blocks) != 4 {
		t.Fatalf("want 4 blocks (empty image skipped); got %d", len(blocks))
	}
	if got := blocks[0].Hero.Title; got != "Hallo" {
		t.Errorf("want hero title %q; got %q", "Hallo", got)
	}
	if got := string(blocks[0].Style); got != "background:linear-gradient(135deg, #667eea 0%, #764ba2 100%)" {
		t.Errorf("unexpected hero style %q", got)
	}

	text := blocks[1].Text
	if strings.Contains(string(text.HTML), "<script>") || !strings.Contains(string(text.HTML), "<strong>Oak</strong>") {
		t.Errorf("unexpected text HTML %q", text.HTML)
	}
	if text.Alignment != "left" || blocks[1].Style != "" {
		t.Errorf("invalid settings should be dropped: %q %q", text.Alignment, blocks[1].Style)
	}

	if g := blocks[2].Gallery; len(g.Items) != 1 || g.Items[0].Title != "Eik" || g.Columns != 3 {
		t.Errorf("unexpected gallery %+v", g)
	}
	if got := string(blocks[3].Style); got != "padding:1px 2px 3px 4px" || blocks[3].Spacer != 40 {
		t.Errorf("unexpected spacer %q %d", got, blocks[3].Spacer)
	}
}

func TestView_Render(t *testing.T) {
	v, err := New(web.TemplateFS)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(middleware.WithLang(req.Context(), "nl"))
	rr := httptest.NewRecorder()
	data := map[string]interface{}{"Blocks": Blocks(decode(t), "nl", "en", nil)}
	if err := v.Render(rr, req, "home.html", data); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	body := rr.Body.String()
	for _, want := range []string{`<html lang="nl">`, "Hallo", "<strong>Oak</strong>", `id="spacer-1"`} {
		if !strings.Contains(body, want) {
			t.Errorf("body does not contain %q", want)
		}
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("unexpected content type %q", ct)
	}

	if err := v.Render(rr, req, "missing.html", nil); err == nil {
		t.Error("expected an error for an unknown template")
	}
}
