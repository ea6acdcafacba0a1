package view

import (
	"html/template"

	"portfolio-cms/internal/i18n"
	"portfolio-cms/internal/pagebuilder"
)

// Link is a labelled button target.
type Link struct {
	Text string
	URL  string
}

// Hero is a resolved hero banner.
type Hero struct {
	Title           string
	Subtitle        string
	Description     string
	Primary         Link
	Secondary       Link
	BackgroundImage string
	Height          string
}

// Text is a resolved text block.
type Text struct {
	HTML      template.HTML
	Alignment string
}

// Image is a resolved single image.
type Image struct {
	URL     string
	Alt     string
	Caption string
}

// GalleryItem is one tile of a gallery. Featured projects are converted to
// items by the caller.
type GalleryItem struct {
	URL   string
	Alt   string
	Title string
	Link  string
}

// Gallery is a resolved gallery.
type Gallery struct {
	Title    string
	Subtitle string
	Columns  int
	Items    []GalleryItem
}

// FeatureItem is one resolved entry of a features grid.
type FeatureItem struct {
	Icon        string
	Title       string
	Description string
}

// Features is a resolved features grid.
type Features struct {
	Title    string
	Subtitle string
	Items    []FeatureItem
}

// CTA is a resolved call-to-action band.
type CTA struct {
	Heading     string
	Description string
	Button      Link
}

// Block is one component of a page prepared for the templates. Exactly one
// of the typed fields is set, matching Type.
type Block struct {
	ID    string
	Type  string
	Style template.CSS

	Hero     *Hero
	Text     *Text
	Image    *Image
	Gallery  *Gallery
	Features *Features
	CTA      *CTA
	Spacer   int
}

// Blocks resolves the components of doc into lang, falling back to
// defaultLang. Gallery components with ShowFeatured use featured instead of
// their own images.
func Blocks(doc *pagebuilder.Document, lang, defaultLang string, featured []GalleryItem) []Block {
	if doc == nil {
		return nil
	}
	tr := func(t i18n.Text) string { return t.Resolve(lang, defaultLang) }

	var blocks []Block
	for _, c := range doc.Sorted() {
		b := Block{ID: c.ID, Type: string(c.Type)}
		switch d := c.Data.(type) {
		case *pagebuilder.HeroData:
			gradient := ""
			if d.BackgroundType == "gradient" {
				gradient = d.Gradient
			}
			b.Style = css(d.Style, gradient)
			b.Hero = &Hero{
				Title:       tr(d.Title),
				Subtitle:    tr(d.Subtitle),
				Description: tr(d.Description),
				Primary:     Link{Text: tr(d.ButtonText), URL: d.ButtonLink},
				Secondary:   Link{Text: tr(d.SecondaryText), URL: d.SecondaryLink},
				Height:      d.Height,
			}
			if d.BackgroundType == "image" {
				b.Hero.BackgroundImage = d.BackgroundImage
			}
		case *pagebuilder.TextData:
			b.Style = css(d.Style, "")
			b.Text = &Text{HTML: Markdown(tr(d.Content)), Alignment: alignment(d.Alignment)}
		case *pagebuilder.ImageData:
			if d.ImageURL == "" {
				continue
			}
			b.Style = css(d.Style, "")
			b.Image = &Image{URL: d.ImageURL, Alt: tr(d.Alt), Caption: tr(d.Caption)}
		case *pagebuilder.GalleryData:
			b.Style = css(d.Style, "")
			g := &Gallery{Title: tr(d.Title), Subtitle: tr(d.Subtitle), Columns: d.Columns}
			if g.Columns <= 0 {
				g.Columns = 3
			}
			if d.ShowFeatured {
				g.Items = append(g.Items, featured...)
			} else {
				for _, img := range d.Images {
					g.Items = append(g.Items, GalleryItem{URL: img.URL, Alt: tr(img.Alt)})
				}
			}
			if d.MaxItems > 0 && len(g.Items) > d.MaxItems {
				g.Items = g.Items[:d.MaxItems]
			}
			b.Gallery = g
		case *pagebuilder.FeaturesData:
			b.Style = css(d.Style, "")
			f := &Features{Title: tr(d.Title), Subtitle: tr(d.Subtitle)}
			for _, item := range d.Features {
				f.Items = append(f.Items, FeatureItem{Icon: item.Icon, Title: tr(item.Title), Description: tr(item.Description)})
			}
			b.Features = f
		case *pagebuilder.CTAData:
			b.Style = css(d.Style, "")
			b.CTA = &CTA{
				Heading:     tr(d.Heading),
				Description: tr(d.Description),
				Button:      Link{Text: tr(d.ButtonText), URL: d.ButtonLink},
			}
		case *pagebuilder.SpacerData:
			b.Style = css(d.Style, "")
			b.Spacer = d.Height
		default:
			continue
		}
		blocks = append(blocks, b)
	}
	return blocks
}

func alignment(a string) string {
	switch a {
	case "center", "right", "justify":
		return a
	}
	return "left"
}
