// Package pagebuilder implements the ordered component list behind the
// drag-and-drop page builder.
package pagebuilder

import (
	"bytes"
	"encoding/json"
	"fmt"

	"portfolio-cms/internal/i18n"
)

// Type identifies the variant of a component.
type Type string

const (
	TypeHero     Type = "hero"
	TypeText     Type = "text"
	TypeImage    Type = "image"
	TypeGallery  Type = "gallery"
	TypeFeatures Type = "features"
	TypeCTA      Type = "cta"
	TypeSpacer   Type = "spacer"
)

// Types lists every supported component type in toolbar order.
var Types = []Type{TypeHero, TypeText, TypeImage, TypeGallery, TypeFeatures, TypeCTA, TypeSpacer}

// Valid reports whether t is a known component type.
func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Padding is expressed in pixels.
type Padding struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// Style carries the fields every component accepts.
type Style struct {
	BackgroundColor string   `json:"backgroundColor,omitempty"`
	TextColor       string   `json:"textColor,omitempty"`
	Padding         *Padding `json:"padding,omitempty"`
}

func (s *Style) style() *Style { return s }

// Data is the type-specific payload of a component. Implementations are the
// *XxxData types of this package.
type Data interface {
	Type() Type
	style() *Style
}

// HeroData is the payload of a hero banner.
type HeroData struct {
	Style
	Title           i18n.Text `json:"title"`
	Subtitle        i18n.Text `json:"subtitle"`
	Description     i18n.Text `json:"description"`
	ButtonText      i18n.Text `json:"heroButtonText"`
	ButtonLink      string    `json:"heroButtonLink,omitempty"`
	SecondaryText   i18n.Text `json:"secondaryButton"`
	SecondaryLink   string    `json:"secondaryButtonLink,omitempty"`
	BackgroundImage string    `json:"backgroundImage,omitempty"`
	BackgroundType  string    `json:"backgroundType,omitempty"`
	Gradient        string    `json:"gradient,omitempty"`
	Height          string    `json:"height,omitempty"`
}

// TextData is a block of markdown/HTML content.
type TextData struct {
	Style
	Content   i18n.Text `json:"content"`
	Alignment string    `json:"alignment,omitempty"`
}

// ImageData references a single media item.
type ImageData struct {
	Style
	ImageURL string    `json:"imageUrl"`
	MediaID  string    `json:"mediaId,omitempty"`
	Alt      i18n.Text `json:"alt"`
	Caption  i18n.Text `json:"caption"`
}

// GalleryImage is one entry of a gallery component.
type GalleryImage struct {
	ID      string    `json:"id,omitempty"`
	MediaID string    `json:"mediaId,omitempty"`
	URL     string    `json:"url"`
	Alt     i18n.Text `json:"alt"`
}

// GalleryData shows either hand-picked images or featured projects.
type GalleryData struct {
	Style
	Title        i18n.Text      `json:"title"`
	Subtitle     i18n.Text      `json:"subtitle"`
	Images       []GalleryImage `json:"images"`
	ShowFeatured bool           `json:"showFeatured,omitempty"`
	Columns      int            `json:"columns,omitempty"`
	MaxItems     int            `json:"maxItems,omitempty"`
}

// Feature is one item of a features grid.
type Feature struct {
	Icon        string    `json:"icon,omitempty"`
	Title       i18n.Text `json:"title"`
	Description i18n.Text `json:"description"`
}

// FeaturesData is a grid of icon/title/description items.
type FeaturesData struct {
	Style
	Title    i18n.Text `json:"title"`
	Subtitle i18n.Text `json:"subtitle"`
	Features []Feature `json:"features"`
}

// CTAData is a call-to-action band.
type CTAData struct {
	Style
	Heading     i18n.Text `json:"heading"`
	Description i18n.Text `json:"description"`
	ButtonText  i18n.Text `json:"ctaButtonText"`
	ButtonLink  string    `json:"ctaButtonLink,omitempty"`
}

// SpacerData is vertical whitespace.
type SpacerData struct {
	Style
	Height int `json:"height"`
}

func (*HeroData) Type() Type     { return TypeHero }
func (*TextData) Type() Type     { return TypeText }
func (*ImageData) Type() Type    { return TypeImage }
func (*GalleryData) Type() Type  { return TypeGallery }
func (*FeaturesData) Type() Type { return TypeFeatures }
func (*CTAData) Type() Type      { return TypeCTA }
func (*SpacerData) Type() Type   { return TypeSpacer }

// StyleOf returns the shared style fields of d.
func StyleOf(d Data) Style {
	if d == nil {
		return Style{}
	}
	return *d.style()
}

// newData returns an empty payload for t.
func newData(t Type) (Data, error) {
	switch t {
	case TypeHero:
		return &HeroData{}, nil
	case TypeText:
		return &TextData{}, nil
	case TypeImage:
		return &ImageData{}, nil
	case TypeGallery:
		return &GalleryData{}, nil
	case TypeFeatures:
		return &FeaturesData{}, nil
	case TypeCTA:
		return &CTAData{}, nil
	case TypeSpacer:
		return &SpacerData{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
}

// DecodeData parses raw into the payload for t.
func DecodeData(t Type, raw json.RawMessage) (Data, error) {
	data, err := newData(t)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return data, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(data); err != nil {
		return nil, fmt.Errorf("invalid %s data: %w", t, err)
	}
	return data, nil
}

// Component is one unit of a page layout. ID is the only stable identity;
// Order is derived from list position.
type Component struct {
	ID    string `json:"id"`
	Type  Type   `json:"type"`
	Order int    `json:"order"`
	Data  Data   `json:"data"`
}

type componentJSON struct {
	ID    string          `json:"id"`
	Type  Type            `json:"type"`
	Order int             `json:"order"`
	Data  json.RawMessage `json:"data"`
}

// UnmarshalJSON dispatches the data payload on the component type.
func (c *Component) UnmarshalJSON(b []byte) error {
	var raw componentJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.ID == "" {
		return ErrMissingID
	}
	data, err := DecodeData(raw.Type, raw.Data)
	if err != nil {
		return err
	}
	*c = Component{ID: raw.ID, Type: raw.Type, Order: raw.Order, Data: data}
	return nil
}

// clone deep-copies the data payload through its JSON form.
func cloneData(d Data) (Data, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return DecodeData(d.Type(), b)
}
