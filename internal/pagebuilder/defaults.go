package pagebuilder

import "portfolio-cms/internal/i18n"

// DefaultSpacerHeight is the height in pixels of a freshly added spacer.
const DefaultSpacerHeight = 60

func placeholder(en, nl, fr string) i18n.Text {
	return i18n.Multi(map[string]string{"en": en, "nl": nl, "fr": fr})
}

// DefaultData returns the placeholder payload a new component of type t starts with.
func DefaultData(t Type) (Data, error) {
	light := Style{BackgroundColor: "#ffffff", TextColor: "#000000"}

	switch t {
	case TypeHero:
		return &HeroData{
			Style: light,
			Title: placeholder(
				"Welcome to Our Portfolio",
				"Welkom bij Ons Portfolio",
				"Bienvenue dans Notre Portfolio"),
			Subtitle: placeholder(
				"Discover unique handcrafted pieces made with quality materials and attention to detail.",
				"Ontdek unieke handgemaakte stukken gemaakt met kwaliteitsmaterialen en aandacht voor detail.",
				"Découvrez des pièces artisanales uniques fabriquées avec des matériaux de qualité et une attention aux détails."),
			ButtonText: placeholder("View Projects", "Bekijk Projecten", "Voir les Projets"),
			ButtonLink: "/projects",
		}, nil
	case TypeText:
		return &TextData{
			Style: light,
			Content: placeholder(
				"Add your text content here...",
				"Voeg hier uw tekstinhoud toe...",
				"Ajoutez votre contenu textuel ici..."),
			Alignment: "left",
		}, nil
	case TypeImage:
		return &ImageData{
			Style:   Style{BackgroundColor: "#ffffff"},
			Alt:     placeholder("Image description", "Afbeelding beschrijving", "Description de l'image"),
			Caption: placeholder("", "", ""),
		}, nil
	case TypeGallery:
		return &GalleryData{
			Style:  Style{BackgroundColor: "#ffffff"},
			Images: []GalleryImage{},
		}, nil
	case TypeFeatures:
		return &FeaturesData{
			Style:    light,
			Title:    placeholder("Why Choose Us", "Waarom Kiezen Voor Ons", "Pourquoi Nous Choisir"),
			Features: []Feature{},
		}, nil
	case TypeCTA:
		return &CTAData{
			Style: Style{BackgroundColor: "#000000", TextColor: "#ffffff"},
			Heading: placeholder(
				"Ready to Start Your Project?",
				"Klaar om Uw Project te Starten?",
				"Prêt à Commencer Votre Projet?"),
			Description: placeholder(
				"Get in touch to discuss your ideas and learn how we can bring your vision to life.",
				"Neem contact met ons op om uw ideeën te bespreken en te leren hoe we uw visie tot leven kunnen brengen.",
				"Contactez-nous pour discuter de vos idées et apprendre comment nous pouvons donner vie à votre vision."),
			ButtonText: placeholder("Contact Us", "Contact Opnemen", "Nous Contacter"),
			ButtonLink: "/contact",
		}, nil
	case TypeSpacer:
		return &SpacerData{
			Style:  Style{BackgroundColor: "#ffffff"},
			Height: DefaultSpacerHeight,
		}, nil
	}
	return newData(t)
}
