package site

// Content is the static portfolio copy served at /api/site.
type Content struct {
	Hero     Hero      `json:"hero"`
	About    About     `json:"about"`
	Services Services  `json:"services"`
	Contact  []Contact `json:"contact"`
}

// Hero is the landing section.
type Hero struct {
	Tagline string `json:"tagline"`
	Title   string `json:"title"`
	Intro   string `json:"intro"`
}

// About is the biography section.
type About struct {
	Heading    string   `json:"heading"`
	Subheading string   `json:"subheading"`
	Paragraphs []string `json:"paragraphs"`
}

// Services lists what the photographer offers.
type Services struct {
	Heading    string   `json:"heading"`
	Subheading string   `json:"subheading"`
	Items      []string `json:"items"`
}

// Contact is one way to reach the photographer.
type Contact struct {
	Label string `json:"label"`
	URL   string `json:"url"`
	Kind  string `json:"kind"`
}

// Default returns the portfolio's content.
func Default() Content {
	return Content{
		Hero: Hero{
			Tagline: "Fotografía, Arte y Visión",
			Title:   "El Fotógrafo",
			Intro: "Soy un apasionado de la fotografía, busco captar la esencia de un " +
				"presente que inevitablemente se convertirá en uno de los infinitos " +
				"instantes del pasado.",
		},
		About: About{
			Heading:    "Sobre mí",
			Subheading: "Pasión por la Fotografía",
			Paragraphs: []string{
				"Con más de 25 años de experiencia en el mundo de la fotografía, me " +
					"especializo en capturar los momentos más importantes de tu vida con " +
					"un enfoque artístico y profesional.",
				"Mi filosofía se basa en crear imágenes auténticas que cuenten " +
					"historias, reflejen emociones y perduren en el tiempo.",
				"Cada sesión es única y personalizada según tus necesidades y visión.",
			},
		},
		Services: Services{
			Heading:    "Servicios",
			Subheading: "Excelencia profesional",
			Items: []string{
				"Bodas y Eventos - Documentando tu día especial.",
				"Retratos y Sesiones - Capturando tu esencia única.",
				"Paisajes y Naturaleza - La belleza del mundo natural.",
				"Fotografía de Producto - Resaltando los productos o servicios que " +
					"ofrecen las tiendas físicas, tiendas online o emprendedores.",
				"Fotografía Gastronómica - Retratando la belleza única de cada uno de tus platos.",
				"Fotografía Inmobiliaria - Enfocada en capturar las propiedades de " +
					"manera atractiva para compradores e inquilinos.",
			},
		},
		Contact: []Contact{
			{Label: "Instagram", URL: "https://www.instagram.com/tu_usuario/", Kind: "instagram"},
			{Label: "+34123456789", URL: "tel:+34123456789", Kind: "phone"},
			{Label: "+34123456789", URL: "https://wa.me/34123456789", Kind: "whatsapp"},
		},
	}
}
