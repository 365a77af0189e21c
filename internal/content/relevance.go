package content

import (
	"strings"

	"golang.org/x/text/cases"
)

// localBusinessSlugs are slug fragments of pages where a LocalBusiness entity
// is expected: home, contact, about and location pages in the languages the
// sites commonly publish in.
var localBusinessSlugs = map[string][]string{
	"en": {"home", "contact", "contact-us", "about", "about-us", "location", "locations", "visit", "find-us", "directions"},
	"de": {"startseite", "kontakt", "ueber-uns", "uber-uns", "standort", "anfahrt", "impressum"},
	"fr": {"accueil", "contact", "contactez-nous", "a-propos", "qui-sommes-nous", "localisation", "acces"},
	"es": {"inicio", "contacto", "sobre-nosotros", "quienes-somos", "ubicacion", "donde-estamos"},
	"it": {"home", "contatti", "chi-siamo", "dove-siamo", "sede"},
	"nl": {"home", "contact", "over-ons", "locatie", "route"},
	"pt": {"inicio", "contato", "contacto", "sobre", "sobre-nos", "localizacao"},
}

var slugIndex = func() map[string]bool {
	idx := make(map[string]bool)
	for _, slugs := range localBusinessSlugs {
		for _, s := range slugs {
			idx[s] = true
		}
	}
	return idx
}()

// IsLocalBusinessRelevant reports whether a subject of postType with slug is a
// page where LocalBusiness markup applies. The front page (empty slug) of any
// page type qualifies; posts and other content types never do.
func IsLocalBusinessRelevant(postType, slug string) bool {
	if postType != "page" && postType != "front_page" {
		return false
	}
	slug = strings.Trim(cases.Fold().String(strings.TrimSpace(slug)), "/")
	if slug == "" || postType == "front_page" {
		return true
	}
	if slugIndex[slug] {
		return true
	}
	// nested pages such as company/contact
	if i := strings.LastIndexByte(slug, '/'); i >= 0 {
		return slugIndex[slug[i+1:]]
	}
	return false
}
