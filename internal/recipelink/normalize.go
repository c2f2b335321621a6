// Package recipelink turns recipe links produced by a language model into URLs that are
// guaranteed to resolve: either a search page on an allow-listed recipe site or the
// site's homepage.
package recipelink

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	schemePattern  = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
	httpPrefix     = regexp.MustCompile(`^https?://`)
	nonWordPattern = regexp.MustCompile(`[^\w\s]`)
)

// Normalize maps a candidate link to a valid absolute URL. Links to allow-listed sites
// that are not already search pages are rewritten to that site's search page, using
// the path as the query. Everything else becomes a search on the default site.
func Normalize(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return DefaultHomepage
	}

	if !schemePattern.MatchString(link) {
		link = "https://" + link
	}

	u, err := url.Parse(link)
	if err != nil {
		return defaultSite().SearchURL(fallbackQuery(link))
	}

	site, ok := Lookup(u.Hostname())
	if !ok {
		return defaultSite().SearchURL(fallbackQuery(link))
	}

	// Search pages pass through as given, raw spaces in the query included, so the
	// result normalizes to itself. Only web schemes are kept.
	if isWebScheme(u.Scheme) && site.IsSearchPage(u) {
		return link
	}

	query := pathQuery(u.Path)
	if query == "" {
		query = site.label()
	}
	return site.SearchURL(query)
}

func isWebScheme(scheme string) bool {
	return scheme == "http" || scheme == "https"
}

// pathQuery turns "/recipes/spaghetti-carbonara-12345" into "spaghetti carbonara 12345"
func pathQuery(path string) string {
	var parts []string
	for _, seg := range strings.Split(path, "/") {
		if seg == "" || seg == "search" || seg == "recipes" {
			continue
		}
		parts = append(parts, seg)
	}
	q := strings.Join(parts, " ")
	q = strings.NewReplacer("-", " ", "_", " ").Replace(q)
	return collapse(q)
}

// fallbackQuery keeps only the word characters of the raw link
func fallbackQuery(link string) string {
	q := httpPrefix.ReplaceAllString(link, "")
	q = nonWordPattern.ReplaceAllString(q, " ")
	return collapse(q)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
