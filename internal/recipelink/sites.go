package recipelink

import (
	"fmt"
	"net/url"
	"strings"
)

// Site is an allow-listed recipe website
type Site struct {
	// Domain is matched against hostnames on a dot boundary
	Domain string
	// SearchTemplate has a single %s verb for the percent-encoded query
	SearchTemplate string
	// SearchSegment is the path segment that marks the site's search page
	SearchSegment string
	// SearchParam, when set, must also be present in the query string of a search page
	SearchParam string
}

// DefaultSite receives every link that cannot be tied to an allow-listed site
const DefaultSite = "allrecipes.com"

// DefaultHomepage is returned for empty links
const DefaultHomepage = "https://www.allrecipes.com"

var sites = []Site{
	{Domain: "allrecipes.com", SearchTemplate: "https://www.allrecipes.com/search?q=%s", SearchSegment: "search"},
	{Domain: "foodnetwork.com", SearchTemplate: "https://www.foodnetwork.com/search/%s-", SearchSegment: "search"},
	{Domain: "epicurious.com", SearchTemplate: "https://www.epicurious.com/search/%s", SearchSegment: "search"},
	{Domain: "seriouseats.com", SearchTemplate: "https://www.seriouseats.com/search?q=%s", SearchSegment: "search"},
	{Domain: "simplyrecipes.com", SearchTemplate: "https://www.simplyrecipes.com/search?q=%s", SearchSegment: "search"},
	{Domain: "food.com", SearchTemplate: "https://www.food.com/search/%s", SearchSegment: "search"},
	{Domain: "cooking.nytimes.com", SearchTemplate: "https://cooking.nytimes.com/search?q=%s", SearchSegment: "search"},
	{Domain: "bonappetit.com", SearchTemplate: "https://www.bonappetit.com/search?q=%s", SearchSegment: "search"},
	{Domain: "tasty.co", SearchTemplate: "https://tasty.co/search?q=%s", SearchSegment: "search"},
	{Domain: "delish.com", SearchTemplate: "https://www.delish.com/search?q=%s", SearchSegment: "search"},
	{Domain: "tasteofhome.com", SearchTemplate: "https://www.tasteofhome.com/search/?q=%s", SearchSegment: "search"},
	{Domain: "cookinglight.com", SearchTemplate: "https://www.cookinglight.com/search?q=%s", SearchSegment: "search"},
	{Domain: "bettycrocker.com", SearchTemplate: "https://www.bettycrocker.com/search?term=%s", SearchSegment: "search"},
	{Domain: "myrecipes.com", SearchTemplate: "https://www.myrecipes.com/search?q=%s", SearchSegment: "search"},
	{Domain: "yummly.com", SearchTemplate: "https://www.yummly.com/recipes?q=%s", SearchSegment: "recipes", SearchParam: "q"},
}

// Sites returns a copy of the allow-list
func Sites() []Site {
	out := make([]Site, len(sites))
	copy(out, sites)
	return out
}

// Lookup returns the allow-listed site serving host
func Lookup(host string) (Site, bool) {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	for _, s := range sites {
		if host == s.Domain || strings.HasSuffix(host, "."+s.Domain) {
			return s, true
		}
	}
	return Site{}, false
}

// SearchURL builds the site's search page for query
func (s Site) SearchURL(query string) string {
	return fmt.Sprintf(s.SearchTemplate, encodeQuery(query))
}

// IsSearchPage reports whether u already points at the site's search page
func (s Site) IsSearchPage(u *url.URL) bool {
	found := false
	for _, seg := range strings.Split(u.Path, "/") {
		if seg == s.SearchSegment {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	if s.SearchParam == "" {
		return true
	}
	return u.Query().Has(s.SearchParam)
}

// label is the site's name without its public suffix, e.g. "allrecipes"
func (s Site) label() string {
	parts := strings.Split(s.Domain, ".")
	if len(parts) > 2 {
		return parts[len(parts)-2]
	}
	return parts[0]
}

func defaultSite() Site {
	s, _ := Lookup(DefaultSite)
	return s
}

// encodeQuery matches encodeURIComponent: spaces become %20 rather than '+'
func encodeQuery(q string) string {
	return strings.ReplaceAll(url.QueryEscape(strings.TrimSpace(q)), "+", "%20")
}
