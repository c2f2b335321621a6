package recipelink

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty link",
			input:    "",
			expected: "https://www.allrecipes.com",
		},
		{
			name:     "whitespace link",
			input:    "   ",
			expected: "https://www.allrecipes.com",
		},
		{
			name:     "foodnetwork recipe without scheme",
			input:    "www.foodnetwork.com/recipes/spaghetti-carbonara-12345",
			expected: "https://www.foodnetwork.com/search/spaghetti%20carbonara%2012345-",
		},
		{
			name:     "allrecipes article",
			input:    "https://www.allrecipes.com/recipe/23600/worlds-best-lasagna/",
			expected: "https://www.allrecipes.com/search?q=recipe%2023600%20worlds%20best%20lasagna",
		},
		{
			name:     "underscores become spaces",
			input:    "https://www.epicurious.com/recipes/food/views/beef_bourguignon",
			expected: "https://www.epicurious.com/search/food%20views%20beef%20bourguignon",
		},
		{
			name:     "subdomain matches allow-listed domain",
			input:    "https://cooking.nytimes.com/recipes/1015819-chocolate-chip-cookies",
			expected: "https://cooking.nytimes.com/search?q=1015819%20chocolate%20chip%20cookies",
		},
		{
			name:     "yummly recipe page",
			input:    "https://www.yummly.com/recipe/Chicken-Tikka-Masala-2",
			expected: "https://www.yummly.com/recipes?q=recipe%20Chicken%20Tikka%20Masala%202",
		},
		{
			name:     "homepage falls back to site name",
			input:    "https://www.seriouseats.com/",
			expected: "https://www.seriouseats.com/search?q=seriouseats",
		},
		{
			name:     "existing search url is kept",
			input:    "https://www.allrecipes.com/search?q=chicken+curry",
			expected: "https://www.allrecipes.com/search?q=chicken+curry",
		},
		{
			name:     "unknown domain searches default site",
			input:    "https://www.example.com/my-great-tacos",
			expected: "https://www.allrecipes.com/search?q=www%20example%20com%20my%20great%20tacos",
		},
		{
			name:     "lookalike domain is not allow-listed",
			input:    "https://notallrecipes.com/recipe/1",
			expected: "https://www.allrecipes.com/search?q=notallrecipes%20com%20recipe%201",
		},
		{
			name:     "unparsable host",
			input:    "https://bad host.com/pad thai",
			expected: "https://www.allrecipes.com/search?q=bad%20host%20com%20pad%20thai",
		},
		{
			name:     "script url on allow-listed search path is rebuilt",
			input:    "javascript://www.allrecipes.com/search/%0Aalert(document.cookie)",
			expected: "https://www.allrecipes.com/search?q=alert%28document.cookie%29",
		},
		{
			name:     "data url on allow-listed search path is rebuilt",
			input:    "data://www.allrecipes.com/search?q=x",
			expected: "https://www.allrecipes.com/search?q=allrecipes",
		},
		{
			name:     "ftp url on allow-listed search path is rebuilt",
			input:    "ftp://www.food.com/search/beef-stew",
			expected: "https://www.food.com/search/beef%20stew",
		},
		{
			name:     "search query with raw spaces is kept as given",
			input:    "https://www.allrecipes.com/search?q=pad thai",
			expected: "https://www.allrecipes.com/search?q=pad thai",
		},
		{
			name:     "other scheme is not allow-listed",
			input:    "ftp://files.example.org/stew",
			expected: "https://www.allrecipes.com/search?q=ftp%20files%20example%20org%20stew",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalize_SiteTemplates(t *testing.T) {
	for _, site := range Sites() {
		t.Run(site.Domain, func(t *testing.T) {
			input := "https://www." + site.Domain + "/recipes/garlic-butter-shrimp"
			if strings.Count(site.Domain, ".") > 1 {
				input = "https://" + site.Domain + "/recipes/garlic-butter-shrimp"
			}

			out := Normalize(input)
			assert.Equal(t, site.SearchURL("garlic butter shrimp"), out)

			// a search url produced for the site normalizes to itself
			assert.Equal(t, out, Normalize(out))

			u, err := url.Parse(out)
			require.NoError(t, err)
			assert.True(t, u.IsAbs())
			got, ok := Lookup(u.Hostname())
			require.True(t, ok)
			assert.Equal(t, site.Domain, got.Domain)
		})
	}
}

func TestNormalize_AlwaysAbsolute(t *testing.T) {
	inputs := []string{
		"tacos",
		"http://",
		"https://[::1",
		"!!!",
		"https://example.com/%zz",
		"lasagna recipe from grandma",
		"https://www.allrecipes.com/search?q=already",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			out := Normalize(in)
			u, err := url.Parse(out)
			require.NoError(t, err)
			assert.True(t, u.IsAbs())
			assert.NotEmpty(t, u.Host)
			assert.Equal(t, out, Normalize(out))
		})
	}
}

func TestLookup(t *testing.T) {
	site, ok := Lookup("WWW.Food.com")
	assert.True(t, ok)
	assert.Equal(t, "food.com", site.Domain)

	_, ok = Lookup("seriousfood.com")
	assert.False(t, ok)

	_, ok = Lookup("")
	assert.False(t, ok)
}

func TestIsSearchPage(t *testing.T) {
	yummly, ok := Lookup("www.yummly.com")
	require.True(t, ok)

	withQuery, _ := url.Parse("https://www.yummly.com/recipes?q=pho")
	withoutQuery, _ := url.Parse("https://www.yummly.com/recipes/pho")
	assert.True(t, yummly.IsSearchPage(withQuery))
	assert.False(t, yummly.IsSearchPage(withoutQuery))
}
