package client

import (
	"fmt"
	"strings"

	"github.com/pageza/feastcraft/backend/internal/types"
)

// Bounds on the number of meals in one plan
const (
	MinMeals = 1
	MaxMeals = 7
)

// BuildMealPlanPrompt asks for n distinct dinners, optionally matching preferences
func BuildMealPlanPrompt(n int, preferences string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a list of %d distinct and interesting dinner recipes", n)
	if p := strings.TrimSpace(preferences); p != "" {
		fmt.Fprintf(&b, " that are %s", p)
	}
	b.WriteString(` along with a list of ingredients and a link to the recipe. Ensure that no recipes are repeated in this list. Format this as a JSON array of objects, where each object has three keys: "meal" (the name of the meal as a string), "ingredients" (an array of strings, where each string is an ingredient in the recipe), and "link" (a string, the link to the recipe).`)
	return b.String()
}

// BuildReplacementPrompt asks for a single dinner to swap into a plan
func BuildReplacementPrompt(preferences string) string {
	var b strings.Builder
	b.WriteString("Generate one interesting dinner recipe")
	if p := strings.TrimSpace(preferences); p != "" {
		fmt.Fprintf(&b, " that is %s", p)
	}
	b.WriteString(` Include a list of ingredients and a link to the recipe. Format this as a JSON array of one object with the keys: "meal" (string), "ingredients" (array of strings), and "link" (string).`)
	return b.String()
}

// BuildGroceryPrompt asks for the plan's ingredients grouped by store section
func BuildGroceryPrompt(meals []types.Meal) string {
	return fmt.Sprintf(`Take the following list of ingredients: %s. Aggregate ingredients of the same type and group them by common grocery store sections such as "Produce", "Dairy", "Meat & Seafood", "Pantry", "Spices & Seasonings", "Frozen", etc. Return the grocery list as a JSON object where the keys are the section names and the values are arrays of the ingredients in that section, including estimated quantities if possible (e.g., "2 lemons", "1 dozen eggs").`,
		strings.Join(ingredients(meals), ", "))
}

func ingredients(meals []types.Meal) []string {
	var all []string
	for _, m := range meals {
		all = append(all, m.Ingredients...)
	}
	return all
}
