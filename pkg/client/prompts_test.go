package client

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pageza/feastcraft/backend/internal/types"
)

func TestBuildMealPlanPrompt(t *testing.T) {
	p := BuildMealPlanPrompt(3, "")
	assert.True(t, strings.HasPrefix(p, "Generate a list of 3 distinct and interesting dinner recipes along with"))

	p = BuildMealPlanPrompt(5, "  vegetarian ")
	assert.True(t, strings.HasPrefix(p, "Generate a list of 5 distinct and interesting dinner recipes that are vegetarian along with"))
	assert.Contains(t, p, `"meal" (the name of the meal as a string)`)
}

func TestBuildReplacementPrompt(t *testing.T) {
	assert.True(t, strings.HasPrefix(BuildReplacementPrompt(""), "Generate one interesting dinner recipe Include"))
	assert.True(t, strings.HasPrefix(BuildReplacementPrompt("quick"), "Generate one interesting dinner recipe that is quick Include"))
}

func TestBuildGroceryPrompt(t *testing.T) {
	p := BuildGroceryPrompt([]types.Meal{
		{Ingredients: []string{"beef", "chili"}},
		{Ingredients: []string{"greens"}},
	})
	assert.True(t, strings.HasPrefix(p, "Take the following list of ingredients: beef, chili, greens. Aggregate"))
}
