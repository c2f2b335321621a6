package service

import (
	"fmt"

	"github.com/pageza/feastcraft/backend/internal/llm"
)

const linkInstructions = `- "link" (string): IMPORTANT: Only provide URLs to EXISTING recipes that you are certain exist. Do not construct or guess URLs. Instead of guessing, use the search URL format for the chosen site, for example:
  * allrecipes.com: https://www.allrecipes.com/search?q=recipe+name
  * foodnetwork.com: https://www.foodnetwork.com/search/recipe+name-
  * simplyrecipes.com: https://www.simplyrecipes.com/search?q=recipe+name
  * seriouseats.com: https://www.seriouseats.com/search?q=recipe+name
  * epicurious.com: https://www.epicurious.com/search/recipe+name
Always use the search URL format unless you are 100% certain of the exact, complete URL to an existing recipe.
`

const mealProperties = `- "meal" (string): Use the actual name of a real, well-known recipe
- "ingredients" (array of strings): List the real, specific ingredients needed for the recipe with approximate quantities
` + linkInstructions + `- "description" (string): Create a fantasy-themed description (50-150 characters) that reimagines the real dish as if it were served in a magical tavern. Include magical effects or fantasy elements while keeping the actual dish recognizable.

Focus on providing accurate, real-world recipes that people can actually cook, while only adding fantasy elements to the description.`

const (
	mealPlanSystemPrompt = "You are a recipe generator that adds fantasy-themed descriptions to real recipes. Return a JSON array where each item has these properties:\n" + mealProperties

	replaceMealSystemPrompt = "You are a recipe generator that adds fantasy-themed descriptions to real recipes. Return a JSON object with these properties:\n" + mealProperties

	groceryListSystemPrompt = "You are a JSON generator that only returns valid JSON objects. Return a categorized grocery list as a JSON object where keys are store sections and values are arrays of strings. Do not include any markdown formatting or additional text."
)

func mealPlanRequest(prompt string) llm.Request {
	return llm.Request{
		System:           mealPlanSystemPrompt,
		Prompt:           prompt,
		MaxTokens:        1000,
		Temperature:      0.7,
		PresencePenalty:  0.1,
		FrequencyPenalty: 0.1,
	}
}

func replaceMealRequest(prompt string) llm.Request {
	return llm.Request{
		System:      replaceMealSystemPrompt,
		Prompt:      prompt,
		MaxTokens:   500,
		Temperature: 0.7,
	}
}

func groceryListRequest(prompt string) llm.Request {
	return llm.Request{
		System:      groceryListSystemPrompt,
		Prompt:      prompt,
		MaxTokens:   800,
		Temperature: 0.3,
		JSON:        true,
	}
}

// MealImagePrompt describes the card illustration generated for a meal
func MealImagePrompt(mealName string) string {
	return fmt.Sprintf("Create a fantasy-style illustration of \"%s\" as if it were art for a Magic: The Gathering card. "+
		"The style should be painterly and mystical, with dramatic lighting and a magical atmosphere. "+
		"The food should look appetizing but with a fantastical twist.", mealName)
}
