// Package llmresponse converts raw language model output into validated meal plan and
// grocery list structures.
package llmresponse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pageza/feastcraft/backend/internal/types"
)

const (
	// MinDescriptionLength and MaxDescriptionLength bound a meal description, in characters
	MinDescriptionLength = 50
	MaxDescriptionLength = 150

	// DescriptionFiller pads descriptions that are too short
	DescriptionFiller = "A truly magical dish fit for any adventurer."

	ellipsis = "..."
)

var (
	// ErrParse is returned when the output is not JSON after fences are removed
	ErrParse = errors.New("failed to parse JSON response")
	// ErrInvalidMeal is returned when an element does not have the meal shape
	ErrInvalidMeal = errors.New("invalid meal object structure")
	// ErrInvalidGroceryList is returned when the output is not an object of string arrays
	ErrInvalidGroceryList = errors.New("invalid grocery list structure")
)

var (
	fenceStart = regexp.MustCompile("(?is)^\\s*```(?:json)?[ \\t]*\\r?\\n?")
	fenceEnd   = regexp.MustCompile("(?is)\\r?\\n?[ \\t]*```\\s*$")
)

// StripFences removes a markdown code fence wrapped around the output
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "\uFEFF")
	s = fenceStart.ReplaceAllString(s, "")
	s = fenceEnd.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

type rawMeal struct {
	Meal        *string  `json:"meal"`
	Ingredients []string `json:"ingredients"`
	Link        *string  `json:"link"`
	Description *string  `json:"description"`
}

// ParseMeals returns every meal in the output. The output may be an array of meals, an
// object holding them under "meals", or a single meal object. Either every element is
// valid or an error is returned.
func ParseMeals(raw string) ([]types.Meal, error) {
	elements, err := mealElements(raw)
	if err != nil {
		return nil, err
	}

	meals := make([]types.Meal, 0, len(elements))
	for i, el := range elements {
		meal, err := decodeMeal(el)
		if err != nil {
			return nil, fmt.Errorf("meal %d: %w", i, err)
		}
		meals = append(meals, meal)
	}
	return meals, nil
}

// ParseMeal returns the first meal in the output
func ParseMeal(raw string) (types.Meal, error) {
	elements, err := mealElements(raw)
	if err != nil {
		return types.Meal{}, err
	}
	if len(elements) == 0 {
		return types.Meal{}, fmt.Errorf("%w: no meal in response", ErrInvalidMeal)
	}
	return decodeMeal(elements[0])
}

// ParseGroceryList returns the sections of a categorized grocery list
func ParseGroceryList(raw string) (types.GroceryList, error) {
	cleaned := StripFences(raw)

	var probe interface{}
	if err := json.Unmarshal([]byte(cleaned), &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if _, ok := probe.(map[string]interface{}); !ok {
		return nil, ErrInvalidGroceryList
	}

	var list types.GroceryList
	if err := json.Unmarshal([]byte(cleaned), &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGroceryList, err)
	}
	return list, nil
}

// CorrectDescription forces a description into the allowed length range. Long text is
// cut and ends in an ellipsis, short text is padded with the filler sentence.
func CorrectDescription(desc string) string {
	n := utf8.RuneCountInString(desc)
	switch {
	case n > MaxDescriptionLength:
		runes := []rune(desc)
		return string(runes[:MaxDescriptionLength-len(ellipsis)]) + ellipsis
	case n < MinDescriptionLength:
		padded := desc
		for utf8.RuneCountInString(padded) < MinDescriptionLength {
			padded += " " + DescriptionFiller
		}
		return string([]rune(padded)[:MinDescriptionLength])
	default:
		return desc
	}
}

func mealElements(raw string) ([]json.RawMessage, error) {
	cleaned := StripFences(raw)
	data := []byte(cleaned)
	if !json.Valid(data) {
		var probe interface{}
		err := json.Unmarshal(data, &probe)
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var elements []json.RawMessage
		if err := json.Unmarshal(trimmed, &elements); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		return elements, nil
	}

	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapper struct {
			Meals json.RawMessage `json:"meals"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err == nil {
			inner := bytes.TrimSpace(wrapper.Meals)
			if len(inner) > 0 && inner[0] == '[' {
				var elements []json.RawMessage
				if err := json.Unmarshal(inner, &elements); err != nil {
					return nil, fmt.Errorf("%w: %v", ErrParse, err)
				}
				return elements, nil
			}
		}
	}

	return []json.RawMessage{trimmed}, nil
}

func decodeMeal(el json.RawMessage) (types.Meal, error) {
	trimmed := bytes.TrimSpace(el)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return types.Meal{}, fmt.Errorf("%w: element is not an object", ErrInvalidMeal)
	}

	var rm rawMeal
	if err := json.Unmarshal(trimmed, &rm); err != nil {
		return types.Meal{}, fmt.Errorf("%w: %v", ErrInvalidMeal, err)
	}

	switch {
	case rm.Meal == nil || strings.TrimSpace(*rm.Meal) == "":
		return types.Meal{}, fmt.Errorf("%w: missing meal name", ErrInvalidMeal)
	case len(rm.Ingredients) == 0:
		return types.Meal{}, fmt.Errorf("%w: missing ingredients", ErrInvalidMeal)
	case rm.Link == nil || strings.TrimSpace(*rm.Link) == "":
		return types.Meal{}, fmt.Errorf("%w: missing link", ErrInvalidMeal)
	}

	meal := types.Meal{
		Name:        strings.TrimSpace(*rm.Meal),
		Ingredients: rm.Ingredients,
		Link:        *rm.Link,
	}
	if rm.Description != nil && *rm.Description != "" {
		meal.Description = CorrectDescription(*rm.Description)
	}
	return meal, nil
}
