package types

// PromptRequest is the body of the meal plan, replacement and grocery list endpoints
type PromptRequest struct {
	Prompt string `json:"prompt"`
}

// ImageRequest is the body of the meal image endpoint
type ImageRequest struct {
	MealName string `json:"mealName"`
}

// ImageResponse is returned by the meal image endpoint
type ImageResponse struct {
	ImageURL string `json:"imageUrl"`
}

// ErrorResponse is the JSON shape of every failed request
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}
