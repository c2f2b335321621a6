package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/feastcraft/backend/config"
	"github.com/pageza/feastcraft/backend/internal/llm"
	"github.com/pageza/feastcraft/backend/internal/llmresponse"
	"github.com/pageza/feastcraft/backend/internal/types"
)

const (
	msgInvalidBody    = "Invalid request body"
	msgPromptMissing  = "Prompt is missing."
	msgMealNameNeeded = "Meal name is required"
	msgRateLimited    = "Rate limit exceeded. Please try again later."
	msgContentPolicy  = "Request rejected by content policy"
)

// respondError maps a service error onto a status code and JSON body. thing names
// what the endpoint produces, as in "Failed to generate meal plan".
func respondError(c *gin.Context, thing string, err error) {
	status, body := classify(thing, err)
	c.JSON(status, body)
}

func classify(thing string, err error) (int, types.ErrorResponse) {
	switch {
	case errors.Is(err, config.ErrAPIKeyMissing), errors.Is(err, config.ErrAPIKeyInvalid):
		return http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()}

	case errors.Is(err, llm.ErrRateLimited):
		return http.StatusTooManyRequests, types.ErrorResponse{Error: msgRateLimited, Details: details(err)}

	case errors.Is(err, llm.ErrContentPolicy):
		return http.StatusBadRequest, types.ErrorResponse{Error: msgContentPolicy, Details: details(err)}

	case errors.Is(err, llmresponse.ErrParse),
		errors.Is(err, llmresponse.ErrInvalidMeal),
		errors.Is(err, llmresponse.ErrInvalidGroceryList):
		return http.StatusInternalServerError, types.ErrorResponse{
			Error: fmt.Sprintf("Failed to parse %s response: %s", thing, err.Error()),
		}

	default:
		return http.StatusInternalServerError, types.ErrorResponse{
			Error:   fmt.Sprintf("Failed to generate %s: %s", thing, err.Error()),
			Details: details(err),
		}
	}
}

// details prefers the provider's own message, then its raw body, then the error text
func details(err error) string {
	var apiErr *llm.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail()
	}
	return err.Error()
}
