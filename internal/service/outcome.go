package service

import (
	"errors"

	"github.com/pageza/feastcraft/backend/internal/llm"
	"github.com/pageza/feastcraft/backend/internal/llmresponse"
	"github.com/pageza/feastcraft/backend/internal/models"
)

// Outcome maps the error of a provider call onto a usage ledger outcome
func Outcome(err error) string {
	switch {
	case err == nil:
		return models.OutcomeOK
	case errors.Is(err, llm.ErrRateLimited):
		return models.OutcomeRateLimited
	case errors.Is(err, llm.ErrContentPolicy):
		return models.OutcomeContentPolicy
	case errors.Is(err, llm.ErrEmptyResponse):
		return models.OutcomeEmptyResponse
	case errors.Is(err, llmresponse.ErrParse),
		errors.Is(err, llmresponse.ErrInvalidMeal),
		errors.Is(err, llmresponse.ErrInvalidGroceryList):
		return models.OutcomeParseError
	default:
		return models.OutcomeError
	}
}
