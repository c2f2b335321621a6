package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/feastcraft/backend/internal/llm"
	"github.com/pageza/feastcraft/backend/internal/llmresponse"
	"github.com/pageza/feastcraft/backend/internal/models"
	"github.com/pageza/feastcraft/backend/internal/recipelink"
	"github.com/pageza/feastcraft/backend/internal/types"
)

// MealServiceConfig wires a MealService
type MealServiceConfig struct {
	Text llm.TextGenerator
	// Credentials is checked before every call, typically config.Config.TextCredentials
	Credentials func() error
	Usage       UsageRecorder
	Timeout     time.Duration
	Logger      *zap.Logger
}

// MealService generates meal plans, replacement meals and grocery lists
type MealService struct {
	text        llm.TextGenerator
	credentials func() error
	timeout     time.Duration
	recorder    callRecorder
	logger      *zap.Logger
}

// NewMealService creates a new MealService instance
func NewMealService(cfg MealServiceConfig) *MealService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("meals")
	credentials := cfg.Credentials
	if credentials == nil {
		credentials = func() error { return nil }
	}
	return &MealService{
		text:        cfg.Text,
		credentials: credentials,
		timeout:     cfg.Timeout,
		recorder:    callRecorder{usage: cfg.Usage, logger: logger, now: time.Now},
		logger:      logger,
	}
}

// GeneratePlan returns the meals the model proposes for prompt, each with a normalized link
func (s *MealService) GeneratePlan(ctx context.Context, prompt string) ([]types.Meal, error) {
	var meals []types.Meal
	err := s.complete(ctx, models.KindMealPlan, mealPlanRequest(prompt), func(text string) error {
		parsed, err := llmresponse.ParseMeals(text)
		if err != nil {
			return err
		}
		if len(parsed) == 0 {
			return fmt.Errorf("%w: no meals in response", llmresponse.ErrInvalidMeal)
		}
		meals = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range meals {
		meals[i].Link = recipelink.Normalize(meals[i].Link)
	}
	return meals, nil
}

// ReplaceMeal returns a single meal for prompt
func (s *MealService) ReplaceMeal(ctx context.Context, prompt string) (types.Meal, error) {
	var meal types.Meal
	err := s.complete(ctx, models.KindReplaceMeal, replaceMealRequest(prompt), func(text string) error {
		parsed, err := llmresponse.ParseMeal(text)
		if err != nil {
			return err
		}
		meal = parsed
		return nil
	})
	if err != nil {
		return types.Meal{}, err
	}

	meal.Link = recipelink.Normalize(meal.Link)
	return meal, nil
}

// GroceryList returns the categorized list the model builds for prompt
func (s *MealService) GroceryList(ctx context.Context, prompt string) (types.GroceryList, error) {
	var list types.GroceryList
	err := s.complete(ctx, models.KindGroceryList, groceryListRequest(prompt), func(text string) error {
		parsed, err := llmresponse.ParseGroceryList(text)
		if err != nil {
			return err
		}
		list = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// complete checks credentials, makes one provider call bounded by the service timeout and
// hands the text to parse. The call is recorded whatever the outcome.
func (s *MealService) complete(ctx context.Context, kind string, req llm.Request, parse func(string) error) error {
	if err := s.credentials(); err != nil {
		return err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := s.recorder.now()
	resp, err := s.text.Generate(ctx, req)
	if err == nil {
		if err = parse(resp.Text); err != nil {
			s.logger.Debug("unparseable response", zap.String("kind", kind), zap.String("raw", resp.Text), zap.Error(err))
		}
	}
	s.recorder.record(ctx, kind, s.text.Provider(), s.text.Model(), started, resp, err)
	return err
}
