package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/feastcraft/backend/internal/llm"
	"github.com/pageza/feastcraft/backend/internal/models"
	"github.com/pageza/feastcraft/backend/internal/types"
)

// MockTextGenerator is a mock implementation of llm.TextGenerator
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.Response), args.Error(1)
}

func (m *MockTextGenerator) Provider() string { return llm.ProviderOpenAI }

func (m *MockTextGenerator) Model() string { return "gpt-3.5-turbo" }

// MockImageGenerator is a mock implementation of llm.ImageGenerator
type MockImageGenerator struct {
	mock.Mock
}

func (m *MockImageGenerator) GenerateImage(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockImageGenerator) Model() string { return "dall-e-3" }

// MockMealService is a mock implementation of the meal service
type MockMealService struct {
	mock.Mock
}

func (m *MockMealService) GeneratePlan(ctx context.Context, prompt string) ([]types.Meal, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Meal), args.Error(1)
}

func (m *MockMealService) ReplaceMeal(ctx context.Context, prompt string) (types.Meal, error) {
	args := m.Called(ctx, prompt)
	return args.Get(0).(types.Meal), args.Error(1)
}

func (m *MockMealService) GroceryList(ctx context.Context, prompt string) (types.GroceryList, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(types.GroceryList), args.Error(1)
}

// MockImageService is a mock implementation of the image service
type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) GenerateMealImage(ctx context.Context, mealName string) (string, error) {
	args := m.Called(ctx, mealName)
	return args.String(0), args.Error(1)
}

// MockUsageService is a mock implementation of the usage ledger
type MockUsageService struct {
	mock.Mock
}

func (m *MockUsageService) Record(ctx context.Context, record *models.UsageRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockUsageService) Daily(ctx context.Context, days int) (*types.UsageReport, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UsageReport), args.Error(1)
}

func (m *MockUsageService) Prune(ctx context.Context, olderThanDays int) (int64, error) {
	args := m.Called(ctx, olderThanDays)
	return args.Get(0).(int64), args.Error(1)
}

// MockImageStore is a mock implementation of the image mirror store
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}
