package service

import (
	"context"

	"github.com/pageza/feastcraft/backend/internal/models"
	"github.com/pageza/feastcraft/backend/internal/types"
)

// IMealService defines the text generation operations behind the proxy endpoints
type IMealService interface {
	GeneratePlan(ctx context.Context, prompt string) ([]types.Meal, error)
	ReplaceMeal(ctx context.Context, prompt string) (types.Meal, error)
	GroceryList(ctx context.Context, prompt string) (types.GroceryList, error)
}

// IImageService defines image generation for a single meal
type IImageService interface {
	GenerateMealImage(ctx context.Context, mealName string) (string, error)
}

// UsageRecorder stores one ledger entry per provider call
type UsageRecorder interface {
	Record(ctx context.Context, record *models.UsageRecord) error
}

// IUsageService defines the usage ledger
type IUsageService interface {
	UsageRecorder
	Daily(ctx context.Context, days int) (*types.UsageReport, error)
	Prune(ctx context.Context, olderThanDays int) (int64, error)
}

// ImageStore keeps a copy of a generated image and returns a URL for it
type ImageStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
