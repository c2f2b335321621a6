package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/feastcraft/backend/config"
	"github.com/pageza/feastcraft/backend/internal/api"
	"github.com/pageza/feastcraft/backend/internal/database"
	"github.com/pageza/feastcraft/backend/internal/llm"
	"github.com/pageza/feastcraft/backend/internal/middleware"
	"github.com/pageza/feastcraft/backend/internal/service"
)

// application owns every long-lived dependency of the server
type application struct {
	deps  api.Dependencies
	db    *gorm.DB
	redis *redis.Client
}

func buildApplication(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*application, error) {
	app := &application{}

	db, err := openLedger(cfg, logger)
	if err != nil {
		return nil, err
	}
	app.db = db

	var usage service.IUsageService
	if db != nil {
		usage = service.NewUsageService(db)
	}

	// Redis is optional, the limiters pass everything through without it
	if cfg.RateLimitTextPerHour > 0 || cfg.RateLimitImagePerHour > 0 {
		client, err := database.NewRedisClient(ctx, cfg, logger)
		if err != nil {
			logger.Warn("Redis unavailable, rate limiting disabled", zap.Error(err))
		} else {
			app.redis = client
		}
	}

	var store service.ImageStore
	s3Config, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		logger.Warn("S3 unavailable, images will not be mirrored", zap.Error(err))
	} else if s3Config != nil {
		store = service.NewS3ImageStore(s3Config, cfg.S3PresignTTL(), logger)
	}

	httpClient := &http.Client{Timeout: cfg.RequestTimeout() + 10*time.Second}

	app.deps = api.Dependencies{
		Meals: service.NewMealService(service.MealServiceConfig{
			Text:        newTextGenerator(cfg, httpClient, logger),
			Credentials: cfg.TextCredentials,
			Usage:       usage,
			Timeout:     cfg.RequestTimeout(),
			Logger:      logger,
		}),
		Images: service.NewImageService(service.ImageServiceConfig{
			Images: llm.NewImageClient(llm.ImageConfig{
				APIKey:     cfg.OpenAIAPIKey,
				URL:        cfg.OpenAIImagesAPIURL,
				Model:      cfg.ImageModel,
				HTTPClient: httpClient,
				Logger:     logger,
			}),
			Credentials: cfg.ImageCredentials,
			Store:       store,
			Usage:       usage,
			Timeout:     cfg.RequestTimeout(),
			Logger:      logger,
		}),
		Usage:        usage,
		TextLimiter:  middleware.NewTextRateLimiter(app.redis, cfg.RateLimitTextPerHour, logger),
		ImageLimiter: middleware.NewImageRateLimiter(app.redis, cfg.RateLimitImagePerHour, logger),
		Logger:       logger,
	}

	return app, nil
}

func newTextGenerator(cfg *config.Config, httpClient *http.Client, logger *zap.Logger) llm.TextGenerator {
	if cfg.TextProvider == config.ProviderGemini {
		return llm.NewGeminiClient(llm.GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
			Logger: logger,
		})
	}
	return llm.NewOpenAIClient(llm.OpenAIConfig{
		APIKey:     cfg.OpenAIAPIKey,
		URL:        cfg.OpenAIAPIURL,
		Model:      cfg.TextModel,
		HTTPClient: httpClient,
		Logger:     logger,
	})
}

// openLedger connects and migrates the usage database. A disabled ledger returns nil.
func openLedger(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := database.Open(cfg, logger)
	if errors.Is(err, database.ErrDisabled) {
		logger.Info("Usage ledger disabled")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.RunMigrations(db); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

func (a *application) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		closeDB(a.db)
	}
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
