package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/feastcraft/backend/internal/middleware"
	"github.com/pageza/feastcraft/backend/internal/service"
	"github.com/pageza/feastcraft/backend/internal/types"
)

// Dependencies are the services behind the routes. Usage and the limiters may be nil.
type Dependencies struct {
	Meals        service.IMealService
	Images       service.IImageService
	Usage        service.IUsageService
	TextLimiter  *middleware.RateLimiter
	ImageLimiter *middleware.RateLimiter
	Logger       *zap.Logger
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	meals := NewMealHandler(deps.Meals, deps.Images, deps.Logger)
	usage := NewUsageHandler(deps.Usage, deps.Logger)
	limits := NewRateLimitHandler(deps.TextLimiter, deps.ImageLimiter, deps.Logger)

	router.GET("/health", HealthCheck)

	api := router.Group("/api")
	api.GET("/health", HealthCheck)
	api.GET("/usage", usage.Daily)
	api.GET("/rate-limits", limits.Status)

	// Method checks run before the limiters so rejected methods are not counted
	postOnly := middleware.AllowMethods(http.MethodPost)

	text := api.Group("", postOnly, deps.TextLimiter.RateLimitMiddleware())
	text.Any("/generate", meals.GenerateMealPlan)
	text.Any("/replace-meal", meals.ReplaceMeal)
	text.Any("/grocery-list", meals.GroceryList)

	images := api.Group("", postOnly, deps.ImageLimiter.RateLimitMiddleware())
	images.Any("/generate-image", meals.GenerateImage)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Not Found"})
	})
}
