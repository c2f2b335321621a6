package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/feastcraft/backend/internal/service"
	"github.com/pageza/feastcraft/backend/internal/types"
)

// MealHandler serves the generation endpoints
type MealHandler struct {
	meals  service.IMealService
	images service.IImageService
	logger *zap.Logger
}

// NewMealHandler creates a new meal handler
func NewMealHandler(meals service.IMealService, images service.IImageService, logger *zap.Logger) *MealHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MealHandler{meals: meals, images: images, logger: logger.Named("api")}
}

// GenerateMealPlan handles POST /api/generate
func (h *MealHandler) GenerateMealPlan(c *gin.Context) {
	prompt, ok := bindPrompt(c)
	if !ok {
		return
	}

	meals, err := h.meals.GeneratePlan(c.Request.Context(), prompt)
	if err != nil {
		h.logger.Error("Error generating meal plan", zap.Error(err))
		respondError(c, "meal plan", err)
		return
	}

	c.JSON(http.StatusOK, meals)
}

// ReplaceMeal handles POST /api/replace-meal
func (h *MealHandler) ReplaceMeal(c *gin.Context) {
	prompt, ok := bindPrompt(c)
	if !ok {
		return
	}

	meal, err := h.meals.ReplaceMeal(c.Request.Context(), prompt)
	if err != nil {
		h.logger.Error("Error generating replacement meal", zap.Error(err))
		respondError(c, "replacement meal", err)
		return
	}

	c.JSON(http.StatusOK, meal)
}

// GroceryList handles POST /api/grocery-list
func (h *MealHandler) GroceryList(c *gin.Context) {
	prompt, ok := bindPrompt(c)
	if !ok {
		return
	}

	list, err := h.meals.GroceryList(c.Request.Context(), prompt)
	if err != nil {
		h.logger.Error("Error generating grocery list", zap.Error(err))
		respondError(c, "grocery list", err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// GenerateImage handles POST /api/generate-image
func (h *MealHandler) GenerateImage(c *gin.Context) {
	var req types.ImageRequest
	if !bindBody(c, &req) {
		return
	}
	name := strings.TrimSpace(req.MealName)
	if name == "" {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: msgMealNameNeeded})
		return
	}

	url, err := h.images.GenerateMealImage(c.Request.Context(), name)
	if err != nil {
		h.logger.Error("Error generating image", zap.String("meal", name), zap.Error(err))
		respondError(c, "image", err)
		return
	}

	c.JSON(http.StatusOK, types.ImageResponse{ImageURL: url})
}

func bindPrompt(c *gin.Context) (string, bool) {
	var req types.PromptRequest
	if !bindBody(c, &req) {
		return "", false
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: msgPromptMissing})
		return "", false
	}
	return prompt, true
}

// bindBody decodes the JSON body into dst. An empty body decodes as an empty object.
func bindBody(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: msgInvalidBody})
		return false
	}
	return true
}
