package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/feastcraft/backend/config"
	"github.com/pageza/feastcraft/backend/internal/llm"
	"github.com/pageza/feastcraft/backend/internal/llmresponse"
	"github.com/pageza/feastcraft/backend/internal/middleware"
	"github.com/pageza/feastcraft/backend/internal/mocks"
	"github.com/pageza/feastcraft/backend/internal/testhelpers"
	"github.com/pageza/feastcraft/backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	router *gin.Engine
	meals  *mocks.MockMealService
	images *mocks.MockImageService
	usage  *mocks.MockUsageService
}

func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()
	a := &testAPI{
		router: gin.New(),
		meals:  new(mocks.MockMealService),
		images: new(mocks.MockImageService),
		usage:  new(mocks.MockUsageService),
	}
	RegisterRoutes(a.router, Dependencies{Meals: a.meals, Images: a.images, Usage: a.usage})
	t.Cleanup(func() {
		a.meals.AssertExpectations(t)
		a.images.AssertExpectations(t)
		a.usage.AssertExpectations(t)
	})
	return a
}

func (a *testAPI) do(method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	a.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) types.ErrorResponse {
	t.Helper()
	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	a := setupTestAPI(t)

	for _, path := range []string{"/health", "/api/health"} {
		w := a.do(http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, w.Code, path)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, Version, body["version"])
	}
}

func TestGenerateMealPlan(t *testing.T) {
	a := setupTestAPI(t)
	meals := []types.Meal{
		{Name: "Dragon Stew", Ingredients: []string{"beef", "chili"}, Link: "https://www.allrecipes.com/recipe/1/stew", Description: "Smoky."},
	}
	a.meals.On("GeneratePlan", mock.Anything, "Generate 1 meal").Return(meals, nil)

	w := a.do(http.MethodPost, "/api/generate", `{"prompt":"  Generate 1 meal  "}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got []types.Meal
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, meals, got)
}

func TestPromptValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"empty body", "", msgPromptMissing},
		{"empty object", `{}`, msgPromptMissing},
		{"blank prompt", `{"prompt":"   "}`, msgPromptMissing},
		{"malformed json", `{"prompt":`, msgInvalidBody},
		{"wrong type", `{"prompt":5}`, msgInvalidBody},
	}

	for _, path := range []string{"/api/generate", "/api/replace-meal", "/api/grocery-list"} {
		for _, tt := range tests {
			t.Run(path+"/"+tt.name, func(t *testing.T) {
				a := setupTestAPI(t)
				w := a.do(http.MethodPost, path, tt.body)
				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Equal(t, tt.message, decodeError(t, w).Error)
			})
		}
	}
}

func TestMethodNotAllowed(t *testing.T) {
	a := setupTestAPI(t)

	for _, path := range []string{"/api/generate", "/api/replace-meal", "/api/grocery-list", "/api/generate-image"} {
		w := a.do(http.MethodGet, path, "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, path)
		assert.Equal(t, "Method GET Not Allowed", decodeError(t, w).Error)
		assert.Equal(t, http.MethodPost, w.Header().Get("Allow"))
	}
}

func TestNotFound(t *testing.T) {
	a := setupTestAPI(t)
	w := a.do(http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerateMealPlanErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
		details string
	}{
		{
			name:    "missing credentials",
			err:     &config.CredentialError{Provider: "OpenAI", Err: config.ErrAPIKeyMissing},
			status:  http.StatusInternalServerError,
			message: "OpenAI API key is not configured",
		},
		{
			name:    "invalid credentials",
			err:     &config.CredentialError{Provider: "OpenAI", Err: config.ErrAPIKeyInvalid},
			status:  http.StatusInternalServerError,
			message: "OpenAI API key appears to be invalid",
		},
		{
			name:    "rate limited",
			err:     fmt.Errorf("call: %w", llm.ErrRateLimited),
			status:  http.StatusTooManyRequests,
			message: msgRateLimited,
		},
		{
			name:    "content policy",
			err:     fmt.Errorf("call: %w", llm.ErrContentPolicy),
			status:  http.StatusBadRequest,
			message: msgContentPolicy,
		},
		{
			name:    "parse failure",
			err:     llmresponse.ErrParse,
			status:  http.StatusInternalServerError,
			message: "Failed to parse meal plan response: failed to parse JSON response",
		},
		{
			name:    "invalid meal",
			err:     fmt.Errorf("%w: missing link", llmresponse.ErrInvalidMeal),
			status:  http.StatusInternalServerError,
			message: "Failed to parse meal plan response: invalid meal object structure: missing link",
		},
		{
			name:    "other failure",
			err:     errors.New("connection reset"),
			status:  http.StatusInternalServerError,
			message: "Failed to generate meal plan: connection reset",
			details: "connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := setupTestAPI(t)
			a.meals.On("GeneratePlan", mock.Anything, "plan").Return(nil, tt.err)

			w := a.do(http.MethodPost, "/api/generate", `{"prompt":"plan"}`)
			assert.Equal(t, tt.status, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.message, resp.Error)
			if tt.details != "" {
				assert.Equal(t, tt.details, resp.Details)
			}
		})
	}
}

func TestProviderErrorDetails(t *testing.T) {
	a := setupTestAPI(t)
	apiErr := &llm.APIError{
		Provider:   llm.ProviderOpenAI,
		StatusCode: http.StatusBadGateway,
		Message:    "upstream unavailable",
	}
	a.meals.On("ReplaceMeal", mock.Anything, "swap").Return(types.Meal{}, apiErr)

	w := a.do(http.MethodPost, "/api/replace-meal", `{"prompt":"swap"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeError(t, w)
	assert.True(t, strings.HasPrefix(resp.Error, "Failed to generate replacement meal: "))
	assert.Equal(t, "upstream unavailable", resp.Details)
}

func TestReplaceMeal(t *testing.T) {
	a := setupTestAPI(t)
	meal := types.Meal{Name: "Elven Salad", Ingredients: []string{"greens"}, Link: "https://www.bbcgoodfood.com/recipes/salad"}
	a.meals.On("ReplaceMeal", mock.Anything, "swap").Return(meal, nil)

	w := a.do(http.MethodPost, "/api/replace-meal", `{"prompt":"swap"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got types.Meal
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, meal, got)
}

func TestGroceryListKeepsSectionOrder(t *testing.T) {
	a := setupTestAPI(t)
	list := types.GroceryList{
		{Name: "Produce", Items: []string{"onion"}},
		{Name: "Dairy", Items: []string{"milk"}},
		{Name: "Bakery", Items: []string{}},
	}
	a.meals.On("GroceryList", mock.Anything, "list").Return(list, nil)

	w := a.do(http.MethodPost, "/api/grocery-list", `{"prompt":"list"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"Produce":["onion"],"Dairy":["milk"],"Bakery":[]}`, w.Body.String())
	assert.Less(t, strings.Index(w.Body.String(), "Produce"), strings.Index(w.Body.String(), "Dairy"))
	assert.Less(t, strings.Index(w.Body.String(), "Dairy"), strings.Index(w.Body.String(), "Bakery"))
}

func TestGroceryListParseFailure(t *testing.T) {
	a := setupTestAPI(t)
	a.meals.On("GroceryList", mock.Anything, "list").Return(nil, llmresponse.ErrInvalidGroceryList)

	w := a.do(http.MethodPost, "/api/grocery-list", `{"prompt":"list"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to parse grocery list response: invalid grocery list structure", decodeError(t, w).Error)
}

func TestGenerateImage(t *testing.T) {
	a := setupTestAPI(t)
	a.images.On("GenerateMealImage", mock.Anything, "Dragon Stew").Return("https://img.example/stew.png", nil)

	w := a.do(http.MethodPost, "/api/generate-image", `{"mealName":" Dragon Stew "}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got types.ImageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "https://img.example/stew.png", got.ImageURL)
}

func TestGenerateImageValidation(t *testing.T) {
	for name, body := range map[string]string{
		"empty body": "",
		"no name":    `{}`,
		"blank name": `{"mealName":"  "}`,
	} {
		t.Run(name, func(t *testing.T) {
			a := setupTestAPI(t)
			w := a.do(http.MethodPost, "/api/generate-image", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, msgMealNameNeeded, decodeError(t, w).Error)
		})
	}
}

func TestGenerateImageErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"credentials", &config.CredentialError{Provider: "OpenAI", Err: config.ErrAPIKeyMissing}, http.StatusInternalServerError, "OpenAI API key is not configured"},
		{"rate limited", llm.ErrRateLimited, http.StatusTooManyRequests, msgRateLimited},
		{"content policy", llm.ErrContentPolicy, http.StatusBadRequest, msgContentPolicy},
		{"empty", llm.ErrEmptyResponse, http.StatusInternalServerError, "Failed to generate image: " + llm.ErrEmptyResponse.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := setupTestAPI(t)
			a.images.On("GenerateMealImage", mock.Anything, "Stew").Return("", tt.err)

			w := a.do(http.MethodPost, "/api/generate-image", `{"mealName":"Stew"}`)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, decodeError(t, w).Error)
		})
	}
}

func TestUsageDaily(t *testing.T) {
	a := setupTestAPI(t)
	report := &types.UsageReport{Days: 7, Usage: []types.DailyUsage{{Date: "2025-03-10", Calls: 3, Failures: 1}}}
	a.usage.On("Daily", mock.Anything, 7).Return(report, nil).Once()
	a.usage.On("Daily", mock.Anything, 30).Return(&types.UsageReport{Days: 30}, nil).Once()

	w := a.do(http.MethodGet, "/api/usage", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got types.UsageReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, *report, got)

	w = a.do(http.MethodGet, "/api/usage?days=30", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUsageDailyBounds(t *testing.T) {
	a := setupTestAPI(t)
	for _, q := range []string{"0", "91", "-1", "week"} {
		w := a.do(http.MethodGet, "/api/usage?days="+q, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestUsageDisabled(t *testing.T) {
	router := gin.New()
	RegisterRoutes(router, Dependencies{Meals: new(mocks.MockMealService), Images: new(mocks.MockImageService)})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/usage", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRateLimitStatusDisabled(t *testing.T) {
	router := gin.New()
	RegisterRoutes(router, Dependencies{
		Meals:       new(mocks.MockMealService),
		Images:      new(mocks.MockImageService),
		TextLimiter: middleware.NewTextRateLimiter(nil, 10, nil),
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/rate-limits", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"text":{"enabled":false,"limit":0,"remaining":0},"image":{"enabled":false,"limit":0,"remaining":0}}`, w.Body.String())
}

func TestRateLimitStatusExhausted(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	client := testhelpers.StartRedis(t)
	text := middleware.NewTextRateLimiter(client, 1, nil)

	router := gin.New()
	RegisterRoutes(router, Dependencies{
		Meals:        new(mocks.MockMealService),
		Images:       new(mocks.MockImageService),
		TextLimiter:  text,
		ImageLimiter: middleware.NewImageRateLimiter(client, 5, nil),
	})

	allowed, _, _, err := text.IsAllowed(context.Background(), "192.0.2.1")
	require.NoError(t, err)
	require.True(t, allowed)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/rate-limits", nil)
	req.RemoteAddr = "192.0.2.1:40000"
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["text"]["enabled"])
	assert.Equal(t, float64(1), body["text"]["limit"])
	require.Contains(t, body["text"], "remaining", "an exhausted quota still reports remaining")
	assert.Equal(t, float64(0), body["text"]["remaining"])
	assert.Equal(t, float64(5), body["image"]["remaining"])
}
