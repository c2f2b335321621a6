package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/feastcraft/backend/internal/types"
)

const (
	defaultImageAttempts = 3
	defaultStagger       = 2 * time.Second
	maxErrorBody         = 64 << 10
)

// ErrEmptyPlan is returned when the server answers with no meals
var ErrEmptyPlan = errors.New("invalid meal plan response format")

// Client calls a feastcraft server the way the browser UI does
type Client struct {
	baseURL       string
	http          *http.Client
	logger        *zap.Logger
	imageAttempts int
	stagger       time.Duration
	images        bool
	sleep         func(ctx context.Context, d time.Duration) error
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for every call
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithoutImages skips image generation in GenerateMealPlan
func WithoutImages() Option {
	return func(c *Client) { c.images = false }
}

// New creates a client for the server at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		http:          &http.Client{Timeout: 2 * time.Minute},
		logger:        zap.NewNop(),
		imageAttempts: defaultImageAttempts,
		stagger:       defaultStagger,
		images:        true,
		sleep:         sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("client")
	return c
}

// GenerateMealPlan requests a plan and then one image per meal. Image requests start
// index*2s apart and a failed image leaves that meal's ImageURL empty.
func (c *Client) GenerateMealPlan(ctx context.Context, prompt string) ([]types.Meal, error) {
	var meals []types.Meal
	if err := c.post(ctx, "/api/generate", types.PromptRequest{Prompt: prompt}, &meals, "Failed to generate meal plan."); err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, ErrEmptyPlan
	}
	if !c.images {
		return meals, nil
	}

	var wg sync.WaitGroup
	for i := range meals {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := c.sleep(ctx, time.Duration(i)*c.stagger); err != nil {
				return
			}
			meals[i].ImageURL = c.imageWithRetry(ctx, meals[i].Name)
		}(i)
	}
	wg.Wait()

	return meals, nil
}

// ReplaceMeal requests a single replacement meal
func (c *Client) ReplaceMeal(ctx context.Context, prompt string) (types.Meal, error) {
	var meal types.Meal
	err := c.post(ctx, "/api/replace-meal", types.PromptRequest{Prompt: prompt}, &meal, "Failed to replace meal.")
	return meal, err
}

// GroceryList requests a categorized grocery list
func (c *Client) GroceryList(ctx context.Context, prompt string) (types.GroceryList, error) {
	var list types.GroceryList
	err := c.post(ctx, "/api/grocery-list", types.PromptRequest{Prompt: prompt}, &list, "Failed to generate categorized grocery list.")
	return list, err
}

// GenerateImage makes a single image request
func (c *Client) GenerateImage(ctx context.Context, mealName string) (string, error) {
	var resp types.ImageResponse
	if err := c.post(ctx, "/api/generate-image", types.ImageRequest{MealName: mealName}, &resp, "Failed to generate image"); err != nil {
		return "", err
	}
	return resp.ImageURL, nil
}

// imageWithRetry retries only on 429, waiting 2^attempt seconds
func (c *Client) imageWithRetry(ctx context.Context, mealName string) string {
	for attempt := 0; attempt < c.imageAttempts; attempt++ {
		if attempt > 0 {
			wait := time.Duration(math.Pow(2, float64(attempt))) * time.Second
			if err := c.sleep(ctx, wait); err != nil {
				return ""
			}
		}

		url, err := c.GenerateImage(ctx, mealName)
		if err == nil {
			return url
		}
		if IsRateLimited(err) && attempt < c.imageAttempts-1 {
			c.logger.Info("rate limited, retrying", zap.String("meal", mealName), zap.Int("attempt", attempt+1))
			continue
		}
		c.logger.Warn("image generation failed", zap.String("meal", mealName), zap.Int("attempt", attempt+1), zap.Error(err))
		return ""
	}
	return ""
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}, fallback string) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp, fallback)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response, fallback string) error {
	apiErr := &Error{StatusCode: resp.StatusCode, Message: fallback}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body types.ErrorResponse
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.Details = body.Details
	}
	return apiErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
