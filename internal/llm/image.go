package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// ImageConfig configures the image generation client
type ImageConfig struct {
	APIKey     string
	URL        string
	Model      string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// ImageClient calls the OpenAI images endpoint
type ImageClient struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
	logger *zap.Logger
}

// NewImageClient creates an image generation client
func NewImageClient(cfg ImageConfig) *ImageClient {
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageClient{
		apiKey: cfg.APIKey,
		apiURL: cfg.URL,
		model:  cfg.Model,
		client: client,
		logger: logger.Named("images"),
	}
}

// imageGenerationRequest represents a request to the DALL-E API
type imageGenerationRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	Quality        string `json:"quality"`
	Style          string `json:"style"`
	ResponseFormat string `json:"response_format"`
}

// imageGenerationResponse represents the response from DALL-E API
type imageGenerationResponse struct {
	Created int64 `json:"created"`
	Data    []struct {
		URL           string `json:"url,omitempty"`
		RevisedPrompt string `json:"revised_prompt,omitempty"`
	} `json:"data"`
}

// Model implements ImageGenerator
func (c *ImageClient) Model() string { return c.model }

// GenerateImage makes a single generation attempt and returns the provider's image URL
func (c *ImageClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	reqBody := imageGenerationRequest{
		Model:          c.model,
		Prompt:         prompt,
		N:              1,
		Size:           "1024x1024",
		Quality:        "standard",
		Style:          "vivid",
		ResponseFormat: "url",
	}

	body, err := postJSON(ctx, c.client, c.apiURL, c.apiKey, reqBody, c.logger)
	if err != nil {
		return "", err
	}

	var result imageGenerationResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Data) == 0 || result.Data[0].URL == "" {
		return "", ErrEmptyResponse
	}

	return result.Data[0].URL, nil
}
