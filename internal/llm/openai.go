package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// OpenAIConfig configures the chat-completions client
type OpenAIConfig struct {
	APIKey     string
	URL        string
	Model      string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// OpenAIClient calls the OpenAI chat-completions endpoint
type OpenAIClient struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
	logger *zap.Logger
}

// NewOpenAIClient creates a chat-completions client
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAIClient{
		apiKey: cfg.APIKey,
		apiURL: cfg.URL,
		model:  cfg.Model,
		client: client,
		logger: logger.Named("openai"),
	}
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model            string            `json:"model"`
	Messages         []Message         `json:"messages"`
	MaxTokens        int               `json:"max_tokens,omitempty"`
	Temperature      float64           `json:"temperature"`
	PresencePenalty  float64           `json:"presence_penalty,omitempty"`
	FrequencyPenalty float64           `json:"frequency_penalty,omitempty"`
	ResponseFormat   map[string]string `json:"response_format,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Provider implements TextGenerator
func (c *OpenAIClient) Provider() string { return ProviderOpenAI }

// Model implements TextGenerator
func (c *OpenAIClient) Model() string { return c.model }

// Generate sends one chat completion and returns the first choice
func (c *OpenAIClient) Generate(ctx context.Context, req Request) (*Response, error) {
	messages := make([]Message, 0, 2)
	if req.System != "" {
		messages = append(messages, Message{Role: "system", Content: req.System})
	}
	messages = append(messages, Message{Role: "user", Content: req.Prompt})

	reqBody := chatRequest{
		Model:            c.model,
		Messages:         messages,
		MaxTokens:        req.MaxTokens,
		Temperature:      req.Temperature,
		PresencePenalty:  req.PresencePenalty,
		FrequencyPenalty: req.FrequencyPenalty,
	}
	if req.JSON {
		reqBody.ResponseFormat = map[string]string{"type": "json_object"}
	}

	body, err := c.post(ctx, reqBody)
	if err != nil {
		return nil, err
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return nil, ErrEmptyResponse
	}

	model := result.Model
	if model == "" {
		model = c.model
	}
	return &Response{
		Text:  result.Choices[0].Message.Content,
		Model: model,
		Usage: Usage{
			PromptTokens:     result.Usage.PromptTokens,
			CompletionTokens: result.Usage.CompletionTokens,
		},
	}, nil
}

// post sends a JSON body with bearer auth and returns the body of a 2xx answer
func (c *OpenAIClient) post(ctx context.Context, payload interface{}) ([]byte, error) {
	return postJSON(ctx, c.client, c.apiURL, c.apiKey, payload, c.logger)
}

func postJSON(ctx context.Context, client *http.Client, url, apiKey string, payload interface{}, logger *zap.Logger) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn("API request failed", zap.Int("status", resp.StatusCode), zap.ByteString("body", body))
		return nil, newAPIError(ProviderOpenAI, resp.StatusCode, body)
	}

	logger.Debug("raw response", zap.ByteString("body", body))
	return body, nil
}
