package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GeminiConfig configures the Gemini text client
type GeminiConfig struct {
	APIKey string
	Model  string
	Logger *zap.Logger
	// Options are appended after the API key, tests use them to point at a fake endpoint
	Options []option.ClientOption
}

// GeminiClient generates text with the Google Gemini API
type GeminiClient struct {
	apiKey string
	model  string
	opts   []option.ClientOption
	logger *zap.Logger
}

// NewGeminiClient creates a new Gemini API client
func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiClient{
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		opts:   cfg.Options,
		logger: logger.Named("gemini"),
	}
}

// Provider implements TextGenerator
func (c *GeminiClient) Provider() string { return ProviderGemini }

// Model implements TextGenerator
func (c *GeminiClient) Model() string { return c.model }

// Generate sends the prompt to the Gemini model. A client is opened per call and
// closed before returning.
func (c *GeminiClient) Generate(ctx context.Context, req Request) (*Response, error) {
	opts := append([]option.ClientOption{option.WithAPIKey(c.apiKey)}, c.opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer func() { _ = client.Close() }()

	model := client.GenerativeModel(c.model)
	c.configure(model, req)

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return nil, classifyGeminiError(err)
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyResponse
	}
	c.logger.Debug("raw response", zap.String("text", text))

	out := &Response{Text: text, Model: c.model}
	if resp.UsageMetadata != nil {
		out.Usage = Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	return out, nil
}

// configure copies the request settings onto the model. The SDK's GenerationConfig
// has no penalty fields, so penalties are reported instead of sent.
func (c *GeminiClient) configure(model *genai.GenerativeModel, req Request) {
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}
	model.SetTemperature(float32(req.Temperature))
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if req.JSON {
		model.ResponseMIMEType = "application/json"
	}
	if req.PresencePenalty != 0 || req.FrequencyPenalty != 0 {
		c.logger.Warn("Gemini does not accept penalties, sending without them",
			zap.String("model", c.model),
			zap.Float64("presence_penalty", req.PresencePenalty),
			zap.Float64("frequency_penalty", req.FrequencyPenalty),
		)
	}
}

// responseText joins the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}

// classifyGeminiError maps SDK errors onto APIError so callers see one error shape
func classifyGeminiError(err error) error {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return &APIError{
			Provider:   ProviderGemini,
			StatusCode: http.StatusBadRequest,
			Code:       "blocked",
			Message:    blocked.Error(),
			kind:       ErrContentPolicy,
		}
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		apiErr := &APIError{
			Provider:   ProviderGemini,
			StatusCode: gerr.Code,
			Message:    gerr.Message,
			Body:       gerr.Body,
		}
		if gerr.Code == http.StatusTooManyRequests {
			apiErr.kind = ErrRateLimited
		}
		return apiErr
	}

	if st, ok := status.FromError(err); ok && st.Code() != codes.OK && st.Code() != codes.Unknown {
		apiErr := &APIError{
			Provider: ProviderGemini,
			Code:     st.Code().String(),
			Message:  st.Message(),
		}
		if st.Code() == codes.ResourceExhausted {
			apiErr.StatusCode = http.StatusTooManyRequests
			apiErr.kind = ErrRateLimited
		}
		return apiErr
	}

	return fmt.Errorf("failed to generate content: %w", err)
}
