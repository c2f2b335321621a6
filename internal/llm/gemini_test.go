package llm

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestClassifyGeminiError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		status   int
	}{
		{
			name:     "grpc resource exhausted",
			err:      status.Error(codes.ResourceExhausted, "quota exceeded"),
			sentinel: ErrRateLimited,
			status:   http.StatusTooManyRequests,
		},
		{
			name:     "http 429",
			err:      &googleapi.Error{Code: http.StatusTooManyRequests, Message: "quota exceeded"},
			sentinel: ErrRateLimited,
			status:   http.StatusTooManyRequests,
		},
		{
			name:     "blocked prompt",
			err:      &genai.BlockedError{PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety}},
			sentinel: ErrContentPolicy,
			status:   http.StatusBadRequest,
		},
		{
			name:   "permission denied",
			err:    status.Error(codes.PermissionDenied, "API key not valid"),
			status: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyGeminiError(tt.err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, ProviderGemini, apiErr.Provider)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			} else {
				assert.Nil(t, apiErr.Unwrap())
			}
		})
	}
}

func TestClassifyGeminiErrorPassthrough(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := classifyGeminiError(cause)

	assert.ErrorIs(t, err, cause)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(`[{"meal":`), genai.Text(`"Stew"}]`)}},
		}},
	}
	assert.Equal(t, `[{"meal":"Stew"}]`, responseText(resp))
	assert.Equal(t, "", responseText(&genai.GenerateContentResponse{}))
	assert.Equal(t, "", responseText(nil))
}

func TestGeminiConfigure(t *testing.T) {
	t.Run("copies request settings", func(t *testing.T) {
		client := NewGeminiClient(GeminiConfig{Model: "gemini-1.5-flash"})
		model := &genai.GenerativeModel{}
		client.configure(model, Request{System: "be brief", MaxTokens: 300, Temperature: 0.7, JSON: true})

		require.NotNil(t, model.SystemInstruction)
		assert.Equal(t, []genai.Part{genai.Text("be brief")}, model.SystemInstruction.Parts)
		require.NotNil(t, model.Temperature)
		assert.InDelta(t, 0.7, *model.Temperature, 1e-6)
		require.NotNil(t, model.MaxOutputTokens)
		assert.Equal(t, int32(300), *model.MaxOutputTokens)
		assert.Equal(t, "application/json", model.ResponseMIMEType)
	})

	t.Run("penalties are reported", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		client := NewGeminiClient(GeminiConfig{Model: "gemini-1.5-flash", Logger: zap.New(core)})
		client.configure(&genai.GenerativeModel{}, Request{Temperature: 1, PresencePenalty: 0.6, FrequencyPenalty: 0.3})

		entries := logs.All()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, 0.6, fields["presence_penalty"])
		assert.Equal(t, 0.3, fields["frequency_penalty"])
	})

	t.Run("zero penalties are quiet", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		client := NewGeminiClient(GeminiConfig{Logger: zap.New(core)})
		client.configure(&genai.GenerativeModel{}, Request{Temperature: 1})
		assert.Zero(t, logs.Len())
	})
}
