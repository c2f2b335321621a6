// Package llm talks to the hosted text and image generation APIs.
package llm

import "context"

// Provider names reported in usage records
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Request is a single-turn completion: a system instruction and one user prompt
type Request struct {
	System           string
	Prompt           string
	MaxTokens        int
	Temperature      float64
	PresencePenalty  float64
	FrequencyPenalty float64
	// JSON asks the provider for a JSON-only reply where it supports that
	JSON bool
}

// Usage is the token accounting returned by the provider
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Response is the text of the first choice
type Response struct {
	Text  string
	Model string
	Usage Usage
}

// TextGenerator produces text completions
type TextGenerator interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	Provider() string
	Model() string
}

// ImageGenerator produces an image and returns its URL
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
	Model() string
}
