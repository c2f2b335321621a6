package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrEmptyResponse means the provider answered without usable content
	ErrEmptyResponse = errors.New("empty response from provider")
	// ErrRateLimited means the provider throttled the call
	ErrRateLimited = errors.New("rate limited by provider")
	// ErrContentPolicy means the provider refused the prompt or its output
	ErrContentPolicy = errors.New("rejected by content policy")
)

const contentPolicyCode = "content_policy_violation"

// APIError is a non-2xx answer from a provider
type APIError struct {
	Provider   string
	StatusCode int
	Code       string
	Type       string
	Message    string
	Body       string

	kind error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Body
	}
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s API request failed: %s", e.Provider, msg)
	}
	return fmt.Sprintf("%s API request failed with status %d: %s", e.Provider, e.StatusCode, msg)
}

// Unwrap exposes the sentinel the error was classified as, if any
func (e *APIError) Unwrap() error {
	return e.kind
}

// Detail is the most useful text to show a caller
func (e *APIError) Detail() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Body != "" {
		return e.Body
	}
	return e.Error()
}

// errorEnvelope is the OpenAI error body. code is a string or null.
type errorEnvelope struct {
	Error struct {
		Message string          `json:"message"`
		Type    string          `json:"type"`
		Code    json.RawMessage `json:"code"`
	} `json:"error"`
}

// newAPIError builds an APIError from an HTTP status and body and classifies it
func newAPIError(provider string, status int, body []byte) *APIError {
	apiErr := &APIError{
		Provider:   provider,
		StatusCode: status,
		Body:       strings.TrimSpace(string(body)),
	}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		apiErr.Message = env.Error.Message
		apiErr.Type = env.Error.Type
		var code string
		if json.Unmarshal(env.Error.Code, &code) == nil {
			apiErr.Code = code
		}
	}

	switch {
	case status == http.StatusTooManyRequests:
		apiErr.kind = ErrRateLimited
	case apiErr.Code == contentPolicyCode || apiErr.Type == contentPolicyCode:
		apiErr.kind = ErrContentPolicy
	}
	return apiErr
}
