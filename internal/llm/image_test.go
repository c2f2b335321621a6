package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateImage(t *testing.T) {
	var captured imageGenerationRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+testKey, r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"created":1700000000,"data":[{"url":"https://images.example/stew.png"}]}`))
	}))
	defer server.Close()

	client := NewImageClient(ImageConfig{APIKey: testKey, URL: server.URL, Model: "dall-e-3"})

	url, err := client.GenerateImage(context.Background(), "a stew card")
	require.NoError(t, err)
	assert.Equal(t, "https://images.example/stew.png", url)

	assert.Equal(t, imageGenerationRequest{
		Model:          "dall-e-3",
		Prompt:         "a stew card",
		N:              1,
		Size:           "1024x1024",
		Quality:        "standard",
		Style:          "vivid",
		ResponseFormat: "url",
	}, captured)
}

func TestGenerateImageEmpty(t *testing.T) {
	for _, body := range []string{`{"data":[]}`, `{"data":[{"url":""}]}`} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))

		client := NewImageClient(ImageConfig{APIKey: testKey, URL: server.URL, Model: "dall-e-3"})
		_, err := client.GenerateImage(context.Background(), "a stew card")
		assert.ErrorIs(t, err, ErrEmptyResponse, body)
		server.Close()
	}
}

func TestGenerateImageRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer server.Close()

	client := NewImageClient(ImageConfig{APIKey: testKey, URL: server.URL, Model: "dall-e-3"})
	_, err := client.GenerateImage(context.Background(), "a stew card")
	assert.ErrorIs(t, err, ErrRateLimited)
}
