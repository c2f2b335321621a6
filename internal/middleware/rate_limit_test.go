package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/feastcraft/backend/internal/testhelpers"
	"github.com/pageza/feastcraft/backend/internal/types"
)

func limitedRouter(rl *RateLimiter) *gin.Engine {
	router := gin.New()
	router.POST("/api/generate", rl.RateLimitMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func post(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/generate", nil)
	req.RemoteAddr = ip + ":4242"
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiterDisabled(t *testing.T) {
	for name, rl := range map[string]*RateLimiter{
		"no redis":   NewTextRateLimiter(nil, 5, nil),
		"zero limit": NewTextRateLimiter(nil, 0, nil),
	} {
		t.Run(name, func(t *testing.T) {
			assert.False(t, rl.Enabled())
			router := limitedRouter(rl)
			for i := 0; i < 10; i++ {
				assert.Equal(t, http.StatusOK, post(router, "10.0.0.1").Code)
			}
		})
	}
}

func TestRateLimiterWithRedis(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	client := testhelpers.StartRedis(t)

	rl := NewRateLimiter(client, RateLimitConfig{Window: time.Hour, Limit: 2, KeyPrefix: "test:text"}, nil)
	fixed := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)
	rl.now = func() time.Time { return fixed }
	router := limitedRouter(rl)

	first := post(router, "10.0.0.1")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, post(router, "10.0.0.1").Code)

	blocked := post(router, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "0", blocked.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "1800", blocked.Header().Get("Retry-After"))

	var body types.ErrorResponse
	require.NoError(t, json.Unmarshal(blocked.Body.Bytes(), &body))
	assert.Equal(t, "Rate limit exceeded. Please try again later.", body.Error)

	assert.Equal(t, http.StatusOK, post(router, "10.0.0.2").Code, "clients are counted separately")

	remaining, reset, err := rl.GetRemainingRequests(context.Background(), "10.0.0.2")
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)
	assert.Equal(t, fixed.Truncate(time.Hour).Add(time.Hour), reset)

	remaining, _, err = rl.GetRemainingRequests(context.Background(), "10.0.0.3")
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)
}
