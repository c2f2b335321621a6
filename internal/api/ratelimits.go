package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/feastcraft/backend/internal/middleware"
	"github.com/pageza/feastcraft/backend/internal/types"
)

// RateLimitHandler reports the caller's remaining quota
type RateLimitHandler struct {
	text   *middleware.RateLimiter
	image  *middleware.RateLimiter
	logger *zap.Logger
}

// NewRateLimitHandler creates a new rate limit status handler
func NewRateLimitHandler(text, image *middleware.RateLimiter, logger *zap.Logger) *RateLimitHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimitHandler{text: text, image: image, logger: logger.Named("api")}
}

// QuotaStatus is the remaining quota of one limiter
type QuotaStatus struct {
	Enabled   bool  `json:"enabled"`
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetAt   int64 `json:"reset_at,omitempty"`
}

// Status handles GET /api/rate-limits
func (h *RateLimitHandler) Status(c *gin.Context) {
	text, err := h.quota(c, h.text)
	if err != nil {
		h.logger.Warn("rate limit status failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "failed to check rate limit"})
		return
	}
	image, err := h.quota(c, h.image)
	if err != nil {
		h.logger.Warn("rate limit status failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "failed to check rate limit"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text, "image": image})
}

func (h *RateLimitHandler) quota(c *gin.Context, rl *middleware.RateLimiter) (QuotaStatus, error) {
	if !rl.Enabled() {
		return QuotaStatus{}, nil
	}
	remaining, reset, err := rl.GetRemainingRequests(c.Request.Context(), c.ClientIP())
	if err != nil {
		return QuotaStatus{}, err
	}
	return QuotaStatus{
		Enabled:   true,
		Limit:     rl.Limit(),
		Remaining: remaining,
		ResetAt:   reset.Unix(),
	}, nil
}
