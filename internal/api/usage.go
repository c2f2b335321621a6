package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/feastcraft/backend/internal/service"
	"github.com/pageza/feastcraft/backend/internal/types"
)

const defaultUsageDays = 7

// UsageHandler reports the usage ledger. A nil service answers 503.
type UsageHandler struct {
	usage  service.IUsageService
	logger *zap.Logger
}

// NewUsageHandler creates a new usage handler
func NewUsageHandler(usage service.IUsageService, logger *zap.Logger) *UsageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UsageHandler{usage: usage, logger: logger.Named("api")}
}

// Daily handles GET /api/usage?days=N
func (h *UsageHandler) Daily(c *gin.Context) {
	if h.usage == nil {
		c.JSON(http.StatusServiceUnavailable, types.ErrorResponse{Error: "Usage ledger is not configured"})
		return
	}

	days := defaultUsageDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > service.MaxUsageDays {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Error: fmt.Sprintf("days must be between 1 and %d", service.MaxUsageDays),
			})
			return
		}
		days = n
	}

	report, err := h.usage.Daily(c.Request.Context(), days)
	if err != nil {
		h.logger.Error("Error loading usage", zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to load usage", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}
