package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/feastcraft/backend/internal/types"
)

// AllowMethods rejects any other method with 405 and an Allow header
func AllowMethods(methods ...string) gin.HandlerFunc {
	allow := strings.Join(methods, ", ")
	return func(c *gin.Context) {
		for _, m := range methods {
			if c.Request.Method == m {
				c.Next()
				return
			}
		}
		c.Header("Allow", allow)
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, types.ErrorResponse{
			Error: fmt.Sprintf("Method %s Not Allowed", c.Request.Method),
		})
	}
}
