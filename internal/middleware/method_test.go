package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAllowMethods(t *testing.T) {
	router := gin.New()
	router.Any("/api/generate", AllowMethods(http.MethodPost), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		method string
		status int
		body   string
	}{
		{method: http.MethodPost, status: http.StatusNoContent},
		{method: http.MethodGet, status: http.StatusMethodNotAllowed, body: `{"error":"Method GET Not Allowed"}`},
		{method: http.MethodPut, status: http.StatusMethodNotAllowed, body: `{"error":"Method PUT Not Allowed"}`},
		{method: http.MethodDelete, status: http.StatusMethodNotAllowed, body: `{"error":"Method DELETE Not Allowed"}`},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, "/api/generate", nil))

			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.JSONEq(t, tt.body, w.Body.String())
				assert.Equal(t, "POST", w.Header().Get("Allow"))
			}
		})
	}
}
