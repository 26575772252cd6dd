package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	preflight := func(cfg Config, origin string) *httptest.ResponseRecorder {
		r := gin.New()
		r.Use(corsMiddleware(cfg))
		r.GET("/api/v1/salaries", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodOptions, "/api/v1/salaries", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("configured origin", func(t *testing.T) {
		w := preflight(Config{CORSOrigins: []string{"https://admin.school.test"}}, "https://admin.school.test")

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://admin.school.test", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		w := preflight(Config{CORSOrigins: []string{"https://admin.school.test"}}, "https://evil.test")

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("development allows any origin", func(t *testing.T) {
		w := preflight(Config{Env: "development"}, "http://localhost:5173")

		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	})
}
