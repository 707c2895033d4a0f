package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLoginRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(LoginRateLimit(3, time.Minute))
	router.POST("/login", func(c *gin.Context) {
		c.String(200, "ok")
	})

	do := func() int {
		req := httptest.NewRequest("POST", "/login", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	// 上限までは通過する
	assert.Equal(t, 200, do())
	assert.Equal(t, 200, do())
	assert.Equal(t, 200, do())

	// 上限超過で 429
	assert.Equal(t, http.StatusTooManyRequests, do())
	assert.Equal(t, http.StatusTooManyRequests, do())
}

func TestLoginRateLimitPerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(LoginRateLimit(1, time.Minute))
	router.POST("/login", func(c *gin.Context) {
		c.String(200, "ok")
	})

	do := func(addr string) int {
		req := httptest.NewRequest("POST", "/login", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	// IP ごとに独立してカウントされる
	assert.Equal(t, 200, do("10.0.0.1:1000"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1000"))
	assert.Equal(t, 200, do("10.0.0.2:1000"))
}
