package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRateLimitMiddleware_NilClientPassesThrough(t *testing.T) {
	router := setupTestRouter()
	router.Use(RateLimitMiddleware(nil, 1, time.Minute))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimitMiddleware_RedisDownFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	router := setupTestRouter()
	router.Use(RateLimitMiddleware(client, 1, time.Minute))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitKey(t *testing.T) {
	router := setupTestRouter()
	var keys []string
	router.GET("/items/:id", func(c *gin.Context) {
		keys = append(keys, rateLimitKey(c))
		c.Set(ContextUserID, "u1")
		keys = append(keys, rateLimitKey(c))
	})

	req := httptest.NewRequest("GET", "/items/42", nil)
	req.RemoteAddr = "10.0.0.7:1234"
	router.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, []string{
		"rate_limit:/items/:id:10.0.0.7",
		"rate_limit:/items/:id:user:u1",
	}, keys)
}
