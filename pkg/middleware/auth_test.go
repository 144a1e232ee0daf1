package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"classifieds/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func jwtAuthenticator(service *jwt.Service) Authenticator {
	return AuthenticatorFunc(func(ctx context.Context, token string) (Principal, error) {
		claims, err := service.ValidateToken(token)
		if err != nil {
			return Principal{}, err
		}
		return Principal{UserID: claims.UserID, Role: claims.Role}, nil
	})
}

func protectedRouter(auth Authenticator, extra ...gin.HandlerFunc) *gin.Engine {
	router := setupTestRouter()
	router.Use(AuthMiddleware(auth))
	handlers := append(extra, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(ContextUserID), "role": c.GetString(ContextUserRole)})
	})
	router.GET("/test", handlers...)
	return router
}

func doGet(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	jwtService := jwt.NewService("test-secret-key")
	token, _ := jwtService.GenerateToken("user-123", "user")

	w := doGet(protectedRouter(jwtAuthenticator(jwtService)), "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"user-123"`)
	assert.Contains(t, w.Body.String(), `"role":"user"`)
}

func TestAuthMiddleware_NoHeader(t *testing.T) {
	w := doGet(protectedRouter(jwtAuthenticator(jwt.NewService("test-secret-key"))), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidFormat(t *testing.T) {
	w := doGet(protectedRouter(jwtAuthenticator(jwt.NewService("test-secret-key"))), "InvalidFormat token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	w := doGet(protectedRouter(jwtAuthenticator(jwt.NewService("test-secret-key"))), "Bearer invalid-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	jwtService := jwt.NewServiceWithTTL("test-secret-key", time.Millisecond)
	token, err := jwtService.GenerateToken("user-123", "user")
	assert.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)

	w := doGet(protectedRouter(jwtAuthenticator(jwtService)), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ResolverRejectsDeletedUser(t *testing.T) {
	auth := AuthenticatorFunc(func(ctx context.Context, token string) (Principal, error) {
		return Principal{}, errors.New("user not found")
	})
	w := doGet(protectedRouter(auth), "Bearer whatever")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoles(t *testing.T) {
	jwtService := jwt.NewService("test-secret-key")
	userToken, _ := jwtService.GenerateToken("u1", "user")
	adminToken, _ := jwtService.GenerateToken("a1", "admin")

	router := protectedRouter(jwtAuthenticator(jwtService), RequireRoles("admin"))

	assert.Equal(t, http.StatusForbidden, doGet(router, "Bearer "+userToken).Code)
	assert.Equal(t, http.StatusOK, doGet(router, "Bearer "+adminToken).Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(router, "").Code)
}

func TestBearerToken(t *testing.T) {
	token, ok := BearerToken("bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	_, ok = BearerToken("Bearer ")
	assert.False(t, ok)
	_, ok = BearerToken("abc")
	assert.False(t, ok)
}

func TestRateLimitMiddleware_NilClientPassesThroughAuthRouter(t *testing.T) {
	router := setupTestRouter()
	router.Use(RateLimitMiddleware(nil, 1, time.Minute))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, doGet(router, "").Code)
	}
}
