package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/app/models/dto"
	"github.com/yigit/unirecords/internal/pkg/auth"
)

func newTestJWT(exp time.Duration) *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: exp,
		TokenIssuer:    "unirecords.test",
	})
}

func newAuthRouter(jwtService *auth.JWTService) *gin.Engine {
	m := NewAuthMiddleware(jwtService)
	router := gin.New()
	group := router.Group("", m.JWTAuth())
	group.GET("/me", func(c *gin.Context) {
		session, _ := SessionFrom(c)
		c.JSON(http.StatusOK, session)
	})
	group.GET("/admin", m.RoleRequired(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func serve(router *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	jwtService := newTestJWT(time.Hour)
	router := newAuthRouter(jwtService)

	studentToken, _, err := jwtService.GenerateToken(models.Session{Subject: "u1", Role: models.RoleStudent, StudentNumber: "STU001"})
	require.NoError(t, err)

	t.Run("missing header", func(t *testing.T) {
		w := serve(router, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), string(dto.ErrorCodeUnauthorized))
	})

	t.Run("garbage token", func(t *testing.T) {
		w := serve(router, "/me", "Bearer not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), string(dto.ErrorCodeInvalidToken))
	})

	t.Run("token from another issuer key", func(t *testing.T) {
		other := auth.NewJWTService(auth.JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "unirecords.test"})
		token, _, err := other.GenerateToken(models.AdminSession())
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, serve(router, "/me", "Bearer "+token).Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token, _, err := newTestJWT(-time.Minute).GenerateToken(models.AdminSession())
		require.NoError(t, err)
		w := serve(router, "/me", "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), string(dto.ErrorCodeExpiredToken))
	})

	t.Run("valid token sets session", func(t *testing.T) {
		w := serve(router, "/me", "Bearer "+studentToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"subject":"u1","role":"STUDENT","studentNumber":"STU001"}`, w.Body.String())
	})
}

func TestRoleRequired(t *testing.T) {
	jwtService := newTestJWT(time.Hour)
	router := newAuthRouter(jwtService)

	studentToken, _, err := jwtService.GenerateToken(models.Session{Subject: "u1", Role: models.RoleStudent, StudentNumber: "STU001"})
	require.NoError(t, err)
	adminToken, _, err := jwtService.GenerateToken(models.AdminSession())
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, serve(router, "/admin", "Bearer "+studentToken).Code)
	assert.Equal(t, http.StatusNoContent, serve(router, "/admin", "Bearer "+adminToken).Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("requestID")) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}
