package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/app/models/dto"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
	"github.com/yigit/unirecords/internal/pkg/auth"
)

// sessionKey is the gin context key holding the caller's models.Session
const sessionKey = "session"

// AuthMiddleware turns bearer tokens into request sessions
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

func abortWith(c *gin.Context, status int, code dto.ErrorCode, message, reason string) {
	detail := dto.NewErrorDetail(code, message).WithDetails(reason)
	c.AbortWithStatusJSON(status, dto.NewFailureResponse(detail))
}

// JWTAuth requires a valid bearer token and stores the session it carries
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.Trim(c.GetHeader("Authorization"), "\"'")
		if header == "" {
			abortWith(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required", "Authorization header missing")
			return
		}

		claims, err := m.authenticate(header)
		switch {
		case err == nil:
			SetSession(c, claims.Session())
			c.Next()
		case errors.Is(err, apperrors.ErrTokenExpired):
			abortWith(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Authentication failed", "Token has expired")
		case errors.Is(err, apperrors.ErrInvalidFormat):
			abortWith(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Authentication failed", "Invalid token format")
		default:
			abortWith(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Authentication failed", "Invalid token")
		}
	}
}

func (m *AuthMiddleware) authenticate(header string) (*auth.Claims, error) {
	token, err := auth.ExtractBearerToken(header)
	if err != nil {
		return nil, err
	}
	return m.jwtService.ValidateAndExtractClaims(token)
}

// RoleRequired rejects sessions without the given role
func (m *AuthMiddleware) RoleRequired(requiredRole models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := SessionFrom(c)
		if !ok {
			abortWith(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required", "Session not found")
			return
		}
		if session.Role != requiredRole {
			abortWith(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Access denied", string(requiredRole)+" role required")
			return
		}
		c.Next()
	}
}

// SetSession stores a session on the context
func SetSession(c *gin.Context, session models.Session) {
	c.Set(sessionKey, session)
}

// SessionFrom returns the session set by JWTAuth
func SessionFrom(c *gin.Context) (models.Session, bool) {
	v, exists := c.Get(sessionKey)
	if !exists {
		return models.Session{}, false
	}
	session, ok := v.(models.Session)
	return session, ok
}
