package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
)

// JWTConfig defines JWT configuration settings
type JWTConfig struct {
	SecretKey      string
	AccessTokenExp time.Duration
	TokenIssuer    string
}

// JWTService verifies the bearer tokens issued by the identity provider and
// can mint tokens for local use
type JWTService struct {
	config JWTConfig
	now    func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{
		config: config,
		now:    time.Now,
	}
}

// Claims defines JWT token content
type Claims struct {
	Role          string `json:"role"`
	StudentNumber string `json:"studentNumber,omitempty"`
	jwt.RegisteredClaims
}

// Session converts verified claims to a request session
func (c *Claims) Session() models.Session {
	return models.Session{
		Subject:       c.Subject,
		Role:          models.RoleType(c.Role),
		StudentNumber: c.StudentNumber,
	}
}

// GenerateToken creates a signed access token for a session
func (s *JWTService) GenerateToken(session models.Session) (string, time.Time, error) {
	if !session.Role.Valid() {
		return "", time.Time{}, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidationFailed, session.Role)
	}
	if session.Role == models.RoleStudent && session.StudentNumber == "" {
		return "", time.Time{}, fmt.Errorf("%w: student session needs a student number", apperrors.ErrValidationFailed)
	}

	now := s.now()
	expiresAt := now.Add(s.config.AccessTokenExp)
	claims := &Claims{
		Role:          string(session.Role),
		StudentNumber: session.StudentNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.TokenIssuer,
			Subject:   session.Subject,
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to create access token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken checks the signature, issuer and lifetime of an HS256 token
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return []byte(s.config.SecretKey), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.config.TokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, apperrors.ErrTokenExpired
	case err != nil:
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}
	return claims, nil
}

// ExtractBearerToken returns the token of an Authorization header. The
// "Bearer" scheme is matched case-insensitively and a bare token is accepted
// as is; any other scheme is rejected.
func ExtractBearerToken(authHeader string) (string, error) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", apperrors.ErrInvalidFormat
	}

	scheme, token, hasScheme := strings.Cut(authHeader, " ")
	if !hasScheme {
		return authHeader, nil
	}
	token = strings.TrimSpace(token)
	if !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", apperrors.ErrInvalidFormat
	}
	return token, nil
}

// ValidateAndExtractClaims validates a token string and checks the claims
// describe a usable session
func (s *JWTService) ValidateAndExtractClaims(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	role := models.RoleType(claims.Role)
	if !role.Valid() || claims.Subject == "" {
		return nil, apperrors.ErrTokenInvalid
	}
	if role == models.RoleStudent && claims.StudentNumber == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	return claims, nil
}
