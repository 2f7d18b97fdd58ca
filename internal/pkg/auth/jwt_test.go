package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
)

func newTestService() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "unirecords.test",
	})
}

func TestGenerateAndValidate_StudentSession(t *testing.T) {
	svc := newTestService()
	session := models.Session{Subject: "jane", Role: models.RoleStudent, StudentNumber: "STU001"}

	token, expiresAt, err := svc.GenerateToken(session)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.ValidateAndExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, session, claims.Session())
	assert.NotEmpty(t, claims.ID)
}

func TestGenerateToken_RejectsIncompleteSessions(t *testing.T) {
	svc := newTestService()

	_, _, err := svc.GenerateToken(models.Session{Subject: "x", Role: "DEAN"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, _, err = svc.GenerateToken(models.Session{Subject: "x", Role: models.RoleStudent})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newTestService()
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := svc.GenerateToken(models.AdminSession())
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateAndExtractClaims(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestValidateToken_WrongSecretOrIssuer(t *testing.T) {
	token, _, err := newTestService().GenerateToken(models.AdminSession())
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "unirecords.test"})
	_, err = other.ValidateAndExtractClaims(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	otherIssuer := NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "elsewhere"})
	_, err = otherIssuer.ValidateAndExtractClaims(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestValidateAndExtractClaims_StudentWithoutNumber(t *testing.T) {
	claims := &Claims{
		Role: string(models.RoleStudent),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ghost",
			Issuer:    "unirecords.test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = newTestService().ValidateAndExtractClaims(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	token, err = ExtractBearerToken("abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	token, err = ExtractBearerToken("bearer  abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	for _, header := range []string{"", "Basic dXNlcjpwdw==", "Bearer "} {
		_, err = ExtractBearerToken(header)
		assert.ErrorIs(t, err, apperrors.ErrInvalidFormat, header)
	}
}
