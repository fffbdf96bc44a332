package authutils

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt-server/internal/models"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret string, claims models.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestNewJWTVerifierRequiresSecret(t *testing.T) {
	_, err := NewJWTVerifier("", nil)
	assert.Error(t, err)
}

func TestVerifyTokenValid(t *testing.T) {
	v, err := NewJWTVerifier(testSecret, nil)
	require.NoError(t, err)

	tokenString := signToken(t, testSecret, models.Claims{
		UserID: "user-123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := v.VerifyToken(context.Background(), tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
}

func TestVerifyTokenExpired(t *testing.T) {
	v, err := NewJWTVerifier(testSecret, nil)
	require.NoError(t, err)

	tokenString := signToken(t, testSecret, models.Claims{
		UserID: "user-123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	_, err = v.VerifyToken(context.Background(), tokenString)
	assert.ErrorIs(t, err, models.ErrTokenExpired)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	v, err := NewJWTVerifier(testSecret, nil)
	require.NoError(t, err)

	tokenString := signToken(t, "another-secret", models.Claims{
		UserID: "user-123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err = v.VerifyToken(context.Background(), tokenString)
	assert.ErrorIs(t, err, models.ErrTokenInvalid)
}

func TestVerifyTokenMalformed(t *testing.T) {
	v, err := NewJWTVerifier(testSecret, nil)
	require.NoError(t, err)

	_, err = v.VerifyToken(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, models.ErrTokenMalformed)
}

func TestVerifyTokenMissingUserID(t *testing.T) {
	v, err := NewJWTVerifier(testSecret, nil)
	require.NoError(t, err)

	tokenString := signToken(t, testSecret, models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err = v.VerifyToken(context.Background(), tokenString)
	assert.ErrorIs(t, err, models.ErrTokenInvalid)
}
