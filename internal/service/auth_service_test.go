package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, secret string, claims AccessClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateTokenAcceptsValidToken(t *testing.T) {
	svc := NewAuthService(AuthConfig{Enabled: true, JWTSecret: "secret"}, nil)

	signed := signTestToken(t, "secret", AccessClaims{
		UserID: "user-1",
		Email:  "coordinator@via-alta.edu",
		Role:   "coordinator",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := svc.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "coordinator", claims.Role)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc := NewAuthService(AuthConfig{Enabled: true, JWTSecret: "secret"}, nil)

	signed := signTestToken(t, "other-secret", AccessClaims{UserID: "user-1"})
	_, err := svc.ValidateToken(signed)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpiredToken(t *testing.T) {
	svc := NewAuthService(AuthConfig{Enabled: true, JWTSecret: "secret"}, nil)

	signed := signTestToken(t, "secret", AccessClaims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	_, err := svc.ValidateToken(signed)
	assert.Error(t, err)
}

func TestAuthServiceDisabled(t *testing.T) {
	svc := NewAuthService(AuthConfig{Enabled: false}, nil)
	assert.False(t, svc.Enabled())
}
