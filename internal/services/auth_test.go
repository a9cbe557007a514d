package services

import (
	"testing"
	"time"

	"locket-backend/internal/apperr"
	"locket-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *models.User {
	return &models.User{
		ID:       "user-1",
		Username: "alice",
		Email:    "alice@x.com",
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewAuthService(nil, "test-secret")

	token, err := svc.GenerateToken(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	auth, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", auth.ID)
	assert.Equal(t, "alice@x.com", auth.Email)
	assert.Equal(t, "alice", auth.Username)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := NewAuthService(nil, "secret-a").GenerateToken(testUser())
	require.NoError(t, err)

	_, err = NewAuthService(nil, "secret-b").ValidateToken(token)
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := NewAuthService(nil, "test-secret")

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
}

func TestValidateTokenExpired(t *testing.T) {
	svc := NewAuthService(nil, "test-secret")

	claims := Claims{
		ID:       "user-1",
		Email:    "alice@x.com",
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(expired)
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
}

func TestTokenLifetimeIsSevenDays(t *testing.T) {
	assert.Equal(t, 7*24*time.Hour, tokenLifetime)
}
