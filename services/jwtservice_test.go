package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsboard/model"
)

func TestCreateAccessToken(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "access-secret")

	signed, err := CreateAccessToken("uid-1", "dev@example.com", model.RoleAdmin)
	require.NoError(t, err)

	claims := &model.AccessClaims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (any, error) {
		return []byte("access-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	assert.Equal(t, "uid-1", claims.UID)
	assert.Equal(t, "dev@example.com", claims.Email)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.Equal(t, "opsboard", claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(60*time.Minute), claims.ExpiresAt.Time, time.Minute)
}

func TestCreateRefreshToken(t *testing.T) {
	t.Setenv("JWT_REFRESH_SECRET_KEY", "refresh-secret")

	signed, err := CreateRefreshToken("uid-1")
	require.NoError(t, err)

	claims := &model.RefreshClaims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (any, error) {
		return []byte("refresh-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	assert.Equal(t, "uid-1", claims.UID)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "access-secret")

	signed, err := CreateAccessToken("uid-1", "dev@example.com", model.RoleUser)
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(signed, &model.AccessClaims{}, func(*jwt.Token) (any, error) {
		return []byte("other-secret"), nil
	})
	assert.Error(t, err)
}

func TestRefreshTokenHashRoundTrip(t *testing.T) {
	hashed, err := HashRefreshToken("some.jwt.token")
	require.NoError(t, err)

	assert.True(t, CompareRefreshToken(hashed, "some.jwt.token"))
	assert.False(t, CompareRefreshToken(hashed, "other.jwt.token"))
}

func TestHashRefreshTokenLongInput(t *testing.T) {
	// Refresh tokens exceed bcrypt's 72-byte limit; the SHA-256 pre-hash
	// keeps the whole token significant.
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	tampered := append(append([]byte{}, long[:299]...), 'b')

	hashed, err := HashRefreshToken(string(long))
	require.NoError(t, err)
	assert.True(t, CompareRefreshToken(hashed, string(long)))
	assert.False(t, CompareRefreshToken(hashed, string(tampered)))
}
