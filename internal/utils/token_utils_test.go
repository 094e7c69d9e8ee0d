package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-long-enough"

func TestGenerateAndParseJWT(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tok, err := GenerateJWT("user-1", testSecret, time.Hour, "blog-backend", now)
	require.NoError(t, err)

	claims, err := ParseAndValidateJWT(tok, testSecret, "blog-backend", func() time.Time { return now.Add(30 * time.Minute) })
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, now.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestParseJWT_Expired(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tok, err := GenerateJWT("user-1", testSecret, time.Hour, "", now)
	require.NoError(t, err)

	_, err = ParseAndValidateJWT(tok, testSecret, "", func() time.Time { return now.Add(2 * time.Hour) })
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseJWT_WrongSecret(t *testing.T) {
	now := time.Now()
	tok, err := GenerateJWT("user-1", testSecret, time.Hour, "", now)
	require.NoError(t, err)

	_, err = ParseAndValidateJWT(tok, "another-secret", "", time.Now)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestParseJWT_WrongIssuer(t *testing.T) {
	now := time.Now()
	tok, err := GenerateJWT("user-1", testSecret, time.Hour, "someone-else", now)
	require.NoError(t, err)

	_, err = ParseAndValidateJWT(tok, testSecret, "blog-backend", time.Now)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
}

func TestParseJWT_RejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseAndValidateJWT(tok, testSecret, "", time.Now)
	assert.Error(t, err)
}

func TestParseJWT_Garbage(t *testing.T) {
	_, err := ParseAndValidateJWT("not.a.jwt", testSecret, "", time.Now)
	assert.ErrorIs(t, err, jwt.ErrTokenMalformed)
}
