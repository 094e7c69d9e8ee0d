package utils

import (
	"context"
	"strings"
	"testing"

	"github.com/SscSPs/blog_backend/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost, 2)
	ctx := context.Background()

	passwords := []string{"Secur3!@#", "correct horse battery staple", "ü-unicode-Ω", "a"}
	for _, p := range passwords {
		digest, err := h.Hash(ctx, p)
		require.NoError(t, err)
		assert.NotEqual(t, p, digest, "digest must not equal plaintext")
		assert.True(t, h.Verify(ctx, p, digest), "verify(p, hash(p)) must hold for %q", p)
		assert.False(t, h.Verify(ctx, p+"x", digest), "verify must fail for a different password")
	}
}

func TestPasswordHasher_SaltedDigests(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost, 1)
	ctx := context.Background()

	d1, err := h.Hash(ctx, "Secur3!@#")
	require.NoError(t, err)
	d2, err := h.Hash(ctx, "Secur3!@#")
	require.NoError(t, err)

	assert.NotEqual(t, d1, d2, "same password must produce different digests")
}

func TestPasswordHasher_VerifyMalformedDigest(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost, 1)
	ctx := context.Background()

	assert.False(t, h.Verify(ctx, "Secur3!@#", ""))
	assert.False(t, h.Verify(ctx, "Secur3!@#", "not-a-bcrypt-hash"))
	assert.False(t, h.Verify(ctx, "Secur3!@#", "$2a$12$short"))
}

func TestPasswordHasher_CancelledContext(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost, 1)
	digest, err := h.Hash(context.Background(), "Secur3!@#")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Hold the only slot so Acquire has to observe the cancelled context.
	require.NoError(t, h.sem.Acquire(context.Background(), 1))
	defer h.sem.Release(1)

	_, err = h.Hash(ctx, "Secur3!@#")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, h.Verify(ctx, "Secur3!@#", digest))
}

func TestNewPasswordHasher_Defaults(t *testing.T) {
	h := NewPasswordHasher(0, 0)
	assert.Equal(t, DefaultBcryptCost, h.cost)

	h = NewPasswordHasher(bcrypt.MaxCost+1, 4)
	assert.Equal(t, DefaultBcryptCost, h.cost)
}

func TestPasswordHasher_UsesConfiguredCost(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost+1, 1)
	digest, err := h.Hash(context.Background(), "Secur3!@#")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost+1, cost)
}

func TestPasswordHasher_TooLongIsValidationError(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost, 1)
	ctx := context.Background()

	// 44 runes, 84 bytes.
	long := "Aa1!" + strings.Repeat("é", 40)
	_, err := h.Hash(ctx, long)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	exact := "Aa1!" + strings.Repeat("é", 34)
	require.Len(t, exact, MaxPasswordBytes)
	digest, err := h.Hash(ctx, exact)
	require.NoError(t, err)
	assert.True(t, h.Verify(ctx, exact, digest))
}
