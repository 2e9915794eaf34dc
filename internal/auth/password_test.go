package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testParams = Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func newTestHasher(t *testing.T) *PasswordHasher {
	t.Helper()
	h, err := NewPasswordHasher(testParams)
	require.NoError(t, err)
	return h
}

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := newTestHasher(t)

	encoded, err := h.Hash("secret123")
	require.NoError(t, err)
	assert.Contains(t, encoded, "$argon2id$v=19$m=1024,t=1,p=1$")
	assert.NotContains(t, encoded, "secret123")

	match, rehash, err := h.Verify("secret123", encoded)
	require.NoError(t, err)
	assert.True(t, match)
	assert.False(t, rehash)

	match, _, err = h.Verify("wrong", encoded)
	require.NoError(t, err)
	assert.False(t, match)
}

func TestPasswordHasher_SaltedHashesDiffer(t *testing.T) {
	h := newTestHasher(t)

	a, err := h.Hash("secret123")
	require.NoError(t, err)
	b, err := h.Hash("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestPasswordHasher_OutdatedParamsNeedRehash(t *testing.T) {
	old, err := NewPasswordHasher(Argon2Params{Memory: 512, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	require.NoError(t, err)
	encoded, err := old.Hash("secret123")
	require.NoError(t, err)

	match, rehash, err := newTestHasher(t).Verify("secret123", encoded)
	require.NoError(t, err)
	assert.True(t, match)
	assert.True(t, rehash)
}

func TestPasswordHasher_LegacyBcrypt(t *testing.T) {
	h := newTestHasher(t)

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	// Hashes written by PHP's password_hash use the $2y$ prefix.
	legacy := "$2y$" + string(hashed[4:])

	for _, encoded := range []string{string(hashed), legacy} {
		match, rehash, err := h.Verify("secret123", encoded)
		require.NoError(t, err)
		assert.True(t, match)
		assert.True(t, rehash)

		match, _, err = h.Verify("wrong", encoded)
		require.NoError(t, err)
		assert.False(t, match)
	}
}

func TestPasswordHasher_Malformed(t *testing.T) {
	h := newTestHasher(t)

	for _, encoded := range []string{"", "plaintext", "$argon2id$v=19$bogus", "$argon2id$v=18$m=1,t=1,p=1$AAAA$AAAA"} {
		match, _, err := h.Verify("secret123", encoded)
		assert.ErrorIs(t, err, ErrMalformedHash, encoded)
		assert.False(t, match)
	}
}

func TestPasswordHasher_VerifyDummy(t *testing.T) {
	h := newTestHasher(t)
	assert.NotPanics(t, func() { h.VerifyDummy("anything") })
}
