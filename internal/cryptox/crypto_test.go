package cryptox

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword([]byte("s3cret-pass"))
	require.NoError(t, err)

	assert.NotContains(t, hash, "s3cret-pass")
	assert.True(t, strings.HasPrefix(hash, "$2a$10$"), "unexpected hash prefix: %s", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, PasswordCost, cost)

	assert.True(t, CheckPassword(hash, []byte("s3cret-pass")))
	assert.False(t, CheckPassword(hash, []byte("wrong")))
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword([]byte("same"))
	require.NoError(t, err)
	b, err := HashPassword([]byte("same"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "two hashes of the same password must differ")
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword([]byte(strings.Repeat("x", 73)))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestHashPassword_HasherError(t *testing.T) {
	orig := hashFunc
	t.Cleanup(func() { hashFunc = orig })
	hashFunc = func([]byte, int) ([]byte, error) { return nil, errors.New("boom") }

	_, err := HashPassword([]byte("x"))
	assert.EqualError(t, err, "boom")
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	assert.False(t, CheckPassword("not-a-hash", []byte("x")))
	assert.False(t, CheckPassword("", []byte("")))
}
