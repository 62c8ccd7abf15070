package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"
)

func TestVerify_Bcrypt(t *testing.T) {
	hashed, err := HashPassword("s3cret")
	require.NoError(t, err)

	v := PasswordVerifier{}
	assert.True(t, v.Verify("s3cret", hashed))
	assert.False(t, v.Verify("wrong", hashed))
}

func TestVerify_PBKDF2(t *testing.T) {
	key := pbkdf2.Key([]byte("s3cret"), []byte("salt"), 1000, sha256.Size, sha256.New)
	stored := "pbkdf2_sha256$1000$salt$" + base64.StdEncoding.EncodeToString(key)

	v := PasswordVerifier{}
	assert.True(t, v.Verify("s3cret", stored))
	assert.False(t, v.Verify("wrong", stored))
}

func TestVerify_RejectsMalformedAndPlaintext(t *testing.T) {
	v := PasswordVerifier{}
	assert.False(t, v.Verify("", ""))
	assert.False(t, v.Verify("s3cret", "s3cret"))
	assert.False(t, v.Verify("s3cret", "pbkdf2_sha256$abc$salt$hash"))
	assert.False(t, v.Verify("s3cret", "pbkdf2_sha256$1000$salt"))
}
