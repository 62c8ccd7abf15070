package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const pbkdf2Prefix = "pbkdf2_sha256$"

// CredentialVerifier checks a plain password against a stored hash.
type CredentialVerifier interface {
	Verify(plain, stored string) bool
}

// PasswordVerifier understands bcrypt hashes and the legacy
// pbkdf2_sha256$<iterations>$<salt>$<base64 key> format. Anything else is
// rejected.
type PasswordVerifier struct{}

func (PasswordVerifier) Verify(plain, stored string) bool {
	switch {
	case stored == "":
		return false
	case strings.HasPrefix(stored, pbkdf2Prefix):
		return verifyPBKDF2(plain, stored)
	case strings.HasPrefix(stored, "$2"):
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
	default:
		return false
	}
}

func verifyPBKDF2(plain, stored string) bool {
	parts := strings.SplitN(stored, "$", 4)
	if len(parts) != 4 {
		return false
	}

	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return false
	}

	key := pbkdf2.Key([]byte(plain), []byte(parts[2]), iterations, sha256.Size, sha256.New)
	calculated := base64.StdEncoding.EncodeToString(key)

	return subtle.ConstantTimeCompare([]byte(calculated), []byte(parts[3])) == 1
}

func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
