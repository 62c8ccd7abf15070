package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/smart-spa/internal/session"
)

const TokenTTL = 24 * time.Hour

// IssueToken signs an HS256 token carrying the user id and role.
func IssueToken(secret string, userID uint, role session.Role, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
