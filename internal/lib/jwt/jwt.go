package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// NewAdminToken issues a short-lived token for a successfully gated curation
// session. The token only asserts that the shared credential was presented;
// it carries no user identity beyond the configured admin name.
func NewAdminToken(username, secret string, ttl time.Duration) (string, error) {
	const op = "jwt.NewAdminToken"

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   username,
		"admin": true,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(ttl).Unix(),
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}
