package ghost

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// adminToken builds a short-lived Admin API JWT from a `<id>:<secret>` key.
// The secret half is hex-encoded; the token is HS256-signed with the decoded
// bytes, carries the key id in the kid header and is scoped to /admin/.
func adminToken(adminAPIKey string, now time.Time) (string, error) {
	parts := strings.SplitN(adminAPIKey, ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("admin api key must be of form id:secret")
	}
	secret, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("decode admin api secret: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(5 * time.Minute).Unix(),
		"aud": "/admin/",
	})
	token.Header["kid"] = parts[0]

	return token.SignedString(secret)
}
