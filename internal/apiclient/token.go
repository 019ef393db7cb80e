// File: internal/apiclient/token.go
package apiclient

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is what the backend token reveals about its holder. Tokens are
// decoded locally without signature verification; the backend remains the
// authority and rejects forged tokens on use.
type Identity struct {
	UserID string
	Email  string
}

// DecodeIdentity extracts the user identity from a JWT payload. The userId
// claim may be a string or a number. Returns an error for anything that is
// not a decodable JWT; callers treat that as "no identity", not a failure.
func DecodeIdentity(token string) (Identity, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Identity{}, fmt.Errorf("failed to decode token: %w", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, fmt.Errorf("unexpected token claims type")
	}

	var id Identity
	switch v := claims["userId"].(type) {
	case string:
		id.UserID = v
	case float64:
		id.UserID = strconv.FormatInt(int64(v), 10)
	}
	if id.UserID == "" {
		if sub, _ := claims["sub"].(string); sub != "" {
			id.UserID = sub
		}
	}
	if email, _ := claims["email"].(string); email != "" {
		id.Email = email
	}

	if id.UserID == "" {
		return Identity{}, fmt.Errorf("token carries no user id claim")
	}
	return id, nil
}
