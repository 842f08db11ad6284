package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sarafernandess/ifocus-app/internal/common"
)

// Claims is the subset of the identity provider's token the engine consumes:
// a verified user id and an optional admin capability. The engine never
// issues end-user credentials itself; SignToken exists for the dev/admin CLI
// and for tests.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func SignToken(userID, role, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken verifies sig and expiry and returns (userID, role).
func ParseToken(tokenStr, secret string) (string, string, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.Unauthorized("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", "", common.Unauthorized("invalid token")
	}
	return claims.Subject, claims.Role, nil
}
