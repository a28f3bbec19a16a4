// Package auth mints and verifies the signed session tokens carried in
// the session cookie. Tokens are HS256 JWTs holding the username and
// role; handlers still reload the user row per request, so a revoked
// account stops working as soon as its row is gone.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSession is returned for malformed, mis-signed or expired
// session tokens.
var ErrInvalidSession = errors.New("invalid or expired session")

type SessionClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// NewToken signs a session token for the user.
func NewToken(secret []byte, username, role string, ttl time.Duration) (string, error) {
	claims := &SessionClaims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken verifies a session token and returns its claims.
func ParseToken(secret []byte, raw string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, ErrInvalidSession
	}
	return claims, nil
}
