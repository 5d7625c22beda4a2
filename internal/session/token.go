package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "inkwell"

// Sign wraps a session ID in an HMAC-signed token for the browser
// cookie. The token carries no authority by itself: the middleware still
// resolves the session ID against the server-side store.
func Sign(sessionID, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("session secret not configured")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:       sessionID,
		Issuer:   tokenIssuer,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if ttl != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Verify checks the token signature and returns the embedded session ID.
// Any tampered, malformed, or expired token is rejected.
func Verify(tokenString, secret string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid session token: %w", err)
	}
	if !token.Valid {
		return "", errors.New("invalid session token")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.ID == "" {
		return "", errors.New("invalid session token: missing session ID")
	}
	return claims.ID, nil
}
