// Package token issues and verifies the stateless bearer credentials that
// bind a user id and username to a request. Tokens are signed HS256 JWTs;
// there is no server-side session state.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "conduit-api"

// ErrInvalidToken is returned for any verification failure. It carries no
// detail on purpose: callers must not be able to tell a bad signature from
// a malformed token.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the verified subject of a token.
type Identity struct {
	ID       uint
	Username string
}

// Issue creates a signed token for the given user. TTL must be positive;
// expiry is always finite.
func Issue(userID uint, username, secret string, ttl time.Duration) (string, error) {
	return IssueAt(userID, username, secret, time.Now(), ttl)
}

// IssueAt creates a signed token whose lifetime starts at the given instant.
// It exists so expiry behavior can be exercised deterministically.
func IssueAt(userID uint, username, secret string, now time.Time, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("signing secret not configured")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive, got %s", ttl)
	}

	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"iss":      issuer,
		"exp":      now.Add(ttl).Unix(),
		"iat":      now.Unix(),
		"jti":      fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8]),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(secret))
}

// Verify checks the token signature and shape against the secret. Any
// failure (malformed header, wrong signature, unsupported algorithm,
// expired) collapses into ErrInvalidToken.
func Verify(tokenString, secret string) (Identity, error) {
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	id, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || id == 0 {
		return Identity{}, ErrInvalidToken
	}

	username, ok := claims["username"].(string)
	if !ok || username == "" {
		return Identity{}, ErrInvalidToken
	}

	return Identity{ID: uint(id), Username: username}, nil
}
