package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tasknest/tasknest/core"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 30 * 24 * time.Hour

// GenerateToken issues a signed HS256 token for the user.
func GenerateToken(secret []byte, userID core.ID, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", ErrSecretRequired
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": uint64(userID),
		"exp":     now.Add(ttl).Unix(),
		"iat":     now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken validates a token and returns the user ID it carries.
// Only HS256 is accepted; a token signed with any other method is rejected
// before the signature is checked.
func ParseToken(secret []byte, tokenString string) (core.ID, error) {
	if len(secret) == 0 {
		return 0, ErrSecretRequired
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}

	// MapClaims decodes numbers as float64
	uid, ok := claims["user_id"].(float64)
	if !ok || uid <= 0 {
		return 0, ErrInvalidToken
	}
	return core.ID(uid), nil
}
