// Package token signs and verifies the stateless session token. It is a pure
// cryptographic codec: the store stays authoritative for the user's current
// role, the token only proves identity until it expires.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/maycoffee/maycoffee-api/internal/domain"
)

// Distinguished failure kinds so callers can show different messages for an
// expired session vs a tampered/garbage token.
var (
	ErrExpired = errors.New("token expired")
	ErrInvalid = errors.New("token invalid")
)

type Claims struct {
	Subject domain.UserId
	Role    domain.Role
}

type Codec struct {
	secretKey string
	ttl       time.Duration
}

func New(secretKey string, ttl time.Duration) *Codec {
	return &Codec{secretKey, ttl}
}

func (c *Codec) Sign(userId domain.UserId, role domain.Role) (string, error) {
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(userId, 10),
		"role": string(role),
		"exp":  time.Now().Add(c.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(c.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (c *Codec) Verify(tokenStr string) (Claims, error) {
	t, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(c.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrInvalid
	}
	if !t.Valid {
		return Claims{}, ErrInvalid
	}

	mapClaims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalid
	}
	sub, ok := mapClaims["sub"].(string)
	if !ok {
		return Claims{}, ErrInvalid
	}
	uid, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return Claims{}, ErrInvalid
	}
	role, ok := mapClaims["role"].(string)
	if !ok {
		return Claims{}, ErrInvalid
	}

	return Claims{Subject: uid, Role: domain.Role(role)}, nil
}
