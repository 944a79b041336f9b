// Package jwtutil issues and verifies the signed session tokens used by the
// HTTP layer. Access and refresh tokens share one claim shape and are told
// apart by the token_type claim.
package jwtutil

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	Access  string
	Refresh string
}

func GenerateToken(secret string, tokenType string, ttl time.Duration, userID uint, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}
	return signed, nil
}

// GeneratePair mints an access+refresh token pair for one principal.
func GeneratePair(secret string, accessTTL, refreshTTL time.Duration, userID uint, email string) (*TokenPair, error) {
	access, err := GenerateToken(secret, TokenTypeAccess, accessTTL, userID, email)
	if err != nil {
		return nil, err
	}
	refresh, err := GenerateToken(secret, TokenTypeRefresh, refreshTTL, userID, email)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func parseToken(secret, tokenString, wantType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.TokenType != wantType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseAccessToken verifies an access token and returns its claims.
func ParseAccessToken(secret, tokenString string) (*Claims, error) {
	return parseToken(secret, tokenString, TokenTypeAccess)
}

// ParseRefreshToken verifies a refresh token and returns its claims.
func ParseRefreshToken(secret, tokenString string) (*Claims, error) {
	return parseToken(secret, tokenString, TokenTypeRefresh)
}
