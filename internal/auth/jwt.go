// Package auth issues and validates the bearer tokens of the admin REST API.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RoleAdmin is the only role the admin API accepts.
const RoleAdmin = "admin"

// JWTManager signs and validates HS256 admin tokens.
type JWTManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTManager creates a new JWT manager.
// secret must be at least 32 characters for HS256 security.
func NewJWTManager(secret string, issuer string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

type adminClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// Claims is what a validated token asserts.
type Claims struct {
	Subject   string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// IsAdmin reports whether the token grants admin access.
func (c Claims) IsAdmin() bool { return c.Role == RoleAdmin }

// GenerateToken creates a signed token for subject (an operator name or
// Telegram id) with the given role.
func (m *JWTManager) GenerateToken(subject, role string) (string, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", errors.New("subject is empty")
	}

	now := m.now()
	claims := adminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Role: role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ValidateToken parses and validates a token and returns its claims.
func (m *JWTManager) ValidateToken(tokenString string) (Claims, error) {
	if tokenString == "" {
		return Claims{}, fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &adminClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return Claims{}, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*adminClaims)
	if !ok || !token.Valid {
		return Claims{}, fmt.Errorf("invalid token claims")
	}

	if claims.Issuer != m.issuer {
		return Claims{}, fmt.Errorf("invalid issuer: expected %s, got %s", m.issuer, claims.Issuer)
	}
	if claims.Subject == "" {
		return Claims{}, fmt.Errorf("token has no subject")
	}

	out := Claims{Subject: claims.Subject, Role: claims.Role, TokenID: claims.ID}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
