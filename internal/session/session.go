package session

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/garage-vn/storefront/pkg/config"
)

// Session is the page-lifetime authentication state. It is resolved once at
// bootstrap and injected into every component that gates on it; changing it
// requires a reload or navigation.
type Session struct {
	Authenticated bool
	CustomerID    string
	FullName      string
	Role          string
}

// Claims is the typed token the garage server issues at login.
type Claims struct {
	CustomerID string `json:"customer_id"`
	FullName   string `json:"full_name,omitempty"`
	Role       string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Anonymous returns the unauthenticated session.
func Anonymous() Session {
	return Session{}
}

// FromToken bootstraps the session from a signed token. A missing token
// yields the anonymous session without error; a malformed or badly signed
// token yields the anonymous session and the parse error so the caller can
// log it and proceed unauthenticated.
func FromToken(token string, cfg config.SessionConfig) (Session, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return Anonymous(), nil
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(trimmed, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithIssuer(cfg.JWTIssuer))
	if err != nil || !parsed.Valid {
		if err == nil {
			err = jwt.ErrTokenUnverifiable
		}
		return Anonymous(), err
	}

	return Session{
		Authenticated: true,
		CustomerID:    claims.CustomerID,
		FullName:      claims.FullName,
		Role:          claims.Role,
	}, nil
}
