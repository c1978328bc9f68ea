package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const workspaceTokenIssuer = "socrates-echo"

// ErrInvalidToken is returned for malformed, expired or foreign tokens.
var ErrInvalidToken = errors.New("invalid workspace token")

// WorkspaceClaims bind a bearer token to a workspace.
type WorkspaceClaims struct {
	ClientKey string `json:"ck"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies workspace tokens with HMAC.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer constructs an issuer. A non-positive ttl defaults to 24h.
func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token secret must be provided")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for workspace.
func (t *TokenIssuer) Issue(workspace *Workspace) (string, error) {
	now := t.now()
	claims := WorkspaceClaims{
		ClientKey: workspace.ClientKey,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    workspaceTokenIssuer,
			Subject:   workspace.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign workspace token: %w", err)
	}
	return signed, nil
}

// Parse verifies tokenString and returns its claims.
func (t *TokenIssuer) Parse(tokenString string) (WorkspaceClaims, error) {
	var claims WorkspaceClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return t.secret, nil
	}, jwt.WithIssuer(workspaceTokenIssuer), jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid || claims.Subject == "" {
		return WorkspaceClaims{}, ErrInvalidToken
	}
	return claims, nil
}
