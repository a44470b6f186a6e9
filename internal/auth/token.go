package auth

import (
	"time"

	"github.com/fivetwenty-io/powerbi/internal/constants"
)

// TokenKind selects which token of a bundle to inspect.
type TokenKind int

const (
	// TokenAccess is the bearer token sent with API calls.
	TokenAccess TokenKind = iota
	// TokenRefresh is the long lived token used to obtain new access tokens.
	TokenRefresh
)

// String returns the credential file field name of the token.
func (k TokenKind) String() string {
	if k == TokenRefresh {
		return "refresh_token"
	}

	return "access_token"
}

// TokenBundle is the set of tokens held for the signed in user. Expiry times
// are absolute.
type TokenBundle struct {
	AccessToken      string
	RefreshToken     string
	IDToken          string
	TokenType        string
	Scope            string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// SecondsRemaining returns how long the token stays usable, keeping a
// TokenExpirationBuffer safety margin. It is 0 when the token is absent or
// now+buffer has reached the expiry.
func (b *TokenBundle) SecondsRemaining(kind TokenKind, now time.Time) int {
	if b == nil {
		return 0
	}

	token, expiresAt := b.AccessToken, b.AccessExpiresAt
	if kind == TokenRefresh {
		token, expiresAt = b.RefreshToken, b.RefreshExpiresAt
	}

	if token == "" {
		return 0
	}

	usableUntil := expiresAt.Add(-constants.TokenExpirationBuffer)
	if !now.Before(usableUntil) {
		return 0
	}

	return int(usableUntil.Sub(now) / time.Second)
}

// Grant is a token response from the identity provider. Lifetimes are
// relative to the moment the response was received.
type Grant struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
	TokenType    string
	Scope        string
	ExpiresIn    int64
	ExtExpiresIn int64
}

// bundleAt converts relative lifetimes to absolute expiry times.
func (g *Grant) bundleAt(now time.Time) *TokenBundle {
	refreshLifetime := time.Duration(g.ExtExpiresIn) * time.Second
	if g.ExtExpiresIn <= 0 {
		refreshLifetime = constants.DefaultRefreshTokenLifetime
	}

	return &TokenBundle{
		AccessToken:      g.AccessToken,
		RefreshToken:     g.RefreshToken,
		IDToken:          g.IDToken,
		TokenType:        g.TokenType,
		Scope:            g.Scope,
		AccessExpiresAt:  now.Add(time.Duration(g.ExpiresIn) * time.Second),
		RefreshExpiresAt: now.Add(refreshLifetime),
	}
}
