package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fivetwenty-io/powerbi/internal/constants"
)

// IDTokenClaims are the identity claims of the signed in user.
type IDTokenClaims struct {
	Name              string `json:"name,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
	ObjectID          string `json:"oid,omitempty"`
	TenantID          string `json:"tid,omitempty"`
	jwt.RegisteredClaims
}

// ParseIDToken decodes the claims of an ID token without verifying its
// signature. The token came straight from the token endpoint over TLS and is
// only used for display.
func ParseIDToken(idToken string) (*IDTokenClaims, error) {
	if idToken == "" {
		return nil, constants.ErrNoIDToken
	}

	claims := &IDTokenClaims{}

	_, _, err := jwt.NewParser().ParseUnverified(idToken, claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", constants.ErrInvalidJWTFormat, err)
	}

	return claims, nil
}

// IDTokenClaims decodes the held ID token.
func (a *Authenticator) IDTokenClaims() (*IDTokenClaims, error) {
	return ParseIDToken(a.Bundle().IDToken)
}
