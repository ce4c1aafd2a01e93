// Package identity integrates the hosted identity provider. The provider
// owns credentials and sessions on its side; this package only verifies the
// tokens it issues and runs the OAuth2 authorization-code exchange.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/projectflow/projectflow-api/internal/config"
)

var (
	ErrInvalidToken = errors.New("identity: invalid token")
	ErrNoIDToken    = errors.New("identity: token response is missing id_token")
)

// Claims are the provider-issued identity claims the application cares about.
type Claims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	jwt.RegisteredClaims
}

// Verifier validates provider-signed tokens.
type Verifier struct {
	signingKey []byte
	issuer     string
}

// NewVerifier creates a Verifier for tokens signed with the shared provider key.
func NewVerifier(cfg *config.Config) *Verifier {
	return &Verifier{
		signingKey: []byte(cfg.IdentitySigningKey),
		issuer:     cfg.IdentityIssuer,
	}
}

// VerifyToken parses and validates a raw provider token and returns its claims.
func (v *Verifier) VerifyToken(raw string) (*Claims, error) {
	claims := &Claims{}

	parserOpts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if v.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return v.signingKey, nil
	}, parserOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Provider runs the OAuth2 authorization-code flow against the hosted provider.
type Provider struct {
	oauth *oauth2.Config
}

// NewProvider builds the OAuth2 configuration from the app config.
func NewProvider(cfg *config.Config) *Provider {
	return &Provider{
		oauth: &oauth2.Config{
			ClientID:     cfg.IdentityClientID,
			ClientSecret: cfg.IdentityClientSecret,
			RedirectURL:  cfg.IdentityRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.IdentityAuthURL,
				TokenURL: cfg.IdentityTokenURL,
			},
		},
	}
}

// IsConfigured reports whether the provider credentials are present.
func (p *Provider) IsConfigured() bool {
	return p.oauth.ClientID != "" && p.oauth.ClientSecret != ""
}

// AuthCodeURL returns the provider consent URL for the given CSRF state.
func (p *Provider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// Exchange swaps an authorization code for the provider's id_token.
func (p *Provider) Exchange(ctx context.Context, code string) (string, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("identity: code exchange failed: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return "", ErrNoIDToken
	}
	return rawIDToken, nil
}
