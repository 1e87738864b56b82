package session

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// idTokenVerifier is the slice of oidc.IDTokenVerifier the provider needs.
type idTokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*oidc.IDToken, error)
}

// OIDCProvider verifies SSO-issued tokens before the session is treated as
// authenticated. The ID token carried alongside the access token is checked
// against the issuer's published keys; only then does the access token reach
// the bridge.
type OIDCProvider struct {
	provider *oidc.Provider
	verifier idTokenVerifier
	bridge   *Bridge
}

// NewOIDCProvider discovers the issuer's configuration and prepares an ID
// token verifier for the given client ID.
func NewOIDCProvider(ctx context.Context, issuerURL, clientID string, bridge *Bridge) (*OIDCProvider, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, errors.Wrap(err, "[NewOIDCProvider] provider discovery")
	}
	return &OIDCProvider{
		provider: provider,
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
		bridge:   bridge,
	}, nil
}

// Claims are the identity claims extracted from a verified ID token.
type Claims struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// Authenticate verifies the id_token attached to the oauth2 token and, on
// success, propagates the access token through the bridge. Verification
// failure leaves the session unauthenticated.
func (p *OIDCProvider) Authenticate(ctx context.Context, token *oauth2.Token) (*Claims, error) {
	p.bridge.Apply(State{Status: StatusLoading})

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		p.bridge.Apply(State{Status: StatusUnauthenticated})
		return nil, errors.New("[OIDCProvider.Authenticate] no ID token in response")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		p.bridge.Apply(State{Status: StatusUnauthenticated})
		return nil, errors.Wrap(err, "[OIDCProvider.Authenticate] ID token verification failed")
	}

	var claims Claims
	if err := idToken.Claims(&claims); err != nil {
		p.bridge.Apply(State{Status: StatusUnauthenticated})
		return nil, errors.Wrap(err, "[OIDCProvider.Authenticate] extract claims")
	}

	p.bridge.Apply(State{Status: StatusAuthenticated, Token: token.AccessToken})
	return &claims, nil
}

// SignOut clears the session.
func (p *OIDCProvider) SignOut() Snapshot {
	return p.bridge.Apply(State{Status: StatusUnauthenticated})
}
