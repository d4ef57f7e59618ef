package identity

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleOAuth handles the authorization-code exchange for federated Google
// sign-in. The browser runs the consent flow and posts the resulting code to
// the API, which trades it for an ID token here.
type GoogleOAuth struct {
	cfg *oauth2.Config
}

// NewGoogleOAuth creates the exchanger from client credentials.
func NewGoogleOAuth(clientID, clientSecret, redirectURL string) *GoogleOAuth {
	return &GoogleOAuth{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthURL returns the consent-screen URL for the given anti-forgery state.
func (g *GoogleOAuth) AuthURL(state string) string {
	return g.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// RedirectURL exposes the configured redirect for the federated sign-in call.
func (g *GoogleOAuth) RedirectURL() string {
	return g.cfg.RedirectURL
}

// Exchange trades an authorization code for the Google ID token. A missing
// or denied code means the user abandoned the popup.
func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (string, error) {
	if strings.TrimSpace(code) == "" || code == "access_denied" {
		return "", ErrOAuthCancelled
	}
	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: code exchange: %v", ErrAuthFailed, err)
	}
	idToken, ok := tok.Extra("id_token").(string)
	if !ok || idToken == "" {
		return "", fmt.Errorf("%w: token response missing id_token", ErrAuthFailed)
	}
	return idToken, nil
}
