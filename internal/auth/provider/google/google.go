package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth/provider"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/logger"
)

const providerName = "google"

// Provider implements OAuth + OIDC against Google. Its exchange
// yields both an access token and a verifiable id_token, so logins
// through it take the direct identity-token path.
type Provider struct {
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
}

func New(ctx context.Context, clientID, clientSecret string) (*Provider, error) {
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("google oauth config missing required fields")
	}

	oidcProvider, err := oidc.NewProvider(ctx, "https://accounts.google.com")
	if err != nil {
		return nil, fmt.Errorf("failed to init google oidc provider: %w", err)
	}

	verifier := oidcProvider.Verifier(&oidc.Config{
		ClientID: clientID,
	})

	oauthCfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     oidcProvider.Endpoint(),
		Scopes: []string{
			oidc.ScopeOpenID,
			"profile",
			"email",
		},
	}

	return &Provider{
		oauthConfig: oauthCfg,
		verifier:    verifier,
	}, nil
}

// Name returns the provider identifier used by the registry.
func (p *Provider) Name() string {
	return providerName
}

// AuthCodeURL builds the OAuth authorization URL. The redirect URI is
// injected per call since it is derived from the inbound request.
func (p *Provider) AuthCodeURL(state, redirectURI string) string {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("redirect_uri", redirectURI),
	)
}

func (p *Provider) Exchange(
	ctx context.Context,
	code string,
	redirectURI string,
) (*provider.Tokens, error) {

	token, err := p.oauthConfig.Exchange(
		ctx,
		code,
		oauth2.SetAuthURLParam("redirect_uri", redirectURI),
	)
	if err != nil {
		logger.Error("google token exchange failed", map[string]any{
			"error": err.Error(),
		})
		return nil, provider.NormalizeExchangeError(providerName, err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, auth.TokenExchangeError(
			providerName,
			"missing id_token",
			errors.New("google did not return id_token"),
		)
	}

	return &provider.Tokens{
		AccessToken: token.AccessToken,
		RawIDToken:  rawIDToken,
	}, nil
}

// FetchIdentity verifies the id_token and reads identity claims from
// it. Google's user-info endpoint is never consulted; the id_token is
// the verifiable artifact.
func (p *Provider) FetchIdentity(
	ctx context.Context,
	tokens *provider.Tokens,
) (*auth.Identity, error) {

	idToken, err := p.verifier.Verify(ctx, tokens.RawIDToken)
	if err != nil {
		return nil, auth.IdentityFetchError(
			providerName,
			fmt.Errorf("id_token verification failed: %w", err),
		)
	}

	var claims struct {
		Subject       string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}

	if err := idToken.Claims(&claims); err != nil {
		return nil, auth.IdentityFetchError(
			providerName,
			fmt.Errorf("id_token claims parse failed: %w", err),
		)
	}

	if claims.Subject == "" || claims.Email == "" {
		return nil, auth.IdentityFetchError(
			providerName,
			errors.New("id_token missing required claims"),
		)
	}

	logger.Info("google oidc verified", map[string]any{
		"issuer":         idToken.Issuer,
		"email_verified": claims.EmailVerified,
		"expiry_unix":    idToken.Expiry.Unix(),
	})

	return &auth.Identity{
		Provider:       providerName,
		ProviderUserID: claims.Subject,
		Email:          claims.Email,
		EmailVerified:  claims.EmailVerified,
		Name:           claims.Name,
		Picture:        claims.Picture,
	}, nil
}
