package naver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth/provider"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/logger"
)

const providerName = "naver"

const (
	authURL     = "https://nid.naver.com/oauth2.0/authorize"
	tokenURL    = "https://nid.naver.com/oauth2.0/token"
	userInfoURL = "https://openapi.naver.com/v1/nid/me"
)

// Provider implements OAuth against Naver. Same access-token-only
// shape as Kakao: identity comes from the user-info endpoint and
// logins through it take the magic-link path.
type Provider struct {
	oauthConfig *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

func New(clientID, clientSecret string) (*Provider, error) {
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("naver oauth config missing required fields")
	}

	oauthCfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL,
			TokenURL: tokenURL,
		},
	}

	return &Provider{
		oauthConfig: oauthCfg,
		userInfoURL: userInfoURL,
		httpClient:  http.DefaultClient,
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
		logger.Error("naver token exchange failed", map[string]any{
			"error": err.Error(),
		})
		return nil, provider.NormalizeExchangeError(providerName, err)
	}

	return &provider.Tokens{
		AccessToken: token.AccessToken,
	}, nil
}

// naver wraps the profile in a response envelope
type userInfo struct {
	ResultCode string `json:"resultcode"`
	Message    string `json:"message"`
	Response   struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		Name         string `json:"name"`
		ProfileImage string `json:"profile_image"`
	} `json:"response"`
}

// FetchIdentity reads the user-info endpoint with the access token
// and normalizes the response.
func (p *Provider) FetchIdentity(
	ctx context.Context,
	tokens *provider.Tokens,
) (*auth.Identity, error) {

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, auth.IdentityFetchError(providerName, err)
	}
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, auth.IdentityFetchError(providerName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, auth.IdentityFetchError(
			providerName,
			fmt.Errorf("user info request failed: %s: %s", resp.Status, body),
		)
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, auth.IdentityFetchError(
			providerName,
			fmt.Errorf("user info decode failed: %w", err),
		)
	}

	if info.ResultCode != "00" || info.Response.ID == "" || info.Response.Email == "" {
		return nil, auth.IdentityFetchError(
			providerName,
			fmt.Errorf("user info rejected: %s %s", info.ResultCode, info.Message),
		)
	}

	// Naver asserts email ownership for accounts it returns.
	return &auth.Identity{
		Provider:       providerName,
		ProviderUserID: info.Response.ID,
		Email:          info.Response.Email,
		EmailVerified:  true,
		Name:           info.Response.Name,
		Picture:        info.Response.ProfileImage,
	}, nil
}
