package kakao

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

const providerName = "kakao"

const (
	authURL     = "https://kauth.kakao.com/oauth/authorize"
	tokenURL    = "https://kauth.kakao.com/oauth/token"
	userInfoURL = "https://kapi.kakao.com/v2/user/me"
)

// Provider implements OAuth against Kakao. Kakao's exchange yields an
// access token only; identity comes from the user-info endpoint and
// logins through it take the magic-link path.
type Provider struct {
	oauthConfig *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

func New(clientID, clientSecret string) (*Provider, error) {
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("kakao oauth config missing required fields")
	}

	oauthCfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL,
			TokenURL: tokenURL,
		},
		Scopes: []string{"account_email", "profile_nickname", "profile_image"},
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

// Exchange trades the authorization code for an access token. Kakao
// does not return a usable id_token in this integration; the access
// token is the sole verifiable artifact.
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
		logger.Error("kakao token exchange failed", map[string]any{
			"error": err.Error(),
		})
		return nil, provider.NormalizeExchangeError(providerName, err)
	}

	return &provider.Tokens{
		AccessToken: token.AccessToken,
	}, nil
}

// kakao user-info response shape
type userInfo struct {
	ID      int64 `json:"id"`
	Account struct {
		Email           string `json:"email"`
		IsEmailVerified bool   `json:"is_email_verified"`
		Profile         struct {
			Nickname        string `json:"nickname"`
			ProfileImageURL string `json:"profile_image_url"`
		} `json:"profile"`
	} `json:"kakao_account"`
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

	if info.ID == 0 || info.Account.Email == "" {
		return nil, auth.IdentityFetchError(
			providerName,
			errors.New("user info missing required fields"),
		)
	}

	return &auth.Identity{
		Provider:       providerName,
		ProviderUserID: fmt.Sprintf("%d", info.ID),
		Email:          info.Account.Email,
		EmailVerified:  info.Account.IsEmailVerified,
		Name:           info.Account.Profile.Nickname,
		Picture:        info.Account.Profile.ProfileImageURL,
	}, nil
}
