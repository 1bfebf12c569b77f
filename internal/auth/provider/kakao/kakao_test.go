package kakao

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth/provider"
)

func testProvider(tokenURL, userInfoURL string) *Provider {
	return &Provider{
		oauthConfig: &oauth2.Config{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			Endpoint: oauth2.Endpoint{
				AuthURL:   "https://kauth.kakao.com/oauth/authorize",
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		userInfoURL: userInfoURL,
		httpClient:  http.DefaultClient,
	}
}

func TestExchangeConsumedCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant","error_description":"authorization code not found"}`))
	}))
	defer srv.Close()

	p := testProvider(srv.URL, "")

	_, err := p.Exchange(context.Background(), "already-used", "https://example.com/auth/callback/kakao")
	require.Error(t, err)

	var fe *auth.FlowError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, auth.CodeTokenExchange, fe.Code)
	assert.Equal(t, "kakao", fe.Provider)
	assert.Contains(t, fe.Reason, "invalid_grant")
}

func TestExchangeUnparseableFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	p := testProvider(srv.URL, "")

	_, err := p.Exchange(context.Background(), "abc123", "https://example.com/auth/callback/kakao")
	require.Error(t, err)
	assert.Equal(t, auth.CodeTokenExchange, auth.CodeOf(err))
}

func TestExchangeReturnsAccessTokenOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.Form.Get("grant_type"))
		assert.Equal(t, "abc123", r.Form.Get("code"))
		assert.Equal(t, "https://example.com/auth/callback/kakao", r.Form.Get("redirect_uri"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at-1","token_type":"bearer"}`))
	}))
	defer srv.Close()

	p := testProvider(srv.URL, "")

	tokens, err := p.Exchange(context.Background(), "abc123", "https://example.com/auth/callback/kakao")
	require.NoError(t, err)
	assert.Equal(t, "at-1", tokens.AccessToken)
	assert.False(t, tokens.HasIDToken())
}

func TestFetchIdentityNormalizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": 4242,
			"kakao_account": {
				"email": "user@example.com",
				"is_email_verified": true,
				"profile": {"nickname": "user", "profile_image_url": "https://img.example.com/u.png"}
			}
		}`))
	}))
	defer srv.Close()

	p := testProvider("", srv.URL)

	identity, err := p.FetchIdentity(context.Background(), &provider.Tokens{AccessToken: "at-1"})
	require.NoError(t, err)
	assert.Equal(t, "kakao", identity.Provider)
	assert.Equal(t, "4242", identity.ProviderUserID)
	assert.Equal(t, "user@example.com", identity.Email)
	assert.True(t, identity.EmailVerified)
	assert.Equal(t, "user", identity.Name)
}

func TestFetchIdentityRejectedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"msg":"this access token does not exist","code":-401}`))
	}))
	defer srv.Close()

	p := testProvider("", srv.URL)

	_, err := p.FetchIdentity(context.Background(), &provider.Tokens{AccessToken: "revoked"})
	require.Error(t, err)
	assert.Equal(t, auth.CodeIdentityFetch, auth.CodeOf(err))
	assert.True(t, strings.Contains(err.Error(), "401"))
}

func TestFetchIdentityMissingEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 4242, "kakao_account": {}}`))
	}))
	defer srv.Close()

	p := testProvider("", srv.URL)

	_, err := p.FetchIdentity(context.Background(), &provider.Tokens{AccessToken: "at-1"})
	assert.Error(t, err)
}
