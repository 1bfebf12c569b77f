package provider

import (
	"context"

	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth"
)

// Tokens is the result of an authorization-code exchange. RawIDToken
// is empty for providers that do not issue one; callers must treat
// the access token as the sole verifiable artifact in that case.
type Tokens struct {
	AccessToken string
	RawIDToken  string
}

// HasIDToken reports whether the provider returned a verifiable
// identity token. This selects the session establishment path.
func (t *Tokens) HasIDToken() bool {
	return t != nil && t.RawIDToken != ""
}

// OAuthProvider is the contract every external provider implements.
// Implementations return identity facts only and must not perform
// account creation, linking, or session management.
//
// redirectURI is supplied per call: it is derived from the inbound
// request's Host and X-Forwarded-Proto headers, and must match the
// URI registered with the provider exactly or the exchange fails.
type OAuthProvider interface {
	// Name returns the provider identifier (e.g. "google", "kakao").
	Name() string

	// AuthCodeURL builds the outbound authorization URL.
	AuthCodeURL(state, redirectURI string) string

	// Exchange trades the authorization code for provider tokens.
	// Codes are single-use; a consumed or expired code yields a
	// token_exchange_failed FlowError, never a stale success.
	Exchange(ctx context.Context, code, redirectURI string) (*Tokens, error)

	// FetchIdentity normalizes the provider's identity response.
	// Providers with an identity token read verified claims from it;
	// the rest call their user-info endpoint with the access token.
	FetchIdentity(ctx context.Context, tokens *Tokens) (*auth.Identity, error)
}
