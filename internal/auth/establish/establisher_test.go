package establish

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/account"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth/magiclink"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth/provider"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/session"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/terms"
)

func newTestEstablisher(t *testing.T) (*Establisher, *account.MemoryStore, *session.MemoryStore, *terms.Service) {
	t.Helper()

	accounts := account.NewMemoryStore()
	sessions := session.NewMemoryStore()
	termsService := terms.NewService(terms.NewMemoryStore(), "v2")
	magic := magiclink.NewService(magiclink.NewMemoryStore())

	e := New(account.NewResolver(accounts), accounts, sessions, magic, termsService)
	return e, accounts, sessions, termsService
}

func googleIdentity() *auth.Identity {
	return &auth.Identity{
		Provider:       "google",
		ProviderUserID: "g-1",
		Email:          "user@example.com",
		EmailVerified:  true,
		Name:           "tester",
	}
}

func kakaoIdentity() *auth.Identity {
	return &auth.Identity{
		Provider:       "kakao",
		ProviderUserID: "k-1",
		Email:          "user@example.com",
		EmailVerified:  true,
	}
}

func TestEstablishIDTokenPathMintsSession(t *testing.T) {
	e, _, sessions, _ := newTestEstablisher(t)
	ctx := context.Background()

	res, err := e.Establish(ctx, googleIdentity(), &provider.Tokens{
		AccessToken: "at",
		RawIDToken:  "id-token",
	})
	require.NoError(t, err)
	require.NotNil(t, res.Session)
	assert.Empty(t, res.MagicToken)

	stored, err := sessions.Get(ctx, res.Session.SessionID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, res.Session.AccountID, stored.AccountID)
	assert.False(t, stored.Claims.TermsAgreed, "fresh account has no acceptance yet")
}

func TestEstablishMagicLinkPathIssuesToken(t *testing.T) {
	e, _, _, _ := newTestEstablisher(t)
	ctx := context.Background()

	res, err := e.Establish(ctx, kakaoIdentity(), &provider.Tokens{AccessToken: "at"})
	require.NoError(t, err)
	assert.Nil(t, res.Session, "no session before the token is consumed")
	require.NotEmpty(t, res.MagicToken)

	sess, err := e.ConsumeMagicLink(ctx, res.MagicToken)
	require.NoError(t, err)
	require.NotNil(t, sess)

	// One-time token: second presentation fails.
	_, err = e.ConsumeMagicLink(ctx, res.MagicToken)
	assert.ErrorIs(t, err, magiclink.ErrInvalidToken)
}

func TestBothPathsConvergeOnSameSessionShape(t *testing.T) {
	e, _, _, _ := newTestEstablisher(t)
	ctx := context.Background()

	direct, err := e.Establish(ctx, googleIdentity(), &provider.Tokens{AccessToken: "at", RawIDToken: "id"})
	require.NoError(t, err)

	res, err := e.Establish(ctx, kakaoIdentity(), &provider.Tokens{AccessToken: "at"})
	require.NoError(t, err)
	viaMagic, err := e.ConsumeMagicLink(ctx, res.MagicToken)
	require.NoError(t, err)

	// Same email resolves to the same account either way.
	assert.Equal(t, direct.Session.AccountID, viaMagic.AccountID)
	assert.Equal(t, direct.Session.Claims, viaMagic.Claims)
}

func TestSessionClaimsCarryTermsStanding(t *testing.T) {
	e, accounts, _, termsService := newTestEstablisher(t)
	ctx := context.Background()

	acct, err := accounts.Create(ctx, googleIdentity())
	require.NoError(t, err)
	require.NoError(t, termsService.Accept(ctx, acct.ID, "127.0.0.1", "test-agent"))

	sess, err := e.CreateSession(ctx, acct)
	require.NoError(t, err)
	assert.True(t, sess.Claims.TermsAgreed)
	assert.True(t, sess.Claims.PrivacyAgreed)
	assert.Equal(t, "v2", sess.Claims.TermsAgreedVersion)
}

func TestEstablishProfileWriteFailureIsNonFatal(t *testing.T) {
	accounts := account.NewMemoryStore()
	sessions := session.NewMemoryStore()
	termsService := terms.NewService(terms.NewMemoryStore(), "v2")
	magic := magiclink.NewService(magiclink.NewMemoryStore())

	e := New(account.NewResolver(accounts), failingEnrichStore{accounts}, sessions, magic, termsService)

	res, err := e.Establish(context.Background(), googleIdentity(), &provider.Tokens{
		AccessToken: "at",
		RawIDToken:  "id-token",
	})
	require.NoError(t, err, "metadata write failure must not fail the login")
	require.NotNil(t, res.Session)
}

// failingEnrichStore breaks only the profile metadata write.
type failingEnrichStore struct {
	account.Store
}

func (f failingEnrichStore) EnrichProfile(context.Context, string, *auth.Identity) error {
	return assert.AnError
}
