// Package establish mints local sessions for the login flow. Two
// paths exist: a direct one for providers whose exchange yielded a
// verifiable identity token, and a magic-link one for providers that
// only return an access token. Both converge on the same Session
// shape; callers cannot distinguish which path produced it.
package establish

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/account"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth/magiclink"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth/provider"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/logger"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/session"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/terms"
)

const sessionTTL = 24 * time.Hour

// Result is what the callback acts on: either a minted session (set
// the cookie now) or a magic-link token (redirect to the verify
// endpoint which consumes it).
type Result struct {
	Session    *session.Session
	MagicToken string
}

type Establisher struct {
	resolver *account.Resolver
	accounts account.Store
	sessions session.Store
	magic    *magiclink.Service
	terms    *terms.Service
}

func New(
	resolver *account.Resolver,
	accounts account.Store,
	sessions session.Store,
	magic *magiclink.Service,
	termsService *terms.Service,
) *Establisher {
	return &Establisher{
		resolver: resolver,
		accounts: accounts,
		sessions: sessions,
		magic:    magic,
		terms:    termsService,
	}
}

// Establish signs the external identity in. The identity was already
// verified upstream: either through the provider's id_token verifier
// or by a successful authenticated user-info fetch.
func (e *Establisher) Establish(
	ctx context.Context,
	identity *auth.Identity,
	tokens *provider.Tokens,
) (*Result, error) {

	acct, err := e.resolver.Resolve(ctx, identity)
	if err != nil {
		return nil, auth.NewFlowError(auth.CodeSession, identity.Provider, "", err)
	}

	if tokens.HasIDToken() {
		// Direct path. Profile metadata refresh must not fail the
		// login; a broken write is logged and the session proceeds.
		if err := e.accounts.EnrichProfile(ctx, acct.ID, identity); err != nil {
			logger.Warn("profile metadata write failed during login", map[string]any{
				"account_id": acct.ID,
				"provider":   identity.Provider,
				"error":      err.Error(),
			})
		}

		sess, err := e.CreateSession(ctx, acct)
		if err != nil {
			return nil, auth.NewFlowError(auth.CodeSession, identity.Provider, "", err)
		}
		return &Result{Session: sess}, nil
	}

	// Magic-link path: no verifiable identity token exists, so the
	// session is minted by consuming a one-time server-issued token.
	token, err := e.magic.Issue(ctx, acct.ID)
	if err != nil {
		return nil, auth.NewFlowError(auth.CodeSession, identity.Provider, "", err)
	}
	return &Result{MagicToken: token}, nil
}

// ConsumeMagicLink redeems a one-time token and mints the session.
// The token fails on any second presentation.
func (e *Establisher) ConsumeMagicLink(ctx context.Context, token string) (*session.Session, error) {
	accountID, err := e.magic.Consume(ctx, token)
	if err != nil {
		return nil, err
	}

	acct, err := e.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, fmt.Errorf("establish: account %s not found", accountID)
	}

	return e.CreateSession(ctx, acct)
}

// CreateSessionByAccountID loads the account and mints a session.
// Used by the password login path.
func (e *Establisher) CreateSessionByAccountID(ctx context.Context, accountID string) (*session.Session, error) {
	acct, err := e.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, fmt.Errorf("establish: account %s not found", accountID)
	}
	return e.CreateSession(ctx, acct)
}

// CreateSession mints a session for the account, denormalizing the
// current terms standing into its claims.
func (e *Establisher) CreateSession(ctx context.Context, acct *account.Account) (*session.Session, error) {
	if acct == nil {
		return nil, errors.New("establish: account is nil")
	}

	standing, err := e.terms.Standing(ctx, acct.ID)
	if err != nil {
		return nil, err
	}

	sessionID, err := session.GenerateID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sess := session.Session{
		SessionID: sessionID,
		AccountID: acct.ID,
		Claims: session.Claims{
			TermsAgreed:        standing.TermsAgreed,
			PrivacyAgreed:      standing.PrivacyAgreed,
			TermsAgreedVersion: standing.TermsAgreedVersion,
			IsAdmin:            acct.IsAdmin,
		},
		CreatedAt: now,
		ExpiresAt: now.Add(sessionTTL),
	}

	if err := e.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	return &sess, nil
}
