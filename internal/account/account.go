package account

import (
	"context"
	"errors"

	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth"
)

// Account is the durable local user record. SignupProvider is set at
// creation and never changes; LinkedProviders grows through the
// linking flow.
type Account struct {
	ID              string
	Email           string
	EmailVerified   bool
	Name            string
	Picture         string
	SignupProvider  string
	IsAdmin         bool
	LinkedProviders []string
}

// Linked reports whether the given provider is already in the
// account's linked set.
func (a *Account) Linked(provider string) bool {
	for _, p := range a.LinkedProviders {
		if p == provider {
			return true
		}
	}
	return false
}

// ErrIdentityTaken is raised by LinkIdentity when the external
// identity row already belongs to a different account. Backed by the
// (provider, provider_user_id) unique constraint, so concurrent link
// attempts fail atomically instead of racing.
var ErrIdentityTaken = errors.New("account: identity belongs to another account")

// Store is the persistence contract for accounts and their external
// identities. Find methods return (nil, nil) when no row matches.
type Store interface {
	FindByID(ctx context.Context, id string) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// FindAccountIDByIdentity returns the account owning the external
	// identity, or "" when none. Keyed on (provider, provider_user_id),
	// which stays stable when the provider-side email changes.
	FindAccountIDByIdentity(ctx context.Context, provider, providerUserID string) (string, error)

	// FindAccountIDByProviderEmail returns the account holding an
	// identity for this provider with this email, or "" when none.
	FindAccountIDByProviderEmail(ctx context.Context, provider, email string) (string, error)

	// Create inserts a new account from an external identity,
	// recording it as the signup provider, plus the identity row.
	Create(ctx context.Context, identity *auth.Identity) (*Account, error)

	// CreateWithPassword inserts a new account registered directly
	// with an email. signup_provider is recorded as "password".
	CreateWithPassword(ctx context.Context, email string) (*Account, error)

	// LinkIdentity adds the identity to the account. Idempotent for
	// re-links of the same identity to the same account; returns
	// ErrIdentityTaken when it belongs to a different account.
	LinkIdentity(ctx context.Context, accountID string, identity *auth.Identity) error

	// EnrichProfile fills in email, name, and picture fields that are
	// still empty on the account. Existing values are never replaced.
	EnrichProfile(ctx context.Context, accountID string, identity *auth.Identity) error
}
