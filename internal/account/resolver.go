package account

import (
	"context"
	"errors"

	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth"
)

// Resolver determines which local account an external identity
// belongs to, creating one on first login. It is the only place
// where identity-to-account mapping logic lives.
//
// Resolution keys on the provider identity first, then the email: a
// returning identity lands on its account even after the user changes
// the email on the provider side, and a user who registered earlier
// via the same email is signed into the existing account rather than
// duplicated.
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

func (r *Resolver) Resolve(ctx context.Context, identity *auth.Identity) (*Account, error) {
	if identity == nil {
		return nil, errors.New("account: identity is nil")
	}

	// 1. Existing account already owning this provider identity.
	id, err := r.store.FindAccountIDByIdentity(ctx, identity.Provider, identity.ProviderUserID)
	if err != nil {
		return nil, err
	}
	if id != "" {
		return r.store.FindByID(ctx, id)
	}

	// 2. Existing account by email: attach the new provider identity.
	existing, err := r.store.FindByEmail(ctx, identity.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := r.store.LinkIdentity(ctx, existing.ID, identity); err != nil {
			return nil, err
		}
		return r.store.FindByID(ctx, existing.ID)
	}

	// 3. First login: create the account, provider becomes the
	// immutable signup_provider.
	return r.store.Create(ctx, identity)
}
