package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/logger"
)

// Linker attaches an additional provider identity to an existing
// account. It never creates accounts and never creates sessions:
// linking is authorized by the caller already holding a session for
// the target account, not by the OAuth callback itself.
type Linker struct {
	store Store
}

func NewLinker(store Store) *Linker {
	return &Linker{store: store}
}

// Link binds the external identity to accountID.
//
// An identity already held by a different account returns
// auth.ErrConflict and performs no mutation. Re-linking an identity
// already on the same account is a no-op, so retried links stay
// idempotent. On success the account's empty profile fields are
// filled from the identity; that write is non-fatal.
func (l *Linker) Link(ctx context.Context, accountID string, identity *auth.Identity) error {
	if identity == nil {
		return errors.New("account: identity is nil")
	}

	target, err := l.store.FindByID(ctx, accountID)
	if err != nil {
		return err
	}
	if target == nil {
		return fmt.Errorf("account: link target %s not found", accountID)
	}

	// Friendly pre-check by provider + email. The unique constraint
	// behind LinkIdentity remains the real guard against races.
	otherID, err := l.store.FindAccountIDByProviderEmail(ctx, identity.Provider, identity.Email)
	if err != nil {
		return err
	}
	if otherID != "" && otherID != accountID {
		return auth.ErrConflict
	}

	if err := l.store.LinkIdentity(ctx, accountID, identity); err != nil {
		if errors.Is(err, ErrIdentityTaken) {
			return auth.ErrConflict
		}
		return err
	}

	if err := l.store.EnrichProfile(ctx, accountID, identity); err != nil {
		logger.Warn("profile enrichment failed after link", map[string]any{
			"account_id": accountID,
			"provider":   identity.Provider,
			"error":      err.Error(),
		})
	}

	logger.Info("provider linked", map[string]any{
		"account_id": accountID,
		"provider":   identity.Provider,
	})
	return nil
}
