// Package magiclink issues one-time tokens that establish a session
// for providers without a verifiable identity token. A token is
// consumed atomically: presenting it a second time always fails.
package magiclink

import (
	"context"
	"errors"
	"time"

	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/utils"
)

// ErrInvalidToken covers unknown, expired, and already-consumed
// tokens alike; callers cannot distinguish them and must restart the
// flow from the beginning.
var ErrInvalidToken = errors.New("magiclink: invalid or consumed token")

// Store holds pending tokens. Consume must atomically read and
// delete so two concurrent consumers cannot both succeed.
type Store interface {
	Put(ctx context.Context, token, accountID string, ttl time.Duration) error
	Consume(ctx context.Context, token string) (accountID string, err error)
}

const tokenTTL = 2 * time.Minute

// Service issues and consumes one-time login tokens.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Issue mints a fresh token bound to the account. The token is meant
// to be consumed immediately by the callback redirect; the short TTL
// only bounds abandoned flows.
func (s *Service) Issue(ctx context.Context, accountID string) (string, error) {
	token := utils.RandomString(32)
	if err := s.store.Put(ctx, token, accountID, tokenTTL); err != nil {
		return "", err
	}
	return token, nil
}

// Consume redeems the token exactly once and returns the bound
// account ID.
func (s *Service) Consume(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}
	return s.store.Consume(ctx, token)
}
