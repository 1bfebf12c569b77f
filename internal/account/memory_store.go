package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth"
)

// MemoryStore is an in-process Store for tests and local runs
// without postgres. It mirrors the uniqueness rules the database
// enforces: one account per email, one owner per external identity.
type MemoryStore struct {
	mu         sync.Mutex
	accounts   map[string]*Account
	identities map[string]string // "provider\x00provider_user_id" -> account ID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:   make(map[string]*Account),
		identities: make(map[string]string),
	}
}

func identityKey(provider, providerUserID string) string {
	return provider + "\x00" + providerUserID
}

// Seed inserts an account directly, identity mappings included.
// Test setup helper.
func (m *MemoryStore) Seed(a Account, identities ...auth.Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := a
	m.accounts[a.ID] = &cp
	for _, id := range identities {
		m.identities[identityKey(id.Provider, id.ProviderUserID)] = a.ID
		if !cp.Linked(id.Provider) {
			cp.LinkedProviders = append(cp.LinkedProviders, id.Provider)
		}
	}
	m.accounts[a.ID] = &cp
}

func (m *MemoryStore) FindByID(_ context.Context, id string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *MemoryStore) FindByEmail(_ context.Context, email string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.accounts {
		if strings.EqualFold(a.Email, email) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) FindAccountIDByIdentity(
	_ context.Context,
	provider string,
	providerUserID string,
) (string, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.identities[identityKey(provider, providerUserID)], nil
}

func (m *MemoryStore) FindAccountIDByProviderEmail(
	_ context.Context,
	provider string,
	email string,
) (string, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.accounts {
		if a.Linked(provider) && strings.EqualFold(a.Email, email) {
			return a.ID, nil
		}
	}
	return "", nil
}

func (m *MemoryStore) Create(_ context.Context, identity *auth.Identity) (*Account, error) {
	if identity == nil {
		return nil, errors.New("account: identity is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Account and identity land together under one lock, matching
	// the database store's transaction: a taken identity leaves no
	// half-created account behind.
	key := identityKey(identity.Provider, identity.ProviderUserID)
	if _, taken := m.identities[key]; taken {
		return nil, ErrIdentityTaken
	}

	a := &Account{
		ID:              uuid.NewString(),
		Email:           identity.Email,
		EmailVerified:   identity.EmailVerified,
		Name:            identity.Name,
		Picture:         identity.Picture,
		SignupProvider:  identity.Provider,
		LinkedProviders: []string{identity.Provider},
	}
	m.accounts[a.ID] = a
	m.identities[key] = a.ID

	cp := *a
	return &cp, nil
}

func (m *MemoryStore) CreateWithPassword(_ context.Context, email string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a := &Account{
		ID:             uuid.NewString(),
		Email:          email,
		SignupProvider: "password",
	}
	m.accounts[a.ID] = a
	cp := *a
	return &cp, nil
}

func (m *MemoryStore) LinkIdentity(
	_ context.Context,
	accountID string,
	identity *auth.Identity,
) error {

	m.mu.Lock()
	defer m.mu.Unlock()

	key := identityKey(identity.Provider, identity.ProviderUserID)
	if owner, ok := m.identities[key]; ok {
		if owner != accountID {
			return ErrIdentityTaken
		}
		return nil // idempotent re-link
	}

	a, ok := m.accounts[accountID]
	if !ok {
		return fmt.Errorf("account: %s not found", accountID)
	}

	m.identities[key] = accountID
	if !a.Linked(identity.Provider) {
		a.LinkedProviders = append(a.LinkedProviders, identity.Provider)
	}
	return nil
}

func (m *MemoryStore) EnrichProfile(
	_ context.Context,
	accountID string,
	identity *auth.Identity,
) error {

	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[accountID]
	if !ok {
		return fmt.Errorf("account: %s not found", accountID)
	}
	if a.Email == "" {
		a.Email = identity.Email
	}
	if a.Name == "" {
		a.Name = identity.Name
	}
	if a.Picture == "" {
		a.Picture = identity.Picture
	}
	return nil
}
