package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCreatesOnFirstLogin(t *testing.T) {
	store := NewMemoryStore()
	resolver := NewResolver(store)

	acct, err := resolver.Resolve(context.Background(), kakaoIdentity("k-1", "new@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", acct.Email)
	assert.Equal(t, "kakao", acct.SignupProvider)
	assert.True(t, acct.Linked("kakao"))
}

func TestResolveIsIdempotentByEmail(t *testing.T) {
	store := NewMemoryStore()
	resolver := NewResolver(store)
	ctx := context.Background()

	first, err := resolver.Resolve(ctx, kakaoIdentity("k-1", "same@example.com"))
	require.NoError(t, err)

	second, err := resolver.Resolve(ctx, kakaoIdentity("k-1", "same@example.com"))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same email must land on the same account")
}

func TestResolveAttachesNewProviderToExistingEmail(t *testing.T) {
	store := NewMemoryStore()
	store.Seed(Account{ID: "u-42", Email: "user@example.com", SignupProvider: "google", LinkedProviders: []string{"google"}})

	resolver := NewResolver(store)
	acct, err := resolver.Resolve(context.Background(), kakaoIdentity("k-1", "user@example.com"))
	require.NoError(t, err)

	assert.Equal(t, "u-42", acct.ID)
	assert.True(t, acct.Linked("kakao"))
	assert.Equal(t, "google", acct.SignupProvider)
}

// A provider identity returning with a changed email still lands on
// its account: resolution keys on (provider, provider_user_id), not
// on the email the provider happens to report today.
func TestResolveSurvivesProviderEmailChange(t *testing.T) {
	store := NewMemoryStore()
	store.Seed(
		Account{ID: "u-1", Email: "old@example.com", SignupProvider: "kakao"},
		*kakaoIdentity("k-1", "old@example.com"),
	)

	resolver := NewResolver(store)
	acct, err := resolver.Resolve(context.Background(), kakaoIdentity("k-1", "new@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "u-1", acct.ID)

	orphan, err := store.FindByEmail(context.Background(), "new@example.com")
	require.NoError(t, err)
	assert.Nil(t, orphan, "no duplicate account for the new email")
}

// Create is atomic: when the identity already belongs to another
// account, the refused create leaves no account row behind.
func TestCreateTakenIdentityLeavesNoPartialState(t *testing.T) {
	store := NewMemoryStore()
	store.Seed(
		Account{ID: "u-1", Email: "old@example.com", SignupProvider: "kakao"},
		*kakaoIdentity("k-1", "old@example.com"),
	)

	_, err := store.Create(context.Background(), kakaoIdentity("k-1", "new@example.com"))
	assert.ErrorIs(t, err, ErrIdentityTaken)

	orphan, err := store.FindByEmail(context.Background(), "new@example.com")
	require.NoError(t, err)
	assert.Nil(t, orphan)
}
