package terms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandingEmpty(t *testing.T) {
	svc := NewService(NewMemoryStore(), "v2")

	st, err := svc.Standing(context.Background(), "u-42")
	require.NoError(t, err)
	assert.False(t, st.TermsAgreed)
	assert.False(t, st.PrivacyAgreed)
	assert.Empty(t, st.TermsAgreedVersion)
	assert.False(t, svc.Current(st))
}

func TestAcceptRecordsBothKinds(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(store, "v2")
	ctx := context.Background()

	require.NoError(t, svc.Accept(ctx, "u-42", "203.0.113.7", "test-agent"))

	st, err := svc.Standing(ctx, "u-42")
	require.NoError(t, err)
	assert.True(t, st.TermsAgreed)
	assert.True(t, st.PrivacyAgreed)
	assert.Equal(t, "v2", st.TermsAgreedVersion)
	assert.True(t, svc.Current(st))

	latest, err := store.Latest(ctx, "u-42", KindTerms)
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", latest.IPAddress)
	assert.Equal(t, "test-agent", latest.UserAgent)
}

// Agreements are append-only: a re-agreement writes new rows and the
// latest row determines standing.
func TestReAgreementAppendsAndLatestWins(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	oldSvc := NewService(store, "v1")
	require.NoError(t, oldSvc.Accept(ctx, "u-42", "", ""))

	svc := NewService(store, "v2")
	st, err := svc.Standing(ctx, "u-42")
	require.NoError(t, err)
	assert.Equal(t, "v1", st.TermsAgreedVersion)
	assert.False(t, svc.Current(st), "version bump invalidates the old acceptance")

	require.NoError(t, svc.Accept(ctx, "u-42", "", ""))
	st, err = svc.Standing(ctx, "u-42")
	require.NoError(t, err)
	assert.Equal(t, "v2", st.TermsAgreedVersion)
	assert.True(t, svc.Current(st))
}

func TestStandingIsPerAccount(t *testing.T) {
	svc := NewService(NewMemoryStore(), "v2")
	ctx := context.Background()

	require.NoError(t, svc.Accept(ctx, "u-42", "", ""))

	st, err := svc.Standing(ctx, "u-17")
	require.NoError(t, err)
	assert.False(t, st.TermsAgreed)
}
