package magiclink

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndConsume(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	token, err := svc.Issue(ctx, "acct-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	accountID, err := svc.Consume(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "acct-1", accountID)
}

func TestConsumeIsSingleUse(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	token, err := svc.Issue(ctx, "acct-1")
	require.NoError(t, err)

	_, err = svc.Consume(ctx, token)
	require.NoError(t, err)

	_, err = svc.Consume(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestConsumeUnknownToken(t *testing.T) {
	svc := NewService(NewMemoryStore())

	_, err := svc.Consume(context.Background(), "never-issued")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Consume(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestConsumeExpiredToken(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "tok", "acct-1", -time.Second))

	_, err := store.Consume(ctx, "tok")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
