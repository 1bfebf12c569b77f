package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeLogin(t *testing.T) {
	codec := NewCodec("test-secret")

	token, err := codec.Encode(Descriptor{
		Mode:  ModeLogin,
		Nonce: "nonce-1",
	})
	require.NoError(t, err)

	got, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, ModeLogin, got.Mode)
	assert.Empty(t, got.LinkUserID)
	assert.Equal(t, "nonce-1", got.Nonce)
}

func TestEncodeDecodeLink(t *testing.T) {
	codec := NewCodec("test-secret")

	token, err := codec.Encode(Descriptor{
		Mode:       ModeLink,
		LinkUserID: "u-42",
		Nonce:      "nonce-2",
	})
	require.NoError(t, err)

	got, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, ModeLink, got.Mode)
	assert.Equal(t, "u-42", got.LinkUserID)
}

func TestEncodeRejectsLinkWithoutAccount(t *testing.T) {
	codec := NewCodec("test-secret")

	_, err := codec.Encode(Descriptor{Mode: ModeLink, Nonce: "n"})
	assert.Error(t, err)
}

func TestEncodeRejectsMissingNonce(t *testing.T) {
	codec := NewCodec("test-secret")

	_, err := codec.Encode(Descriptor{Mode: ModeLogin})
	assert.Error(t, err)
}

func TestDecodeRejectsMalformed(t *testing.T) {
	codec := NewCodec("test-secret")

	for _, raw := range []string{"", "garbage", "{}", `{"linkUserId":"u-42"}`} {
		_, err := codec.Decode(raw)
		assert.ErrorIs(t, err, ErrInvalid, "raw=%q", raw)
	}
}

func TestDecodeRejectsTamperedSignature(t *testing.T) {
	codec := NewCodec("test-secret")
	other := NewCodec("different-secret")

	token, err := other.Encode(Descriptor{
		Mode:       ModeLink,
		LinkUserID: "u-42",
		Nonce:      "n",
	})
	require.NoError(t, err)

	_, err = codec.Decode(token)
	assert.ErrorIs(t, err, ErrInvalid)
}
