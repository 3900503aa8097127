package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCodecRejectsEmptySecret(t *testing.T) {
	_, err := NewCodec("")
	assert.Error(t, err)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	codec, err := NewCodec("test-secret")
	require.NoError(t, err)

	cases := []string{
		"hello",
		"",
		"exactly sixteen!",
		"a longer message that spans multiple AES blocks without any trouble",
		"emoji and multi-byte: 日本語 ñandú 🌱♻️",
	}

	for _, plaintext := range cases {
		stored, err := codec.Encrypt(plaintext)
		require.NoError(t, err)

		assert.Contains(t, stored, ":")
		if plaintext != "" {
			assert.NotContains(t, stored, plaintext)
		}

		result := codec.Decrypt(stored)
		assert.False(t, result.Failed)
		assert.Equal(t, plaintext, result.Text)
	}
}

func TestEncryptProducesFreshIV(t *testing.T) {
	codec, err := NewCodec("test-secret")
	require.NoError(t, err)

	first, err := codec.Encrypt("same message")
	require.NoError(t, err)
	second, err := codec.Encrypt("same message")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDecryptFailsOpenOnGarbage(t *testing.T) {
	codec, err := NewCodec("test-secret")
	require.NoError(t, err)

	for _, stored := range []string{
		"plaintext that was never encrypted",
		"deadbeef:nothex",
		"aabb:ccdd",
		"",
	} {
		result := codec.Decrypt(stored)
		assert.True(t, result.Failed)
		assert.Equal(t, stored, result.Raw)
		assert.Empty(t, result.Text)
	}
}

func TestDecryptWithWrongKeyFails(t *testing.T) {
	codec, err := NewCodec("key-one")
	require.NoError(t, err)
	other, err := NewCodec("key-two")
	require.NoError(t, err)

	stored, err := codec.Encrypt("secret message")
	require.NoError(t, err)

	result := other.Decrypt(stored)
	// Wrong key either breaks the padding or yields garbage; either way the
	// original plaintext must not come back.
	if !result.Failed {
		assert.NotEqual(t, "secret message", result.Text)
	} else {
		assert.Equal(t, stored, result.Raw)
	}
}

func TestStoredFormat(t *testing.T) {
	codec, err := NewCodec("test-secret")
	require.NoError(t, err)

	stored, err := codec.Encrypt("check the wire shape")
	require.NoError(t, err)

	parts := strings.SplitN(stored, ":", 2)
	require.Len(t, parts, 2)
	assert.Len(t, parts[0], 32) // 16-byte IV, hex encoded
	assert.Equal(t, 0, len(parts[1])%32)
}
