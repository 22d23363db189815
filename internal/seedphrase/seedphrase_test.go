package seedphrase

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/accounthelper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tyler-smith/go-bip39"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestPublicKey_Deterministic(t *testing.T) {
	a, err := PublicKey(testMnemonic)
	require.NoError(t, err)
	b, err := PublicKey(testMnemonic)
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String())
	assert.Len(t, a.Bytes(), 32)
}

func TestPublicKey_NormalizesWhitespace(t *testing.T) {
	a, err := PublicKey(testMnemonic)
	require.NoError(t, err)
	b, err := PublicKey("  abandon abandon  abandon abandon abandon abandon\nabandon abandon abandon abandon abandon   about ")
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String())
}

func TestPublicKey_DiffersPerMnemonic(t *testing.T) {
	entropy, err := bip39.NewEntropy(128)
	require.NoError(t, err)
	other, err := bip39.NewMnemonic(entropy)
	require.NoError(t, err)

	a, err := PublicKey(testMnemonic)
	require.NoError(t, err)
	b, err := PublicKey(other)
	require.NoError(t, err)
	assert.NotEqual(t, a.String(), b.String())
}

func TestPublicKey_InvalidMnemonic(t *testing.T) {
	_, err := PublicKey("definitely not a valid seed phrase")
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestKeyPair_SignsVerifiably(t *testing.T) {
	kp, err := KeyPair(testMnemonic)
	require.NoError(t, err)

	msg := []byte("123456")
	sig := kp.Sign(msg)
	assert.True(t, kp.PublicKey().Verify(msg, sig))
}
