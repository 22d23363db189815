// Package near implements the small slice of the NEAR protocol the helper
// needs: ed25519 key handling, borsh transaction encoding, and a JSON-RPC
// client for access-key queries and transaction submission.
package near

import (
	"crypto/ed25519"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

const ed25519Prefix = "ed25519:"

// PublicKey is an ed25519 public key in NEAR's canonical
// "ed25519:<base58>" encoding.
type PublicKey struct {
	raw ed25519.PublicKey
}

// ParsePublicKey decodes a key in "ed25519:<base58>" form. The prefix is
// optional, matching how the network reports keys.
func ParsePublicKey(s string) (PublicKey, error) {
	data, err := base58.Decode(strings.TrimPrefix(s, ed25519Prefix))
	if err != nil {
		return PublicKey{}, fmt.Errorf("invalid public key %q: %w", s, err)
	}
	if len(data) != ed25519.PublicKeySize {
		return PublicKey{}, fmt.Errorf("invalid public key %q: got %d bytes, want %d", s, len(data), ed25519.PublicKeySize)
	}
	return PublicKey{raw: ed25519.PublicKey(data)}, nil
}

func (pk PublicKey) String() string {
	return ed25519Prefix + base58.Encode(pk.raw)
}

func (pk PublicKey) Bytes() []byte {
	return []byte(pk.raw)
}

// Verify reports whether sig is a valid detached ed25519 signature of msg.
func (pk PublicKey) Verify(msg, sig []byte) bool {
	if len(pk.raw) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(pk.raw, msg, sig)
}

// KeyPair holds an ed25519 signing key. The string form is
// "ed25519:<base58 of the 64-byte expanded secret>", as produced by NEAR
// tooling.
type KeyPair struct {
	priv ed25519.PrivateKey
}

func ParseKeyPair(s string) (*KeyPair, error) {
	data, err := base58.Decode(strings.TrimPrefix(s, ed25519Prefix))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	switch len(data) {
	case ed25519.PrivateKeySize:
		return &KeyPair{priv: ed25519.PrivateKey(data)}, nil
	case ed25519.SeedSize:
		return &KeyPair{priv: ed25519.NewKeyFromSeed(data)}, nil
	default:
		return nil, fmt.Errorf("invalid private key: got %d bytes", len(data))
	}
}

// KeyPairFromSeed builds a key pair from a 32-byte ed25519 seed.
func KeyPairFromSeed(seed []byte) (*KeyPair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("invalid seed: got %d bytes, want %d", len(seed), ed25519.SeedSize)
	}
	return &KeyPair{priv: ed25519.NewKeyFromSeed(seed)}, nil
}

func (kp *KeyPair) PublicKey() PublicKey {
	return PublicKey{raw: kp.priv.Public().(ed25519.PublicKey)}
}

// Sign produces a detached ed25519 signature over msg.
func (kp *KeyPair) Sign(msg []byte) []byte {
	return ed25519.Sign(kp.priv, msg)
}

func (kp *KeyPair) String() string {
	return ed25519Prefix + base58.Encode(kp.priv)
}
