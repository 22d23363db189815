// Package seedphrase derives the ed25519 key implied by a BIP-39 mnemonic,
// using the SLIP-0010 hardened path m/44'/397'/0' that NEAR wallets use.
package seedphrase

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/accounthelper/internal/common"
	"github.com/dmitrijs2005/accounthelper/internal/near"
	"github.com/tyler-smith/go-bip39"
)

const hardenedOffset = 0x80000000

// derivationPath is the account-level NEAR path; every index is hardened,
// as required for ed25519 under SLIP-0010.
var derivationPath = []uint32{44, 397, 0}

// PublicKey returns the public half of the key pair encoded by mnemonic.
// The mnemonic is whitespace-normalized before checksum validation.
func PublicKey(mnemonic string) (near.PublicKey, error) {
	kp, err := KeyPair(mnemonic)
	if err != nil {
		return near.PublicKey{}, err
	}
	return kp.PublicKey(), nil
}

// KeyPair derives the full signing key pair from mnemonic.
func KeyPair(mnemonic string) (*near.KeyPair, error) {
	normalized := strings.Join(strings.Fields(mnemonic), " ")

	seed, err := bip39.NewSeedWithErrorChecking(normalized, "")
	if err != nil {
		return nil, fmt.Errorf("%w: invalid seed phrase: %v", common.ErrValidation, err)
	}

	key := deriveKey(seed)
	kp, err := near.KeyPairFromSeed(key)
	if err != nil {
		return nil, err
	}
	return kp, nil
}

// deriveKey walks the SLIP-0010 ed25519 tree from the master node down
// derivationPath and returns the 32-byte private key of the leaf.
func deriveKey(seed []byte) []byte {
	key, chainCode := hmacSHA512([]byte("ed25519 seed"), seed)
	for _, index := range derivationPath {
		var data [1 + 32 + 4]byte
		copy(data[1:], key)
		binary.BigEndian.PutUint32(data[33:], index+hardenedOffset)
		key, chainCode = hmacSHA512(chainCode, data[:])
	}
	return key
}

func hmacSHA512(key, data []byte) (il, ir []byte) {
	mac := hmac.New(sha512.New, key)
	mac.Write(data)
	sum := mac.Sum(nil)
	return sum[:32], sum[32:]
}
