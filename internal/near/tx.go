package near

import (
	"crypto/sha256"
	"fmt"
	"math/big"
)

// Borsh enum indices for the transaction actions we emit. The full action
// enum on chain is larger; indices must match it exactly.
const (
	actionCreateAccount byte = 0
	actionTransfer      byte = 3
	actionAddKey        byte = 5
)

const (
	keyTypeED25519 byte = 0

	permissionFullAccess byte = 1
)

// Action is one entry of a transaction's action list.
type Action interface {
	serialize(w *borshWriter) error
}

// CreateAccount creates the receiver account. Carries no payload.
type CreateAccount struct{}

func (CreateAccount) serialize(w *borshWriter) error {
	w.u8(actionCreateAccount)
	return nil
}

// Transfer moves Deposit yoctoNEAR to the receiver.
type Transfer struct {
	Deposit *big.Int
}

func (a Transfer) serialize(w *borshWriter) error {
	w.u8(actionTransfer)
	return w.u128(a.Deposit)
}

// AddKey grants PublicKey full access on the receiver account.
type AddKey struct {
	PublicKey PublicKey
}

func (a AddKey) serialize(w *borshWriter) error {
	w.u8(actionAddKey)
	w.u8(keyTypeED25519)
	w.fixed(a.PublicKey.Bytes())
	// access key: nonce, then permission enum
	w.u64(0)
	w.u8(permissionFullAccess)
	return nil
}

// Transaction is an unsigned NEAR transaction.
type Transaction struct {
	SignerID   string
	PublicKey  PublicKey
	Nonce      uint64
	ReceiverID string
	BlockHash  [32]byte
	Actions    []Action
}

// Serialize encodes the transaction in borsh layout.
func (t *Transaction) Serialize() ([]byte, error) {
	w := &borshWriter{}
	w.str(t.SignerID)
	w.u8(keyTypeED25519)
	w.fixed(t.PublicKey.Bytes())
	w.u64(t.Nonce)
	w.str(t.ReceiverID)
	w.fixed(t.BlockHash[:])
	w.u32(uint32(len(t.Actions)))
	for _, a := range t.Actions {
		if err := a.serialize(w); err != nil {
			return nil, fmt.Errorf("serializing action: %w", err)
		}
	}
	return w.bytes(), nil
}

// Sign serializes the transaction, signs the sha256 of the serialization
// with kp, and returns the borsh-encoded SignedTransaction.
func (t *Transaction) Sign(kp *KeyPair) ([]byte, error) {
	payload, err := t.Serialize()
	if err != nil {
		return nil, err
	}
	digest := sha256.Sum256(payload)
	sig := kp.Sign(digest[:])

	w := &borshWriter{}
	w.fixed(payload)
	w.u8(keyTypeED25519)
	w.fixed(sig)
	return w.bytes(), nil
}
