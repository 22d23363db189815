package recovery

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/accounthelper/internal/common"
	"github.com/dmitrijs2005/accounthelper/internal/near"
)

// verifyCodeSignature checks that signatureB64 is a valid detached ed25519
// signature over sha256(securityCode) by any of the account's authorized
// keys. Hashing first gives the signer a fixed-size message regardless of
// the code representation.
//
// The helper key must appear among the authorized keys: its presence is the
// account holder's earlier opt-in to recovery. Its absence is reported as
// common.ErrNoRecoveryKey, not as a bad signature, because it means the
// account is not set up for recovery at all. Once that precondition holds,
// a signature by any currently authorized key is accepted.
func verifyCodeSignature(authorizedKeys []string, helperKey, securityCode, signatureB64 string) (bool, error) {
	if !slices.Contains(authorizedKeys, helperKey) {
		return false, fmt.Errorf("%w: helper key %s is not registered", common.ErrNoRecoveryKey, helperKey)
	}

	sig, err := base64.StdEncoding.DecodeString(signatureB64)
	if err != nil {
		return false, nil
	}

	digest := sha256.Sum256([]byte(securityCode))
	for _, encoded := range authorizedKeys {
		pk, err := near.ParsePublicKey(encoded)
		if err != nil {
			continue
		}
		if pk.Verify(digest[:], sig) {
			return true, nil
		}
	}
	return false, nil
}
