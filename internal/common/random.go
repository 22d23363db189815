package common

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomDigits returns a string of n decimal digits drawn uniformly from
// crypto/rand, suitable for one-time security codes. Bytes >= 250 are
// rejected so the modulo does not bias the distribution.
//
// Entropy failure is not survivable for a token generator, so it panics.
func RandomDigits(n int) string {
	out := make([]byte, 0, n)
	buf := make([]byte, 1)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			panic(err)
		}
		if buf[0] >= 250 {
			continue
		}
		out = append(out, '0'+buf[0]%10)
	}
	return string(out)
}

// MakeRandHexString generates a hex string from size random bytes; the
// resulting string is twice as long as size.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
