package near

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/big"
)

// borshWriter serializes values in borsh layout: little-endian fixed-width
// integers, u32 length-prefixed strings, u32 count-prefixed sequences.
// Only the subset needed for NEAR transactions is implemented.
type borshWriter struct {
	buf bytes.Buffer
}

func (w *borshWriter) u8(v byte) {
	w.buf.WriteByte(v)
}

func (w *borshWriter) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *borshWriter) u64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// u128 writes a non-negative big.Int as 16 little-endian bytes.
func (w *borshWriter) u128(v *big.Int) error {
	if v.Sign() < 0 {
		return fmt.Errorf("u128 value must be non-negative")
	}
	be := v.Bytes()
	if len(be) > 16 {
		return fmt.Errorf("value %s overflows u128", v)
	}
	var le [16]byte
	for i, b := range be {
		le[len(be)-1-i] = b
	}
	w.buf.Write(le[:])
	return nil
}

func (w *borshWriter) str(s string) {
	w.u32(uint32(len(s)))
	w.buf.WriteString(s)
}

func (w *borshWriter) fixed(b []byte) {
	w.buf.Write(b)
}

func (w *borshWriter) bytes() []byte {
	return w.buf.Bytes()
}
