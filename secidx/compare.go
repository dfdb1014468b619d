package secidx

import (
	"bytes"
	"encoding/binary"
	"math"
)

// compare returns negative/zero/positive as a < b, a == b, a > b under the
// total order for t, per spec.md §4.2. Both a and b must be attrLength
// bytes wide.
func compare(a, b []byte, t AttrType) int {
	switch t {
	case AttrInt:
		ai := int32(binary.BigEndian.Uint32(a))
		bi := int32(binary.BigEndian.Uint32(b))
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		default:
			return 0
		}
	case AttrFloat:
		return bytes.Compare(orderedFloatBits(a), orderedFloatBits(b))
	default: // AttrString
		return bytes.Compare(a, b)
	}
}

// orderedFloatBits maps an 8-byte big-endian float64 bit pattern to a byte
// sequence whose lexicographic order matches IEEE-754 ordering: flip the
// sign bit for non-negative numbers, invert every bit for negative ones.
// This keeps comparison bitwise-consistent (spec.md §4.2 forbids NaN keys,
// so no special-casing is needed for unordered values).
func orderedFloatBits(b []byte) []byte {
	bits := binary.BigEndian.Uint64(b)
	if bits&(1<<63) != 0 {
		bits = ^bits
	} else {
		bits |= 1 << 63
	}
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, bits)
	return out
}

// EncodeInt encodes v as a big-endian int32 key of width 4.
func EncodeInt(v int32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(v))
	return b
}

// DecodeInt decodes a 4-byte big-endian int32 key.
func DecodeInt(b []byte) int32 {
	return int32(binary.BigEndian.Uint32(b))
}

// EncodeFloat encodes v as an 8-byte big-endian float64 key. Panics if v is
// NaN, which spec.md §4.2 disallows as a key value.
func EncodeFloat(v float64) []byte {
	if math.IsNaN(v) {
		panic("secidx: NaN is not a valid key")
	}
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, math.Float64bits(v))
	return b
}

// DecodeFloat decodes an 8-byte big-endian float64 key.
func DecodeFloat(b []byte) float64 {
	return math.Float64frombits(binary.BigEndian.Uint64(b))
}

// EncodeString right-pads v with NUL bytes to width, truncating if v is
// already longer. Used for AttrString keys.
func EncodeString(v string, width int32) []byte {
	b := make([]byte, width)
	copy(b, v)
	return b
}
