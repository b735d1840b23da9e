package recovery

import (
	"encoding/binary"
	"math/big"
)

// Minimal encode-only RLP, exactly what signing-hash reconstruction needs.
// Decoding is deliberately absent.

type rlpItem interface {
	encodeRLP() []byte
}

type rlpBytes []byte

func (b rlpBytes) encodeRLP() []byte {
	if len(b) == 1 && b[0] <= 0x7f {
		return []byte{b[0]}
	}
	if len(b) <= 55 {
		out := make([]byte, 1+len(b))
		out[0] = 0x80 + byte(len(b))
		copy(out[1:], b)
		return out
	}
	lenBytes := bigEndianTrimmed(uint64(len(b)))
	out := make([]byte, 1+len(lenBytes)+len(b))
	out[0] = 0xb7 + byte(len(lenBytes))
	copy(out[1:], lenBytes)
	copy(out[1+len(lenBytes):], b)
	return out
}

type rlpList []rlpItem

func (l rlpList) encodeRLP() []byte {
	var payload []byte
	for _, item := range l {
		payload = append(payload, item.encodeRLP()...)
	}
	if len(payload) <= 55 {
		out := make([]byte, 1+len(payload))
		out[0] = 0xc0 + byte(len(payload))
		copy(out[1:], payload)
		return out
	}
	lenBytes := bigEndianTrimmed(uint64(len(payload)))
	out := make([]byte, 1+len(lenBytes)+len(payload))
	out[0] = 0xf7 + byte(len(lenBytes))
	copy(out[1:], lenBytes)
	copy(out[1+len(lenBytes):], payload)
	return out
}

// rlpBigInt encodes a quantity; nil and zero become the empty byte string.
func rlpBigInt(v *big.Int) rlpBytes {
	if v == nil || v.Sign() == 0 {
		return rlpBytes{}
	}
	return rlpBytes(v.Bytes())
}

// rlpUint64 encodes a quantity; zero becomes the empty byte string.
func rlpUint64(v uint64) rlpBytes {
	if v == 0 {
		return rlpBytes{}
	}
	return rlpBytes(bigEndianTrimmed(v))
}

func bigEndianTrimmed(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	for len(buf) > 1 && buf[0] == 0 {
		buf = buf[1:]
	}
	return buf
}
