package recovery

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Keccak256 computes the original Keccak-256 hash used by Ethereum, which is
// NOT the NIST-standardized SHA3-256.
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// PubKeyToChecksumAddress derives the EIP-55 checksummed address from a
// 65-byte uncompressed secp256k1 public key: the last 20 bytes of
// keccak256 over the 64 coordinate bytes, the 0x04 marker dropped first.
func PubKeyToChecksumAddress(uncompressedPubKey []byte) (string, error) {
	if len(uncompressedPubKey) != 65 || uncompressedPubKey[0] != 0x04 {
		return "", fmt.Errorf("expected 65-byte uncompressed public key with 0x04 marker")
	}
	digest := Keccak256(uncompressedPubKey[1:])
	return "0x" + toChecksumHex(hex.EncodeToString(digest[12:])), nil
}

// toChecksumHex applies EIP-55 mixed-case encoding to a bare 40-char address.
func toChecksumHex(address string) string {
	address = strings.ToLower(address)
	digest := Keccak256([]byte(address))
	out := make([]byte, len(address))
	for i, c := range address {
		if c >= '0' && c <= '9' {
			out[i] = byte(c)
			continue
		}
		nibble := digest[i/2] >> 4
		if i%2 == 1 {
			nibble = digest[i/2] & 0x0f
		}
		if nibble >= 8 {
			out[i] = byte(c) - 32
		} else {
			out[i] = byte(c)
		}
	}
	return string(out)
}

// SameAddress compares two 0x addresses ignoring checksum case.
func SameAddress(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
