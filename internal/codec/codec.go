// Package codec converts between UTF-8 message text and the 0x-prefixed hex
// calldata carried by a transaction.
package codec

import (
	"encoding/hex"
	"strings"

	"github.com/Inkwell-Network/inkwell/internal/errors"
)

const hexPrefix = "0x"

// Encode turns message text into 0x-prefixed hex calldata.
// decode(encode(s)) == s holds for every UTF-8 string, including "".
func Encode(text string) string {
	return hexPrefix + hex.EncodeToString([]byte(text))
}

// Decode turns 0x-prefixed (or bare) hex calldata back into text.
func Decode(calldata string) (string, error) {
	normalized := strings.TrimPrefix(strings.TrimSpace(calldata), hexPrefix)
	if len(normalized)%2 != 0 {
		return "", errors.MalformedHexError("odd number of hex digits")
	}
	raw, err := hex.DecodeString(normalized)
	if err != nil {
		return "", errors.MalformedHexError(err.Error())
	}
	return string(raw), nil
}

// IsLikelyText reports whether calldata decodes to something a human wrote.
// Printable ASCII plus tab/newline/carriage-return count as text characters;
// the ratio is computed over runes, not bytes, so multi-byte UTF-8 sequences
// only weigh once. An empty decoded string is not text.
func IsLikelyText(calldata string) bool {
	decoded, err := Decode(calldata)
	if err != nil {
		return false
	}
	runes := []rune(decoded)
	if len(runes) == 0 {
		return false
	}
	printable := 0
	for _, r := range runes {
		if (r >= 0x20 && r <= 0x7e) || r == '\t' || r == '\n' || r == '\r' {
			printable++
		}
	}
	return float64(printable)/float64(len(runes)) >= 0.8
}
