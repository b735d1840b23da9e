// Package envelope implements the self-describing encryption envelopes a
// message can be wrapped in before it is encoded into calldata. A value's own
// prefix tag is sufficient to select its decryption algorithm; no metadata
// outside the string is ever needed.
package envelope

import (
	"strings"

	"github.com/Inkwell-Network/inkwell/internal/constants"
)

// Format identifies which envelope variant a payload carries.
type Format string

const (
	// FormatNone means the payload carries no known envelope prefix
	FormatNone Format = ""
	// FormatPublicKey is the ECIES recipient-key envelope
	FormatPublicKey Format = "pubkey"
	// FormatPassphrase is the PBKDF2 + AES-GCM envelope
	FormatPassphrase Format = "passphrase"
	// FormatLegacyPassphrase is the bracket-delimited passphrase envelope,
	// readable but never written
	FormatLegacyPassphrase Format = "legacy_passphrase"
)

// DetectFormat inspects only the literal prefix (and, for the legacy variant,
// the suffix). It never fails; unknown input is FormatNone.
func DetectFormat(text string) Format {
	switch {
	case strings.HasPrefix(text, constants.PublicKeyPrefix):
		return FormatPublicKey
	case strings.HasPrefix(text, constants.PassphrasePrefix):
		return FormatPassphrase
	case strings.HasPrefix(text, constants.LegacyPassphrasePrefix) &&
		strings.HasSuffix(text, constants.LegacyPassphraseSuffix):
		return FormatLegacyPassphrase
	default:
		return FormatNone
	}
}

// IsEncrypted reports whether text carries any known envelope.
func IsEncrypted(text string) bool {
	return DetectFormat(text) != FormatNone
}
