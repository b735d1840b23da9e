package envelope

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"strings"

	"github.com/Inkwell-Network/inkwell/internal/constants"
	"github.com/Inkwell-Network/inkwell/internal/errors"
	"github.com/Inkwell-Network/inkwell/internal/metrics"
	"golang.org/x/crypto/pbkdf2"
)

// EncryptWithPassphrase seals plaintext under a shared passphrase and returns
// the full envelope string: "ENC:PASS:v1:" + base64(salt[16] || nonce[12] || ct).
// Encryption never partially succeeds; on error nothing is returned.
func EncryptWithPassphrase(plaintext, passphrase string) (sealed string, err error) {
	defer func() { metrics.ObserveEnvelopeOp("passphrase", "encrypt", err) }()
	if plaintext == "" {
		return "", errors.EmptyInputError("message")
	}
	if passphrase == "" {
		return "", errors.EmptyInputError("passphrase")
	}

	salt := make([]byte, constants.SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", errors.InternalError("failed to generate salt", err)
	}
	nonce := make([]byte, constants.GCMNonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", errors.InternalError("failed to generate nonce", err)
	}

	aead, err := newAEAD(passphrase, salt)
	if err != nil {
		return "", err
	}
	ciphertext := aead.Seal(nil, nonce, []byte(plaintext), nil)

	blob := make([]byte, 0, len(salt)+len(nonce)+len(ciphertext))
	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	blob = append(blob, ciphertext...)

	return constants.PassphrasePrefix + base64.StdEncoding.EncodeToString(blob), nil
}

// DecryptWithPassphrase opens a passphrase envelope in either the current
// "ENC:PASS:v1:" framing or the legacy "[ENCRYPTED:v1:...]" framing.
//
// Every failure past format detection surfaces as the same generic
// DecryptionFailed so a caller cannot learn whether the salt and nonce parsed
// before the authentication tag was checked.
func DecryptWithPassphrase(envelopeText, passphrase string) (plaintext string, err error) {
	defer func() { metrics.ObserveEnvelopeOp("passphrase", "decrypt", err) }()
	if passphrase == "" {
		return "", errors.EmptyInputError("passphrase")
	}

	var inner string
	switch DetectFormat(envelopeText) {
	case FormatPassphrase:
		inner = strings.TrimPrefix(envelopeText, constants.PassphrasePrefix)
	case FormatLegacyPassphrase:
		inner = strings.TrimSuffix(strings.TrimPrefix(envelopeText, constants.LegacyPassphrasePrefix), constants.LegacyPassphraseSuffix)
	default:
		return "", errors.NotAnEncryptedPayloadError()
	}

	blob, err := base64.StdEncoding.DecodeString(inner)
	if err != nil {
		return "", errors.DecryptionFailedError()
	}
	if len(blob) <= constants.SaltSize+constants.GCMNonceSize {
		return "", errors.DecryptionFailedError()
	}
	salt := blob[:constants.SaltSize]
	nonce := blob[constants.SaltSize : constants.SaltSize+constants.GCMNonceSize]
	ciphertext := blob[constants.SaltSize+constants.GCMNonceSize:]

	aead, err := newAEAD(passphrase, salt)
	if err != nil {
		return "", err
	}
	opened, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", errors.DecryptionFailedError()
	}
	return string(opened), nil
}

// newAEAD derives the AES-256-GCM cipher for a passphrase and salt.
// The iteration count is part of the wire format.
func newAEAD(passphrase string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(passphrase), salt, constants.PBKDF2Iterations, constants.AESKeySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.InternalError("failed to build cipher", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.InternalError("failed to build GCM", err)
	}
	return aead, nil
}
