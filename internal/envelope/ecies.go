package envelope

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/Inkwell-Network/inkwell/internal/constants"
	"github.com/Inkwell-Network/inkwell/internal/errors"
	"github.com/Inkwell-Network/inkwell/internal/metrics"
	"github.com/btcsuite/btcd/btcec/v2"
)

// ECIES over secp256k1. Ciphertext layout:
//
//	ephemeralPub[65] || iv[16] || aes256cbc(ciphertext) || hmacSha256[32]
//
// The symmetric keys come from SHA-512 over the ECDH x-coordinate: the first
// half encrypts, the second half authenticates. The MAC covers
// iv || ephemeralPub || ciphertext.

// EncryptWithPublicKey seals plaintext to a recipient's uncompressed
// secp256k1 public key and returns the raw ECIES ciphertext bytes.
func EncryptWithPublicKey(plaintext, recipientPubKeyHex string) (out []byte, err error) {
	defer func() { metrics.ObserveEnvelopeOp("pubkey", "encrypt", err) }()
	if plaintext == "" {
		return nil, errors.EmptyInputError("message")
	}
	pubKey, err := ParsePublicKey(recipientPubKeyHex)
	if err != nil {
		return nil, err
	}

	ephemeral, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, errors.InternalError("failed to generate ephemeral key", err)
	}
	encKey, macKey := deriveKeys(btcec.GenerateSharedSecret(ephemeral, pubKey))

	iv := make([]byte, constants.CBCIVSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, errors.InternalError("failed to generate IV", err)
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, errors.InternalError("failed to build cipher", err)
	}
	padded := pkcs7Pad([]byte(plaintext), block.BlockSize())
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	ephemeralPub := ephemeral.PubKey().SerializeUncompressed()
	tag := computeMAC(macKey, iv, ephemeralPub, ciphertext)

	out = make([]byte, 0, len(ephemeralPub)+len(iv)+len(ciphertext)+len(tag))
	out = append(out, ephemeralPub...)
	out = append(out, iv...)
	out = append(out, ciphertext...)
	out = append(out, tag...)
	return out, nil
}

// DecryptWithPrivateKey opens raw ECIES ciphertext bytes with the recipient's
// private key. Malformed framing is reported distinctly from an
// authentication failure so callers can give a precise user message, but both
// remain under the crypto error type.
func DecryptWithPrivateKey(ciphertext []byte, privateKeyHex string) (plaintext string, err error) {
	defer func() { metrics.ObserveEnvelopeOp("pubkey", "decrypt", err) }()
	privKey, err := ParsePrivateKey(privateKeyHex)
	if err != nil {
		return "", err
	}

	minLen := constants.UncompressedPubKeySize + constants.CBCIVSize + aes.BlockSize + constants.MACSize
	if len(ciphertext) < minLen {
		return "", errors.CiphertextMalformedError(fmt.Sprintf("need at least %d bytes, got %d", minLen, len(ciphertext)))
	}

	ephemeralPubBytes := ciphertext[:constants.UncompressedPubKeySize]
	iv := ciphertext[constants.UncompressedPubKeySize : constants.UncompressedPubKeySize+constants.CBCIVSize]
	body := ciphertext[constants.UncompressedPubKeySize+constants.CBCIVSize : len(ciphertext)-constants.MACSize]
	tag := ciphertext[len(ciphertext)-constants.MACSize:]

	if len(body)%aes.BlockSize != 0 {
		return "", errors.CiphertextMalformedError("ciphertext is not block aligned")
	}
	ephemeralPub, err := btcec.ParsePubKey(ephemeralPubBytes)
	if err != nil {
		return "", errors.CiphertextMalformedError("ephemeral key is not on the curve")
	}

	encKey, macKey := deriveKeys(btcec.GenerateSharedSecret(privKey, ephemeralPub))
	if !hmac.Equal(tag, computeMAC(macKey, iv, ephemeralPubBytes, body)) {
		return "", errors.DecryptionFailedError()
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return "", errors.InternalError("failed to build cipher", err)
	}
	decrypted := make([]byte, len(body))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(decrypted, body)

	unpadded, err := pkcs7Unpad(decrypted, block.BlockSize())
	if err != nil {
		// Padding damage past a valid MAC should not happen; keep the
		// response indistinguishable from a key failure regardless.
		return "", errors.DecryptionFailedError()
	}
	return string(unpadded), nil
}

// SealWithPublicKey produces the text envelope "ENC:PUBKEY:v1:" + base64(ct).
func SealWithPublicKey(plaintext, recipientPubKeyHex string) (string, error) {
	ciphertext, err := EncryptWithPublicKey(plaintext, recipientPubKeyHex)
	if err != nil {
		return "", err
	}
	return constants.PublicKeyPrefix + base64.StdEncoding.EncodeToString(ciphertext), nil
}

// OpenWithPrivateKey opens an "ENC:PUBKEY:v1:" envelope string.
func OpenWithPrivateKey(envelopeText, privateKeyHex string) (string, error) {
	if DetectFormat(envelopeText) != FormatPublicKey {
		return "", errors.NotAnEncryptedPayloadError()
	}
	ciphertext, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(envelopeText, constants.PublicKeyPrefix))
	if err != nil {
		return "", errors.CiphertextMalformedError("invalid base64 body")
	}
	return DecryptWithPrivateKey(ciphertext, privateKeyHex)
}

// OpenPayloadWithPrivateKey opens a payload that may be either an
// "ENC:PUBKEY:v1:" envelope or a raw ECIES ciphertext carried directly as
// calldata with no text envelope. Payloads framed for another mode, and
// unprefixed payloads too short to be any ciphertext, are rejected up front.
func OpenPayloadWithPrivateKey(payload, privateKeyHex string) (string, error) {
	switch DetectFormat(payload) {
	case FormatPublicKey:
		return OpenWithPrivateKey(payload, privateKeyHex)
	case FormatNone:
		raw := []byte(payload)
		if len(raw) < constants.MinECIESCiphertextSize {
			return "", errors.NotAnEncryptedPayloadError()
		}
		return DecryptWithPrivateKey(raw, privateKeyHex)
	default:
		return "", errors.NotAnEncryptedPayloadError()
	}
}

// LooksLikeCiphertext guesses whether a bare hex calldata payload is a raw
// ECIES ciphertext, for decoders that do not yet hold a private key.
func LooksLikeCiphertext(hexPayload string) bool {
	normalized := strings.TrimPrefix(strings.TrimSpace(hexPayload), "0x")
	raw, err := hex.DecodeString(normalized)
	if err != nil {
		return false
	}
	return len(raw) >= constants.MinECIESCiphertextSize
}

// ParsePublicKey normalizes a recipient key given with or without a 0x prefix
// and with or without the 0x04 uncompressed-point marker, and validates that
// the point is on the curve.
func ParsePublicKey(pubKeyHex string) (*btcec.PublicKey, error) {
	cleaned := strings.TrimPrefix(strings.TrimSpace(pubKeyHex), "0x")
	if cleaned == "" {
		return nil, errors.EmptyInputError("public key")
	}
	// 64 raw coordinate bytes means the marker byte was dropped.
	if len(cleaned) == 2*(constants.UncompressedPubKeySize-1) {
		cleaned = "04" + cleaned
	}
	raw, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, errors.InvalidPublicKeyError("not valid hex")
	}
	if len(raw) != constants.UncompressedPubKeySize {
		return nil, errors.InvalidPublicKeyError(fmt.Sprintf("expected %d bytes, got %d", constants.UncompressedPubKeySize, len(raw)))
	}
	pubKey, err := btcec.ParsePubKey(raw)
	if err != nil {
		return nil, errors.InvalidPublicKeyError("point is not on the curve")
	}
	return pubKey, nil
}

// ParsePrivateKey normalizes a 32-byte hex private key.
func ParsePrivateKey(privKeyHex string) (*btcec.PrivateKey, error) {
	cleaned := strings.TrimPrefix(strings.TrimSpace(privKeyHex), "0x")
	if cleaned == "" {
		return nil, errors.EmptyInputError("private key")
	}
	raw, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, errors.InvalidPrivateKeyError("not valid hex")
	}
	if len(raw) != 32 {
		return nil, errors.InvalidPrivateKeyError(fmt.Sprintf("expected 32 bytes, got %d", len(raw)))
	}
	privKey, _ := btcec.PrivKeyFromBytes(raw)
	if privKey.Key.IsZero() {
		return nil, errors.InvalidPrivateKeyError("key is zero")
	}
	return privKey, nil
}

func deriveKeys(sharedSecret []byte) (encKey, macKey []byte) {
	digest := sha512.Sum512(sharedSecret)
	return digest[:32], digest[32:]
}

func computeMAC(macKey, iv, ephemeralPub, ciphertext []byte) []byte {
	mac := hmac.New(sha256.New, macKey)
	mac.Write(iv)
	mac.Write(ephemeralPub)
	mac.Write(ciphertext)
	return mac.Sum(nil)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	out := make([]byte, len(data)+padding)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(padding)
	}
	return out
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("invalid padded length %d", len(data))
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize || padding > len(data) {
		return nil, fmt.Errorf("invalid padding byte %d", padding)
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, fmt.Errorf("inconsistent padding")
		}
	}
	return data[:len(data)-padding], nil
}
