package constants

// Envelope framing literals. These are wire format: changing any of them
// breaks interoperability with every already-published message.
const (
	// PublicKeyPrefix marks an ECIES envelope addressed to one recipient key
	PublicKeyPrefix = "ENC:PUBKEY:v1:"
	// PassphrasePrefix marks a PBKDF2 + AES-GCM envelope
	PassphrasePrefix = "ENC:PASS:v1:"
	// LegacyPassphrasePrefix and LegacyPassphraseSuffix frame the bracketed
	// passphrase variant, kept only for reading old payloads
	LegacyPassphrasePrefix = "[ENCRYPTED:v1:"
	LegacyPassphraseSuffix = "]"
)

// Passphrase mode parameters (PBKDF2-SHA256 + AES-256-GCM)
const (
	// PBKDF2Iterations is fixed by the wire format, not tunable
	PBKDF2Iterations = 100_000
	// SaltSize is the random salt length packed ahead of the nonce
	SaltSize = 16
	// GCMNonceSize is the AES-GCM nonce length packed after the salt
	GCMNonceSize = 12
	// AESKeySize is the derived AES-256 key length
	AESKeySize = 32
)

// ECIES parameters (secp256k1 + AES-256-CBC + HMAC-SHA256)
const (
	// UncompressedPubKeySize is a 0x04-prefixed secp256k1 point
	UncompressedPubKeySize = 65
	// CBCIVSize is the AES-CBC initialization vector length
	CBCIVSize = 16
	// MACSize is the HMAC-SHA256 authentication tag length
	MACSize = 32
	// MinECIESCiphertextSize is used by the looks-like-ciphertext heuristic
	MinECIESCiphertextSize = 50
)

// Ethereum primitives
const (
	// AddressHexLength is a 20-byte address without the 0x prefix
	AddressHexLength = 40
	// TxHashHexLength is a 32-byte transaction hash without the 0x prefix
	TxHashHexLength = 64
)
