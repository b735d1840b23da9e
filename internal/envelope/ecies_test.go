package envelope

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/Inkwell-Network/inkwell/internal/constants"
	"github.com/Inkwell-Network/inkwell/internal/errors"
	"github.com/Inkwell-Network/inkwell/internal/metrics"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKeypair(t *testing.T) (privHex, pubHex string) {
	t.Helper()
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	return hex.EncodeToString(priv.Serialize()),
		hex.EncodeToString(priv.PubKey().SerializeUncompressed())
}

func TestECIESRoundTrip(t *testing.T) {
	privHex, pubHex := newTestKeypair(t)

	cases := []string{
		"short",
		"a message long enough to span several AES blocks, with punctuation and spaces",
		"ünïcødé 🔑",
		strings.Repeat("block", 1000),
	}
	for _, plaintext := range cases {
		ciphertext, err := EncryptWithPublicKey(plaintext, pubHex)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(ciphertext), constants.MinECIESCiphertextSize)

		opened, err := DecryptWithPrivateKey(ciphertext, privHex)
		require.NoError(t, err)
		assert.Equal(t, plaintext, opened)
	}
}

func TestECIESKeyNormalization(t *testing.T) {
	privHex, pubHex := newTestKeypair(t)

	// 0x prefix and dropped 04 marker must both be accepted.
	variants := []string{
		pubHex,
		"0x" + pubHex,
		pubHex[2:],        // marker dropped
		"0x" + pubHex[2:], // marker dropped, prefixed
	}
	for _, variant := range variants {
		ciphertext, err := EncryptWithPublicKey("normalized", variant)
		require.NoError(t, err, "variant %q", variant)

		opened, err := DecryptWithPrivateKey(ciphertext, "0x"+privHex)
		require.NoError(t, err)
		assert.Equal(t, "normalized", opened)
	}
}

func TestECIESWrongKey(t *testing.T) {
	_, pubHex := newTestKeypair(t)
	otherPrivHex, _ := newTestKeypair(t)

	ciphertext, err := EncryptWithPublicKey("secret", pubHex)
	require.NoError(t, err)

	_, err = DecryptWithPrivateKey(ciphertext, otherPrivHex)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeDecryptionFailed))
}

func TestECIESTamperedCiphertext(t *testing.T) {
	privHex, pubHex := newTestKeypair(t)

	ciphertext, err := EncryptWithPublicKey("secret", pubHex)
	require.NoError(t, err)

	// Flip a bit in the symmetric body; the MAC must catch it.
	tampered := append([]byte(nil), ciphertext...)
	tampered[constants.UncompressedPubKeySize+constants.CBCIVSize] ^= 0x01

	_, err = DecryptWithPrivateKey(tampered, privHex)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeDecryptionFailed))
}

func TestECIESMalformedCiphertext(t *testing.T) {
	privHex, _ := newTestKeypair(t)

	_, err := DecryptWithPrivateKey([]byte("too short"), privHex)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeCiphertextMalformed))
}

func TestSealOpenEnvelope(t *testing.T) {
	privHex, pubHex := newTestKeypair(t)

	sealed, err := SealWithPublicKey("envelope body", pubHex)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sealed, constants.PublicKeyPrefix))
	assert.Equal(t, FormatPublicKey, DetectFormat(sealed))

	opened, err := OpenWithPrivateKey(sealed, privHex)
	require.NoError(t, err)
	assert.Equal(t, "envelope body", opened)

	_, err = OpenWithPrivateKey("not an envelope", privHex)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeNotAnEncryptedPayload))
}

func TestLooksLikeCiphertext(t *testing.T) {
	_, pubHex := newTestKeypair(t)

	ciphertext, err := EncryptWithPublicKey("plausible payload", pubHex)
	require.NoError(t, err)
	assert.True(t, LooksLikeCiphertext("0x"+hex.EncodeToString(ciphertext)))

	assert.False(t, LooksLikeCiphertext("0xdeadbeef"))
	assert.False(t, LooksLikeCiphertext("not hex at all"))
}

func TestOpenPayloadAcceptsRawCiphertext(t *testing.T) {
	privHex, pubHex := newTestKeypair(t)

	// Raw ciphertext bytes carried without any envelope prefix.
	ciphertext, err := EncryptWithPublicKey("no envelope here", pubHex)
	require.NoError(t, err)
	opened, err := OpenPayloadWithPrivateKey(string(ciphertext), privHex)
	require.NoError(t, err)
	assert.Equal(t, "no envelope here", opened)

	// The prefixed envelope form still opens through the same entry point.
	sealed, err := SealWithPublicKey("with envelope", pubHex)
	require.NoError(t, err)
	opened, err = OpenPayloadWithPrivateKey(sealed, privHex)
	require.NoError(t, err)
	assert.Equal(t, "with envelope", opened)

	// Short unprefixed text is plain data, not a truncated ciphertext.
	_, err = OpenPayloadWithPrivateKey("just a plain message", privHex)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeNotAnEncryptedPayload))

	// A passphrase envelope never falls through to the raw path.
	_, err = OpenPayloadWithPrivateKey(constants.PassphrasePrefix+strings.Repeat("A", 80), privHex)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeNotAnEncryptedPayload))
}

func TestEnvelopeOperationsAreCounted(t *testing.T) {
	privHex, pubHex := newTestKeypair(t)
	encrypted := metrics.EncryptionOps.WithLabelValues("pubkey", "encrypt", "success")
	decrypted := metrics.EncryptionOps.WithLabelValues("pubkey", "decrypt", "success")
	failed := metrics.EncryptionOps.WithLabelValues("pubkey", "decrypt", "error")
	encBefore := testutil.ToFloat64(encrypted)
	decBefore := testutil.ToFloat64(decrypted)
	failBefore := testutil.ToFloat64(failed)

	sealed, err := SealWithPublicKey("counted", pubHex)
	require.NoError(t, err)
	_, err = OpenWithPrivateKey(sealed, privHex)
	require.NoError(t, err)
	otherPrivHex, _ := newTestKeypair(t)
	_, err = OpenWithPrivateKey(sealed, otherPrivHex)
	require.Error(t, err)

	assert.Equal(t, encBefore+1, testutil.ToFloat64(encrypted))
	assert.Equal(t, decBefore+1, testutil.ToFloat64(decrypted))
	assert.Equal(t, failBefore+1, testutil.ToFloat64(failed))
}

func TestParsePublicKeyRejectsGarbage(t *testing.T) {
	_, err := ParsePublicKey("")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeEmptyInput))

	_, err = ParsePublicKey("0x1234")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidPublicKey))

	// Right length, but not a curve point.
	_, err = ParsePublicKey("04" + strings.Repeat("ff", 64))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidPublicKey))
}

func TestParsePrivateKeyRejectsGarbage(t *testing.T) {
	_, err := ParsePrivateKey("abc")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidPrivateKey))

	_, err = ParsePrivateKey(strings.Repeat("00", 32))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidPrivateKey))
}
