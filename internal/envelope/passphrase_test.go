package envelope

import (
	"strings"
	"testing"

	"github.com/Inkwell-Network/inkwell/internal/constants"
	"github.com/Inkwell-Network/inkwell/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassphraseRoundTrip(t *testing.T) {
	cases := []string{
		"short",
		"a longer message with spaces and punctuation!",
		"ünïcødé 日本語 🔑",
		strings.Repeat("x", 4096),
	}
	for _, plaintext := range cases {
		sealed, err := EncryptWithPassphrase(plaintext, "correct horse battery staple")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(sealed, constants.PassphrasePrefix))

		opened, err := DecryptWithPassphrase(sealed, "correct horse battery staple")
		require.NoError(t, err)
		assert.Equal(t, plaintext, opened)
	}
}

func TestPassphraseCiphertextsDiffer(t *testing.T) {
	// Random salt and nonce must make two encryptions of the same input
	// distinct, and both must still decrypt.
	first, err := EncryptWithPassphrase("same message", "same pass")
	require.NoError(t, err)
	second, err := EncryptWithPassphrase("same message", "same pass")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	for _, sealed := range []string{first, second} {
		opened, err := DecryptWithPassphrase(sealed, "same pass")
		require.NoError(t, err)
		assert.Equal(t, "same message", opened)
	}
}

func TestPassphraseWrongPassphrase(t *testing.T) {
	sealed, err := EncryptWithPassphrase("secret", "right")
	require.NoError(t, err)

	_, err = DecryptWithPassphrase(sealed, "wrong")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeDecryptionFailed))
}

func TestPassphraseTamperedCiphertext(t *testing.T) {
	sealed, err := EncryptWithPassphrase("secret", "pass")
	require.NoError(t, err)

	// Flip one character inside the base64 body.
	body := []byte(sealed)
	i := len(constants.PassphrasePrefix) + 5
	if body[i] == 'A' {
		body[i] = 'B'
	} else {
		body[i] = 'A'
	}

	_, err = DecryptWithPassphrase(string(body), "pass")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeDecryptionFailed))
}

func TestPassphraseLegacyFraming(t *testing.T) {
	// The same inner bytes must decrypt identically under both framings.
	sealed, err := EncryptWithPassphrase("legacy payload", "pass")
	require.NoError(t, err)
	inner := strings.TrimPrefix(sealed, constants.PassphrasePrefix)
	legacy := constants.LegacyPassphrasePrefix + inner + constants.LegacyPassphraseSuffix

	opened, err := DecryptWithPassphrase(legacy, "pass")
	require.NoError(t, err)
	assert.Equal(t, "legacy payload", opened)
}

func TestPassphraseEmptyInputs(t *testing.T) {
	_, err := EncryptWithPassphrase("", "pass")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeEmptyInput))

	_, err = EncryptWithPassphrase("message", "")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeEmptyInput))
}

func TestDecryptRejectsUnframedPayload(t *testing.T) {
	_, err := DecryptWithPassphrase("just some plaintext", "pass")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeNotAnEncryptedPayload))
}

func TestDecryptGarbledBodyIsGeneric(t *testing.T) {
	// A valid prefix with an unparseable body must fail with the same
	// generic code as a wrong passphrase.
	_, err := DecryptWithPassphrase(constants.PassphrasePrefix+"!!!not-base64!!!", "pass")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeDecryptionFailed))

	_, err = DecryptWithPassphrase(constants.PassphrasePrefix+"c2hvcnQ=", "pass")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeDecryptionFailed))
}
