package identity

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	id, err := Generate()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(id.PublicKey, "0x04"))
	assert.Len(t, id.PublicKey, 2+130)
	assert.Len(t, id.PrivateKey, 64)
	assert.True(t, strings.HasPrefix(id.Address, "0x"))
	assert.Len(t, id.Address, 42)
}

func TestGetOrCreatePersists(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	first, err := GetOrCreate()
	require.NoError(t, err)

	// A second call must load the same identity, not mint a new one.
	second, err := GetOrCreate()
	require.NoError(t, err)
	assert.Equal(t, first.PublicKey, second.PublicKey)
	assert.Equal(t, first.Address, second.Address)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	keyPath := filepath.Join(home, KeyDir, KeyFileName)

	info, err := os.Stat(keyPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// The key file holds the bare private key hex, nothing derived.
	content, err := os.ReadFile(keyPath)
	require.NoError(t, err)
	assert.Equal(t, first.PrivateKey, strings.TrimSpace(string(content)))
}

func TestLoadRejectsCorruptKeyFiles(t *testing.T) {
	dir := t.TempDir()

	write := func(content string) string {
		path := filepath.Join(dir, "identity.key")
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))
		return path
	}

	_, err := load(write("not hex"))
	assert.Error(t, err)

	_, err = load(write("abcd")) // too short
	assert.Error(t, err)

	_, err = load(write(strings.Repeat("00", 32)))
	assert.Error(t, err, "the zero scalar is not a usable key")
}

func TestLoadAcceptsPrefixedKey(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	id, err := GetOrCreate()
	require.NoError(t, err)

	home, _ := os.UserHomeDir()
	keyPath := filepath.Join(home, KeyDir, KeyFileName)
	require.NoError(t, os.WriteFile(keyPath, []byte("0x"+id.PrivateKey+"\n"), 0600))

	reloaded, err := GetOrCreate()
	require.NoError(t, err)
	assert.Equal(t, id.Address, reloaded.Address)
}
