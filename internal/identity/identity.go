// Package identity manages the node's persistent secp256k1 keypair, used as
// the default recipient key for sealed payloads addressed to this operator.
package identity

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Inkwell-Network/inkwell/internal/recovery"
	"github.com/btcsuite/btcd/btcec/v2"
)

const (
	// KeyFileName is the file where the private key is stored
	KeyFileName = "identity.key"
	// KeyDir is the directory under the user's home for identity files
	KeyDir = ".inkwell"
)

// Identity holds the node's keypair. The private key is only ever stored
// locally, never serialized into responses.
type Identity struct {
	PublicKey  string `json:"public_key"` // 65-byte uncompressed point, 0x-hex
	PrivateKey string `json:"private_key,omitempty"`
	Address    string `json:"address"` // checksummed
}

// Generate creates a fresh secp256k1 identity.
func Generate() (*Identity, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate keypair: %w", err)
	}
	return fromPrivateKey(priv)
}

// GetOrCreate loads the identity from disk or generates and persists a new
// one. The key file holds only the private key hex; everything else is
// derived on load.
func GetOrCreate() (*Identity, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	keyPath := filepath.Join(homeDir, KeyDir, KeyFileName)

	if _, err := os.Stat(keyPath); os.IsNotExist(err) {
		id, err := Generate()
		if err != nil {
			return nil, err
		}
		if err := save(id, keyPath); err != nil {
			return nil, fmt.Errorf("failed to save identity: %w", err)
		}
		return id, nil
	}
	return load(keyPath)
}

func save(id *Identity, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return os.WriteFile(path, []byte(id.PrivateKey+"\n"), 0600)
}

func load(path string) (*Identity, error) {
	cleanedPath := filepath.Clean(path)
	if strings.Contains(cleanedPath, "..") {
		return nil, fmt.Errorf("invalid path: directory traversal detected")
	}

	content, err := os.ReadFile(cleanedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read identity file: %w", err)
	}

	privKeyHex := strings.TrimSpace(string(content))
	privKeyHex = strings.TrimPrefix(privKeyHex, "0x")
	privKeyBytes, err := hex.DecodeString(privKeyHex)
	if err != nil {
		return nil, fmt.Errorf("failed to decode private key: %w", err)
	}
	if len(privKeyBytes) != 32 {
		return nil, fmt.Errorf("private key must be 32 bytes, got %d", len(privKeyBytes))
	}

	priv, _ := btcec.PrivKeyFromBytes(privKeyBytes)
	if priv.Key.IsZero() {
		return nil, fmt.Errorf("private key is zero")
	}
	return fromPrivateKey(priv)
}

func fromPrivateKey(priv *btcec.PrivateKey) (*Identity, error) {
	pubBytes := priv.PubKey().SerializeUncompressed()
	address, err := recovery.PubKeyToChecksumAddress(pubBytes)
	if err != nil {
		return nil, err
	}
	return &Identity{
		PublicKey:  "0x" + hex.EncodeToString(pubBytes),
		PrivateKey: hex.EncodeToString(priv.Serialize()),
		Address:    address,
	}, nil
}
