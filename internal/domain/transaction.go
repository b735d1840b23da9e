// Package domain holds the shared transaction model and the narrow
// collaborator interfaces the recovery engine consumes. External transports
// (JSON-RPC, block explorers) implement these; the engine never talks to the
// network directly.
package domain

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// TransactionRecord is the raw transaction as returned by an RPC endpoint or
// an explorer proxy lookup. All numeric fields stay in their 0x-hex wire form
// until the signing-hash reconstruction parses them, so nothing is lost in
// translation.
type TransactionRecord struct {
	Hash                 string `json:"hash"`
	Nonce                string `json:"nonce"`
	From                 string `json:"from"`
	To                   string `json:"to"`
	Value                string `json:"value"`
	Input                string `json:"input"`
	Gas                  string `json:"gas"`
	GasPrice             string `json:"gasPrice"`
	MaxFeePerGas         string `json:"maxFeePerGas"`
	MaxPriorityFeePerGas string `json:"maxPriorityFeePerGas"`
	ChainID              string `json:"chainId"`
	Type                 string `json:"type"`
	V                    string `json:"v"`
	R                    string `json:"r"`
	S                    string `json:"s"`
	BlockNumber          string `json:"blockNumber"`
}

// HexToBig parses a 0x-hex or decimal quantity. Empty and "0x" mean zero.
func HexToBig(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0x" {
		return new(big.Int), nil
	}
	n := new(big.Int)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		if _, ok := n.SetString(s[2:], 16); !ok {
			return nil, fmt.Errorf("invalid hex quantity %q", s)
		}
		return n, nil
	}
	if _, ok := n.SetString(s, 10); !ok {
		return nil, fmt.Errorf("invalid decimal quantity %q", s)
	}
	return n, nil
}

// HexToUint64 parses a small 0x-hex or decimal quantity.
func HexToUint64(s string) (uint64, error) {
	n, err := HexToBig(s)
	if err != nil {
		return 0, err
	}
	if !n.IsUint64() {
		return 0, fmt.Errorf("quantity %q does not fit uint64", s)
	}
	return n.Uint64(), nil
}

// HexToBytes parses 0x-hex data. Empty and "0x" mean no data.
func HexToBytes(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if s == "" {
		return nil, nil
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex data: %w", err)
	}
	return raw, nil
}
