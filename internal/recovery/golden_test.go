package recovery

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/Inkwell-Network/inkwell/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests pin the signing-hash reconstruction to fixed, externally
// computed values. Unlike the sign-then-recover tests, a field-ordering or
// framing bug cannot cancel out here: the expected hashes and signatures were
// produced outside this codebase.

func hexBig(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 16)
	require.True(t, ok)
	return v
}

// TestLegacySigningHashVector is the worked example from the EIP-155
// appendix: nonce 9, gas price 20 gwei, 21000 gas, 1 ether to 0x3535...35 on
// chain 1, signed by the key 0x4646...46.
func TestLegacySigningHashVector(t *testing.T) {
	rec := &domain.TransactionRecord{
		Type:     "0x0",
		Nonce:    "0x9",
		GasPrice: "0x4a817c800",
		Gas:      "0x5208",
		To:       "0x3535353535353535353535353535353535353535",
		Value:    "0xde0b6b3a7640000",
		Input:    "0x",
		ChainID:  "0x1",
	}
	tx, err := SignableFromRecord(rec)
	require.NoError(t, err)
	require.Equal(t, TxLegacy, tx.Kind())
	assert.Equal(t,
		"daf5a779ae972f972197303d7b574746c7ef83eadac0f2791ad23db92e4c8e53",
		hex.EncodeToString(tx.SigningHash()))

	// The published signature (v = 37) must recover the documented sender.
	pub, err := RecoverPublicKey(tx.SigningHash(),
		hexBig(t, "28ef61340bd939bc2195fe537567866003e1a15d3c71ff63e1590620aa636276"),
		hexBig(t, "67cbe9d8997f761aecb703304b3800ccf555c9f3dc64214b297fb1966a3b6d83"),
		big.NewInt(37))
	require.NoError(t, err)
	addr, err := PubKeyToChecksumAddress(pub)
	require.NoError(t, err)
	assert.Equal(t, "0x9d8A62f656a8d1615C1294fd71e9CFb3E4855A4F", addr)
}

// TestDynamicFeeSigningHashVector pins the type-2 preimage
// 0x02 || RLP([chainId, nonce, tipCap, feeCap, gas, to, value, data, []]).
// The signature below was computed offline over the fixed hash with the
// private key 1, so the recovered key must be the curve generator.
func TestDynamicFeeSigningHashVector(t *testing.T) {
	rec := &domain.TransactionRecord{
		Type:                 "0x2",
		ChainID:              "0x1",
		Nonce:                "0x3",
		MaxPriorityFeePerGas: "0x3b9aca00",
		MaxFeePerGas:         "0x6fc23ac00",
		Gas:                  "0x5208",
		To:                   "0x3535353535353535353535353535353535353535",
		Value:                "0xde0b6b3a7640000",
		Input:                "0x",
	}
	tx, err := SignableFromRecord(rec)
	require.NoError(t, err)
	require.Equal(t, TxDynamicFee, tx.Kind())
	assert.Equal(t,
		"70875480ed9e389e3160a86aafb276a6dfad17639c3645eaf70ef93a29bfdf41",
		hex.EncodeToString(tx.SigningHash()))

	pub, err := RecoverPublicKey(tx.SigningHash(),
		hexBig(t, "ef84cf98c4440a4717a0ef1c713a3c229b735017dbc5137f24139c03a801203c"),
		hexBig(t, "3fdb0a4d3bf3ad8d1a205d00fa33ad439c5830ff2ed4e46a6b3f7ff84512befa"),
		big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t,
		"0479be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"+
			"483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8",
		hex.EncodeToString(pub))
	addr, err := PubKeyToChecksumAddress(pub)
	require.NoError(t, err)
	assert.Equal(t, "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf", addr)
}
