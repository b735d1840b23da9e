package recovery

import (
	"strings"
	"testing"

	"github.com/Inkwell-Network/inkwell/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseRecord() *domain.TransactionRecord {
	return &domain.TransactionRecord{
		Hash:     "0x" + strings.Repeat("ef", 32),
		Nonce:    "0x1",
		To:       "0x" + strings.Repeat("42", 20),
		Value:    "0xde0b6b3a7640000",
		Input:    "0x",
		Gas:      "0x5208",
		GasPrice: "0x3b9aca00",
		ChainID:  "0x1",
		Type:     "0x0",
	}
}

func TestSignableFromRecordDispatch(t *testing.T) {
	rec := baseRecord()
	signable, err := SignableFromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, TxLegacy, signable.Kind())

	rec.Type = "0x2"
	signable, err = SignableFromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, TxDynamicFee, signable.Kind())

	rec.Type = "0x1"
	signable, err = SignableFromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, TxOther, signable.Kind())
	assert.Equal(t, uint64(1), signable.(*FallbackTx).RawType())
}

func TestLegacySigningHashIncludesChainID(t *testing.T) {
	withChain := baseRecord()
	signableA, err := SignableFromRecord(withChain)
	require.NoError(t, err)

	// Pre-EIP-155 form omits the trailing (chainId, 0, 0) entirely, so the
	// hashes must differ.
	preEIP155 := baseRecord()
	preEIP155.ChainID = "0x0"
	signableB, err := SignableFromRecord(preEIP155)
	require.NoError(t, err)

	assert.Len(t, signableA.SigningHash(), 32)
	assert.NotEqual(t, signableA.SigningHash(), signableB.SigningHash())
}

func TestSigningHashDiffersByChain(t *testing.T) {
	mainnet := baseRecord()
	signableA, err := SignableFromRecord(mainnet)
	require.NoError(t, err)

	polygon := baseRecord()
	polygon.ChainID = "0x89"
	signableB, err := SignableFromRecord(polygon)
	require.NoError(t, err)

	assert.NotEqual(t, signableA.SigningHash(), signableB.SigningHash())
}

func TestContractCreationHasNoRecipient(t *testing.T) {
	rec := baseRecord()
	rec.To = ""
	signable, err := SignableFromRecord(rec)
	require.NoError(t, err)
	assert.Len(t, signable.SigningHash(), 32)
}

func TestSignableFromRecordRejectsBadFields(t *testing.T) {
	rec := baseRecord()
	rec.To = "0x1234" // not 20 bytes
	_, err := SignableFromRecord(rec)
	assert.Error(t, err)

	rec = baseRecord()
	rec.Nonce = "0xzz"
	_, err = SignableFromRecord(rec)
	assert.Error(t, err)
}
