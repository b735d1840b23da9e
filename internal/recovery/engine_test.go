package recovery

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/Inkwell-Network/inkwell/internal/chains"
	"github.com/Inkwell-Network/inkwell/internal/domain"
	"github.com/Inkwell-Network/inkwell/internal/errors"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	records map[string]*domain.TransactionRecord
	calls   int
}

func (f *stubFetcher) FetchTransaction(_ context.Context, _ string, txHash string) (*domain.TransactionRecord, error) {
	f.calls++
	return f.records[txHash], nil
}

type stubLister struct {
	byChain map[uint64][]domain.TransactionRecord
	calls   []uint64
}

func (l *stubLister) ListOutgoing(_ context.Context, network chains.Network, _ string, _ int) ([]domain.TransactionRecord, error) {
	l.calls = append(l.calls, network.ChainID)
	return l.byChain[network.ChainID], nil
}

type stubLocator struct {
	foundOn uint64
	calls   []uint64
}

func (l *stubLocator) HasTransaction(_ context.Context, network chains.Network, _ string) (bool, error) {
	l.calls = append(l.calls, network.ChainID)
	return network.ChainID == l.foundOn, nil
}

var testNetworks = []chains.Network{
	{ChainID: 1, Name: "Ethereum", RPCURL: "http://rpc.one", ExplorerAPIBase: "http://explorer.one"},
	{ChainID: 137, Name: "Polygon", RPCURL: "http://rpc.two", ExplorerAPIBase: "http://explorer.two"},
}

// signedRecord builds a transaction record, computes its real signing hash,
// and signs it, so the engine has genuine key material to recover.
func signedRecord(t *testing.T, priv *secp256k1.PrivateKey, chainID uint64, txType string) (*domain.TransactionRecord, string) {
	t.Helper()
	rec := &domain.TransactionRecord{
		Hash:    "0x" + strings.Repeat("ab", 32),
		Nonce:   "0x7",
		To:      "0x" + strings.Repeat("11", 20),
		Value:   "0x0",
		Input:   "0x" + hex.EncodeToString([]byte("Return the funds and keep 20%.")),
		Gas:     "0x5208",
		ChainID: fmt.Sprintf("0x%x", chainID),
		Type:    txType,
	}
	if txType == "0x2" {
		rec.MaxPriorityFeePerGas = "0x3b9aca00"
		rec.MaxFeePerGas = "0x6fc23ac00"
	} else {
		rec.GasPrice = "0x3b9aca00"
	}

	signable, err := SignableFromRecord(rec)
	require.NoError(t, err)
	compact := ecdsa.SignCompact(priv, signable.SigningHash(), false)
	recID := uint64(compact[0] - 27)
	rec.R = "0x" + hex.EncodeToString(compact[1:33])
	rec.S = "0x" + hex.EncodeToString(compact[33:65])
	if txType == "0x2" {
		rec.V = fmt.Sprintf("0x%x", recID)
	} else {
		rec.V = fmt.Sprintf("0x%x", chainID*2+35+recID)
	}

	addr, err := PubKeyToChecksumAddress(priv.PubKey().SerializeUncompressed())
	require.NoError(t, err)
	rec.From = addr
	return rec, addr
}

func TestRecoverFromTransactionLegacy(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	rec, addr := signedRecord(t, priv, 1, "0x0")

	fetcher := &stubFetcher{records: map[string]*domain.TransactionRecord{rec.Hash: rec}}
	engine := NewEngine(fetcher, &stubLister{}, &stubLocator{}, testNetworks)

	result, err := engine.RecoverFromTransaction(context.Background(), testNetworks[0], rec.Hash)
	require.NoError(t, err)
	assert.Equal(t, addr, result.DerivedAddress)
	assert.Equal(t, "0x"+hex.EncodeToString(priv.PubKey().SerializeUncompressed()), result.PublicKey)
	assert.Equal(t, rec.Hash, result.SourceTxHash)
	assert.Equal(t, uint64(1), result.ChainID)
	assert.Equal(t, "Ethereum", result.ChainName)
}

func TestRecoverFromTransactionDynamicFee(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	rec, addr := signedRecord(t, priv, 137, "0x2")

	fetcher := &stubFetcher{records: map[string]*domain.TransactionRecord{rec.Hash: rec}}
	engine := NewEngine(fetcher, &stubLister{}, &stubLocator{}, testNetworks)

	result, err := engine.RecoverFromTransaction(context.Background(), testNetworks[1], rec.Hash)
	require.NoError(t, err)
	assert.Equal(t, addr, result.DerivedAddress)
	assert.Equal(t, uint64(137), result.ChainID)
}

func TestRecoverFromTransactionNotFound(t *testing.T) {
	engine := NewEngine(&stubFetcher{}, &stubLister{}, &stubLocator{}, testNetworks)

	_, err := engine.RecoverFromTransaction(context.Background(), testNetworks[0], "0x"+strings.Repeat("00", 32))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeTransactionNotFound))
}

func TestRecoverFromAddress(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	rec, addr := signedRecord(t, priv, 137, "0x0")

	fetcher := &stubFetcher{records: map[string]*domain.TransactionRecord{rec.Hash: rec}}
	lister := &stubLister{byChain: map[uint64][]domain.TransactionRecord{137: {*rec}}}
	engine := NewEngine(fetcher, lister, &stubLocator{}, testNetworks)

	result, err := engine.RecoverFromAddress(context.Background(), addr, 0)
	require.NoError(t, err)
	assert.Equal(t, addr, result.DerivedAddress)

	// Chain 1 had nothing and was skipped before chain 137 succeeded.
	assert.Equal(t, []uint64{1, 137}, lister.calls)
}

func TestRecoverFromAddressPreferredChainFirst(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	rec, addr := signedRecord(t, priv, 137, "0x0")

	fetcher := &stubFetcher{records: map[string]*domain.TransactionRecord{rec.Hash: rec}}
	lister := &stubLister{byChain: map[uint64][]domain.TransactionRecord{137: {*rec}}}
	engine := NewEngine(fetcher, lister, &stubLocator{}, testNetworks)

	_, err = engine.RecoverFromAddress(context.Background(), addr, 137)
	require.NoError(t, err)
	assert.Equal(t, []uint64{137}, lister.calls)
}

func TestRecoverFromAddressMismatchAbortsSearch(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	rec, _ := signedRecord(t, priv, 1, "0x0")

	// The listing attributes someone else's transaction to the target, so the
	// derived address cannot match. That is a security signal, not a skip:
	// the second network must never be consulted.
	target := "0x" + strings.Repeat("22", 20)
	fetcher := &stubFetcher{records: map[string]*domain.TransactionRecord{rec.Hash: rec}}
	lister := &stubLister{byChain: map[uint64][]domain.TransactionRecord{
		1:   {*rec},
		137: {*rec},
	}}
	engine := NewEngine(fetcher, lister, &stubLocator{}, testNetworks)

	_, err = engine.RecoverFromAddress(context.Background(), target, 0)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeAddressMismatch))
	assert.Equal(t, []uint64{1}, lister.calls)
}

func TestRecoverFromAddressExhausted(t *testing.T) {
	lister := &stubLister{byChain: map[uint64][]domain.TransactionRecord{}}
	engine := NewEngine(&stubFetcher{}, lister, &stubLocator{}, testNetworks)

	_, err := engine.RecoverFromAddress(context.Background(), "0x"+strings.Repeat("33", 20), 0)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeNoOutgoingTransactions))
	assert.Equal(t, []uint64{1, 137}, lister.calls)
}

func TestLocateTransaction(t *testing.T) {
	locator := &stubLocator{foundOn: 137}
	engine := NewEngine(&stubFetcher{}, &stubLister{}, locator, testNetworks)

	network, err := engine.LocateTransaction(context.Background(), "0x"+strings.Repeat("cd", 32))
	require.NoError(t, err)
	assert.Equal(t, uint64(137), network.ChainID)
	assert.Equal(t, []uint64{1, 137}, locator.calls)
}

func TestLocateTransactionNotFoundAnywhere(t *testing.T) {
	engine := NewEngine(&stubFetcher{}, &stubLister{}, &stubLocator{}, testNetworks)

	_, err := engine.LocateTransaction(context.Background(), "0x"+strings.Repeat("cd", 32))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeTxNotFoundOnAnyNetwork))
}
