// Package recovery reconstructs a transaction's signing hash byte-for-byte,
// recovers the sender's uncompressed public key from its on-chain signature,
// and verifies the derived address.
package recovery

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/Inkwell-Network/inkwell/internal/chains"
	"github.com/Inkwell-Network/inkwell/internal/domain"
	"github.com/Inkwell-Network/inkwell/internal/errors"
	"github.com/Inkwell-Network/inkwell/internal/logger"
	"github.com/Inkwell-Network/inkwell/internal/metrics"
	"go.uber.org/zap"
)

// RecoveredPublicKey is the result of one successful recovery.
// DeriveAddress(PublicKey) == DerivedAddress holds by construction.
type RecoveredPublicKey struct {
	PublicKey      string `json:"public_key"` // 65-byte uncompressed point, 0x-hex
	DerivedAddress string `json:"derived_address"`
	SourceTxHash   string `json:"source_tx_hash"`
	ChainID        uint64 `json:"chain_id"`
	ChainName      string `json:"chain_name"`
}

// Engine drives recovery attempts against injected collaborators. It holds
// no mutable state; the network list is immutable configuration.
type Engine struct {
	fetcher  domain.TransactionFetcher
	lister   domain.TransactionLister
	locator  domain.TransactionLocator
	networks []chains.Network
	log      *zap.Logger
}

// NewEngine builds a recovery engine over the given collaborators and
// network list.
func NewEngine(fetcher domain.TransactionFetcher, lister domain.TransactionLister, locator domain.TransactionLocator, networks []chains.Network) *Engine {
	return &Engine{
		fetcher:  fetcher,
		lister:   lister,
		locator:  locator,
		networks: networks,
		log:      logger.New("recovery"),
	}
}

// Networks exposes the engine's immutable network list.
func (e *Engine) Networks() []chains.Network {
	return append([]chains.Network(nil), e.networks...)
}

// RecoverFromTransaction recovers the sender public key of one known
// transaction on one known network.
func (e *Engine) RecoverFromTransaction(ctx context.Context, network chains.Network, txHash string) (*RecoveredPublicKey, error) {
	start := time.Now()
	result, err := e.recoverOnce(ctx, network, txHash)
	if err != nil {
		metrics.ObserveRecovery("failure", start)
		return nil, err
	}
	metrics.ObserveRecovery("success", start)
	return result, nil
}

func (e *Engine) recoverOnce(ctx context.Context, network chains.Network, txHash string) (*RecoveredPublicKey, error) {
	rec, err := e.fetcher.FetchTransaction(ctx, network.RPCURL, txHash)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.Hash == "" {
		return nil, errors.TransactionNotFoundError(txHash, network.ChainID)
	}

	signable, err := SignableFromRecord(rec)
	if err != nil {
		return nil, errors.SignatureRecoveryError(err)
	}
	if fallback, ok := signable.(*FallbackTx); ok {
		e.log.Warn("Unsupported transaction type, using best-effort serialization",
			zap.Uint64("type", fallback.RawType()),
			zap.String("tx_hash", txHash))
	}

	r, err := domain.HexToBig(rec.R)
	if err != nil {
		return nil, errors.SignatureRecoveryError(err)
	}
	s, err := domain.HexToBig(rec.S)
	if err != nil {
		return nil, errors.SignatureRecoveryError(err)
	}
	v, err := domain.HexToBig(rec.V)
	if err != nil {
		return nil, errors.SignatureRecoveryError(err)
	}

	pubKey, err := RecoverPublicKey(signable.SigningHash(), r, s, v)
	if err != nil {
		return nil, err
	}
	address, err := PubKeyToChecksumAddress(pubKey)
	if err != nil {
		return nil, errors.SignatureRecoveryError(err)
	}

	e.log.Debug("Recovered public key",
		zap.String("tx_hash", txHash),
		zap.Uint64("chain_id", network.ChainID),
		zap.String("kind", signable.Kind().String()),
		zap.String("derived_address", address))

	return &RecoveredPublicKey{
		PublicKey:      "0x" + hex.EncodeToString(pubKey),
		DerivedAddress: address,
		SourceTxHash:   txHash,
		ChainID:        network.ChainID,
		ChainName:      network.Name,
	}, nil
}

// attemptOutcome is the typed per-network result of the address-driven
// search. Control flow is a fold over the network list, not exceptions:
// skip means try the next network, mismatch aborts the whole search.
type attemptOutcome struct {
	result   *RecoveredPublicKey
	mismatch error
	skip     error
}

// RecoverFromAddress locates a target address's most recent outgoing
// transaction across the configured networks and recovers its public key.
// The recovered key MUST derive back to the target address; a mismatch is
// security-relevant and aborts the search immediately. Every other failure
// moves on to the next network.
func (e *Engine) RecoverFromAddress(ctx context.Context, targetAddress string, preferredChainID uint64) (*RecoveredPublicKey, error) {
	start := time.Now()
	networks := chains.Prioritize(e.networks, preferredChainID)

	for _, network := range networks {
		outcome := e.attemptNetwork(ctx, network, targetAddress)
		switch {
		case outcome.mismatch != nil:
			metrics.ObserveRecovery("mismatch", start)
			return nil, outcome.mismatch
		case outcome.result != nil:
			metrics.ObserveRecovery("success", start)
			return outcome.result, nil
		default:
			e.log.Debug("Network attempt failed, trying next",
				zap.String("network", network.Name),
				zap.Error(outcome.skip))
		}
	}

	metrics.ObserveRecovery("exhausted", start)
	return nil, errors.NoOutgoingTransactionsError(targetAddress, len(networks))
}

func (e *Engine) attemptNetwork(ctx context.Context, network chains.Network, targetAddress string) attemptOutcome {
	txs, err := e.lister.ListOutgoing(ctx, network, targetAddress, 10)
	if err != nil {
		return attemptOutcome{skip: err}
	}
	if len(txs) == 0 {
		return attemptOutcome{skip: errors.TransactionNotFoundError("(none outgoing)", network.ChainID)}
	}

	// Newest outgoing transaction carries the freshest key material.
	result, err := e.recoverOnce(ctx, network, txs[0].Hash)
	if err != nil {
		return attemptOutcome{skip: err}
	}

	if !SameAddress(result.DerivedAddress, targetAddress) {
		return attemptOutcome{mismatch: errors.AddressMismatchError(targetAddress, result.DerivedAddress)}
	}
	return attemptOutcome{result: result}
}

// LocateTransaction finds which configured network a bare transaction hash
// lives on, returning the first network whose lookup endpoint confirms it.
func (e *Engine) LocateTransaction(ctx context.Context, txHash string) (chains.Network, error) {
	for _, network := range e.networks {
		found, err := e.locator.HasTransaction(ctx, network, txHash)
		if err != nil {
			e.log.Debug("Lookup failed, trying next network",
				zap.String("network", network.Name),
				zap.Error(err))
			continue
		}
		if found {
			return network, nil
		}
	}
	return chains.Network{}, errors.TransactionNotFoundOnAnyNetworkError(txHash, len(e.networks))
}
