package recovery

import (
	"fmt"
	"math/big"

	"github.com/Inkwell-Network/inkwell/internal/domain"
)

// TxKind is a closed set of transaction kinds the engine can reconstruct a
// signing hash for. New kinds get a new variant here, never a widened string
// comparison, so unsupported types fail loudly.
type TxKind int

const (
	// TxLegacy is a type-0 transaction, EIP-155 or earlier
	TxLegacy TxKind = iota
	// TxDynamicFee is a type-2 (EIP-1559) transaction
	TxDynamicFee
	// TxOther is any advertised type the engine only supports best-effort
	TxOther
)

func (k TxKind) String() string {
	switch k {
	case TxLegacy:
		return "legacy"
	case TxDynamicFee:
		return "dynamic_fee"
	default:
		return "other"
	}
}

// SignableTx reconstructs the exact pre-signature byte sequence of a
// transaction. Any deviation in field order or framing produces a
// syntactically valid but cryptographically wrong key with no error signal,
// so these implementations change only together with golden-vector tests.
type SignableTx interface {
	Kind() TxKind
	SigningHash() []byte
}

type txFields struct {
	nonce    uint64
	gas      uint64
	to       []byte // nil for contract creation
	value    *big.Int
	data     []byte
	chainID  *big.Int
	gasPrice *big.Int
	tipCap   *big.Int // maxPriorityFeePerGas
	feeCap   *big.Int // maxFeePerGas
}

// LegacyTx hashes as keccak256(RLP([nonce, gasPrice, gas, to, value, data,
// chainId, 0, 0])) per EIP-155; without a chain ID the trailing three fields
// are omitted entirely (pre-EIP-155 form).
type LegacyTx struct{ txFields }

func (tx *LegacyTx) Kind() TxKind { return TxLegacy }

func (tx *LegacyTx) SigningHash() []byte {
	items := rlpList{
		rlpUint64(tx.nonce),
		rlpBigInt(tx.gasPrice),
		rlpUint64(tx.gas),
		rlpBytes(tx.to),
		rlpBigInt(tx.value),
		rlpBytes(tx.data),
	}
	if tx.chainID != nil && tx.chainID.Sign() != 0 {
		items = append(items, rlpBigInt(tx.chainID), rlpUint64(0), rlpUint64(0))
	}
	return Keccak256(items.encodeRLP())
}

// DynamicFeeTx hashes as keccak256(0x02 || RLP([chainId, nonce,
// maxPriorityFeePerGas, maxFeePerGas, gas, to, value, data, accessList])).
// The engine only produces messages without access lists, so the list is
// always empty.
type DynamicFeeTx struct{ txFields }

func (tx *DynamicFeeTx) Kind() TxKind { return TxDynamicFee }

func (tx *DynamicFeeTx) SigningHash() []byte {
	items := rlpList{
		rlpBigInt(tx.chainID),
		rlpUint64(tx.nonce),
		rlpBigInt(tx.tipCap),
		rlpBigInt(tx.feeCap),
		rlpUint64(tx.gas),
		rlpBytes(tx.to),
		rlpBigInt(tx.value),
		rlpBytes(tx.data),
		rlpList{},
	}
	payload := items.encodeRLP()
	return Keccak256(append([]byte{0x02}, payload...))
}

// FallbackTx is the best-effort reconstruction for advertised types the
// engine does not know. It serializes legacy-shaped but includes whichever
// fee fields the record actually carries so signable data is never silently
// dropped. This is a documented approximation, not an exact hash.
type FallbackTx struct {
	txFields
	rawType uint64
}

func (tx *FallbackTx) Kind() TxKind { return TxOther }

// RawType is the advertised transaction type this reconstruction guessed at.
func (tx *FallbackTx) RawType() uint64 { return tx.rawType }

func (tx *FallbackTx) SigningHash() []byte {
	items := rlpList{rlpUint64(tx.nonce)}
	if tx.gasPrice != nil && tx.gasPrice.Sign() != 0 {
		items = append(items, rlpBigInt(tx.gasPrice))
	} else {
		items = append(items, rlpBigInt(tx.tipCap), rlpBigInt(tx.feeCap))
	}
	items = append(items,
		rlpUint64(tx.gas),
		rlpBytes(tx.to),
		rlpBigInt(tx.value),
		rlpBytes(tx.data),
		rlpBigInt(tx.chainID),
		rlpUint64(0),
		rlpUint64(0),
	)
	return Keccak256(items.encodeRLP())
}

// SignableFromRecord parses a raw transaction record into its signable
// variant.
func SignableFromRecord(rec *domain.TransactionRecord) (SignableTx, error) {
	fields, err := parseFields(rec)
	if err != nil {
		return nil, err
	}
	txType, err := domain.HexToUint64(rec.Type)
	if err != nil {
		return nil, fmt.Errorf("parse type: %w", err)
	}
	switch txType {
	case 0:
		return &LegacyTx{*fields}, nil
	case 2:
		return &DynamicFeeTx{*fields}, nil
	default:
		return &FallbackTx{txFields: *fields, rawType: txType}, nil
	}
}

func parseFields(rec *domain.TransactionRecord) (*txFields, error) {
	var f txFields
	var err error
	if f.nonce, err = domain.HexToUint64(rec.Nonce); err != nil {
		return nil, fmt.Errorf("parse nonce: %w", err)
	}
	if f.gas, err = domain.HexToUint64(rec.Gas); err != nil {
		return nil, fmt.Errorf("parse gas: %w", err)
	}
	if f.value, err = domain.HexToBig(rec.Value); err != nil {
		return nil, fmt.Errorf("parse value: %w", err)
	}
	if f.chainID, err = domain.HexToBig(rec.ChainID); err != nil {
		return nil, fmt.Errorf("parse chainId: %w", err)
	}
	if f.gasPrice, err = domain.HexToBig(rec.GasPrice); err != nil {
		return nil, fmt.Errorf("parse gasPrice: %w", err)
	}
	if f.tipCap, err = domain.HexToBig(rec.MaxPriorityFeePerGas); err != nil {
		return nil, fmt.Errorf("parse maxPriorityFeePerGas: %w", err)
	}
	if f.feeCap, err = domain.HexToBig(rec.MaxFeePerGas); err != nil {
		return nil, fmt.Errorf("parse maxFeePerGas: %w", err)
	}
	if f.data, err = domain.HexToBytes(rec.Input); err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}
	if rec.To != "" && rec.To != "0x" {
		to, err := domain.HexToBytes(rec.To)
		if err != nil || len(to) != 20 {
			return nil, fmt.Errorf("parse to address %q", rec.To)
		}
		f.to = to
	}
	return &f, nil
}
