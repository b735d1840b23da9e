package recovery

import (
	"fmt"
	"math/big"

	"github.com/Inkwell-Network/inkwell/internal/errors"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// RecoverPublicKey runs ECDSA public-key recovery against a signing hash and
// the transaction's (r, s, v) signature, returning the 65-byte uncompressed
// point. v may be a raw recovery id {0,1}, the classic {27,28}, or an
// EIP-155 value chainId*2+35+parity; all are normalized before use.
func RecoverPublicKey(signingHash []byte, r, s, v *big.Int) ([]byte, error) {
	if len(signingHash) != 32 {
		return nil, errors.SignatureRecoveryError(fmt.Errorf("signing hash must be 32 bytes, got %d", len(signingHash)))
	}
	recID, err := normalizeV(v)
	if err != nil {
		return nil, errors.SignatureRecoveryError(err)
	}
	rBytes, sBytes := r.Bytes(), s.Bytes()
	if len(rBytes) > 32 || len(sBytes) > 32 {
		return nil, errors.SignatureRecoveryError(fmt.Errorf("r or s exceeds 32 bytes"))
	}

	// Compact layout expected by RecoverCompact: header || r[32] || s[32],
	// header = 27 + recovery id for an uncompressed key.
	compact := make([]byte, 65)
	compact[0] = 27 + recID
	copy(compact[33-len(rBytes):33], rBytes)
	copy(compact[65-len(sBytes):], sBytes)

	pubKey, _, err := ecdsa.RecoverCompact(compact, signingHash)
	if err != nil {
		return nil, errors.SignatureRecoveryError(err)
	}
	return pubKey.SerializeUncompressed(), nil
}

// normalizeV reduces any v encoding to the recovery id {0, 1}.
func normalizeV(v *big.Int) (byte, error) {
	if v == nil {
		return 0, fmt.Errorf("missing v")
	}
	switch {
	case v.Cmp(big.NewInt(35)) >= 0:
		// EIP-155: v = chainId*2 + 35 + parity
		parity := new(big.Int).Sub(v, big.NewInt(35))
		return byte(parity.Bit(0)), nil
	case v.IsUint64() && v.Uint64() >= 27 && v.Uint64() <= 28:
		return byte(v.Uint64() - 27), nil
	case v.IsUint64() && v.Uint64() <= 1:
		return byte(v.Uint64()), nil
	default:
		return 0, fmt.Errorf("unexpected v value %s", v)
	}
}
