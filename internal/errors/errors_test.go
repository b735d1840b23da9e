package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsAppErrorThroughWrapping(t *testing.T) {
	appErr := TransactionNotFoundError("0xabc", 1)
	wrapped := fmt.Errorf("outer context: %w", appErr)

	got, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeTransactionNotFound, got.Code)
	assert.Equal(t, ErrorTypeNotFound, got.Type)

	_, ok = AsAppError(stderrors.New("plain"))
	assert.False(t, ok)
}

func TestHasCode(t *testing.T) {
	err := DecryptionFailedError()
	assert.True(t, HasCode(err, CodeDecryptionFailed))
	assert.False(t, HasCode(err, CodeMalformedHex))
	assert.False(t, HasCode(stderrors.New("plain"), CodeDecryptionFailed))
	assert.False(t, HasCode(nil, CodeDecryptionFailed))
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(RPCError("eth_getTransactionByHash", stderrors.New("timeout"))))
	assert.True(t, Retryable(ExplorerError("txlist", stderrors.New("503"))))
	assert.True(t, Retryable(TransactionNotFoundError("0xabc", 1)), "may not be indexed yet")

	assert.False(t, Retryable(NoOutgoingTransactionsError("0xabc", 3)))
	assert.False(t, Retryable(DecryptionFailedError()))
	assert.False(t, Retryable(AddressMismatchError("0xa", "0xb")))
	assert.False(t, Retryable(MalformedHexError("odd length")))
	assert.False(t, Retryable(stderrors.New("plain")))
}

func TestWrapCarriesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := RPCError("eth_call", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Contains(t, err.Error(), "RPC_ERROR")
}

func TestAddressMismatchIsHighSeverity(t *testing.T) {
	appErr, ok := AsAppError(AddressMismatchError("0xwant", "0xgot"))
	require.True(t, ok)
	assert.Equal(t, SeverityHigh, appErr.Severity)
}
