package errors

import "fmt"

// Stable error codes for the message-protocol core. Callers discriminate on
// these, so they are part of the public contract and must not change.
const (
	CodeMalformedHex             = "MALFORMED_HEX"
	CodeEmptyInput               = "EMPTY_INPUT"
	CodeTransactionNotFound      = "TRANSACTION_NOT_FOUND"
	CodeTxNotFoundOnAnyNetwork   = "TRANSACTION_NOT_FOUND_ON_ANY_NETWORK"
	CodeSignatureRecoveryFailed  = "SIGNATURE_RECOVERY_FAILED"
	CodeAddressMismatch          = "ADDRESS_MISMATCH"
	CodeNoOutgoingTransactions   = "NO_OUTGOING_TRANSACTIONS_FOUND"
	CodeInvalidPublicKey         = "INVALID_PUBLIC_KEY"
	CodeInvalidPrivateKey        = "INVALID_PRIVATE_KEY"
	CodeDecryptionFailed         = "DECRYPTION_FAILED"
	CodeCiphertextMalformed      = "CIPHERTEXT_MALFORMED"
	CodeNotAnEncryptedPayload    = "NOT_AN_ENCRYPTED_PAYLOAD"
	CodeExplorerError            = "EXPLORER_ERROR"
	CodeRPCError                 = "RPC_ERROR"
	CodeUnsupportedTransactionTy = "UNSUPPORTED_TRANSACTION_TYPE"
)

// MalformedHexError creates an error for hex payloads that cannot be decoded
func MalformedHexError(reason string) *AppError {
	return New(ErrorTypeCodec, CodeMalformedHex, fmt.Sprintf("Malformed hex input: %s", reason)).
		WithSeverity(SeverityLow).
		WithUserMessage("The calldata is not valid hex.")
}

// EmptyInputError creates an error for blank input where content is required
func EmptyInputError(field string) *AppError {
	return New(ErrorTypeValidation, CodeEmptyInput, fmt.Sprintf("Empty input: %s", field)).
		WithSeverity(SeverityLow).
		WithUserMessage(fmt.Sprintf("%s must not be empty.", field))
}

// TransactionNotFoundError creates an error for a transaction missing on one chain
func TransactionNotFoundError(txHash string, chainID uint64) *AppError {
	return New(ErrorTypeNotFound, CodeTransactionNotFound, "Transaction not found").
		WithSeverity(SeverityLow).
		WithDetails(fmt.Sprintf("tx %s on chain %d", txHash, chainID)).
		WithUserMessage("The transaction could not be found on this network.")
}

// TransactionNotFoundOnAnyNetworkError creates an error after exhausting all networks
func TransactionNotFoundOnAnyNetworkError(txHash string, tried int) *AppError {
	return New(ErrorTypeNotFound, CodeTxNotFoundOnAnyNetwork, "Transaction not found on any configured network").
		WithSeverity(SeverityMedium).
		WithDetails(fmt.Sprintf("tx %s, %d networks tried", txHash, tried)).
		WithUserMessage("The transaction was not found on any supported network.")
}

// SignatureRecoveryError creates an error for malformed or inconsistent signatures
func SignatureRecoveryError(cause error) *AppError {
	return Wrap(cause, ErrorTypeRecovery, CodeSignatureRecoveryFailed, "ECDSA public key recovery failed").
		WithSeverity(SeverityMedium).
		WithUserMessage("The transaction signature could not be recovered.")
}

// AddressMismatchError creates the security-relevant error raised when a
// recovered key does not belong to the expected address. Never suppressed.
func AddressMismatchError(expected, derived string) *AppError {
	return New(ErrorTypeRecovery, CodeAddressMismatch, "Recovered key does not match the expected address").
		WithSeverity(SeverityHigh).
		WithDetails(fmt.Sprintf("expected %s, derived %s", expected, derived)).
		WithUserMessage("This key does not belong to the expected address.")
}

// NoOutgoingTransactionsError creates an error after the multi-chain address
// search exhausts every configured network
func NoOutgoingTransactionsError(address string, tried int) *AppError {
	return New(ErrorTypeNotFound, CodeNoOutgoingTransactions, "No outgoing transactions found for address").
		WithSeverity(SeverityMedium).
		WithDetails(fmt.Sprintf("address %s, %d networks tried", address, tried)).
		WithUserMessage("No outgoing transaction was found for this address on any supported network, so its public key cannot be recovered.")
}

// InvalidPublicKeyError creates an error for unusable recipient keys
func InvalidPublicKeyError(reason string) *AppError {
	return New(ErrorTypeCrypto, CodeInvalidPublicKey, fmt.Sprintf("Invalid public key: %s", reason)).
		WithSeverity(SeverityLow).
		WithUserMessage("The recipient public key is not valid.")
}

// InvalidPrivateKeyError creates an error for unusable decryption keys
func InvalidPrivateKeyError(reason string) *AppError {
	return New(ErrorTypeCrypto, CodeInvalidPrivateKey, fmt.Sprintf("Invalid private key: %s", reason)).
		WithSeverity(SeverityLow).
		WithUserMessage("The private key is not valid.")
}

// DecryptionFailedError creates the deliberately generic decryption error.
// It covers both AEAD tag failure and ECIES MAC failure so callers cannot
// learn why decryption failed.
func DecryptionFailedError() *AppError {
	return New(ErrorTypeCrypto, CodeDecryptionFailed, "Decryption failed").
		WithSeverity(SeverityMedium).
		WithUserMessage("Wrong passphrase or key, or the data is corrupted.")
}

// CiphertextMalformedError creates an error for ciphertext that cannot even
// be parsed into its framing parts. Distinct from an authentication failure.
func CiphertextMalformedError(reason string) *AppError {
	return New(ErrorTypeCrypto, CodeCiphertextMalformed, fmt.Sprintf("Ciphertext malformed: %s", reason)).
		WithSeverity(SeverityLow).
		WithUserMessage("The encrypted payload is malformed.")
}

// NotAnEncryptedPayloadError creates an error for plaintext handed to decrypt
func NotAnEncryptedPayloadError() *AppError {
	return New(ErrorTypeValidation, CodeNotAnEncryptedPayload, "Payload carries no known envelope prefix").
		WithSeverity(SeverityLow).
		WithUserMessage("This message is not encrypted.")
}

// ExplorerError creates an error for block-explorer API failures
func ExplorerError(operation string, cause error) *AppError {
	return Wrap(cause, ErrorTypeNetwork, CodeExplorerError, fmt.Sprintf("Explorer %s failed", operation)).
		WithSeverity(SeverityMedium).
		WithUserMessage("The block explorer is temporarily unavailable. Please try again.")
}

// RPCError creates an error for JSON-RPC transport failures
func RPCError(method string, cause error) *AppError {
	return Wrap(cause, ErrorTypeNetwork, CodeRPCError, fmt.Sprintf("RPC call %s failed", method)).
		WithSeverity(SeverityMedium).
		WithUserMessage("The RPC endpoint is temporarily unavailable. Please try again.")
}

// ValidationError creates an error for rejected request input
func ValidationError(field, reason string) *AppError {
	return New(ErrorTypeValidation, "INVALID_INPUT", fmt.Sprintf("Invalid %s: %s", field, reason)).
		WithSeverity(SeverityLow).
		WithUserMessage(fmt.Sprintf("Invalid %s.", field))
}

// InternalError creates an error for unexpected internal failures
func InternalError(message string, cause error) *AppError {
	return Wrap(cause, ErrorTypeInternal, "INTERNAL_ERROR", message).
		WithSeverity(SeverityHigh).
		WithUserMessage("An internal error occurred. Please try again later.")
}
