package domain

import (
	"context"

	"github.com/Inkwell-Network/inkwell/internal/chains"
)

// TransactionFetcher retrieves a full transaction record, signature fields
// included, from a chain's RPC endpoint.
type TransactionFetcher interface {
	FetchTransaction(ctx context.Context, rpcURL, txHash string) (*TransactionRecord, error)
}

// TransactionLister returns an address's most recent outgoing transactions,
// newest first, from an indexing collaborator.
type TransactionLister interface {
	ListOutgoing(ctx context.Context, network chains.Network, address string, limit int) ([]TransactionRecord, error)
}

// TransactionLocator checks whether a network's lookup endpoint knows a
// transaction hash at all.
type TransactionLocator interface {
	HasTransaction(ctx context.Context, network chains.Network, txHash string) (bool, error)
}
