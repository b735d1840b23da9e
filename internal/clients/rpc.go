// Package clients holds the outbound HTTP clients: a minimal JSON-RPC
// client for node endpoints and an explorer API client for account history
// and cross-network lookups.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Inkwell-Network/inkwell/internal/domain"
	"github.com/Inkwell-Network/inkwell/internal/errors"
	"github.com/Inkwell-Network/inkwell/internal/metrics"
)

// RPCClient speaks eth-family JSON-RPC 2.0 over HTTP. It implements
// domain.TransactionFetcher.
type RPCClient struct {
	client *http.Client
}

// NewRPCClient creates a JSON-RPC client with the given request timeout.
func NewRPCClient(timeout time.Duration) *RPCClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &RPCClient{
		client: &http.Client{Timeout: timeout},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error,omitempty"`
}

// FetchTransaction retrieves a transaction by hash from a node endpoint.
// A null result means the node does not know the hash; that is reported as
// a not-found error rather than an empty record.
func (c *RPCClient) FetchTransaction(ctx context.Context, rpcURL, txHash string) (*domain.TransactionRecord, error) {
	raw, err := c.call(ctx, rpcURL, "eth_getTransactionByHash", []any{txHash})
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, errors.TransactionNotFoundError(txHash, 0)
	}

	var rec domain.TransactionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, errors.RPCError("eth_getTransactionByHash", fmt.Errorf("decode result: %w", err))
	}
	return &rec, nil
}

func (c *RPCClient) call(ctx context.Context, rpcURL, method string, params []any) (json.RawMessage, error) {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", Method: method, Params: params, ID: 1})
	if err != nil {
		return nil, errors.RPCError(method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rpcURL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.RPCError(method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RPCRequests.WithLabelValues(method, "transport_error").Inc()
		return nil, errors.RPCError(method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RPCRequests.WithLabelValues(method, "http_error").Inc()
		return nil, errors.RPCError(method, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		metrics.RPCRequests.WithLabelValues(method, "decode_error").Inc()
		return nil, errors.RPCError(method, fmt.Errorf("decode response: %w", err))
	}
	if rpcResp.Error != nil {
		metrics.RPCRequests.WithLabelValues(method, "rpc_error").Inc()
		return nil, errors.RPCError(method, fmt.Errorf("code %d: %s", rpcResp.Error.Code, rpcResp.Error.Message))
	}

	metrics.RPCRequests.WithLabelValues(method, "success").Inc()
	return rpcResp.Result, nil
}
