package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Inkwell-Network/inkwell/internal/chains"
	"github.com/Inkwell-Network/inkwell/internal/domain"
	"github.com/Inkwell-Network/inkwell/internal/errors"
	"github.com/Inkwell-Network/inkwell/internal/metrics"
	"golang.org/x/time/rate"
)

// ExplorerClient talks to etherscan-family block explorer APIs. One shared
// rate limiter covers all networks because the free tiers throttle per key,
// not per chain. It implements domain.TransactionLister and
// domain.TransactionLocator.
type ExplorerClient struct {
	client  *http.Client
	limiter *rate.Limiter
	apiKey  string
}

// NewExplorerClient creates an explorer client. requestsPerSecond bounds the
// outbound rate; the free etherscan tier allows 5 req/s.
func NewExplorerClient(timeout time.Duration, requestsPerSecond float64, apiKey string) *ExplorerClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 5
	}
	return &ExplorerClient{
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		apiKey:  apiKey,
	}
}

// explorerEnvelope is the etherscan response framing for account-module
// calls: status "1" is success, "0" with message "No transactions found" is
// an empty (not failed) result.
type explorerEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// proxyEnvelope is the framing for proxy-module calls, which mirror raw
// JSON-RPC and carry no status field.
type proxyEnvelope struct {
	Result json.RawMessage `json:"result"`
}

// ListOutgoing returns up to limit transactions sent FROM the given address,
// newest first. Incoming transactions are filtered out because only outgoing
// ones carry the address's own signature.
func (c *ExplorerClient) ListOutgoing(ctx context.Context, network chains.Network, address string, limit int) ([]domain.TransactionRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	params := url.Values{}
	params.Set("module", "account")
	params.Set("action", "txlist")
	params.Set("address", address)
	params.Set("startblock", "0")
	params.Set("endblock", "99999999")
	params.Set("page", "1")
	params.Set("offset", fmt.Sprintf("%d", limit*2))
	params.Set("sort", "desc")

	body, err := c.get(ctx, network, "txlist", params)
	if err != nil {
		return nil, err
	}

	var env explorerEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, errors.ExplorerError("txlist", fmt.Errorf("decode envelope: %w", err))
	}
	if env.Status != "1" {
		// Status "0" with an empty result list is a clean miss.
		var empty []json.RawMessage
		if json.Unmarshal(env.Result, &empty) == nil && len(empty) == 0 {
			return nil, nil
		}
		return nil, errors.ExplorerError("txlist", fmt.Errorf("status %s: %s", env.Status, env.Message))
	}

	var txs []domain.TransactionRecord
	if err := json.Unmarshal(env.Result, &txs); err != nil {
		return nil, errors.ExplorerError("txlist", fmt.Errorf("decode result: %w", err))
	}

	outgoing := make([]domain.TransactionRecord, 0, limit)
	for _, tx := range txs {
		if !sameHexAddress(tx.From, address) {
			continue
		}
		outgoing = append(outgoing, tx)
		if len(outgoing) == limit {
			break
		}
	}
	return outgoing, nil
}

// HasTransaction checks whether the network's explorer knows the given
// transaction hash.
func (c *ExplorerClient) HasTransaction(ctx context.Context, network chains.Network, txHash string) (bool, error) {
	params := url.Values{}
	params.Set("module", "proxy")
	params.Set("action", "eth_getTransactionByHash")
	params.Set("txhash", txHash)

	body, err := c.get(ctx, network, "eth_getTransactionByHash", params)
	if err != nil {
		return false, err
	}

	var env proxyEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return false, errors.ExplorerError("eth_getTransactionByHash", fmt.Errorf("decode envelope: %w", err))
	}
	return len(env.Result) > 0 && string(env.Result) != "null", nil
}

func (c *ExplorerClient) get(ctx context.Context, network chains.Network, action string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.ExplorerError(action, err)
	}
	if c.apiKey != "" {
		params.Set("apikey", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, network.ExplorerAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.ExplorerError(action, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.ExplorerRequests.WithLabelValues(action, "transport_error").Inc()
		return nil, errors.ExplorerError(action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ExplorerRequests.WithLabelValues(action, "http_error").Inc()
		return nil, errors.ExplorerError(action, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ExplorerRequests.WithLabelValues(action, "read_error").Inc()
		return nil, errors.ExplorerError(action, err)
	}
	metrics.ExplorerRequests.WithLabelValues(action, "success").Inc()
	return buf, nil
}

func sameHexAddress(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
