package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Inkwell-Network/inkwell/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2.0", req.JSONRPC)
		assert.Equal(t, "eth_getTransactionByHash", req.Method)
		require.Len(t, req.Params, 1)
		assert.Equal(t, "0xabc", req.Params[0])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{
			"hash":"0xabc","nonce":"0x7","from":"0xf00d","to":"0xbeef",
			"value":"0x0","gas":"0x5208","gasPrice":"0x3b9aca00",
			"type":"0x0","v":"0x25","r":"0x1","s":"0x2"}}`))
	}))
	defer srv.Close()

	client := NewRPCClient(5 * time.Second)
	rec, err := client.FetchTransaction(context.Background(), srv.URL, "0xabc")
	require.NoError(t, err)
	assert.Equal(t, "0xabc", rec.Hash)
	assert.Equal(t, "0x7", rec.Nonce)
	assert.Equal(t, "0x25", rec.V)
}

func TestFetchTransactionNullResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":null}`))
	}))
	defer srv.Close()

	client := NewRPCClient(5 * time.Second)
	_, err := client.FetchTransaction(context.Background(), srv.URL, "0xmissing")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeTransactionNotFound))
}

func TestFetchTransactionRPCError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"invalid argument"}}`))
	}))
	defer srv.Close()

	client := NewRPCClient(5 * time.Second)
	_, err := client.FetchTransaction(context.Background(), srv.URL, "0xabc")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeRPCError))
	assert.Contains(t, err.Error(), "invalid argument")
}

func TestFetchTransactionHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewRPCClient(5 * time.Second)
	_, err := client.FetchTransaction(context.Background(), srv.URL, "0xabc")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeRPCError))
}
