// Package web exposes the calldata messaging operations over a JSON API.
package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/Inkwell-Network/inkwell/internal/chains"
	"github.com/Inkwell-Network/inkwell/internal/codec"
	"github.com/Inkwell-Network/inkwell/internal/constants"
	"github.com/Inkwell-Network/inkwell/internal/envelope"
	"github.com/Inkwell-Network/inkwell/internal/errors"
	"github.com/Inkwell-Network/inkwell/internal/identity"
	"github.com/Inkwell-Network/inkwell/internal/metrics"
	"github.com/Inkwell-Network/inkwell/internal/recovery"
	"github.com/Inkwell-Network/inkwell/internal/templates"
	"github.com/Inkwell-Network/inkwell/internal/workers"
	"go.uber.org/zap"
)

var (
	addressPattern = regexp.MustCompile(fmt.Sprintf(`^0x[a-fA-F0-9]{%d}$`, constants.AddressHexLength))
	txHashPattern  = regexp.MustCompile(fmt.Sprintf(`^0x[a-fA-F0-9]{%d}$`, constants.TxHashHexLength))
)

// Handler serves the API endpoints. Crypto-heavy operations run on the
// worker pool so the serving goroutines stay responsive.
type Handler struct {
	engine *recovery.Engine
	pool   *workers.WorkerPool
	logger *zap.Logger
}

// NewHandler creates the API handler.
func NewHandler(engine *recovery.Engine, pool *workers.WorkerPool, logger *zap.Logger) *Handler {
	return &Handler{
		engine: engine,
		pool:   pool,
		logger: logger.Named("web"),
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.ValidationError("body", "invalid JSON request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}

func requirePost(r *http.Request) error {
	if r.Method != http.MethodPost {
		return errors.ValidationError("method", "only POST is allowed on this endpoint")
	}
	return nil
}

// HandleEncode converts a message into 0x-hex calldata.
func (h *Handler) HandleEncode(w http.ResponseWriter, r *http.Request) error {
	if err := requirePost(r); err != nil {
		return err
	}
	var req struct {
		Message string `json:"message"`
	}
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if req.Message == "" {
		return errors.EmptyInputError("message")
	}
	metrics.MessagesEncoded.Inc()
	return writeJSON(w, http.StatusOK, map[string]string{
		"calldata": codec.Encode(req.Message),
	})
}

// HandleDecode converts calldata back into text and classifies it.
func (h *Handler) HandleDecode(w http.ResponseWriter, r *http.Request) error {
	if err := requirePost(r); err != nil {
		return err
	}
	var req struct {
		Calldata string `json:"calldata"`
	}
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if req.Calldata == "" {
		return errors.EmptyInputError("calldata")
	}
	message, err := codec.Decode(req.Calldata)
	if err != nil {
		return err
	}
	format := envelope.DetectFormat(message)
	// Raw ECIES ciphertext carries no envelope prefix; flag it so a caller
	// without the private key still learns the payload is worth decrypting.
	likelyCiphertext := format == envelope.FormatNone && envelope.LooksLikeCiphertext(req.Calldata)
	metrics.MessagesDecoded.Inc()
	return writeJSON(w, http.StatusOK, map[string]any{
		"message":           message,
		"is_likely_text":    codec.IsLikelyText(req.Calldata),
		"encrypted":         format != envelope.FormatNone || likelyCiphertext,
		"format":            format,
		"likely_ciphertext": likelyCiphertext,
	})
}

// HandleSeal encrypts a message into an envelope and its calldata form.
// Exactly one of public_key or passphrase selects the mode.
func (h *Handler) HandleSeal(w http.ResponseWriter, r *http.Request) error {
	if err := requirePost(r); err != nil {
		return err
	}
	var req struct {
		Message    string `json:"message"`
		PublicKey  string `json:"public_key,omitempty"`
		Passphrase string `json:"passphrase,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if req.Message == "" {
		return errors.EmptyInputError("message")
	}
	if (req.PublicKey == "") == (req.Passphrase == "") {
		return errors.ValidationError("mode", "provide exactly one of public_key or passphrase")
	}

	var sealed string
	var sealErr error
	h.pool.Run(func() {
		if req.PublicKey != "" {
			sealed, sealErr = envelope.SealWithPublicKey(req.Message, req.PublicKey)
		} else {
			sealed, sealErr = envelope.EncryptWithPassphrase(req.Message, req.Passphrase)
		}
	})
	if sealErr != nil {
		return sealErr
	}
	return writeJSON(w, http.StatusOK, map[string]string{
		"envelope": sealed,
		"calldata": codec.Encode(sealed),
	})
}

// HandleOpen decrypts an envelope. The payload may be the envelope string
// itself or its calldata hex form.
func (h *Handler) HandleOpen(w http.ResponseWriter, r *http.Request) error {
	if err := requirePost(r); err != nil {
		return err
	}
	var req struct {
		Payload    string `json:"payload"`
		PrivateKey string `json:"private_key,omitempty"`
		Passphrase string `json:"passphrase,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if req.Payload == "" {
		return errors.EmptyInputError("payload")
	}
	if (req.PrivateKey == "") == (req.Passphrase == "") {
		return errors.ValidationError("mode", "provide exactly one of private_key or passphrase")
	}

	payload := req.Payload
	if strings.HasPrefix(payload, "0x") {
		decoded, err := codec.Decode(payload)
		if err != nil {
			return err
		}
		payload = decoded
	}

	var message string
	var openErr error
	h.pool.Run(func() {
		if req.PrivateKey != "" {
			message, openErr = envelope.OpenPayloadWithPrivateKey(payload, req.PrivateKey)
		} else {
			message, openErr = envelope.DecryptWithPassphrase(payload, req.Passphrase)
		}
	})
	if openErr != nil {
		return openErr
	}
	return writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

// HandleRecoverTx recovers the sender public key of one transaction. When
// no chain id is supplied the transaction is first located across networks.
func (h *Handler) HandleRecoverTx(w http.ResponseWriter, r *http.Request) error {
	if err := requirePost(r); err != nil {
		return err
	}
	var req struct {
		TxHash  string `json:"tx_hash"`
		ChainID uint64 `json:"chain_id,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if !txHashPattern.MatchString(req.TxHash) {
		return errors.ValidationError("tx_hash", "must be a 0x-prefixed 64-character hex transaction hash")
	}

	network, err := h.resolveNetwork(r, req.TxHash, req.ChainID)
	if err != nil {
		return err
	}

	var result *recovery.RecoveredPublicKey
	var recoverErr error
	h.pool.Run(func() {
		result, recoverErr = h.engine.RecoverFromTransaction(r.Context(), network, req.TxHash)
	})
	if recoverErr != nil {
		return recoverErr
	}
	return writeJSON(w, http.StatusOK, result)
}

// HandleRecoverAddress recovers a public key from an address's most recent
// outgoing transaction across the configured networks.
func (h *Handler) HandleRecoverAddress(w http.ResponseWriter, r *http.Request) error {
	if err := requirePost(r); err != nil {
		return err
	}
	var req struct {
		Address          string `json:"address"`
		PreferredChainID uint64 `json:"preferred_chain_id,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if !addressPattern.MatchString(req.Address) {
		return errors.ValidationError("address", "must be a 0x-prefixed 40-character hex address")
	}

	var result *recovery.RecoveredPublicKey
	var recoverErr error
	h.pool.Run(func() {
		result, recoverErr = h.engine.RecoverFromAddress(r.Context(), req.Address, req.PreferredChainID)
	})
	if recoverErr != nil {
		return recoverErr
	}
	return writeJSON(w, http.StatusOK, result)
}

// HandleLocate finds which network a transaction hash lives on.
func (h *Handler) HandleLocate(w http.ResponseWriter, r *http.Request) error {
	if err := requirePost(r); err != nil {
		return err
	}
	var req struct {
		TxHash string `json:"tx_hash"`
	}
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if !txHashPattern.MatchString(req.TxHash) {
		return errors.ValidationError("tx_hash", "must be a 0x-prefixed 64-character hex transaction hash")
	}

	network, err := h.engine.LocateTransaction(r.Context(), req.TxHash)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"chain_id": network.ChainID,
		"name":     network.Name,
		"rpc_url":  network.RPCURL,
	})
}

// HandleTemplates lists the built-in template catalog.
func (h *Handler) HandleTemplates(w http.ResponseWriter, r *http.Request) error {
	if r.Method != http.MethodGet {
		return errors.ValidationError("method", "only GET is allowed on this endpoint")
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"templates": templates.Catalog(),
	})
}

// HandleTemplateRender interpolates values into a catalog template.
func (h *Handler) HandleTemplateRender(w http.ResponseWriter, r *http.Request) error {
	if err := requirePost(r); err != nil {
		return err
	}
	var req struct {
		TemplateID string            `json:"template_id"`
		Values     map[string]string `json:"values"`
	}
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	tmpl, ok := templates.ByID(req.TemplateID)
	if !ok {
		return errors.ValidationError("template_id", "unknown template id")
	}

	rendered := templates.Render(tmpl, req.Values)
	filled, total := templates.Progress(tmpl, req.Values)
	return writeJSON(w, http.StatusOK, map[string]any{
		"message":    rendered,
		"all_filled": templates.AllFilled(tmpl, req.Values),
		"filled":     filled,
		"total":      total,
	})
}

// HandleTemplateExtract best-effort reverses a rendered message into
// variable values.
func (h *Handler) HandleTemplateExtract(w http.ResponseWriter, r *http.Request) error {
	if err := requirePost(r); err != nil {
		return err
	}
	var req struct {
		TemplateID string `json:"template_id"`
		Message    string `json:"message"`
	}
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	tmpl, ok := templates.ByID(req.TemplateID)
	if !ok {
		return errors.ValidationError("template_id", "unknown template id")
	}
	if req.Message == "" {
		return errors.EmptyInputError("message")
	}

	values := make(map[string]string)
	for _, v := range tmpl.Variables {
		if extracted := templates.Extract(v, req.Message); extracted != "" {
			values[v.Key] = extracted
		}
	}
	return writeJSON(w, http.StatusOK, map[string]any{"values": values})
}

// HandleIdentity returns the node's public identity. The private key never
// leaves the key file.
func (h *Handler) HandleIdentity(w http.ResponseWriter, r *http.Request) error {
	if r.Method != http.MethodGet {
		return errors.ValidationError("method", "only GET is allowed on this endpoint")
	}
	id, err := identity.GetOrCreate()
	if err != nil {
		return errors.InternalError("Failed to load node identity", err)
	}
	return writeJSON(w, http.StatusOK, map[string]string{
		"public_key": id.PublicKey,
		"address":    id.Address,
	})
}

// HandleNetworks lists the configured networks.
func (h *Handler) HandleNetworks(w http.ResponseWriter, r *http.Request) error {
	if r.Method != http.MethodGet {
		return errors.ValidationError("method", "only GET is allowed on this endpoint")
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"networks": h.engine.Networks(),
	})
}

// resolveNetwork picks the target network for a tx-hash recovery: the
// requested chain when given, otherwise a cross-network search.
func (h *Handler) resolveNetwork(r *http.Request, txHash string, chainID uint64) (chains.Network, error) {
	if chainID != 0 {
		network, ok := chains.ByChainID(h.engine.Networks(), chainID)
		if !ok {
			return chains.Network{}, errors.ValidationError("chain_id", "chain id is not in the configured network list")
		}
		return network, nil
	}
	return h.engine.LocateTransaction(r.Context(), txHash)
}
