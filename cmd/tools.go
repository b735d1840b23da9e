package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Inkwell-Network/inkwell/internal/chains"
	"github.com/Inkwell-Network/inkwell/internal/clients"
	"github.com/Inkwell-Network/inkwell/internal/codec"
	"github.com/Inkwell-Network/inkwell/internal/envelope"
	"github.com/Inkwell-Network/inkwell/internal/identity"
	"github.com/Inkwell-Network/inkwell/internal/recovery"
	"github.com/Inkwell-Network/inkwell/internal/templates"
	"github.com/spf13/cobra"
)

// addToolCommands registers the offline and one-shot subcommands: codec,
// envelope, identity, template, and recovery operations without the server.
func addToolCommands(root *cobra.Command) {
	encodeCmd := &cobra.Command{
		Use:   "encode <message>",
		Short: "Encode a text message into 0x-hex calldata",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(codec.Encode(args[0]))
		},
	}
	root.AddCommand(encodeCmd)

	decodeCmd := &cobra.Command{
		Use:   "decode <calldata>",
		Short: "Decode 0x-hex calldata back into text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := codec.Decode(args[0])
			if err != nil {
				return err
			}
			fmt.Println(message)
			if format := envelope.DetectFormat(message); format != envelope.FormatNone {
				fmt.Fprintf(os.Stderr, "note: payload is encrypted (%s), use 'inkwell open'\n", format)
			} else if envelope.LooksLikeCiphertext(args[0]) {
				fmt.Fprintln(os.Stderr, "note: payload looks like raw ciphertext, use 'inkwell open' with a private key")
			}
			return nil
		},
	}
	root.AddCommand(decodeCmd)

	sealCmd := &cobra.Command{
		Use:   "seal <message>",
		Short: "Encrypt a message into an envelope and print its calldata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pubKey, _ := cmd.Flags().GetString("public-key")
			passphrase, _ := cmd.Flags().GetString("passphrase")
			if (pubKey == "") == (passphrase == "") {
				return fmt.Errorf("provide exactly one of --public-key or --passphrase")
			}

			var sealed string
			var err error
			if pubKey != "" {
				sealed, err = envelope.SealWithPublicKey(args[0], pubKey)
			} else {
				sealed, err = envelope.EncryptWithPassphrase(args[0], passphrase)
			}
			if err != nil {
				return err
			}
			fmt.Println(codec.Encode(sealed))
			return nil
		},
	}
	sealCmd.Flags().String("public-key", "", "Recipient uncompressed secp256k1 public key (hex)")
	sealCmd.Flags().String("passphrase", "", "Shared passphrase")
	root.AddCommand(sealCmd)

	openCmd := &cobra.Command{
		Use:   "open <calldata-or-envelope>",
		Short: "Decrypt an envelope payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			privKey, _ := cmd.Flags().GetString("private-key")
			passphrase, _ := cmd.Flags().GetString("passphrase")
			if (privKey == "") == (passphrase == "") {
				return fmt.Errorf("provide exactly one of --private-key or --passphrase")
			}

			payload := args[0]
			if len(payload) > 2 && payload[:2] == "0x" {
				decoded, err := codec.Decode(payload)
				if err != nil {
					return err
				}
				payload = decoded
			}

			var message string
			var err error
			if privKey != "" {
				message, err = envelope.OpenPayloadWithPrivateKey(payload, privKey)
			} else {
				message, err = envelope.DecryptWithPassphrase(payload, passphrase)
			}
			if err != nil {
				return err
			}
			fmt.Println(message)
			return nil
		},
	}
	openCmd.Flags().String("private-key", "", "Recipient private key (hex)")
	openCmd.Flags().String("passphrase", "", "Shared passphrase")
	root.AddCommand(openCmd)

	recoverCmd := &cobra.Command{
		Use:   "recover-key",
		Short: "Recover a sender public key from a transaction or address",
		RunE: func(cmd *cobra.Command, args []string) error {
			txHash, _ := cmd.Flags().GetString("tx-hash")
			address, _ := cmd.Flags().GetString("address")
			chainID, _ := cmd.Flags().GetUint64("chain-id")
			if (txHash == "") == (address == "") {
				return fmt.Errorf("provide exactly one of --tx-hash or --address")
			}

			engine := buildEngine()
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			var result *recovery.RecoveredPublicKey
			var err error
			if txHash != "" {
				network, resolveErr := resolveChain(ctx, engine, txHash, chainID)
				if resolveErr != nil {
					return resolveErr
				}
				result, err = engine.RecoverFromTransaction(ctx, network, txHash)
			} else {
				result, err = engine.RecoverFromAddress(ctx, address, chainID)
			}
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
	recoverCmd.Flags().String("tx-hash", "", "Transaction hash (0x-prefixed)")
	recoverCmd.Flags().String("address", "", "Target address (0x-prefixed)")
	recoverCmd.Flags().Uint64("chain-id", 0, "Chain id (optional; searched when omitted)")
	root.AddCommand(recoverCmd)

	identityCmd := &cobra.Command{
		Use:   "identity",
		Short: "Print the node's public identity, creating it if needed",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := identity.GetOrCreate()
			if err != nil {
				return err
			}
			return printJSON(map[string]string{
				"public_key": id.PublicKey,
				"address":    id.Address,
			})
		},
	}
	root.AddCommand(identityCmd)

	templatesCmd := &cobra.Command{
		Use:   "templates",
		Short: "List the built-in message templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(templates.Catalog())
		},
	}
	root.AddCommand(templatesCmd)
}

func buildEngine() *recovery.Engine {
	rpcClient := clients.NewRPCClient(cfg.RPC.RequestTimeout)
	explorer := clients.NewExplorerClient(
		cfg.Explorer.RequestTimeout,
		cfg.Explorer.RequestsPerSecond,
		cfg.Explorer.APIKey,
	)
	return recovery.NewEngine(rpcClient, explorer, explorer, cfg.ChainList())
}

func resolveChain(ctx context.Context, engine *recovery.Engine, txHash string, chainID uint64) (network chains.Network, err error) {
	if chainID != 0 {
		var ok bool
		network, ok = chains.ByChainID(engine.Networks(), chainID)
		if !ok {
			return network, fmt.Errorf("chain id %d is not in the configured network list", chainID)
		}
		return network, nil
	}
	return engine.LocateTransaction(ctx, txHash)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
