package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Inkwell-Network/inkwell/internal/application"
	"github.com/Inkwell-Network/inkwell/internal/config"
	"github.com/Inkwell-Network/inkwell/internal/constants"
	"github.com/Inkwell-Network/inkwell/internal/logger"
	"github.com/Inkwell-Network/inkwell/internal/metrics"
	"go.uber.org/zap"

	"github.com/spf13/cobra"
)

var (
	cfgFile string         // Path to custom config file (optional)
	cfg     *config.Config // Global reference to loaded configuration
)

// rootCmd defines the main CLI command for inkwell
var rootCmd = &cobra.Command{
	Use:   constants.SoftwareName,
	Short: "Inkwell is a calldata messaging service",
	Long: constants.SoftwareDescription + `
Encode, encrypt, and decode on-chain calldata messages, and recover sender
public keys from transaction signatures.`,
	Example: `
  inkwell serve --log-level debug --metrics-port 9090
  inkwell serve --config /path/to/config.yaml
  inkwell encode "hello there"
  inkwell recover-key --address 0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for version command
		if cmd.Name() == "version" {
			return nil
		}

		// Load configuration (use nil logger to avoid sync issues)
		var err error
		cfg, err = config.Load(cfgFile, nil)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %v", err)
		}

		// Override config with command line flags if specified
		flags := cmd.Flags()
		if flags.Changed("listen-addr") {
			cfg.HTTP.ListenAddr, _ = flags.GetString("listen-addr")
		}
		if flags.Changed("explorer-api-key") {
			cfg.Explorer.APIKey, _ = flags.GetString("explorer-api-key")
		}
		if flags.Changed("metrics-port") {
			portStr, _ := flags.GetString("metrics-port")
			cfg.Metrics.Port, _ = strconv.Atoi(portStr)
		}

		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		// Default behavior: show help when no subcommand is provided
		if err := cmd.Help(); err != nil {
			fmt.Fprintf(os.Stderr, "Error displaying help: %v\n", err)
		}
	},
}

// Execute runs the root command with the provided context
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// init is automatically called before main(), sets up flags and subcommands
func init() {
	// Add persistent flags (inherited by all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to custom config file (optional)")

	rootCmd.PersistentFlags().String("listen-addr", ":8080", "API listen address")
	rootCmd.PersistentFlags().String("explorer-api-key", "", "Block explorer API key")
	rootCmd.PersistentFlags().String("log-level", "info", "Logging level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().String("log-file", "", "Path to the log file")
	rootCmd.PersistentFlags().String("log-format", "console", "Log output format (console or json)")
	rootCmd.PersistentFlags().String("metrics-port", "9090", "Port for Prometheus metrics server")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of inkwell",
		Long:  "Print the version number of inkwell along with build information",
		Run: func(cmd *cobra.Command, args []string) {
			if detailed, _ := cmd.Flags().GetBool("detailed"); detailed {
				fmt.Println(GetFullVersionInfo())
			} else {
				fmt.Println(GetVersionWithPrefix())
			}
		},
	}
	versionCmd.Flags().BoolP("detailed", "d", false, "Show detailed version information")
	rootCmd.AddCommand(versionCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the inkwell API server",
		Long:  "Start the inkwell API server with the specified configuration",
		Run: func(cmd *cobra.Command, args []string) {
			cfgFile, _ = cmd.Flags().GetString("config")
			if cfgFile != "" {
				absPath, err := filepath.Abs(cfgFile)
				if err != nil {
					logger.Error("Failed to resolve absolute path for config", zap.Error(err))
					os.Exit(1)
				}
				cfgFile = absPath
				logger.Info("Using config file", zap.String("config_file", cfgFile))
			}

			// Use the context passed down from main.go
			ctx := cmd.Context()

			// Initialize metrics
			metrics.RegisterMetrics()

			logger.Info("Starting inkwell...")
			app, err := application.New(ctx, cfg)
			if err != nil {
				logger.Error("Failed to initialize the node", zap.Error(err))
				os.Exit(1)
			}

			if err := app.Start(ctx); err != nil {
				logger.Error("Failed to start the node", zap.Error(err))
				os.Exit(1)
			}
			logger.Info("Inkwell started successfully!")

			// Block until a termination signal cancels the context.
			<-ctx.Done()
			logger.Info("Shutdown signal received, initiating graceful shutdown...")
			app.Shutdown()
		},
	}
	rootCmd.AddCommand(serveCmd)

	addToolCommands(rootCmd)
}
