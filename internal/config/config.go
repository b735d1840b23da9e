package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"net"
	"regexp"
	"strings"
	"time"

	"github.com/Inkwell-Network/inkwell/internal/chains"
	"github.com/Inkwell-Network/inkwell/internal/logger"
	validator "github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

//go:embed defaults.yaml
var defaultYAML []byte

// Version is set at runtime from build information
var Version = "dev"

var validate = validator.New()

var (
	ethAddressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
	txHashPattern     = regexp.MustCompile(`^0x[a-fA-F0-9]{64}$`)
	hostnamePattern   = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?)*$`)
)

// Config holds every sub-config.
type Config struct {
	General  GeneralConfig   `mapstructure:"general"  validate:"required"`
	Logging  LoggingConfig   `mapstructure:"logging"  validate:"required"`
	Metrics  MetricsConfig   `mapstructure:"metrics"  validate:"required"`
	HTTP     HTTPConfig      `mapstructure:"http"     validate:"required"`
	Networks []NetworkConfig `mapstructure:"networks" validate:"omitempty,dive"`
	Explorer ExplorerConfig  `mapstructure:"explorer" validate:"required"`
	RPC      RPCConfig       `mapstructure:"rpc"      validate:"required"`
}

func init() {
	registerCustomValidators()
}

// registerCustomValidators registers domain-specific validation functions
func registerCustomValidators() {
	// 0x-prefixed 20-byte hex address
	if err := validate.RegisterValidation("eth_address", func(fl validator.FieldLevel) bool {
		return ethAddressPattern.MatchString(fl.Field().String())
	}); err != nil {
		logger.Error("Failed to register eth_address validator", zap.Error(err))
	}

	// 0x-prefixed 32-byte hex transaction hash
	if err := validate.RegisterValidation("tx_hash", func(fl validator.FieldLevel) bool {
		return txHashPattern.MatchString(fl.Field().String())
	}); err != nil {
		logger.Error("Failed to register tx_hash validator", zap.Error(err))
	}

	// Uncompressed secp256k1 public key hex: 130 chars with the 04 marker or
	// 128 bare coordinate chars, 0x optional. Empty is allowed for optional
	// fields.
	if err := validate.RegisterValidation("pubkey", func(fl validator.FieldLevel) bool {
		key := strings.TrimPrefix(fl.Field().String(), "0x")
		if key == "" {
			return true
		}
		if len(key) != 130 && len(key) != 128 {
			return false
		}
		matched, _ := regexp.MatchString(`^[a-fA-F0-9]+$`, key)
		return matched
	}); err != nil {
		logger.Error("Failed to register pubkey validator", zap.Error(err))
	}

	// Listen address in ':port' or 'host:port' form
	if err := validate.RegisterValidation("listen_addr", func(fl validator.FieldLevel) bool {
		addr := fl.Field().String()
		if addr == "" {
			return false
		}
		if strings.HasPrefix(addr, ":") {
			port := addr[1:]
			if port == "" {
				return false
			}
			_, err := net.LookupPort("tcp", port)
			return err == nil
		}
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return false
		}
		if _, err := net.LookupPort("tcp", port); err != nil {
			return false
		}
		if host != "" && net.ParseIP(host) == nil && !hostnamePattern.MatchString(host) {
			return false
		}
		return true
	}); err != nil {
		logger.Error("Failed to register listen_addr validator", zap.Error(err))
	}

	// Validate timeout duration
	if err := validate.RegisterValidation("timeout_duration", func(fl validator.FieldLevel) bool {
		duration := fl.Field().Interface().(time.Duration)
		return duration >= time.Second && duration <= time.Hour
	}); err != nil {
		logger.Error("Failed to register timeout_duration validator", zap.Error(err))
	}

	// Validate log level
	if err := validate.RegisterValidation("log_level", func(fl validator.FieldLevel) bool {
		level := fl.Field().String()
		for _, valid := range []string{"debug", "info", "warn", "error", "fatal"} {
			if level == valid {
				return true
			}
		}
		return false
	}); err != nil {
		logger.Error("Failed to register log_level validator", zap.Error(err))
	}

	// Validate log format
	if err := validate.RegisterValidation("log_format", func(fl validator.FieldLevel) bool {
		format := fl.Field().String()
		return format == "console" || format == "json"
	}); err != nil {
		logger.Error("Failed to register log_format validator", zap.Error(err))
	}
}

/* ------------------------------------------------------------------ *
|  Public API                                                         |
* -------------------------------------------------------------------*/

// SetVersion sets the version from build information
func SetVersion(v string) {
	Version = v
}

// Load merges defaults → file (optional) → env vars, validates, and returns cfg.
func Load(path string, log *zap.Logger) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("INKWELL") // INKWELL_HTTP_LISTEN_ADDR
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 1. defaults.yaml (embedded)
	if err := v.ReadConfig(bytes.NewReader(defaultYAML)); err != nil {
		return nil, fmt.Errorf("read defaults: %w", err)
	}

	// 2. optional user file
	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.MergeInConfig(); err != nil {
			if log != nil {
				log.Info("No config.yaml found, using defaults")
			}
		} else if log != nil {
			log.Info("Loaded config.yaml from current directory")
		}
	}

	// 3. env already merged by AutomaticEnv()

	var cfg Config
	if err := v.UnmarshalExact(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, formatValidationError(err)
	}
	if err := crossValidate(&cfg); err != nil {
		return nil, err
	}

	if log != nil {
		log.Info("configuration loaded",
			zap.String("version", Version),
		)
	}
	if err := initializeLogger(cfg.Logging); err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	if log != nil {
		log.Info("logger initialized",
			zap.String("level", cfg.Logging.Level),
			zap.String("format", cfg.Logging.Format),
			zap.String("file", cfg.Logging.FilePath),
		)
	}
	return &cfg, nil
}

// ChainList resolves the configured networks, falling back to the built-in
// catalog when none are configured.
func (c *Config) ChainList() []chains.Network {
	if len(c.Networks) == 0 {
		return chains.DefaultNetworks()
	}
	out := make([]chains.Network, 0, len(c.Networks))
	for _, n := range c.Networks {
		out = append(out, chains.Network{
			ChainID:         n.ChainID,
			Name:            n.Name,
			RPCURL:          n.RPCURL,
			ExplorerAPIBase: n.ExplorerAPIBase,
		})
	}
	return out
}

// initializeLogger initializes the logger using the LoggingConfig
func initializeLogger(loggingConfig LoggingConfig) error {
	return logger.Init(
		logger.WithLevel(loggingConfig.Level),
		logger.WithFormat(loggingConfig.Format),
		logger.WithFile(loggingConfig.FilePath),
		logger.WithVersion(Version),
		logger.WithComponent("inkwell"),
		logger.WithRotation(loggingConfig.MaxSize, loggingConfig.MaxBackups, loggingConfig.MaxAge),
	)
}

// formatValidationError converts validator errors into user-friendly messages
func formatValidationError(err error) error {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, fieldError := range validationErrors {
			messages = append(messages, getFieldErrorMessage(fieldError))
		}
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(messages, "\n  - "))
	}
	return fmt.Errorf("configuration validation failed: %w", err)
}

// getFieldErrorMessage returns a user-friendly error message for a field validation error
func getFieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	value := fe.Value()
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required but not provided", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s (got: %v)", field, param, value)
	case "max":
		return fmt.Sprintf("%s must be at most %s (got: %v)", field, param, value)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s (got: %v)", field, param, value)
	case "email":
		return fmt.Sprintf("%s must be a valid email address (got: %v)", field, value)
	case "url":
		return fmt.Sprintf("%s must be a valid URL (got: %v)", field, value)
	case "eth_address":
		return fmt.Sprintf("%s must be a 0x-prefixed 40-character hex address (got: %v)", field, value)
	case "tx_hash":
		return fmt.Sprintf("%s must be a 0x-prefixed 64-character hex transaction hash (got: %v)", field, value)
	case "pubkey":
		return fmt.Sprintf("%s must be an uncompressed secp256k1 public key in hex (got: %v)", field, value)
	case "listen_addr":
		return fmt.Sprintf("%s must be a listen address in format ':port' or 'host:port' (got: %v)", field, value)
	case "timeout_duration":
		return fmt.Sprintf("%s must be between 1 second and 1 hour (got: %v)", field, value)
	case "log_level":
		return fmt.Sprintf("%s must be one of: debug, info, warn, error, fatal (got: %v)", field, value)
	case "log_format":
		return fmt.Sprintf("%s must be either 'console' or 'json' (got: %v)", field, value)
	case "chain_id_conflict":
		return fmt.Sprintf("%s appears more than once in the network list", field)
	default:
		return fmt.Sprintf("%s validation failed: %s (got: %v)", field, tag, value)
	}
}

/* ------------------------------------------------------------------ *
|  Cross-field validation                                             |
* -------------------------------------------------------------------*/

func crossValidate(cfg *Config) error {
	seen := make(map[uint64]bool, len(cfg.Networks))
	for _, n := range cfg.Networks {
		if seen[n.ChainID] {
			return fmt.Errorf("configuration validation failed:\n  - chain id %d appears more than once in the network list", n.ChainID)
		}
		seen[n.ChainID] = true
	}
	return nil
}
