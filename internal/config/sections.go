package config

import "time"

// GeneralConfig holds service identity settings.
type GeneralConfig struct {
	Name        string `mapstructure:"NAME"        json:"name"        validate:"required,min=1,max=30"`
	Description string `mapstructure:"DESCRIPTION" json:"description" validate:"omitempty,max=200"`
	Contact     string `mapstructure:"CONTACT"     json:"contact"     validate:"omitempty,email"`
}

// LoggingConfig holds logging-related settings.
type LoggingConfig struct {
	Level      string `mapstructure:"LEVEL"       json:"level"       validate:"required,log_level"`
	FilePath   string `mapstructure:"FILE"        json:"file"        validate:"omitempty"`
	Format     string `mapstructure:"FORMAT"      json:"format"      validate:"omitempty,log_format"`
	MaxSize    int    `mapstructure:"MAX_SIZE"    json:"max_size"    validate:"required,min=1,max=1000"`
	MaxBackups int    `mapstructure:"MAX_BACKUPS" json:"max_backups" validate:"required,min=0,max=100"`
	MaxAge     int    `mapstructure:"MAX_AGE"     json:"max_age"     validate:"required,min=1,max=365"`
}

// MetricsConfig holds metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool `mapstructure:"ENABLED" json:"enabled"`
	Port    int  `mapstructure:"PORT"    json:"port"    validate:"required,min=1024,max=65535"`
}

// HTTPConfig holds the API server settings. Workers size the pool that
// CPU-bound crypto work (PBKDF2, ECDSA recovery) is pushed onto.
type HTTPConfig struct {
	ListenAddr      string        `mapstructure:"LISTEN_ADDR"       json:"listen_addr"       validate:"required,listen_addr"`
	ReadTimeout     time.Duration `mapstructure:"READ_TIMEOUT"      json:"read_timeout"      validate:"required,timeout_duration"`
	WriteTimeout    time.Duration `mapstructure:"WRITE_TIMEOUT"     json:"write_timeout"     validate:"required,timeout_duration"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"  json:"shutdown_timeout"  validate:"required,timeout_duration"`
	Workers         int           `mapstructure:"WORKERS"           json:"workers"           validate:"required,min=1,max=256"`
	WorkerQueueSize int           `mapstructure:"WORKER_QUEUE_SIZE" json:"worker_queue_size" validate:"required,min=1,max=100000"`
}

// NetworkConfig describes one supported chain. An empty list falls back to
// the built-in network catalog.
type NetworkConfig struct {
	ChainID         uint64 `mapstructure:"CHAIN_ID"          json:"chain_id"          validate:"required,min=1"`
	Name            string `mapstructure:"NAME"              json:"name"              validate:"required,min=1,max=50"`
	RPCURL          string `mapstructure:"RPC_URL"           json:"rpc_url"           validate:"required,url"`
	ExplorerAPIBase string `mapstructure:"EXPLORER_API_BASE" json:"explorer_api_base" validate:"required,url"`
}

// ExplorerConfig holds block-explorer API client settings. One key and one
// rate limit are shared across all networks.
type ExplorerConfig struct {
	APIKey            string        `mapstructure:"API_KEY"             json:"-"                   validate:"omitempty,min=8,max=128"`
	RequestTimeout    time.Duration `mapstructure:"REQUEST_TIMEOUT"     json:"request_timeout"     validate:"required,timeout_duration"`
	RequestsPerSecond float64       `mapstructure:"REQUESTS_PER_SECOND" json:"requests_per_second" validate:"required,gt=0,max=100"`
}

// RPCConfig holds JSON-RPC client settings.
type RPCConfig struct {
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT" json:"request_timeout" validate:"required,timeout_duration"`
}
