// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Service   ServiceConfig   `mapstructure:"service"`
	Snapshot  SnapshotConfig  `mapstructure:"snapshot"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// ServiceConfig holds the HTTP query surface's settings.
type ServiceConfig struct {
	BindAddress    string        `mapstructure:"bind_address"`
	DefaultHops    int           `mapstructure:"default_hops"` // 0 means "token count minus one" (spec default)
	DustThreshold  int64         `mapstructure:"dust_threshold"`
	RequestsPerMin int           `mapstructure:"requests_per_minute"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// SnapshotConfig holds the orderbook snapshot source's settings.
type SnapshotConfig struct {
	Path         string        `mapstructure:"path"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("PRICEGRAPH")
	v.AutomaticEnv()

	// Bind env vars to config keys
	bindEnvVars(v)

	// Set defaults
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "PRICEGRAPH_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "PRICEGRAPH_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "PRICEGRAPH_LOG_LEVEL", "LOG_LEVEL")

	// Service
	v.BindEnv("service.bind_address", "PRICEGRAPH_BIND_ADDRESS")
	v.BindEnv("service.default_hops", "PRICEGRAPH_DEFAULT_HOPS")
	v.BindEnv("service.dust_threshold", "PRICEGRAPH_DUST_THRESHOLD")
	v.BindEnv("service.requests_per_minute", "PRICEGRAPH_REQUESTS_PER_MINUTE")

	// Snapshot
	v.BindEnv("snapshot.path", "PRICEGRAPH_SNAPSHOT_PATH")
	v.BindEnv("snapshot.poll_interval", "PRICEGRAPH_SNAPSHOT_POLL_INTERVAL")

	// Telemetry
	v.BindEnv("telemetry.enabled", "PRICEGRAPH_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "PRICEGRAPH_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "PRICEGRAPH_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "pricegraph")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Service defaults
	v.SetDefault("service.bind_address", ":8080")
	v.SetDefault("service.default_hops", 0) // 0 == "token count minus one", per spec
	v.SetDefault("service.dust_threshold", 1)
	v.SetDefault("service.requests_per_minute", 600)
	v.SetDefault("service.request_timeout", "5s")

	// Snapshot defaults
	v.SetDefault("snapshot.path", "orderbook.snapshot")
	v.SetDefault("snapshot.poll_interval", "10s")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "pricegraph")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Service.BindAddress == "" {
		return fmt.Errorf("service.bind_address is required")
	}
	if c.Snapshot.Path == "" {
		return fmt.Errorf("snapshot.path is required")
	}
	if c.Service.DustThreshold < 0 {
		return fmt.Errorf("service.dust_threshold cannot be negative")
	}
	return nil
}
