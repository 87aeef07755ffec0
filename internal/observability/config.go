package observability

import (
	"fmt"
	"strings"
)

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	Provider     string  `yaml:"provider" json:"provider" mapstructure:"provider"` // otlp, noop
	Endpoint     string  `yaml:"endpoint" json:"endpoint" mapstructure:"endpoint"`
	ServiceName  string  `yaml:"service_name" json:"service_name" mapstructure:"service_name"`
	SampleRate   float64 `yaml:"sample_rate" json:"sample_rate" mapstructure:"sample_rate"`
	TLSCertFile  string  `yaml:"tls_cert_file" json:"tls_cert_file" mapstructure:"tls_cert_file"`
	InsecureMode bool    `yaml:"insecure_mode" json:"insecure_mode" mapstructure:"insecure_mode"` // plaintext gRPC to the collector
}

// Validate validates the TracingConfig fields.
func (c *TracingConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	provider := strings.ToLower(c.Provider)
	if !oneOf(provider, "otlp", "noop") {
		return fmt.Errorf("invalid tracing provider: %s (must be one of: otlp, noop)", c.Provider)
	}
	if c.SampleRate < 0.0 || c.SampleRate > 1.0 {
		return fmt.Errorf("invalid sample rate: %f (must be between 0.0 and 1.0)", c.SampleRate)
	}
	if provider == "otlp" && c.Endpoint == "" {
		return fmt.Errorf("endpoint is required when tracing is enabled")
	}
	return nil
}

// MetricsConfig contains metrics export configuration.
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	Provider string `yaml:"provider" json:"provider" mapstructure:"provider"` // prometheus, otlp
	// ListenAddress is where the Prometheus scrape endpoint is served.
	ListenAddress string `yaml:"listen_address" json:"listen_address" mapstructure:"listen_address"`
	// Endpoint is the OTLP collector address for the otlp provider.
	Endpoint string `yaml:"endpoint" json:"endpoint" mapstructure:"endpoint"`
}

// Validate validates the MetricsConfig fields.
func (c *MetricsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	provider := strings.ToLower(c.Provider)
	switch provider {
	case "prometheus":
		if c.ListenAddress == "" {
			return fmt.Errorf("listen address is required for the prometheus provider")
		}
	case "otlp":
		if c.Endpoint == "" {
			return fmt.Errorf("endpoint is required for the otlp provider")
		}
	default:
		return fmt.Errorf("invalid metrics provider: %s (must be one of: prometheus, otlp)", c.Provider)
	}
	return nil
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level" mapstructure:"level"`
	Format string `yaml:"format" json:"format" mapstructure:"format"`
}

// Validate validates the LoggingConfig fields.
func (c *LoggingConfig) Validate() error {
	if !oneOf(strings.ToLower(c.Level), "debug", "info", "warn", "error") {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.Level)
	}
	if !oneOf(strings.ToLower(c.Format), "json", "text") {
		return fmt.Errorf("invalid log format: %s (must be one of: json, text)", c.Format)
	}
	return nil
}

func oneOf(s string, valid ...string) bool {
	for _, v := range valid {
		if s == v {
			return true
		}
	}
	return false
}
