package config

import (
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/observability"
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Config: graphrag.DefaultConfig(),
		Logging: observability.LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Tracing: observability.TracingConfig{
			Enabled:     false,
			Provider:    "otlp",
			Endpoint:    "localhost:4317",
			ServiceName: "casegraph",
			SampleRate:  1.0,
		},
		Metrics: observability.MetricsConfig{
			Enabled:       false,
			Provider:      "prometheus",
			ListenAddress: ":9464",
			Endpoint:      "localhost:4317",
		},
	}
}
