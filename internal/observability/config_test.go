package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracingConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     TracingConfig
		wantErr string
	}{
		{"disabled skips checks", TracingConfig{Enabled: false, Provider: "jaeger"}, ""},
		{"otlp", TracingConfig{Enabled: true, Provider: "otlp", Endpoint: "localhost:4317", SampleRate: 1}, ""},
		{"noop without endpoint", TracingConfig{Enabled: true, Provider: "noop"}, ""},
		{"unknown provider", TracingConfig{Enabled: true, Provider: "jaeger"}, "invalid tracing provider"},
		{"sample rate too high", TracingConfig{Enabled: true, Provider: "otlp", Endpoint: "x", SampleRate: 1.5}, "invalid sample rate"},
		{"missing endpoint", TracingConfig{Enabled: true, Provider: "otlp", SampleRate: 1}, "endpoint is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestMetricsConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     MetricsConfig
		wantErr string
	}{
		{"disabled", MetricsConfig{}, ""},
		{"prometheus", MetricsConfig{Enabled: true, Provider: "prometheus", ListenAddress: ":9464"}, ""},
		{"prometheus without address", MetricsConfig{Enabled: true, Provider: "prometheus"}, "listen address is required"},
		{"otlp", MetricsConfig{Enabled: true, Provider: "OTLP", Endpoint: "localhost:4317"}, ""},
		{"otlp without endpoint", MetricsConfig{Enabled: true, Provider: "otlp"}, "endpoint is required"},
		{"unknown", MetricsConfig{Enabled: true, Provider: "statsd"}, "invalid metrics provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoggingConfig_Validate(t *testing.T) {
	assert.NoError(t, (&LoggingConfig{Level: "DEBUG", Format: "text"}).Validate())
	assert.ErrorContains(t, (&LoggingConfig{Level: "verbose", Format: "json"}).Validate(), "invalid log level")
	assert.ErrorContains(t, (&LoggingConfig{Level: "info", Format: "xml"}).Validate(), "invalid log format")
}
