package graphrag

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "bolt://localhost:7687", cfg.Graph.URI)
	assert.Equal(t, 7, cfg.Engine.MaxOperations)
	assert.Equal(t, 4, cfg.Engine.Workers)
	assert.Equal(t, 10*time.Second, cfg.Engine.OperationTimeout)
	assert.Equal(t, 2, cfg.Engine.DefaultDepth)
	assert.Equal(t, 3, cfg.Engine.MaxDepth)
	assert.Equal(t, 25, cfg.Engine.ResultLimit)
	assert.Equal(t, 15, cfg.Engine.TopN)
	assert.Equal(t, 5*time.Minute, cfg.Entity.RefreshInterval)
	assert.True(t, cfg.Grounding.Enabled)
	assert.Equal(t, 1, cfg.Grounding.MaxRegenerations)
	assert.Equal(t, "none", cfg.Generator.Provider)
	assert.Equal(t, 0.1, cfg.Generator.Temperature)
	require.NoError(t, cfg.Validate())

	cfg.Generator.Temperature = 0
	cfg.ApplyDefaults()
	assert.Zero(t, cfg.Generator.Temperature)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"depth above max", func(c *Config) { c.Engine.DefaultDepth = 3; c.Engine.MaxDepth = 2 }, "default_depth"},
		{"max depth beyond limit", func(c *Config) { c.Engine.DefaultDepth = 2; c.Engine.MaxDepth = 5 }, "max_depth"},
		{"negative timeout", func(c *Config) { c.Engine.OperationTimeout = -time.Second }, "operation_timeout"},
		{"bad radius", func(c *Config) { c.Analytics.Hotspot.Radius = -1 }, "analytics"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGraphConfig_ClientConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Graph.Database = "cases"
	client := cfg.Graph.ClientConfig()

	assert.Equal(t, "cases", client.Database)
	assert.Equal(t, cfg.Graph.PoolSize, client.MaxConnectionPoolSize)
	require.NoError(t, client.Validate())
}
