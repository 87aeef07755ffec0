// Package config loads the casegraph configuration file.
package config

import (
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/observability"
)

// Config is the root configuration of casegraph. The retrieval engine
// sections (graph, engine, analytics, entity, generator, grounding) sit at
// the top level next to the observability sections.
type Config struct {
	graphrag.Config `mapstructure:",squash" yaml:",inline"`

	Logging observability.LoggingConfig `mapstructure:"logging" yaml:"logging" json:"logging"`
	Tracing observability.TracingConfig `mapstructure:"tracing" yaml:"tracing" json:"tracing"`
	Metrics observability.MetricsConfig `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
}
