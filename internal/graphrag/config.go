package graphrag

import (
	"fmt"
	"time"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/analytics"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/executor"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/generator"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/graph"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/grounding"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/planner"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/query"
)

// Config contains everything the retrieval engine needs: the graph store
// connection, planning and execution limits, analytics weights, the name
// index, the text generator and answer verification.
type Config struct {
	Graph     GraphConfig      `yaml:"graph" json:"graph" mapstructure:"graph"`
	Engine    EngineConfig     `yaml:"engine" json:"engine" mapstructure:"engine"`
	Analytics analytics.Config `yaml:"analytics" json:"analytics" mapstructure:"analytics"`
	Entity    EntityConfig     `yaml:"entity" json:"entity" mapstructure:"entity"`
	Generator generator.Config `yaml:"generator" json:"generator" mapstructure:"generator"`
	Grounding grounding.Config `yaml:"grounding" json:"grounding" mapstructure:"grounding"`
}

// GraphConfig contains Neo4j connection settings.
type GraphConfig struct {
	URI               string        `yaml:"uri" json:"uri" mapstructure:"uri" validate:"required"` // bolt://localhost:7687
	Username          string        `yaml:"username" json:"username" mapstructure:"username" validate:"required"`
	Password          string        `yaml:"password" json:"-" mapstructure:"password" validate:"required"`
	Database          string        `yaml:"database" json:"database" mapstructure:"database"` // empty selects the server default
	PoolSize          int           `yaml:"pool_size" json:"pool_size" mapstructure:"pool_size" validate:"gte=0"`
	ConnectionTimeout time.Duration `yaml:"connection_timeout" json:"connection_timeout" mapstructure:"connection_timeout"`
	MaxRetryTime      time.Duration `yaml:"max_retry_time" json:"max_retry_time" mapstructure:"max_retry_time"`
	ConnectRetries    int           `yaml:"connect_retries" json:"connect_retries" mapstructure:"connect_retries" validate:"gte=0"`
}

// ClientConfig converts the section into a graph client configuration.
func (c GraphConfig) ClientConfig() graph.GraphClientConfig {
	return graph.GraphClientConfig{
		URI:                     c.URI,
		Username:                c.Username,
		Password:                c.Password,
		Database:                c.Database,
		MaxConnectionPoolSize:   c.PoolSize,
		ConnectionTimeout:       c.ConnectionTimeout,
		MaxTransactionRetryTime: c.MaxRetryTime,
		ConnectRetries:          c.ConnectRetries,
	}
}

// EngineConfig bounds planning and execution of a single turn.
type EngineConfig struct {
	MaxOperations    int           `yaml:"max_operations" json:"max_operations" mapstructure:"max_operations" validate:"gte=1,lte=20"`
	Workers          int           `yaml:"workers" json:"workers" mapstructure:"workers" validate:"gte=1,lte=64"`
	OperationTimeout time.Duration `yaml:"operation_timeout" json:"operation_timeout" mapstructure:"operation_timeout"`
	DefaultDepth     int           `yaml:"default_depth" json:"default_depth" mapstructure:"default_depth" validate:"gte=1"`
	MaxDepth         int           `yaml:"max_depth" json:"max_depth" mapstructure:"max_depth" validate:"gte=1"`
	ResultLimit      int           `yaml:"result_limit" json:"result_limit" mapstructure:"result_limit" validate:"gte=1"`
	TopN             int           `yaml:"top_n" json:"top_n" mapstructure:"top_n" validate:"gte=1"`
}

// PlannerConfig returns the planner limits of the section.
func (c EngineConfig) PlannerConfig() planner.Config {
	return planner.Config{MaxOperations: c.MaxOperations, ResultLimit: c.ResultLimit, TopN: c.TopN}
}

// ExecutorConfig returns the executor limits of the section.
func (c EngineConfig) ExecutorConfig() executor.Config {
	return executor.Config{Workers: c.Workers, OperationTimeout: c.OperationTimeout}
}

// EntityConfig controls the name index.
type EntityConfig struct {
	// LexiconFile replaces the embedded exclusion lexicon when set.
	LexiconFile     string        `yaml:"lexicon_file" json:"lexicon_file" mapstructure:"lexicon_file"`
	RefreshInterval time.Duration `yaml:"refresh_interval" json:"refresh_interval" mapstructure:"refresh_interval"`
}

// DefaultConfig returns a Config with every default applied and
// verification enabled.
func DefaultConfig() Config {
	cfg := Config{
		Grounding: grounding.DefaultConfig(),
		Generator: generator.Config{Temperature: generator.DefaultTemperature},
	}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields. Call before Validate.
func (c *Config) ApplyDefaults() {
	def := graph.DefaultConfig()
	if c.Graph.URI == "" {
		c.Graph.URI = def.URI
	}
	if c.Graph.Username == "" {
		c.Graph.Username = def.Username
	}
	if c.Graph.Password == "" {
		c.Graph.Password = def.Password
	}
	if c.Graph.PoolSize == 0 {
		c.Graph.PoolSize = def.MaxConnectionPoolSize
	}
	if c.Graph.ConnectionTimeout == 0 {
		c.Graph.ConnectionTimeout = def.ConnectionTimeout
	}
	if c.Graph.MaxRetryTime == 0 {
		c.Graph.MaxRetryTime = def.MaxTransactionRetryTime
	}
	if c.Graph.ConnectRetries == 0 {
		c.Graph.ConnectRetries = def.ConnectRetries
	}

	plan := planner.DefaultConfig()
	exec := executor.DefaultConfig()
	if c.Engine.MaxOperations == 0 {
		c.Engine.MaxOperations = plan.MaxOperations
	}
	if c.Engine.Workers == 0 {
		c.Engine.Workers = exec.Workers
	}
	if c.Engine.OperationTimeout == 0 {
		c.Engine.OperationTimeout = exec.OperationTimeout
	}
	if c.Engine.DefaultDepth == 0 {
		c.Engine.DefaultDepth = 2
	}
	if c.Engine.MaxDepth == 0 {
		c.Engine.MaxDepth = query.MaxTraversalDepth
	}
	if c.Engine.ResultLimit == 0 {
		c.Engine.ResultLimit = plan.ResultLimit
	}
	if c.Engine.TopN == 0 {
		c.Engine.TopN = plan.TopN
	}

	if c.Entity.RefreshInterval == 0 {
		c.Entity.RefreshInterval = 5 * time.Minute
	}

	c.Analytics.ApplyDefaults()
	c.Generator.ApplyDefaults()
}

// Validate checks the cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	if c.Engine.DefaultDepth > c.Engine.MaxDepth {
		return fmt.Errorf("engine.default_depth (%d) must not exceed engine.max_depth (%d)", c.Engine.DefaultDepth, c.Engine.MaxDepth)
	}
	if c.Engine.MaxDepth > query.MaxTraversalDepth {
		return fmt.Errorf("engine.max_depth must be at most %d (got: %d)", query.MaxTraversalDepth, c.Engine.MaxDepth)
	}
	if c.Engine.OperationTimeout <= 0 {
		return fmt.Errorf("engine.operation_timeout must be positive")
	}
	if err := c.Analytics.Validate(); err != nil {
		return fmt.Errorf("analytics config validation failed: %w", err)
	}
	return nil
}
