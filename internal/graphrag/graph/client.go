package graph

import (
	"context"
	"time"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/types"
)

// GraphClient runs read-only parameterized queries against the case graph.
// Implementations are safe for concurrent use.
type GraphClient interface {
	Connect(ctx context.Context) error
	Close(ctx context.Context) error
	Health(ctx context.Context) types.HealthStatus

	// Query returns flat records in store order. Node and relationship values
	// are flattened to their property maps.
	Query(ctx context.Context, cypher string, params map[string]any) (QueryResult, error)
}

// QueryResult holds the rows of one statement.
type QueryResult struct {
	Records []map[string]any
	Columns []string
	Summary QuerySummary
}

// QuerySummary is execution metadata reported by the store.
type QuerySummary struct {
	ExecutionTime time.Duration
}

// GraphClientConfig configures a store connection. URI schemes follow the
// Neo4j driver: bolt, bolt+s, neo4j and neo4j+s.
type GraphClientConfig struct {
	URI      string
	Username string
	Password string
	// Database is empty for the server default.
	Database string

	// MaxConnectionPoolSize <= 0 keeps the driver default.
	MaxConnectionPoolSize   int
	ConnectionTimeout       time.Duration
	MaxTransactionRetryTime time.Duration
	ConnectRetries          int
}

// DefaultConfig targets a local single-instance store.
func DefaultConfig() GraphClientConfig {
	return GraphClientConfig{
		URI:                     "bolt://localhost:7687",
		Username:                "neo4j",
		Password:                "password",
		MaxConnectionPoolSize:   50,
		ConnectionTimeout:       30 * time.Second,
		MaxTransactionRetryTime: 15 * time.Second,
		ConnectRetries:          5,
	}
}

// Validate reports the first missing or non-positive setting.
func (c GraphClientConfig) Validate() error {
	checks := []struct {
		bad bool
		msg string
	}{
		{c.URI == "", "URI cannot be empty"},
		{c.Username == "", "Username cannot be empty"},
		{c.Password == "", "Password cannot be empty"},
		{c.ConnectionTimeout <= 0, "ConnectionTimeout must be positive"},
		{c.MaxTransactionRetryTime <= 0, "MaxTransactionRetryTime must be positive"},
	}
	for _, chk := range checks {
		if chk.bad {
			return types.NewError(ErrCodeGraphInvalidConfig, chk.msg)
		}
	}
	return nil
}
