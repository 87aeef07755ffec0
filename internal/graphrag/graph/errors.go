package graph

import (
	"context"
	"errors"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/types"
)

// Graph database error codes
const (
	// Connection errors
	ErrCodeGraphConnectionFailed types.ErrorCode = "GRAPH_CONNECTION_FAILED"
	ErrCodeGraphConnectionLost   types.ErrorCode = "GRAPH_CONNECTION_LOST"
	ErrCodeGraphConnectionClosed types.ErrorCode = "GRAPH_CONNECTION_CLOSED"

	// Configuration errors
	ErrCodeGraphInvalidConfig types.ErrorCode = "GRAPH_INVALID_CONFIG"

	// Query errors
	ErrCodeGraphQueryFailed  types.ErrorCode = "GRAPH_QUERY_FAILED"
	ErrCodeGraphQueryTimeout types.ErrorCode = "GRAPH_QUERY_TIMEOUT"
)

// IsConnectionError reports whether err means the store could not be reached
// at all, as opposed to a single query failing.
func IsConnectionError(err error) bool {
	return types.HasCode(err, ErrCodeGraphConnectionFailed) ||
		types.HasCode(err, ErrCodeGraphConnectionLost) ||
		types.HasCode(err, ErrCodeGraphConnectionClosed)
}

// IsTimeout reports whether err is a query deadline expiry.
func IsTimeout(err error) bool {
	return types.HasCode(err, ErrCodeGraphQueryTimeout) || errors.Is(err, context.DeadlineExceeded)
}
