package graphrag

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/types"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"store unavailable", types.NewRetryableError(types.STORE_UNAVAILABLE, "neo4j: connection refused"), MessageUnavailable},
		{"wrapped store unavailable", fmt.Errorf("ask: %w", types.NewError(types.STORE_UNAVAILABLE, "down")), MessageUnavailable},
		{"stale", types.NewError(types.STALE_TURN, "superseded"), MessageSuperseded},
		{"deadline", fmt.Errorf("execute: %w", context.DeadlineExceeded), MessageTimeout},
		{"other", types.NewError(types.INVALID_OPERATION, "bad plan"), MessageFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UserMessage(tt.err)
			assert.Equal(t, tt.want, got)
			if tt.err != nil {
				assert.NotContains(t, got, "neo4j")
			}
		})
	}
}
