package internal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/graph"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/types"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", errors.New("boom"), ExitError},
		{"cli error", NewCLIError(ExitConfigError, "bad flag"), ExitConfigError},
		{"store unavailable", types.NewError(types.STORE_UNAVAILABLE, "all operations failed"), ExitStoreUnavailable},
		{"connection failed", fmt.Errorf("connect: %w", types.NewError(graph.ErrCodeGraphConnectionFailed, "refused")), ExitStoreUnavailable},
		{"deadline", fmt.Errorf("ask: %w", context.DeadlineExceeded), ExitTimeout},
		{"query timeout", types.NewError(graph.ErrCodeGraphQueryTimeout, "slow"), ExitTimeout},
		{"config", types.NewError(types.CONFIG_VALIDATION_FAILED, "workers"), ExitConfigError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func newTestCommand() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().BoolP("verbose", "v", false, "")
	var buf bytes.Buffer
	cmd.SetErr(&buf)
	return cmd, &buf
}

func TestHandleError_HidesStoreDetails(t *testing.T) {
	cmd, buf := newTestCommand()
	err := types.WrapError(types.STORE_UNAVAILABLE, "all operations failed",
		errors.New("ConnectivityError: bolt://10.0.0.5:7687 refused"))

	code := HandleError(cmd, err)

	assert.Equal(t, ExitStoreUnavailable, code)
	assert.Contains(t, buf.String(), "Investigation data is unavailable")
	assert.NotContains(t, buf.String(), "10.0.0.5")
}

func TestHandleError_VerboseShowsCause(t *testing.T) {
	cmd, buf := newTestCommand()
	_ = cmd.Flags().Set("verbose", "true")

	code := HandleError(cmd, WrapError(ExitConfigError, "failed to load config", errors.New("yaml: line 3")))

	assert.Equal(t, ExitConfigError, code)
	assert.Contains(t, buf.String(), "Error: failed to load config")
	assert.Contains(t, buf.String(), "Cause: yaml: line 3")
}

func TestHandleError_Cancelled(t *testing.T) {
	cmd, buf := newTestCommand()
	assert.Equal(t, ExitError, HandleError(cmd, context.Canceled))
	assert.Contains(t, buf.String(), "Operation cancelled")
}

func TestCLIError(t *testing.T) {
	cause := errors.New("no such file")
	err := WrapError(ExitConfigError, "failed to load config", cause)

	assert.Equal(t, "failed to load config: no such file", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "bad", NewCLIError(ExitError, "bad").Error())
}
