package main

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/ManishKondoju/CrimeInvestigationGraph/cmd/casegraph/internal"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/observability"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/types"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the graph store and the name index",
	Long: `Check the graph store connection and load the name index.

Exits with status 3 when the graph store is unhealthy.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx, cliConfig, cmd.ErrOrStderr(), appOptions{requireStore: false})
		if err != nil {
			return err
		}
		defer a.Close()

		// A failed load leaves the index degraded; the monitor reports it.
		_, _ = a.engine.RefreshIndex(ctx)

		results := a.monitor.CheckAll(ctx)
		overall := observability.Overall(results)

		if err := printHealth(cmd, results, overall); err != nil {
			return err
		}
		if results["graph"].IsUnhealthy() {
			return internal.NewCLIError(internal.ExitStoreUnavailable, "graph store is unhealthy")
		}
		return nil
	},
}

type healthReport struct {
	Overall    types.HealthStatus            `json:"overall"`
	Components map[string]types.HealthStatus `json:"components"`
}

func printHealth(cmd *cobra.Command, results map[string]types.HealthStatus, overall types.HealthStatus) error {
	format := globalFlags.Format()
	f := internal.NewFormatter(format, cmd.OutOrStdout())
	if format != internal.FormatText {
		return f.PrintData(healthReport{Overall: overall, Components: results})
	}

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names)+1)
	for _, name := range names {
		rows = append(rows, []string{name, string(results[name].State), results[name].Message})
	}
	rows = append(rows, []string{"overall", string(overall.State), overall.Message})
	return f.PrintTable([]string{"component", "state", "message"}, rows)
}
