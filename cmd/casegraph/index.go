package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ManishKondoju/CrimeInvestigationGraph/cmd/casegraph/internal"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/schema"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Inspect the entity name index",
}

var indexRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rebuild the name index from the graph and report its size",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx, cliConfig, cmd.ErrOrStderr(), appOptions{requireStore: true})
		if err != nil {
			return err
		}
		defer a.Close()

		idx, err := a.engine.RefreshIndex(ctx)
		if err != nil {
			return err
		}

		f := internal.NewFormatter(globalFlags.Format(), cmd.OutOrStdout())
		counts := []struct {
			label string
			t     schema.NodeType
		}{
			{"organizations", schema.NodeTypeOrganization},
			{"locations", schema.NodeTypeLocation},
			{"persons", schema.NodeTypePerson},
		}
		rows := make([][]string, 0, len(counts))
		for _, c := range counts {
			rows = append(rows, []string{c.label, fmt.Sprint(idx.Count(c.t))})
		}
		if err := f.PrintTable([]string{"type", "names"}, rows); err != nil {
			return err
		}
		if globalFlags.Format() == internal.FormatText {
			return f.PrintSuccess(fmt.Sprintf("index built at %s", idx.BuiltAt().Format("2006-01-02 15:04:05")))
		}
		return nil
	},
}

func init() {
	indexCmd.AddCommand(indexRefreshCmd)
}
