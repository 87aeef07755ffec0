package main

import (
	"github.com/spf13/cobra"

	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/query"
)

var analyticsLimit int

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Run a graph analytics computation",
	Long: `Run one analytics computation over the current graph and print its records.

The computations are the same ones used to answer questions such as
"who is the most influential person?" or "where are the crime hotspots?".`,
}

// analyticsCommands maps each subcommand to the operations it runs.
var analyticsCommands = []struct {
	use   string
	short string
	ops   func(limit int) []query.Operation
}{
	{"influence", "Rank persons by weighted incident and acquaintance counts", single(query.KindInfluence)},
	{"bridges", "Find persons connected to several organizations", single(query.KindBridges)},
	{"hidden", "Find cross-organization co-offending pairs", single(query.KindHiddenCommunities)},
	{"hubs", "Rank persons by acquaintance count", single(query.KindDegree)},
	{"hotspots", "Cluster geocoded incidents into risk-scored regions", single(query.KindHotspots)},
	{"locations", "Score each location by incident volume and severity", single(query.KindLocationRisk)},
	{"stats", "Count nodes and relations and summarize the acquaintance network", func(int) []query.Operation {
		return []query.Operation{query.NodeCounts(), query.RelationCounts(), query.NetworkStats()}
	}},
}

func single(kind query.Kind) func(limit int) []query.Operation {
	return func(limit int) []query.Operation {
		return []query.Operation{query.Analytics(kind, limit)}
	}
}

func init() {
	analyticsCmd.PersistentFlags().IntVar(&analyticsLimit, "limit", 0, "Maximum records per result (default: engine.top_n)")

	for _, ac := range analyticsCommands {
		ac := ac
		analyticsCmd.AddCommand(&cobra.Command{
			Use:   ac.use,
			Short: ac.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runAnalytics(cmd, "analytics "+ac.use, ac.ops)
			},
		})
	}
}

func runAnalytics(cmd *cobra.Command, title string, ops func(int) []query.Operation) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, cliConfig, cmd.ErrOrStderr(), appOptions{requireStore: true})
	if err != nil {
		return err
	}
	defer a.Close()

	limit := analyticsLimit
	if limit <= 0 {
		limit = a.cfg.Engine.TopN
	}

	bundle, err := a.engine.Run(ctx, title, ops(limit)...)
	if err != nil {
		return err
	}
	return renderBundle(cmd.OutOrStdout(), globalFlags.Format(), bundle)
}
