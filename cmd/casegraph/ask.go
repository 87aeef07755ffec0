package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ManishKondoju/CrimeInvestigationGraph/cmd/casegraph/internal"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/conversation"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/graphrag/facts"
)

var (
	askShowQueries bool
	askBundleOut   string
	askSelect      string
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a single question",
	Long: `Answer one question from the graph store and exit.

Examples:
  casegraph ask "Who are the members of West Side Crew?"
  casegraph ask --show-queries "Which locations are the most dangerous?"
  casegraph ask -o json "How is Marcus Johnson connected to Tyrone Williams?"
  casegraph ask --select '$.result_sets[*].records[*].member' "Who is in West Side Crew?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askShowQueries, "show-queries", false, "Print the executed queries after the answer")
	askCmd.Flags().StringVar(&askBundleOut, "bundle-out", "", "Write the fact bundle as JSON to this file")
	askCmd.Flags().StringVar(&askSelect, "select", "", "Print only the fact bundle values matching this JSONPath expression")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	question := strings.Join(args, " ")

	a, err := newApp(ctx, cliConfig, cmd.ErrOrStderr(), appOptions{requireStore: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.engine.RefreshIndex(ctx); err != nil {
		a.logger.Warn("answering without a name index", "error", err)
	}

	resp, err := a.engine.Ask(ctx, conversation.NewSession(), question)
	if err != nil {
		return err
	}

	if askBundleOut != "" && resp.Bundle != nil {
		if err := writeBundle(askBundleOut, resp.Bundle); err != nil {
			return err
		}
	}
	if askSelect != "" {
		return printSelection(cmd, resp.Bundle, askSelect)
	}
	return renderResponse(cmd.OutOrStdout(), globalFlags.Format(), resp, askShowQueries)
}

func printSelection(cmd *cobra.Command, b *facts.Bundle, path string) error {
	f := internal.NewFormatter(globalFlags.Format(), cmd.OutOrStdout())
	if b == nil {
		return f.PrintData([]any{})
	}
	values, err := facts.Select(b, path)
	if err != nil {
		return internal.WrapError(internal.ExitError, "invalid --select expression", err)
	}
	if globalFlags.Format() != internal.FormatText {
		return f.PrintData(values)
	}
	for _, v := range values {
		fmt.Fprintln(cmd.OutOrStdout(), facts.FormatValue(v))
	}
	return nil
}

func writeBundle(path string, b *facts.Bundle) error {
	data, err := facts.MarshalTransparency(b)
	if err != nil {
		return fmt.Errorf("failed to encode bundle: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return internal.WrapError(internal.ExitError, "failed to write bundle", err)
	}
	return nil
}
