package main

import (
	"github.com/spf13/cobra"

	"github.com/ManishKondoju/CrimeInvestigationGraph/cmd/casegraph/internal"
	"github.com/ManishKondoju/CrimeInvestigationGraph/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := globalFlags.Format()
		if format == internal.FormatText {
			cmd.Println(version.String())
			return nil
		}
		return internal.NewFormatter(format, cmd.OutOrStdout()).PrintData(version.Info())
	},
}
