package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ManishKondoju/CrimeInvestigationGraph/cmd/casegraph/internal"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "casegraph",
	Short: "casegraph - answer investigation questions from a crime knowledge graph",
	Long: `casegraph answers natural-language questions about persons, organizations,
incidents and locations stored in a Neo4j crime knowledge graph.

Every answer is built from the records the graph returns. Names and numbers
that do not appear in those records are rejected before the answer is shown.`,
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// cliConfig is the configuration loaded for the running command.
var cliConfig *config.Config

// Execute runs the root command with signal handling
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

// loadConfig runs before every command. An explicit --config file must exist;
// the default path falls back to built-in defaults.
func loadConfig(cmd *cobra.Command, args []string) error {
	flags, err := ParseGlobalFlags()
	if err != nil {
		return err
	}

	switch cmd.Name() {
	case "version", "help", "completion", "validate":
		// validate loads the file itself and reports errors in its own terms.
		return nil
	}

	loader := config.NewConfigLoader(config.NewValidator())

	var cfg *config.Config
	if flags.ConfigFile != "" {
		cfg, err = loader.Load(flags.ConfigFile)
	} else {
		cfg, err = loader.LoadWithDefaults(config.DefaultConfigPath(config.DefaultHomeDir()))
	}
	if err != nil {
		return internal.WrapError(internal.ExitConfigError, "failed to load config", err)
	}

	if level := flags.LogLevel(); level != "" {
		cfg.Logging.Level = level
	}
	cliConfig = cfg
	return nil
}

func init() {
	RegisterGlobalFlags(rootCmd)

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(analyticsCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
