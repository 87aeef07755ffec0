package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ManishKondoju/CrimeInvestigationGraph/cmd/casegraph/internal"
	"github.com/ManishKondoju/CrimeInvestigationGraph/internal/config"
)

const redacted = "********"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the casegraph configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with secrets redacted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := redactConfig(cliConfig)

		format := globalFlags.Format()
		if format == internal.FormatJSON {
			return internal.NewFormatter(format, cmd.OutOrStdout()).PrintData(cfg)
		}

		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config to YAML: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Validate the casegraph configuration file.

This checks that the YAML is well formed, that required fields are present
and that values are within their allowed ranges.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := globalFlags.ConfigFile
		if path == "" {
			path = config.DefaultConfigPath(config.DefaultHomeDir())
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return internal.NewCLIError(internal.ExitConfigError, fmt.Sprintf("config file does not exist: %s", path))
		}
		loader := config.NewConfigLoader(config.NewValidator())
		if _, err := loader.Load(path); err != nil {
			return internal.WrapError(internal.ExitConfigError, "configuration validation failed", err)
		}
		return internal.NewFormatter(globalFlags.Format(), cmd.OutOrStdout()).
			PrintSuccess(fmt.Sprintf("configuration is valid: %s", path))
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

// redactConfig returns a copy of cfg with credentials masked.
func redactConfig(cfg *config.Config) config.Config {
	if cfg == nil {
		return *config.DefaultConfig()
	}
	out := *cfg
	if out.Graph.Password != "" {
		out.Graph.Password = redacted
	}
	if out.Generator.APIKey != "" {
		out.Generator.APIKey = redacted
	}
	return out
}
