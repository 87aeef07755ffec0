package main

import (
	"github.com/spf13/cobra"

	"github.com/ManishKondoju/CrimeInvestigationGraph/cmd/casegraph/internal"
)

// GlobalFlags holds global flags available to all commands
type GlobalFlags struct {
	Verbose      bool
	Quiet        bool
	OutputFormat string
	ConfigFile   string
}

var globalFlags = &GlobalFlags{}

// RegisterGlobalFlags registers persistent flags on the root command
func RegisterGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&globalFlags.Quiet, "quiet", "q", false, "Only log errors")
	cmd.PersistentFlags().StringVarP(&globalFlags.OutputFormat, "output", "o", "text", "Output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&globalFlags.ConfigFile, "config", "", "Path to config file (default: ~/.casegraph/config.yaml)")
}

// ParseGlobalFlags validates the global flags.
func ParseGlobalFlags() (*GlobalFlags, error) {
	if _, err := internal.ParseOutputFormat(globalFlags.OutputFormat); err != nil {
		return nil, internal.WrapError(internal.ExitError, "invalid --output", err)
	}
	if globalFlags.Verbose && globalFlags.Quiet {
		return nil, internal.NewCLIError(internal.ExitError, "--verbose and --quiet cannot be used together")
	}
	return globalFlags, nil
}

// Format returns the parsed output format.
func (f *GlobalFlags) Format() internal.OutputFormat {
	format, err := internal.ParseOutputFormat(f.OutputFormat)
	if err != nil {
		return internal.FormatText
	}
	return format
}

// LogLevel returns the level override implied by --verbose or --quiet, or
// "" to keep the configured level.
func (f *GlobalFlags) LogLevel() string {
	switch {
	case f.Verbose:
		return "debug"
	case f.Quiet:
		return "error"
	default:
		return ""
	}
}
