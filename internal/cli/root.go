// Package cli implements the seedctl command surface: normalize, verify,
// seed, and report.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/driveline-ed/contentpipe/internal/platform/config"
)

// RootOptions holds flags shared by all commands.
type RootOptions struct {
	Config  *config.Config
	Verbose bool
}

// NewRootCommand creates the seedctl root command.
func NewRootCommand(cfg *config.Config) *cobra.Command {
	opts := &RootOptions{Config: cfg}

	cmd := &cobra.Command{
		Use:           "seedctl",
		Short:         "Curriculum and question-bank content pipeline",
		Long:          "seedctl normalizes legacy curriculum/question JSON into the canonical schema,\nverifies on-disk files, seeds the relational store, and generates regulatory reports.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewNormalizeCommand(opts))
	cmd.AddCommand(NewVerifyCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))

	return cmd
}
