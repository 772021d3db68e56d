// Package main provides the entry point for the streamreport CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for streamreport.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "streamreport",
		Short: "Report formatter for process-simulation snapshots",
		Long: `streamreport renders simulation snapshot documents (streams, holdups,
and feeds captured at a time point) as human-readable reports.

The default output is a fixed-layout text report with Overall,
Composition, and Distributions sections. JSON and Markdown output are
available via flags, and rendered snapshots can be stored in a local
history database for later comparison.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewRenderCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
