// Package main provides the entry point for the lichao CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/lichao/cmd/lichao/commands"
	"github.com/Sumatoshi-tech/lichao/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lichao",
		Short: "Li-Chao tree - line envelope evaluation tool",
		Long: `Lichao maintains a set of lines over a bounded integer domain and
reports the minimum or maximum value any line attains at queried points.

Commands:
  eval      Evaluate the line envelope at given points
  bench     Measure insert/query throughput on random lines`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add commands.
	rootCmd.AddCommand(commands.NewEvalCommand())
	rootCmd.AddCommand(commands.NewBenchCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "lichao %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
