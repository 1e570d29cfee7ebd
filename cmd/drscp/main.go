// Package main implements the drscp CLI: building Super Check Partial
// dictionaries from directories of Cabrillo contest logs.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/N7DR/drscp/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "drscp --dir <logs> --start <when> --hrs <n>",
	Short:         "Generate Super Check Partial dictionaries from contest logs",
	Long:          "drscp validates the callsigns heard across a corpus of contest submission logs,\nremoves apparent busts, and emits an SCP or XSCP dictionary.",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          runGenerate,
}

func main() {
	rootCmd.Version = version.Version

	// a .env next to the binary may seed DRSCP_* defaults
	_ = godotenv.Load()

	rootCmd.AddCommand(versionCmd)

	registerGenerateFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
