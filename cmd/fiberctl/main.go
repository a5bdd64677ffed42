package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-preview"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "fiberctl",
		Short: "fiberctl - run and observe the fiber runtime's demo scenarios",
		Long: `fiberctl runs the fiber runtime's example programs, serves their
lifecycle events over a websocket for live observation, and watches
that stream from a terminal dashboard.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	}

	rootCmd.AddCommand(newHelloCommand())
	rootCmd.AddCommand(newSieveCommand())
	rootCmd.AddCommand(newDevserverCommand())
	rootCmd.AddCommand(newWatchCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
