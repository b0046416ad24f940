// Command noderctl ingests, exports and watches blueprint files offline.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/noder-app/noder-backend/internal/platform/logging"
)

const (
	exitOK       = 0
	exitError    = 1
	exitRejected = 2
)

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "noderctl",
		Short:         "Turn generator output and saved payloads into blueprint graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.Init(logLevel, string(logging.FormatText))
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newIngestCmd(), newExportCmd(), newWatchCmd())
	return root
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		root.PrintErrln("Error:", err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitOK)
}
