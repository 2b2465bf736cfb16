// Package cli implements the nest command line.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/zoobzio/nest/internal/logger"
)

// options are the persistent flags shared by every command.
type options struct {
	file    string
	format  string
	debug   bool
	logJSON bool
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	var cleanup func()

	cmd := &cobra.Command{
		Use:          "nest",
		Short:        "Read, write and compare nested documents by dotted path",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cleanup = logger.Setup(logger.Config{
				Output: cmd.ErrOrStderr(),
				Debug:  opts.debug,
				JSON:   opts.logJSON,
			})
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if cleanup != nil {
				cleanup()
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "input document (default stdin)")
	cmd.PersistentFlags().StringVar(&opts.format, "format", "", "input format: json, yaml, msgpack, bson (default from extension, else json)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable verbose logging to stderr")
	cmd.PersistentFlags().BoolVar(&opts.logJSON, "log-json", false, "log as JSON lines")

	cmd.AddCommand(
		getCmd(opts),
		setCmd(opts),
		equalCmd(opts),
		fingerprintCmd(opts),
		convertCmd(opts),
	)
	return cmd
}
