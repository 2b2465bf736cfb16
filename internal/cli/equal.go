package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zoobzio/nest"
)

// errDifferent reports documents that are not structurally equal.
var errDifferent = errors.New("documents differ")

func equalCmd(opts *options) *cobra.Command {
	var quiet bool

	c := &cobra.Command{
		Use:   "equal <a> <b>",
		Short: "Compare two documents structurally; exits non-zero when they differ",
		Long: "Compare two documents structurally.\n\n" +
			"Documents are equal when their canonical JSON text is identical, so " +
			"object key order matters and formats may differ. Each file's format " +
			"comes from --format or its extension.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := readDocument(cmd, args[0], opts.format)
			if err != nil {
				return err
			}
			b, err := readDocument(cmd, args[1], opts.format)
			if err != nil {
				return err
			}

			equal, err := nest.EqualE(a.value, b.value)
			if err != nil {
				return err
			}

			if !quiet {
				result := "different"
				if equal {
					result = "equal"
				}
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			}
			if !equal {
				return errDifferent
			}
			return nil
		},
	}

	c.Flags().BoolVarP(&quiet, "quiet", "q", false, "print nothing; report through the exit status only")
	return c
}
