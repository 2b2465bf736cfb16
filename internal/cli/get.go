package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/spf13/cobra"

	"github.com/zoobzio/nest"
	"github.com/zoobzio/nest/internal/logger"
)

// errNotFound reports a path that resolves to nothing.
var errNotFound = errors.New("path not found")

func getCmd(opts *options) *cobra.Command {
	var query string
	var raw bool
	var to string

	c := &cobra.Command{
		Use:   "get [path]",
		Short: "Print the value at a dotted path (or a JSONPath query)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (query == "") == (len(args) == 0) {
				return errors.New("give exactly one of a path argument or --jsonpath")
			}

			doc, err := readDocument(cmd, opts.file, opts.format)
			if err != nil {
				return err
			}

			var v any
			if query != "" {
				v, err = jsonpath.Get(strings.TrimSpace(query), nest.Plain(doc.value))
				if err != nil {
					return fmt.Errorf("jsonpath %q: %w", query, err)
				}
			} else {
				path, err := nest.ParsePath(args[0])
				if err != nil {
					return err
				}
				var ok bool
				v, ok = path.Get(doc.value)
				if !ok {
					logger.L().Debug("get.miss", "path", args[0])
					return fmt.Errorf("%w: %s", errNotFound, args[0])
				}
			}

			if s, ok := v.(string); ok && raw {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), s)
				return err
			}

			out, err := outputCodec(to, nest.JSON())
			if err != nil {
				return err
			}
			return writeValue(cmd, out, v)
		},
	}

	c.Flags().StringVar(&query, "jsonpath", "", "JSONPath expression instead of a dotted path (object key order is not kept)")
	c.Flags().BoolVarP(&raw, "raw", "r", false, "print strings without JSON quoting")
	c.Flags().StringVar(&to, "to", "", "output format (default json)")
	return c
}
