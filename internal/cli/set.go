package cli

import (
	"github.com/spf13/cobra"

	"github.com/zoobzio/nest"
	"github.com/zoobzio/nest/internal/logger"
)

func setCmd(opts *options) *cobra.Command {
	var asString bool
	var to string

	c := &cobra.Command{
		Use:   "set <path> <value>",
		Short: "Write a value at a dotted path and print the document",
		Long: "Write a value at a dotted path and print the document.\n\n" +
			"The value is parsed as JSON when it is valid JSON (numbers, true, null, " +
			"objects, arrays, quoted strings) and taken as a plain string otherwise. " +
			"Missing intermediates are created as objects; arrays grow with null holes.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd, opts.file, opts.format)
			if err != nil {
				return err
			}

			value := parseValue(args[1], asString)
			root, err := nest.Set(doc.value, args[0], value)
			if err != nil {
				return err
			}
			logger.L().Debug("set.applied", "path", args[0])

			out, err := outputCodec(to, doc.codec)
			if err != nil {
				return err
			}
			return writeValue(cmd, out, root)
		},
	}

	c.Flags().BoolVarP(&asString, "string", "s", false, "treat the value as a string even when it is valid JSON")
	c.Flags().StringVar(&to, "to", "", "output format (default: input format)")
	return c
}

// parseValue decodes s as JSON unless asString is set or s is not JSON.
func parseValue(s string, asString bool) any {
	if asString {
		return s
	}
	var v any
	if err := nest.JSON().Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}
