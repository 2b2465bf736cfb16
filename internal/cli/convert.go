package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/zoobzio/nest/internal/logger"
)

func convertCmd(opts *options) *cobra.Command {
	var to string

	c := &cobra.Command{
		Use:   "convert --to <format>",
		Short: "Re-encode the document in another format, keeping key order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if to == "" {
				return errors.New("--to is required")
			}
			out, err := codecFor(to)
			if err != nil {
				return err
			}

			doc, err := readDocument(cmd, opts.file, opts.format)
			if err != nil {
				return err
			}

			logger.L().Debug("convert.done",
				"from", doc.codec.ContentType(),
				"to", out.ContentType(),
			)
			return writeValue(cmd, out, doc.value)
		},
	}

	c.Flags().StringVarP(&to, "to", "t", "", "output format: json, yaml, msgpack, bson")
	return c
}
