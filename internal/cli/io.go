package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zoobzio/nest"
	"github.com/zoobzio/nest/internal/logger"
)

// document is a decoded input along with the codec that read it.
type document struct {
	value any
	codec nest.Codec
}

// readDocument decodes path, or stdin when path is empty or "-".
func readDocument(cmd *cobra.Command, path, format string) (document, error) {
	codec, err := codecFor(resolveFormat(path, format))
	if err != nil {
		return document{}, err
	}

	var data []byte
	if path == "" || path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return document{}, fmt.Errorf("read input: %w", err)
	}

	var v any
	if err := codec.Unmarshal(data, &v); err != nil {
		return document{}, fmt.Errorf("decode %s input: %w", codec.ContentType(), err)
	}

	logger.L().Debug("document.decoded",
		"path", path,
		"content_type", codec.ContentType(),
		"bytes", len(data),
	)
	return document{value: v, codec: codec}, nil
}

// writeValue encodes v with codec to the command's output.
func writeValue(cmd *cobra.Command, codec nest.Codec, v any) error {
	data, err := codec.Marshal(v)
	if err != nil {
		return err
	}
	if isText(codec) {
		data = append(data, '\n')
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// outputCodec returns the codec named by to, or fallback when to is empty.
func outputCodec(to string, fallback nest.Codec) (nest.Codec, error) {
	if to == "" {
		return fallback, nil
	}
	return codecFor(to)
}
