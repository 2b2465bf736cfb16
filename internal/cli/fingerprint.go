package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zoobzio/nest"
)

func fingerprintCmd(opts *options) *cobra.Command {
	var algo string
	var keyFile string

	c := &cobra.Command{
		Use:   "fingerprint",
		Short: "Print a digest of the document's canonical JSON text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			hasher, err := hasherFor(nest.HashAlgo(algo), keyFile)
			if err != nil {
				return err
			}

			doc, err := readDocument(cmd, opts.file, opts.format)
			if err != nil {
				return err
			}

			s := nest.NewStructural(nest.JSON()).SetHasher(hasher)
			sum, err := s.Fingerprint(cmd.Context(), doc.value)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), sum)
			return err
		},
	}

	c.Flags().StringVarP(&algo, "algo", "a", string(nest.HashSHA256), "digest: sha256, sha512, blake2b")
	c.Flags().StringVar(&keyFile, "key-file", "", "BLAKE2b MAC key file (at most 64 bytes; implies blake2b)")
	return c
}

// hasherFor resolves the digest flags into a hasher.
func hasherFor(algo nest.HashAlgo, keyFile string) (nest.Hasher, error) {
	if keyFile != "" {
		key, err := os.ReadFile(keyFile)
		if err != nil {
			return nil, fmt.Errorf("read key: %w", err)
		}
		return nest.BLAKE2bKeyedHasher(key)
	}
	h, ok := nest.HasherFor(algo)
	if !ok {
		return nil, fmt.Errorf("unknown digest %q", algo)
	}
	return h, nil
}
