package cli

import (
	"crypto/sha1"
	"crypto/sha256"
	"fmt"
	"hash"
	"slices"

	"github.com/katalvlaran/dataview"
	"github.com/katalvlaran/dataview/digest"
	"github.com/spf13/cobra"
)

// ValidAlgos lists the hashes the digest command can drive.
var ValidAlgos = []string{"key", "blake3", "sha256", "sha1"}

// DigestResult is the fingerprint of one blob.
type DigestResult struct {
	Path string `json:"path"`
	Algo string `json:"algo"`
	Hex  string `json:"hex"`
}

func (r DigestResult) String() string {
	return fmt.Sprintf("%s  %s (%s)", r.Hex, r.Path, r.Algo)
}

// NewDigestCommand creates the digest command.
func NewDigestCommand(rootOpts *RootOptions) *cobra.Command {
	var algo string

	cmd := &cobra.Command{
		Use:   "digest <blob>...",
		Short: "Fingerprint the logical content of captured views",
		Long: `Restore each blob and hash the canonical content stream of its view.

The default algorithm "key" is the keyed BLAKE3 content key; "blake3",
"sha256" and "sha1" hash the same stream unkeyed. Blobs that differ only in
compression or masked payloads print the same digest.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDigest(rootOpts, algo, args, cmd)
		},
	}
	cmd.Flags().StringVarP(&algo, "algo", "a", "key", "hash algorithm (key|blake3|sha256|sha1)")

	return cmd
}

func runDigest(opts *RootOptions, algo string, paths []string, cmd *cobra.Command) error {
	e, err := opts.setup(cmd)
	if err != nil {
		return err
	}
	if !slices.Contains(ValidAlgos, algo) {
		return e.out.Fail(ExitCommandError, "digest", fmt.Errorf("unknown algorithm %q: must be one of %v", algo, ValidAlgos))
	}

	for _, path := range paths {
		b, err := e.readBlob(path)
		if err != nil {
			return err
		}
		v, err := dataview.Restore(b, e.stateOpts...)
		if err != nil {
			return e.blobError(path, err)
		}
		sum, err := hexOf(algo, v)
		if err != nil {
			return e.blobError(path, err)
		}
		if err := e.out.Success(DigestResult{Path: path, Algo: algo, Hex: sum}); err != nil {
			return err
		}
	}
	return nil
}

func hexOf(algo string, v dataview.View) (string, error) {
	var h hash.Hash
	switch algo {
	case "key":
		return keyOf(v)
	case "blake3":
		h = digest.NewBlake3()
	case "sha256":
		h = sha256.New()
	case "sha1":
		h = sha1.New()
	}
	return digest.Hex(v, h)
}

func keyOf(v dataview.View) (string, error) {
	k, err := digest.KeyOf(v)
	if err != nil {
		return "", err
	}
	return k.String(), nil
}
