// Package cli implements the dataview command line: inspecting, fingerprinting
// and recompressing captured view blobs.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/katalvlaran/dataview/config"
	"github.com/katalvlaran/dataview/state"
	"github.com/katalvlaran/dataview/viewerr"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Config  string
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "dataview",
		Short: "Inspect captured data views",
		Long:  "Inspect, fingerprint and recompress self-contained view blobs produced by CaptureState.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "config file (YAML)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log state events to stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewInspectCommand(opts))
	cmd.AddCommand(NewDigestCommand(opts))
	cmd.AddCommand(NewRecodeCommand(opts))

	return cmd
}

// env is the per-invocation configuration shared by subcommands.
type env struct {
	cfg       *config.Config
	logger    *slog.Logger
	stateOpts []state.Option
	out       *OutputFormatter
}

// setup loads the configuration and builds the logger. Without --verbose
// only warnings reach stderr.
func (o *RootOptions) setup(cmd *cobra.Command) (*env, error) {
	out := &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
	cfg, err := config.Load(o.Config)
	if err != nil {
		return nil, out.Fail(ExitCommandError, "load config", err)
	}
	if o.Verbose {
		cfg.Log.Level = "debug"
	} else if cfg.Log.Level == "info" {
		cfg.Log.Level = "warn"
	}
	logger, err := cfg.Logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, out.Fail(ExitCommandError, "logger", err)
	}
	sopts, err := cfg.StateOptions(logger)
	if err != nil {
		return nil, out.Fail(ExitCommandError, "capture options", err)
	}
	return &env{cfg: cfg, logger: logger, stateOpts: sopts, out: out}, nil
}

// readBlob loads a blob file.
func (e *env) readBlob(path string) (state.Blob, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, e.out.Fail(ExitCommandError, "read blob", err)
	}
	return b, nil
}

// blobError maps a view error to an exit error.
func (e *env) blobError(path string, err error) error {
	if errors.Is(err, viewerr.ErrSerialization) {
		return e.out.Fail(ExitFailure, path, err)
	}
	return e.out.Fail(ExitCommandError, path, err)
}
