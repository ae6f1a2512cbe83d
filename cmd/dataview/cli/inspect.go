package cli

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/dataview"
	"github.com/katalvlaran/dataview/recarray"
	"github.com/katalvlaran/dataview/relation"
	"github.com/katalvlaran/dataview/state"
	"github.com/katalvlaran/dataview/variadic"
	"github.com/spf13/cobra"
)

// InspectResult describes one blob.
type InspectResult struct {
	Path    string `json:"path"`
	Version uint16 `json:"version"`
	Kind    string `json:"kind"`
	Codec   string `json:"codec"`
	Size    int    `json:"size"`
	Stored  int    `json:"stored"`
	Shape   []int  `json:"shape,omitempty"`
	Elem    string `json:"elem"`
	Masked  int    `json:"masked,omitempty"`
	NNZ     int    `json:"nnz,omitempty"`
	Key     string `json:"key"`
}

// String renders the text form.
func (r InspectResult) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s v%d\n", r.Path, r.Kind, r.Version)
	fmt.Fprintf(&sb, "  codec  %s (%d -> %d bytes)\n", r.Codec, r.Size, r.Stored)
	fmt.Fprintf(&sb, "  shape  %v\n", r.Shape)
	fmt.Fprintf(&sb, "  elem   %s\n", r.Elem)
	if r.Masked > 0 {
		fmt.Fprintf(&sb, "  masked %d\n", r.Masked)
	}
	if r.Kind == state.KindSparseRelation.String() {
		fmt.Fprintf(&sb, "  nnz    %d\n", r.NNZ)
	}
	fmt.Fprintf(&sb, "  key    %s", r.Key)
	return sb.String()
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <blob>",
		Short: "Describe a captured view",
		Long: `Decode a blob, restore the view it holds and print its envelope
metadata, shape, element type and BLAKE3 content key.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], cmd)
		},
	}
}

func runInspect(opts *RootOptions, path string, cmd *cobra.Command) error {
	e, err := opts.setup(cmd)
	if err != nil {
		return err
	}
	b, err := e.readBlob(path)
	if err != nil {
		return err
	}

	h, err := state.Peek(b)
	if err != nil {
		return e.blobError(path, err)
	}
	v, err := dataview.Restore(b, e.stateOpts...)
	if err != nil {
		return e.blobError(path, err)
	}
	res, err := describe(path, h, v)
	if err != nil {
		return e.blobError(path, err)
	}
	e.logger.Debug("inspected", "path", path, "kind", res.Kind)

	return e.out.Success(res)
}

func describe(path string, h state.Header, v dataview.View) (InspectResult, error) {
	res := InspectResult{
		Path:    path,
		Version: h.Version,
		Kind:    h.Kind.String(),
		Codec:   h.Codec.String(),
		Size:    h.Size,
		Stored:  h.Stored,
	}
	switch x := v.(type) {
	case *recarray.View:
		res.Shape = []int{x.Len(), x.Schema().NumFields()}
		res.Elem = x.Schema().String()
		res.Masked = x.Mask().Count()
	case *relation.Dense:
		res.Shape = x.Shape()
		res.Elem = x.Kind().String()
		res.Masked = x.Mask().Count()
	case *relation.Sparse:
		res.Shape = x.Shape()
		res.Elem = x.Kind().String()
		res.NNZ = x.NNZ()
	case *variadic.View:
		res.Shape = []int{x.Count()}
		res.Elem = x.Kind().String()
	}

	key, err := keyOf(v)
	if err != nil {
		return InspectResult{}, err
	}
	res.Key = key
	return res, nil
}
