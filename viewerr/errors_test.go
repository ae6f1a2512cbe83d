package viewerr_test

import (
	"errors"
	"testing"

	"github.com/katalvlaran/dataview/viewerr"
	"github.com/stretchr/testify/require"
)

// TestCategoryMembership checks that every fine-grained sentinel matches its category only.
func TestCategoryMembership(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		category error
	}{
		{"kind", viewerr.ErrUnsupportedKind, viewerr.ErrConstruction},
		{"shape", viewerr.ErrBadShape, viewerr.ErrConstruction},
		{"layout", viewerr.ErrLayoutMismatch, viewerr.ErrConstruction},
		{"mask", viewerr.ErrMaskShape, viewerr.ErrConstruction},
		{"sparse", viewerr.ErrSparseIndex, viewerr.ErrConstruction},
		{"dup", viewerr.ErrDuplicateEntry, viewerr.ErrConstruction},
		{"seq", viewerr.ErrBadSequence, viewerr.ErrConstruction},
		{"corrupt", viewerr.ErrBlobCorrupt, viewerr.ErrSerialization},
		{"version", viewerr.ErrBlobVersion, viewerr.ErrSerialization},
		{"kindmismatch", viewerr.ErrBlobKind, viewerr.ErrSerialization},
	}
	all := []error{viewerr.ErrConstruction, viewerr.ErrBounds, viewerr.ErrUnsupportedOperation, viewerr.ErrSerialization}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, cat := range all {
				require.Equal(t, cat == tc.category, errors.Is(tc.err, cat))
			}
		})
	}
}

// TestWrapPreservesSentinel ensures context wrapping keeps errors.Is working.
func TestWrapPreservesSentinel(t *testing.T) {
	err := viewerr.Wrapf(viewerr.ErrBadShape, "NewDense(%v)", []int{0, 2})
	require.ErrorIs(t, err, viewerr.ErrBadShape)
	require.ErrorIs(t, err, viewerr.ErrConstruction)
	require.Contains(t, err.Error(), "NewDense([0 2])")

	err = viewerr.Wrap("Row", viewerr.ErrBounds)
	require.ErrorIs(t, err, viewerr.ErrBounds)
	require.Equal(t, "Row: dataview: index out of range", err.Error())
}
