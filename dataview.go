// SPDX-License-Identifier: MIT

package dataview

import (
	"github.com/katalvlaran/dataview/digest"
	"github.com/katalvlaran/dataview/recarray"
	"github.com/katalvlaran/dataview/relation"
	"github.com/katalvlaran/dataview/state"
	"github.com/katalvlaran/dataview/variadic"
	"github.com/katalvlaran/dataview/viewerr"
)

// View is the contract shared by every view type.
type View interface {
	digest.Digester
	CaptureState(opts ...state.Option) (state.Blob, error)
}

var (
	_ View = (*recarray.View)(nil)
	_ View = (*relation.Dense)(nil)
	_ View = (*relation.Sparse)(nil)
	_ View = (*variadic.View)(nil)
)

// Restore rebuilds whichever view b holds. The concrete type follows the
// blob kind: *recarray.View, *relation.Dense, *relation.Sparse or *variadic.View.
func Restore(b state.Blob, opts ...state.Option) (View, error) {
	h, err := state.Peek(b)
	if err != nil {
		return nil, err
	}

	var (
		v    View
		rerr error
	)
	switch h.Kind {
	case state.KindRecordArray:
		r, e := recarray.Restore(b, opts...)
		v, rerr = r, e
	case state.KindDenseRelation:
		d, e := relation.RestoreDense(b, opts...)
		v, rerr = d, e
	case state.KindSparseRelation:
		s, e := relation.RestoreSparse(b, opts...)
		v, rerr = s, e
	case state.KindVariadic:
		q, e := variadic.Restore(b, opts...)
		v, rerr = q, e
	default:
		return nil, viewerr.Wrapf(viewerr.ErrBlobKind, "dataview.Restore: kind %s", h.Kind)
	}
	if rerr != nil {
		return nil, rerr
	}
	return v, nil
}

// SameContent reports whether a and b have byte-identical canonical streams,
// compared through their BLAKE3 content keys.
func SameContent(a, b View) (bool, error) {
	ka, err := digest.KeyOf(a)
	if err != nil {
		return false, err
	}
	kb, err := digest.KeyOf(b)
	if err != nil {
		return false, err
	}
	return ka == kb, nil
}
