// SPDX-License-Identifier: MIT

package relation

import (
	"fmt"

	"github.com/katalvlaran/dataview/digest"
	"github.com/katalvlaran/dataview/dtype"
	"github.com/katalvlaran/dataview/mask"
	"github.com/katalvlaran/dataview/state"
	"github.com/katalvlaran/dataview/viewerr"
)

// Stream layout names. Dense and sparse encodings of the same matrix use
// different tags and therefore never share a digest.
const (
	denseTag  = "relation.dense.v1"
	sparseTag = "relation.sparse.v1"
)

// Relation is the behaviour shared by Dense and Sparse.
type Relation interface {
	digest.Digester
	Shape() []int
	NDim() int
	Kind() dtype.Kind
	CaptureState(opts ...state.Option) (state.Blob, error)
}

var (
	_ Relation = (*Dense)(nil)
	_ Relation = (*Sparse)(nil)
)

// Digest feeds tag, shape, kind, width and every cell in row-major order.
func (d *Dense) Digest(s digest.Sink) error {
	enc := digest.NewEncoder(s)
	enc.Tag(denseTag)
	enc.Ints(d.shape)
	enc.Byte(byte(d.kind))
	enc.Int(d.kind.Width())

	w := d.kind.Width()
	for flat, n := 0, d.Len(); flat < n; flat++ {
		if d.mask.At(flat) {
			enc.Masked()
			continue
		}
		enc.Cell(dtype.Canonicalize(d.kind, d.order, d.data[flat*w:(flat+1)*w]))
	}
	return enc.Err()
}

// Digest feeds tag, shape, kind, nnz and every stored (row, col, value)
// in canonical compressed-row order.
func (s *Sparse) Digest(sink digest.Sink) error {
	enc := digest.NewEncoder(sink)
	enc.Tag(sparseTag)
	enc.Int(s.rows)
	enc.Int(s.cols)
	enc.Byte(byte(s.kind))
	enc.Int(s.NNZ())

	w := s.kind.Width()
	for r := 0; r < s.rows; r++ {
		for p := s.indptr[r]; p < s.indptr[r+1]; p++ {
			enc.Int(r)
			enc.Int(s.indices[p])
			enc.Cell(s.data[p*w : (p+1)*w])
		}
	}
	return enc.Err()
}

type denseState struct {
	Shape  []int      `cbor:"1,keyasint"`
	Kind   dtype.Kind `cbor:"2,keyasint"`
	Data   []byte     `cbor:"3,keyasint"`
	Masked bool       `cbor:"4,keyasint"`
	Mask   []byte     `cbor:"5,keyasint,omitempty"`
}

type sparseState struct {
	Rows    int        `cbor:"1,keyasint"`
	Cols    int        `cbor:"2,keyasint"`
	Kind    dtype.Kind `cbor:"3,keyasint"`
	Indptr  []int      `cbor:"4,keyasint"`
	Indices []int      `cbor:"5,keyasint"`
	Data    []byte     `cbor:"6,keyasint"`
}

// CaptureState serializes shape, kind, little-endian data and mask.
func (d *Dense) CaptureState(opts ...state.Option) (state.Blob, error) {
	st := denseState{
		Shape: d.shape,
		Kind:  d.kind,
		Data:  d.ToArray().Data,
	}
	if !d.mask.IsZero() {
		st.Masked = true
		st.Mask = d.mask.Pack()
	}
	return state.Seal(state.KindDenseRelation, st, opts...)
}

// CaptureState serializes the canonical compressed-row form.
func (s *Sparse) CaptureState(opts ...state.Option) (state.Blob, error) {
	st := sparseState{
		Rows:    s.rows,
		Cols:    s.cols,
		Kind:    s.kind,
		Indptr:  s.indptr,
		Indices: s.indices,
		Data:    s.data,
	}
	return state.Seal(state.KindSparseRelation, st, opts...)
}

// RestoreDense rebuilds a Dense from a blob produced by Dense.CaptureState.
// The result owns its data.
func RestoreDense(b state.Blob, opts ...state.Option) (*Dense, error) {
	var st denseState
	if err := state.Open(b, state.KindDenseRelation, &st, opts...); err != nil {
		return nil, err
	}

	var ropts []Option
	if st.Masked {
		n, err := checkShape(st.Shape)
		if err != nil {
			return nil, state.Corrupt("relation.RestoreDense", err)
		}
		m, err := mask.Unpack(st.Mask, n)
		if err != nil {
			return nil, state.Corrupt("relation.RestoreDense", err)
		}
		ropts = append(ropts, WithMask(m.Bits()))
	}

	d, err := NewDense(dtype.Array{Kind: st.Kind, Data: st.Data}, st.Shape, ropts...)
	if err != nil {
		return nil, state.Corrupt("relation.RestoreDense", err)
	}
	return d, nil
}

// RestoreSparse rebuilds a Sparse from a blob produced by Sparse.CaptureState.
func RestoreSparse(b state.Blob, opts ...state.Option) (*Sparse, error) {
	var st sparseState
	if err := state.Open(b, state.KindSparseRelation, &st, opts...); err != nil {
		return nil, err
	}

	s, err := NewSparse(Compressed{
		Orient:  CompressedRow,
		Rows:    st.Rows,
		Cols:    st.Cols,
		Indptr:  st.Indptr,
		Indices: st.Indices,
		Data:    dtype.Array{Kind: st.Kind, Data: st.Data},
	})
	if err != nil {
		return nil, state.Corrupt("relation.RestoreSparse", err)
	}
	if s.NNZ() != len(st.Indices) {
		return nil, state.Corrupt("relation.RestoreSparse", fmt.Errorf("%d stored zeros", len(st.Indices)-s.NNZ()))
	}
	return s, nil
}

// Restore rebuilds whichever relation b holds.
func Restore(b state.Blob, opts ...state.Option) (Relation, error) {
	h, err := state.Peek(b)
	if err != nil {
		return nil, err
	}
	switch h.Kind {
	case state.KindDenseRelation:
		d, err := RestoreDense(b, opts...)
		if err != nil {
			return nil, err
		}
		return d, nil
	case state.KindSparseRelation:
		s, err := RestoreSparse(b, opts...)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, viewerr.Wrapf(viewerr.ErrBlobKind, "relation.Restore: blob holds %s", h.Kind)
}
