// SPDX-License-Identifier: MIT

// Package relation - Dense N-dimensional relations (row-major) & safe accessors.
//
// Purpose:
//   - Present a flat typed buffer as an N-d grid with a fixed shape.
//   - Guarantee safety at the public surface: At/IsMasked return errors instead of panicking.
//   - Keep traversal deterministic (row-major, last axis fastest).
//   - Support an optional per-cell mask with the exact shape of the data.
//
// Ownership: NewDense borrows data.Data (the caller keeps it alive and
// unmodified); masks are copied; RestoreDense owns its buffer.
//
// Complexity quicksheet:
//   - NewDense: O(N) for a mask copy, O(1) otherwise; At: O(ndim); Cells: O(N·ndim).
package relation

import (
	"encoding/binary"
	"iter"

	"github.com/katalvlaran/dataview/dtype"
	"github.com/katalvlaran/dataview/mask"
	"github.com/katalvlaran/dataview/order"
	"github.com/katalvlaran/dataview/viewerr"
)

// ---------- error context tags ----------

const (
	ctxNewDense = "relation.NewDense"
	ctxAt       = "Dense.At"
	ctxIsMasked = "Dense.IsMasked"
)

// Dense is a read-only N-dimensional relation backed by a full grid.
type Dense struct {
	shape   []int
	strides []int // element strides, row-major
	kind    dtype.Kind
	data    []byte // len == product(shape) * kind.Width()
	order   binary.ByteOrder
	mask    mask.Mask
}

// Cell is one grid position yielded by iteration.
type Cell struct {
	Index  []int
	Value  dtype.Value
	Masked bool
}

// NewDense builds a dense relation of the given shape over data.
//
// Implementation:
//   - Stage 1: validate the array (kind, whole elements).
//   - Stage 2: validate shape (non-empty, positive dims, product == data.Len()).
//   - Stage 3: attach a copied mask when WithMask is given.
//
// Errors:
//   - ErrUnsupportedKind, ErrLayoutMismatch, ErrBadShape, ErrMaskShape
//     (all viewerr.ErrConstruction).
func NewDense(data dtype.Array, shape []int, opts ...Option) (*Dense, error) {
	o := gatherOptions(opts)

	if err := data.Validate(); err != nil {
		return nil, viewerr.Wrap(ctxNewDense, err)
	}
	n, err := checkShape(shape)
	if err != nil {
		return nil, viewerr.Wrap(ctxNewDense, err)
	}
	if n != data.Len() {
		return nil, viewerr.Wrapf(viewerr.ErrLayoutMismatch, "%s: shape %v needs %d cells, have %d", ctxNewDense, shape, n, data.Len())
	}

	d := &Dense{
		shape:   append([]int(nil), shape...),
		strides: rowMajorStrides(shape),
		kind:    data.Kind,
		data:    data.Data,
		order:   data.Order,
	}
	if o.maskSet {
		m, err := mask.New(o.maskBits, shape...)
		if err != nil {
			return nil, viewerr.Wrap(ctxNewDense, err)
		}
		d.mask = m
	}

	return d, nil
}

// WithMask returns a new view sharing d's data with the given mask.
// d itself is unchanged.
func (d *Dense) WithMask(bits []bool) (*Dense, error) {
	m, err := mask.New(bits, d.shape...)
	if err != nil {
		return nil, viewerr.Wrap("Dense.WithMask", err)
	}
	out := *d
	out.mask = m
	return &out, nil
}

// Shape returns a copy of the fixed shape.
func (d *Dense) Shape() []int { return append([]int(nil), d.shape...) }

// NDim returns the number of axes.
func (d *Dense) NDim() int { return len(d.shape) }

// Len returns the number of cells.
func (d *Dense) Len() int { return len(d.data) / d.kind.Width() }

// Kind returns the cell kind.
func (d *Dense) Kind() dtype.Kind { return d.kind }

// Mask returns the cell mask; the zero Mask when unmasked.
func (d *Dense) Mask() mask.Mask { return d.mask }

// At returns the cell at idx regardless of its mask bit.
// Returns ErrBounds for a wrong number of indices or any index out of range.
func (d *Dense) At(idx ...int) (dtype.Value, error) {
	flat, err := d.flatIndex(ctxAt, idx)
	if err != nil {
		return dtype.Value{}, err
	}
	return d.value(flat), nil
}

// IsMasked reports whether the cell at idx is marked missing.
func (d *Dense) IsMasked(idx ...int) (bool, error) {
	flat, err := d.flatIndex(ctxIsMasked, idx)
	if err != nil {
		return false, err
	}
	return d.mask.At(flat), nil
}

// Cells iterates every cell in row-major order.
func (d *Dense) Cells() iter.Seq[Cell] {
	return func(yield func(Cell) bool) {
		for flat, n := 0, d.Len(); flat < n; flat++ {
			if !yield(d.cell(flat)) {
				return
			}
		}
	}
}

// Shuffled iterates every cell in an order drawn from r per iteration.
func (d *Dense) Shuffled(r order.Rand) iter.Seq[Cell] {
	return func(yield func(Cell) bool) {
		for _, flat := range order.Permutation(d.Len(), r) {
			if !yield(d.cell(flat)) {
				return
			}
		}
	}
}

// ToArray returns an owned little-endian copy of the grid (row-major).
func (d *Dense) ToArray() dtype.Array {
	src := dtype.Array{Kind: d.kind, Data: d.data, Order: d.order}
	return dtype.Array{Kind: d.kind, Data: src.Canonical()}
}

func (d *Dense) cell(flat int) Cell {
	return Cell{Index: d.unravel(flat), Value: d.value(flat), Masked: d.mask.At(flat)}
}

func (d *Dense) value(flat int) dtype.Value {
	w := d.kind.Width()
	return dtype.MakeValue(d.kind, nil, dtype.Canonicalize(d.kind, d.order, d.data[flat*w:(flat+1)*w]))
}

// flatIndex validates idx and returns its row-major offset.
func (d *Dense) flatIndex(ctx string, idx []int) (int, error) {
	if len(idx) != len(d.shape) {
		return 0, viewerr.Wrapf(viewerr.ErrBounds, "%s: %d indices for %d axes", ctx, len(idx), len(d.shape))
	}
	flat := 0
	for k, i := range idx {
		if i < 0 || i >= d.shape[k] {
			return 0, viewerr.Wrapf(viewerr.ErrBounds, "%s%v: axis %d", ctx, idx, k)
		}
		flat += i * d.strides[k]
	}
	return flat, nil
}

// unravel converts a row-major offset back into an index tuple.
func (d *Dense) unravel(flat int) []int {
	idx := make([]int, len(d.shape))
	for k := range d.shape {
		idx[k] = flat / d.strides[k]
		flat %= d.strides[k]
	}
	return idx
}

// checkShape validates a shape and returns its cell count.
func checkShape(shape []int) (int, error) {
	if len(shape) == 0 {
		return 0, viewerr.Wrap("empty shape", viewerr.ErrBadShape)
	}
	n := 1
	for _, s := range shape {
		if s <= 0 {
			return 0, viewerr.Wrapf(viewerr.ErrBadShape, "shape %v", shape)
		}
		n *= s
	}
	return n, nil
}

func rowMajorStrides(shape []int) []int {
	out := make([]int, len(shape))
	acc := 1
	for k := len(shape) - 1; k >= 0; k-- {
		out[k] = acc
		acc *= shape[k]
	}
	return out
}
