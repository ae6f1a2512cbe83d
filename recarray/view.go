// SPDX-License-Identifier: MIT

// Package recarray presents a dense structured buffer as an ordered sequence
// of typed records.
//
// Ownership:
//   - New borrows the caller's buffer. The caller must keep it alive and
//     unmodified for the lifetime of the view.
//   - The optional mask is always copied.
//   - Restore builds a view that owns a private, packed little-endian copy.
//
// A View is immutable; any number of goroutines may iterate, digest and
// capture it concurrently.
package recarray

import (
	"iter"

	"github.com/katalvlaran/dataview/dtype"
	"github.com/katalvlaran/dataview/mask"
	"github.com/katalvlaran/dataview/order"
	"github.com/katalvlaran/dataview/schema"
	"github.com/katalvlaran/dataview/viewerr"
)

// View is a read-only record-array view.
type View struct {
	schema schema.Schema
	rows   int
	buf    []byte    // rows*ItemSize bytes in the schema's byte order
	mask   mask.Mask // rows × fields; zero when unmasked
}

// New builds a View over buf, whose items are described by layout.
//
// Implementation:
//   - Stage 1: resolve layout into a Schema.
//   - Stage 2: require len(buf) to be a whole number of items.
//   - Stage 3: attach the optional per-field mask (rows × fields).
//
// Errors: viewerr.ErrConstruction family (unsupported kind, layout mismatch,
// mask shape mismatch). No view is returned on error.
//
// Complexity: O(F log F) for F fields plus O(rows·F) to copy a mask.
func New(buf []byte, layout schema.Layout, opts ...Option) (*View, error) {
	o := gatherOptions(opts)

	s, err := schema.Resolve(layout)
	if err != nil {
		return nil, viewerr.Wrap("recarray.New", err)
	}
	if len(buf)%s.ItemSize() != 0 {
		return nil, viewerr.Wrapf(viewerr.ErrLayoutMismatch,
			"recarray.New: %d bytes is not a multiple of item size %d", len(buf), s.ItemSize())
	}
	rows := len(buf) / s.ItemSize()

	v := &View{schema: s, rows: rows, buf: buf}
	if o.maskSet {
		m, err := mask.New(o.maskBits, rows, s.NumFields())
		if err != nil {
			return nil, viewerr.Wrap("recarray.New", err)
		}
		v.mask = m
	}

	return v, nil
}

// Size returns the number of records.
func (v *View) Size() int { return v.rows }

// Len is Size; it exists for callers that think in container length.
func (v *View) Len() int { return v.rows }

// Schema returns the resolved schema.
func (v *View) Schema() schema.Schema { return v.schema }

// Mask returns the per-field mask; the zero Mask when the view is unmasked.
func (v *View) Mask() mask.Mask { return v.mask }

// Row returns record i, or ErrBounds.
func (v *View) Row(i int) (Record, error) {
	if i < 0 || i >= v.rows {
		return Record{}, viewerr.Wrapf(viewerr.ErrBounds, "recarray.Row(%d) of %d", i, v.rows)
	}
	return v.record(i), nil
}

// Records iterates all records in storage order. The sequence is lazy and
// may be ranged over any number of times.
func (v *View) Records() iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
		for i := 0; i < v.rows; i++ {
			if !yield(i, v.record(i)) {
				return
			}
		}
	}
}

// Shuffled iterates all records in an order drawn from r at the start of
// each iteration. The yielded index is the record's storage position.
func (v *View) Shuffled(r order.Rand) iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
		for _, i := range order.Permutation(v.rows, r) {
			if !yield(i, v.record(i)) {
				return
			}
		}
	}
}

// record assembles row i; i is in range.
func (v *View) record(i int) Record {
	nf := v.schema.NumFields()
	rec := Record{values: make([]dtype.Value, nf)}
	base := i * v.schema.ItemSize()
	for k := 0; k < nf; k++ {
		rec.values[k] = v.cell(base, v.schema.Field(k))
	}
	if !v.mask.IsZero() {
		rec.masked = make([]bool, nf)
		for k := 0; k < nf; k++ {
			rec.masked[k] = v.mask.At(i*nf + k)
		}
	}
	return rec
}

// cell decodes field f of the item starting at base.
func (v *View) cell(base int, f schema.Field) dtype.Value {
	src := v.buf[base+f.Offset : base+f.Offset+f.Size()]
	return dtype.MakeValue(f.Kind, f.Dims, dtype.Canonicalize(f.Kind, v.schema.Order(), src))
}
