// SPDX-License-Identifier: MIT

package schema

import (
	"encoding/binary"
	"sort"

	"github.com/katalvlaran/dataview/dtype"
	"github.com/katalvlaran/dataview/viewerr"
)

// FieldLayout is the caller's description of one field of a structured buffer.
//   - Dims == nil (or empty) declares a scalar field.
//   - Strides, when set, are the byte strides of the sub-array axes; they must
//     be the C-contiguous strides implied by Kind and Dims.
type FieldLayout struct {
	Name    string
	Kind    dtype.Kind
	Offset  int
	Dims    []int
	Strides []int
}

// Layout describes a whole structured buffer item.
// ItemSize == 0 means "tightly packed": the end of the last field.
type Layout struct {
	Fields   []FieldLayout
	ItemSize int
	Order    binary.ByteOrder
}

// Packed builds a Layout with fields placed back to back, in order, without padding.
func Packed(order binary.ByteOrder, fields ...FieldLayout) Layout {
	out := make([]FieldLayout, len(fields))
	off := 0
	for i, f := range fields {
		f.Offset = off
		out[i] = f
		off += f.Kind.Width() * product(f.Dims)
	}
	return Layout{Fields: out, ItemSize: off, Order: order}
}

// Resolve validates l and returns the closed Schema.
//
// Implementation:
//   - Stage 1: reject empty layouts.
//   - Stage 2: per field, check kind, dims and strides; compute size.
//   - Stage 3: check offsets fit ItemSize and fields do not overlap.
//
// Errors (all match viewerr.ErrConstruction):
//   - ErrUnsupportedKind for kinds outside the closed set.
//   - ErrBadShape for non-positive sub-array dimensions.
//   - ErrLayoutMismatch for stride/offset/size inconsistencies.
//
// Complexity: O(F log F) for F fields.
func Resolve(l Layout) (Schema, error) {
	if len(l.Fields) == 0 {
		return Schema{}, viewerr.Wrap("schema.Resolve: no fields", viewerr.ErrLayoutMismatch)
	}

	fields := make([]Field, len(l.Fields))
	end := 0
	for i, fl := range l.Fields {
		f, err := resolveField(i, fl)
		if err != nil {
			return Schema{}, err
		}
		fields[i] = f
		if e := f.Offset + f.Size(); e > end {
			end = e
		}
	}

	itemSize := l.ItemSize
	if itemSize == 0 {
		itemSize = end
	}
	if itemSize < end {
		return Schema{}, viewerr.Wrapf(viewerr.ErrLayoutMismatch,
			"schema.Resolve: item size %d smaller than field extent %d", itemSize, end)
	}
	if err := checkOverlap(fields); err != nil {
		return Schema{}, err
	}

	return Schema{fields: fields, itemSize: itemSize, order: l.Order}, nil
}

// resolveField validates one FieldLayout.
func resolveField(i int, fl FieldLayout) (Field, error) {
	if !fl.Kind.Valid() {
		return Field{}, viewerr.Wrapf(viewerr.ErrUnsupportedKind, "schema.Resolve: field %d (%s)", i, fl.Kind)
	}
	if fl.Offset < 0 {
		return Field{}, viewerr.Wrapf(viewerr.ErrLayoutMismatch, "schema.Resolve: field %d negative offset", i)
	}

	f := Field{Name: fl.Name, Tag: Scalar, Kind: fl.Kind, Offset: fl.Offset}
	if len(fl.Dims) == 0 {
		if len(fl.Strides) != 0 {
			return Field{}, viewerr.Wrapf(viewerr.ErrLayoutMismatch, "schema.Resolve: field %d strides on scalar", i)
		}
		return f, nil
	}

	for _, d := range fl.Dims {
		if d <= 0 {
			return Field{}, viewerr.Wrapf(viewerr.ErrBadShape, "schema.Resolve: field %d dims %v", i, fl.Dims)
		}
	}
	if fl.Strides != nil {
		want := contiguousStrides(fl.Kind.Width(), fl.Dims)
		if !equalInts(want, fl.Strides) {
			return Field{}, viewerr.Wrapf(viewerr.ErrLayoutMismatch,
				"schema.Resolve: field %d strides %v, want %v", i, fl.Strides, want)
		}
	}

	f.Tag = FixedArray
	f.Dims = append([]int(nil), fl.Dims...)
	return f, nil
}

// contiguousStrides returns C-order byte strides for the given element width and dims.
func contiguousStrides(width int, dims []int) []int {
	out := make([]int, len(dims))
	acc := width
	for k := len(dims) - 1; k >= 0; k-- {
		out[k] = acc
		acc *= dims[k]
	}
	return out
}

// checkOverlap rejects fields whose byte ranges intersect.
func checkOverlap(fields []Field) error {
	idx := make([]int, len(fields))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return fields[idx[a]].Offset < fields[idx[b]].Offset })
	for k := 1; k < len(idx); k++ {
		prev, cur := fields[idx[k-1]], fields[idx[k]]
		if prev.Offset+prev.Size() > cur.Offset {
			return viewerr.Wrapf(viewerr.ErrLayoutMismatch,
				"schema.Resolve: fields %d and %d overlap", idx[k-1], idx[k])
		}
	}
	return nil
}
