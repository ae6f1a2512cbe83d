// SPDX-License-Identifier: MIT

package dtype

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/katalvlaran/dataview/viewerr"
	"github.com/x448/float16"
)

// Value is one scalar or one fixed-shape sub-array in canonical little-endian
// form. A Value may alias the buffer of the view that produced it and must be
// treated as read-only; Bytes returns an owned copy.
//
// Scalar accessors (Bool, Int, Uint, Float) read flat element 0; use Elem or
// Float64s for sub-arrays.
type Value struct {
	kind Kind
	dims []int // nil for scalars
	raw  []byte
}

// MakeValue wraps canonical bytes. dims == nil marks a scalar.
// The caller guarantees len(raw) == kind.Width() * product(dims).
func MakeValue(kind Kind, dims []int, raw []byte) Value {
	return Value{kind: kind, dims: dims, raw: raw}
}

// Kind returns the element kind.
func (v Value) Kind() Kind { return v.kind }

// IsArray reports whether v is a fixed-shape sub-array.
func (v Value) IsArray() bool { return v.dims != nil }

// Shape returns a copy of the sub-array dimensions; nil for scalars.
func (v Value) Shape() []int {
	if v.dims == nil {
		return nil
	}
	out := make([]int, len(v.dims))
	copy(out, v.dims)
	return out
}

// Len returns the number of elements (1 for scalars).
func (v Value) Len() int {
	w := v.kind.Width()
	if w == 0 {
		return 0
	}
	return len(v.raw) / w
}

// Elem returns flat element i as a scalar Value.
func (v Value) Elem(i int) (Value, error) {
	if i < 0 || i >= v.Len() {
		return Value{}, viewerr.Wrapf(viewerr.ErrBounds, "Value.Elem(%d)", i)
	}
	w := v.kind.Width()
	return Value{kind: v.kind, raw: v.raw[i*w : (i+1)*w]}, nil
}

// Bytes returns a copy of the canonical bytes.
func (v Value) Bytes() []byte {
	out := make([]byte, len(v.raw))
	copy(out, v.raw)
	return out
}

// Bool reports whether element 0 is non-zero.
func (v Value) Bool() bool {
	if v.kind == Bool {
		return len(v.raw) > 0 && v.raw[0] != 0
	}
	return v.Float() != 0
}

// Int returns element 0 converted to int64 (floats truncate toward zero).
func (v Value) Int() int64 {
	switch {
	case v.kind.IsFloat():
		return int64(v.Float())
	case v.Len() == 0:
		return 0
	case !v.kind.IsSigned():
		return int64(v.unsignedAt(0))
	}
	return v.signedAt(0)
}

// Uint returns element 0 converted to uint64.
func (v Value) Uint() uint64 {
	switch {
	case v.kind.IsFloat():
		return uint64(v.Float())
	case v.kind.IsSigned():
		return uint64(v.signedAt(0))
	case v.Len() == 0:
		return 0
	}
	return v.unsignedAt(0)
}

// Float returns element 0 converted to float64.
func (v Value) Float() float64 {
	if v.Len() == 0 {
		return 0
	}
	return v.floatAt(0)
}

// Float64s returns every element converted to float64.
func (v Value) Float64s() []float64 {
	n := v.Len()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = v.floatAt(i)
	}
	return out
}

// IsZero reports whether every element is numerically zero; a false bool counts as zero.
func (v Value) IsZero() bool {
	for i, n := 0, v.Len(); i < n; i++ {
		if v.floatAt(i) != 0 {
			return false
		}
	}
	return true
}

// Equal reports exact equality of kind, shape and canonical bytes.
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && sameDims(v.dims, o.dims) && bytes.Equal(v.raw, o.raw)
}

// Close reports equality within tolerance: integers and booleans compare
// exactly, floating kinds element-wise within relTol relative error.
func (v Value) Close(o Value, relTol float64) bool {
	if v.kind != o.kind || !sameDims(v.dims, o.dims) || len(v.raw) != len(o.raw) {
		return false
	}
	if !v.kind.IsFloat() {
		return bytes.Equal(v.raw, o.raw)
	}
	for i, n := 0, v.Len(); i < n; i++ {
		if !closeFloat(v.floatAt(i), o.floatAt(i), relTol) {
			return false
		}
	}
	return true
}

// String renders the canonical textual form: scalars as literals, sub-arrays
// as nested bracketed lists in row-major order.
func (v Value) String() string {
	if v.dims == nil {
		if v.Len() == 0 {
			return "<invalid>"
		}
		return v.formatAt(0)
	}
	var sb strings.Builder
	next := 0
	v.formatDims(&sb, 0, &next)
	return sb.String()
}

func (v Value) formatDims(sb *strings.Builder, axis int, next *int) {
	sb.WriteString("[")
	for i := 0; i < v.dims[axis]; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		if axis == len(v.dims)-1 {
			sb.WriteString(v.formatAt(*next))
			*next++
			continue
		}
		v.formatDims(sb, axis+1, next)
	}
	sb.WriteString("]")
}

func (v Value) formatAt(i int) string {
	switch {
	case v.kind == Bool:
		return strconv.FormatBool(v.raw[i] != 0)
	case v.kind.IsSigned():
		return strconv.FormatInt(v.signedAt(i), 10)
	case v.kind.IsUnsigned():
		return strconv.FormatUint(v.unsignedAt(i), 10)
	case v.kind == Float64:
		return strconv.FormatFloat(v.floatAt(i), 'g', -1, 64)
	}
	return strconv.FormatFloat(v.floatAt(i), 'g', -1, 32)
}

func (v Value) elemBytes(i int) []byte {
	w := v.kind.Width()
	return v.raw[i*w : (i+1)*w]
}

func (v Value) signedAt(i int) int64 {
	b := v.elemBytes(i)
	switch v.kind {
	case Int8:
		return int64(int8(b[0]))
	case Int16:
		return int64(int16(binary.LittleEndian.Uint16(b)))
	case Int32:
		return int64(int32(binary.LittleEndian.Uint32(b)))
	}
	return int64(binary.LittleEndian.Uint64(b))
}

func (v Value) unsignedAt(i int) uint64 {
	b := v.elemBytes(i)
	switch v.kind {
	case Bool, Uint8:
		return uint64(b[0])
	case Uint16:
		return uint64(binary.LittleEndian.Uint16(b))
	case Uint32:
		return uint64(binary.LittleEndian.Uint32(b))
	}
	return binary.LittleEndian.Uint64(b)
}

func (v Value) floatAt(i int) float64 {
	switch {
	case v.kind == Float16:
		return float64(float16.Frombits(binary.LittleEndian.Uint16(v.elemBytes(i))).Float32())
	case v.kind == Float32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(v.elemBytes(i))))
	case v.kind == Float64:
		return math.Float64frombits(binary.LittleEndian.Uint64(v.elemBytes(i)))
	case v.kind.IsSigned():
		return float64(v.signedAt(i))
	}
	return float64(v.unsignedAt(i))
}

func closeFloat(a, b, relTol float64) bool {
	if a == b {
		return true
	}
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	return math.Abs(a-b) <= relTol*scale
}

func sameDims(a, b []int) bool {
	if (a == nil) != (b == nil) || len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
