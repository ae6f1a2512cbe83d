// SPDX-License-Identifier: MIT

package dtype

import (
	"encoding/binary"
	"math"

	"github.com/katalvlaran/dataview/viewerr"
	"github.com/x448/float16"
)

// Array is an external, flat, typed buffer: Len() elements of Kind stored in
// Data with the given byte order. A nil Order means little-endian.
//
// Array is a description of memory the caller owns; dataview never writes to Data.
type Array struct {
	Kind  Kind
	Data  []byte
	Order binary.ByteOrder
}

// Scalar enumerates the Go element types accepted by Of.
type Scalar interface {
	bool | int8 | int16 | int32 | int64 |
		uint8 | uint16 | uint32 | uint64 |
		float16.Float16 | float32 | float64
}

// KindOf returns the Kind matching the Go type T.
func KindOf[T Scalar]() Kind {
	var zero T
	switch any(zero).(type) {
	case bool:
		return Bool
	case int8:
		return Int8
	case int16:
		return Int16
	case int32:
		return Int32
	case int64:
		return Int64
	case uint8:
		return Uint8
	case uint16:
		return Uint16
	case uint32:
		return Uint32
	case uint64:
		return Uint64
	case float16.Float16:
		return Float16
	case float32:
		return Float32
	case float64:
		return Float64
	}
	return Invalid
}

// Of encodes vals into a new little-endian Array of the matching kind.
func Of[T Scalar](vals []T) Array {
	k := KindOf[T]()
	w := k.Width()
	buf := make([]byte, len(vals)*w)
	for i, v := range vals {
		PutScalar(buf[i*w:(i+1)*w], any(v))
	}
	return Array{Kind: k, Data: buf}
}

// PutScalar writes v in canonical little-endian form into dst.
// dst must be exactly the width of v's kind; unsupported types are ignored.
func PutScalar(dst []byte, v any) {
	le := binary.LittleEndian
	switch x := v.(type) {
	case bool:
		dst[0] = 0
		if x {
			dst[0] = 1
		}
	case int8:
		dst[0] = byte(x)
	case int16:
		le.PutUint16(dst, uint16(x))
	case int32:
		le.PutUint32(dst, uint32(x))
	case int64:
		le.PutUint64(dst, uint64(x))
	case uint8:
		dst[0] = x
	case uint16:
		le.PutUint16(dst, x)
	case uint32:
		le.PutUint32(dst, x)
	case uint64:
		le.PutUint64(dst, x)
	case float16.Float16:
		le.PutUint16(dst, x.Bits())
	case float32:
		le.PutUint32(dst, math.Float32bits(x))
	case float64:
		le.PutUint64(dst, math.Float64bits(x))
	}
}

// Len returns the number of elements, or 0 for an unsupported kind.
func (a Array) Len() int {
	w := a.Kind.Width()
	if w == 0 {
		return 0
	}
	return len(a.Data) / w
}

// Validate checks that Kind is supported and Data holds a whole number of elements.
func (a Array) Validate() error {
	if !a.Kind.Valid() {
		return viewerr.Wrapf(viewerr.ErrUnsupportedKind, "Array(%s)", a.Kind)
	}
	if len(a.Data)%a.Kind.Width() != 0 {
		return viewerr.Wrapf(viewerr.ErrLayoutMismatch, "Array(%s): %d bytes", a.Kind, len(a.Data))
	}
	return nil
}

// At returns element i in canonical form.
func (a Array) At(i int) (Value, error) {
	if i < 0 || i >= a.Len() {
		return Value{}, viewerr.Wrapf(viewerr.ErrBounds, "Array.At(%d)", i)
	}
	w := a.Kind.Width()
	return MakeValue(a.Kind, nil, Canonicalize(a.Kind, a.Order, a.Data[i*w:(i+1)*w])), nil
}

// Canonical returns a little-endian copy of Data that the caller owns.
func (a Array) Canonical() []byte {
	out := make([]byte, len(a.Data))
	copy(out, a.Data)
	if !isLittle(a.Order) {
		swapInPlace(out, a.Kind.Width())
	}
	return out
}

// Float64s decodes every element as float64.
func (a Array) Float64s() []float64 {
	v := MakeValue(a.Kind, []int{a.Len()}, Canonicalize(a.Kind, a.Order, a.Data))
	return v.Float64s()
}

// Canonicalize returns src in little-endian form. When order is already
// little-endian src itself is returned (borrowed); otherwise a swapped copy.
func Canonicalize(k Kind, order binary.ByteOrder, src []byte) []byte {
	if isLittle(order) || k.Width() <= 1 {
		return src
	}
	out := make([]byte, len(src))
	copy(out, src)
	swapInPlace(out, k.Width())
	return out
}

// isLittle reports whether order writes the least significant byte first.
func isLittle(order binary.ByteOrder) bool {
	if order == nil {
		return true
	}
	var probe [2]byte
	order.PutUint16(probe[:], 1)
	return probe[0] == 1
}

// swapInPlace reverses every w-byte group of b.
func swapInPlace(b []byte, w int) {
	if w <= 1 {
		return
	}
	for off := 0; off+w <= len(b); off += w {
		for i, j := off, off+w-1; i < j; i, j = i+1, j-1 {
			b[i], b[j] = b[j], b[i]
		}
	}
}
