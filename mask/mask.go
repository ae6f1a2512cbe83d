// SPDX-License-Identifier: MIT

// Package mask models per-cell missingness as a parallel boolean buffer.
//
// A Mask has the same logical shape as the data it covers. The zero Mask
// means "nothing missing" and behaves exactly like an all-false mask.
// Masks never alter the data: a masked cell keeps its value, consumers just
// ignore it.
package mask

import (
	"github.com/katalvlaran/dataview/viewerr"
)

// Mask is an immutable boolean buffer in row-major order.
type Mask struct {
	shape []int
	bits  []bool
}

// New copies bits into a Mask of the given shape.
// len(bits) must equal the product of shape; otherwise ErrMaskShape.
func New(bits []bool, shape ...int) (Mask, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return Mask{}, viewerr.Wrapf(viewerr.ErrMaskShape, "mask.New(%v)", shape)
		}
		n *= d
	}
	if len(bits) != n {
		return Mask{}, viewerr.Wrapf(viewerr.ErrMaskShape, "mask.New: %d bits for shape %v", len(bits), shape)
	}
	m := Mask{shape: append([]int(nil), shape...), bits: make([]bool, n)}
	copy(m.bits, bits)
	return m, nil
}

// IsZero reports whether m is the absent mask.
func (m Mask) IsZero() bool { return m.bits == nil }

// Shape returns a copy of the mask shape; nil for the zero Mask.
func (m Mask) Shape() []int { return append([]int(nil), m.shape...) }

// Len returns the number of cells covered.
func (m Mask) Len() int { return len(m.bits) }

// At reports whether flat cell i is masked. The zero Mask masks nothing.
func (m Mask) At(i int) bool {
	if m.bits == nil || i < 0 || i >= len(m.bits) {
		return false
	}
	return m.bits[i]
}

// Any reports whether at least one cell is masked.
func (m Mask) Any() bool { return m.Count() > 0 }

// Count returns the number of masked cells.
func (m Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// Bits returns a copy of the flat buffer; nil for the zero Mask.
func (m Mask) Bits() []bool {
	if m.bits == nil {
		return nil
	}
	out := make([]bool, len(m.bits))
	copy(out, m.bits)
	return out
}

// Pack encodes the mask as a bitmap: ceil(n/8) bytes, bit=1 => masked,
// cell i at byte i/8, bit i%8.
func (m Mask) Pack() []byte {
	out := make([]byte, (len(m.bits)+7)/8)
	for i, b := range m.bits {
		if b {
			out[i/8] |= 1 << (uint(i) & 7)
		}
	}
	return out
}

// Unpack decodes a bitmap produced by Pack for the given shape.
// Trailing pad bits must be zero.
func Unpack(packed []byte, shape ...int) (Mask, error) {
	n := 1
	for _, d := range shape {
		n *= d
	}
	if n < 0 || len(packed) != (n+7)/8 {
		return Mask{}, viewerr.Wrapf(viewerr.ErrMaskShape, "mask.Unpack: %d bytes for shape %v", len(packed), shape)
	}
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = (packed[i/8]>>(uint(i)&7))&1 == 1
	}
	for i := n; i < len(packed)*8; i++ {
		if (packed[i/8]>>(uint(i)&7))&1 == 1 {
			return Mask{}, viewerr.Wrap("mask.Unpack: pad bits set", viewerr.ErrMaskShape)
		}
	}
	return Mask{shape: append([]int(nil), shape...), bits: bits}, nil
}
