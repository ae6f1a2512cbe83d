// SPDX-License-Identifier: MIT

// Package schema resolves the field layout of an external structured buffer
// into a closed description that record views dispatch on.
//
// A Layout is what the caller knows about the buffer (kinds, byte offsets,
// sub-array dimensions and strides, item size, byte order). Resolve checks it
// once and returns an immutable Schema. Every field is either a Scalar or a
// FixedArray; nothing downstream inspects Go types at run time.
package schema

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/katalvlaran/dataview/dtype"
)

// Tag distinguishes scalar fields from fixed-shape sub-array fields.
type Tag uint8

const (
	Scalar     Tag = 1
	FixedArray Tag = 2
)

// String returns "scalar" or "array".
func (t Tag) String() string {
	switch t {
	case Scalar:
		return "scalar"
	case FixedArray:
		return "array"
	}
	return fmt.Sprintf("tag(%d)", uint8(t))
}

// Field is one resolved column of a record.
type Field struct {
	Name   string
	Tag    Tag
	Kind   dtype.Kind
	Dims   []int // nil for Scalar
	Offset int   // byte offset inside one item
}

// Width is the byte width of one element.
func (f Field) Width() int { return f.Kind.Width() }

// Elems is the element count: 1 for scalars, product(Dims) for arrays.
func (f Field) Elems() int { return product(f.Dims) }

// Size is the byte size of the field inside one item.
func (f Field) Size() int { return f.Width() * f.Elems() }

// String renders "name:kind" or "name:kind[d0,d1]".
func (f Field) String() string {
	var sb strings.Builder
	sb.WriteString(f.Name)
	sb.WriteString(":")
	sb.WriteString(f.Kind.String())
	if f.Tag == FixedArray {
		sb.WriteString("[")
		for i, d := range f.Dims {
			if i > 0 {
				sb.WriteString(",")
			}
			fmt.Fprintf(&sb, "%d", d)
		}
		sb.WriteString("]")
	}
	return sb.String()
}

// Schema is the resolved, immutable layout of one record.
type Schema struct {
	fields   []Field
	itemSize int
	order    binary.ByteOrder
}

// NumFields returns the number of fields.
func (s Schema) NumFields() int { return len(s.fields) }

// Field returns field i; callers index within [0, NumFields()).
func (s Schema) Field(i int) Field { return s.fields[i] }

// Fields returns a copy of the field list.
func (s Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// ItemSize returns the byte stride between consecutive records.
func (s Schema) ItemSize() int { return s.itemSize }

// Order returns the byte order of the source buffer (never nil).
func (s Schema) Order() binary.ByteOrder {
	if s.order == nil {
		return binary.LittleEndian
	}
	return s.order
}

// Equal reports whether two schemas describe the same logical record:
// same field count and, per field, the same tag, kind and dims.
// Names, offsets, padding and byte order are physical details and ignored.
func (s Schema) Equal(o Schema) bool {
	if len(s.fields) != len(o.fields) {
		return false
	}
	for i := range s.fields {
		a, b := s.fields[i], o.fields[i]
		if a.Tag != b.Tag || a.Kind != b.Kind || !equalInts(a.Dims, b.Dims) {
			return false
		}
	}
	return true
}

// String renders "(f0, f1, ...)".
func (s Schema) String() string {
	parts := make([]string, len(s.fields))
	for i, f := range s.fields {
		parts[i] = f.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func product(dims []int) int {
	n := 1
	for _, d := range dims {
		n *= d
	}
	return n
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
