// SPDX-License-Identifier: MIT

// Package dtype describes the closed set of scalar kinds a view may hold and
// the canonical byte form used by digests and state blobs.
//
// Canonical form: every scalar is stored little-endian at its natural width.
// Booleans occupy one byte (0 or 1). Float16 is IEEE 754 binary16.
package dtype

import (
	"fmt"
)

// Kind identifies a scalar element type. The numeric codes are protocol
// constants: they are written into digests and state blobs.
type Kind uint8

const (
	Invalid Kind = 0
	Bool    Kind = 1
	Int8    Kind = 2
	Int16   Kind = 3
	Int32   Kind = 4
	Int64   Kind = 5
	Uint8   Kind = 6
	Uint16  Kind = 7
	Uint32  Kind = 8
	Uint64  Kind = 9
	Float16 Kind = 10
	Float32 Kind = 11
	Float64 Kind = 12
)

var kindNames = [...]string{
	Invalid: "invalid",
	Bool:    "bool",
	Int8:    "int8",
	Int16:   "int16",
	Int32:   "int32",
	Int64:   "int64",
	Uint8:   "uint8",
	Uint16:  "uint16",
	Uint32:  "uint32",
	Uint64:  "uint64",
	Float16: "float16",
	Float32: "float32",
	Float64: "float64",
}

var kindWidths = [...]int{
	Invalid: 0,
	Bool:    1,
	Int8:    1,
	Int16:   2,
	Int32:   4,
	Int64:   8,
	Uint8:   1,
	Uint16:  2,
	Uint32:  4,
	Uint64:  8,
	Float16: 2,
	Float32: 4,
	Float64: 8,
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool { return k > Invalid && k <= Float64 }

// Width returns the canonical byte width of one element, or 0 for unsupported kinds.
func (k Kind) Width() int {
	if !k.Valid() {
		return 0
	}
	return kindWidths[k]
}

// IsSigned reports whether k is a signed integer kind.
func (k Kind) IsSigned() bool { return k >= Int8 && k <= Int64 }

// IsUnsigned reports whether k is an unsigned integer kind.
func (k Kind) IsUnsigned() bool { return k >= Uint8 && k <= Uint64 }

// IsInteger reports whether k is any integer kind.
func (k Kind) IsInteger() bool { return k.IsSigned() || k.IsUnsigned() }

// IsFloat reports whether k is an IEEE floating-point kind.
func (k Kind) IsFloat() bool { return k >= Float16 && k <= Float64 }

// IsNumeric reports whether k is an integer or floating-point kind.
func (k Kind) IsNumeric() bool { return k.IsInteger() || k.IsFloat() }

// String returns the lower-case kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind parses a kind name as produced by String.
func ParseKind(name string) (Kind, error) {
	for k := Bool; k <= Float64; k++ {
		if kindNames[k] == name {
			return k, nil
		}
	}
	return Invalid, fmt.Errorf("dtype: unknown kind %q", name)
}
