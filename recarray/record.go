// SPDX-License-Identifier: MIT

package recarray

import (
	"strings"

	"github.com/katalvlaran/dataview/dtype"
	"github.com/katalvlaran/dataview/viewerr"
)

// maskedText stands in for a masked field in String output.
const maskedText = "--"

// Record is one row: an ordered tuple of field values, each possibly masked.
// A masked field still carries its underlying value; consumers that respect
// masking ignore it.
type Record struct {
	values []dtype.Value
	masked []bool // nil when the view has no mask
}

// Len returns the number of fields.
func (r Record) Len() int { return len(r.values) }

// At returns field i regardless of its mask bit.
func (r Record) At(i int) (dtype.Value, error) {
	if i < 0 || i >= len(r.values) {
		return dtype.Value{}, viewerr.Wrapf(viewerr.ErrBounds, "Record.At(%d) of %d", i, len(r.values))
	}
	return r.values[i], nil
}

// Masked reports whether field i is marked missing.
func (r Record) Masked(i int) bool {
	return r.masked != nil && i >= 0 && i < len(r.masked) && r.masked[i]
}

// Mask returns the per-field mask bits (all false for unmasked views).
func (r Record) Mask() []bool {
	out := make([]bool, len(r.values))
	copy(out, r.masked)
	return out
}

// Values returns a copy of the field values.
func (r Record) Values() []dtype.Value {
	out := make([]dtype.Value, len(r.values))
	copy(out, r.values)
	return out
}

// Equal reports exact equality: same mask pattern and equal unmasked values.
func (r Record) Equal(o Record) bool {
	return r.compare(o, func(a, b dtype.Value) bool { return a.Equal(b) })
}

// Close is Equal with floating fields compared within relTol.
func (r Record) Close(o Record, relTol float64) bool {
	return r.compare(o, func(a, b dtype.Value) bool { return a.Close(b, relTol) })
}

func (r Record) compare(o Record, eq func(a, b dtype.Value) bool) bool {
	if len(r.values) != len(o.values) {
		return false
	}
	for i := range r.values {
		if r.Masked(i) != o.Masked(i) {
			return false
		}
		if r.Masked(i) {
			continue
		}
		if !eq(r.values[i], o.values[i]) {
			return false
		}
	}
	return true
}

// String renders the canonical textual form, e.g. "(1, --, [2, 3])".
// Masked fields print as "--", so two records with the same mask pattern and
// unmasked values render identically whatever their masked payloads hold.
func (r Record) String() string {
	parts := make([]string, len(r.values))
	for i, v := range r.values {
		if r.Masked(i) {
			parts[i] = maskedText
			continue
		}
		parts[i] = v.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
