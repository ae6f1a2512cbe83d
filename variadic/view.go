// SPDX-License-Identifier: MIT

// Package variadic presents a ragged list of independently sized numeric
// sequences as one read-only view.
//
// All sequences share a single numeric kind. New copies every sequence into
// canonical little-endian form, so the view never refers to caller memory.
// Variadic views carry no mask.
package variadic

import (
	"iter"

	"github.com/katalvlaran/dataview/dtype"
	"github.com/katalvlaran/dataview/order"
	"github.com/katalvlaran/dataview/viewerr"
)

// View is a read-only collection of sequences.
type View struct {
	kind dtype.Kind // Invalid only for an empty collection
	seqs []Sequence
}

// Sequence is one ragged element. Its length is part of its identity.
type Sequence struct {
	kind dtype.Kind
	raw  []byte // canonical little-endian, Len() × width
}

// New builds a View over seqs.
//
// Errors (viewerr.ErrBadSequence, a construction error):
//   - an element with an unsupported kind or a torn trailing element;
//   - a boolean element (sequences are numeric);
//   - elements whose kinds differ.
func New(seqs []dtype.Array) (*View, error) {
	v := &View{seqs: make([]Sequence, len(seqs))}
	for i, a := range seqs {
		if err := a.Validate(); err != nil {
			return nil, viewerr.Wrapf(viewerr.ErrBadSequence, "variadic.New: sequence %d: %v", i, err)
		}
		if !a.Kind.IsNumeric() {
			return nil, viewerr.Wrapf(viewerr.ErrBadSequence, "variadic.New: sequence %d is %s", i, a.Kind)
		}
		if i == 0 {
			v.kind = a.Kind
		} else if a.Kind != v.kind {
			return nil, viewerr.Wrapf(viewerr.ErrBadSequence, "variadic.New: sequence %d is %s, want %s", i, a.Kind, v.kind)
		}
		v.seqs[i] = Sequence{kind: a.Kind, raw: a.Canonical()}
	}
	return v, nil
}

// Count returns the number of sequences.
func (v *View) Count() int { return len(v.seqs) }

// Len returns the total number of elements across all sequences.
func (v *View) Len() int {
	n := 0
	for _, s := range v.seqs {
		n += s.Len()
	}
	return n
}

// Kind returns the shared element kind; Invalid for an empty collection.
func (v *View) Kind() dtype.Kind { return v.kind }

// At returns sequence i.
func (v *View) At(i int) (Sequence, error) {
	if i < 0 || i >= len(v.seqs) {
		return Sequence{}, viewerr.Wrapf(viewerr.ErrBounds, "variadic.At(%d) of %d", i, len(v.seqs))
	}
	return v.seqs[i], nil
}

// Sequences iterates (index, sequence) pairs in original order.
func (v *View) Sequences() iter.Seq2[int, Sequence] {
	return func(yield func(int, Sequence) bool) {
		for i, s := range v.seqs {
			if !yield(i, s) {
				return
			}
		}
	}
}

// Shuffled iterates (original index, sequence) in an order drawn from r.
func (v *View) Shuffled(r order.Rand) iter.Seq2[int, Sequence] {
	return func(yield func(int, Sequence) bool) {
		for _, i := range order.Permutation(len(v.seqs), r) {
			if !yield(i, v.seqs[i]) {
				return
			}
		}
	}
}

// Kind returns the element kind.
func (s Sequence) Kind() dtype.Kind { return s.kind }

// Len returns the number of elements.
func (s Sequence) Len() int {
	if w := s.kind.Width(); w > 0 {
		return len(s.raw) / w
	}
	return 0
}

// At returns element j.
func (s Sequence) At(j int) (dtype.Value, error) {
	if j < 0 || j >= s.Len() {
		return dtype.Value{}, viewerr.Wrapf(viewerr.ErrBounds, "Sequence.At(%d) of %d", j, s.Len())
	}
	w := s.kind.Width()
	return dtype.MakeValue(s.kind, nil, s.raw[j*w:(j+1)*w]), nil
}

// Values returns the whole sequence as a 1-D array value.
func (s Sequence) Values() dtype.Value {
	return dtype.MakeValue(s.kind, []int{s.Len()}, s.raw)
}

// Float64s decodes every element as float64.
func (s Sequence) Float64s() []float64 { return s.Values().Float64s() }

// Equal reports equal kind, length and content.
func (s Sequence) Equal(o Sequence) bool { return s.Values().Equal(o.Values()) }

// String renders the sequence as a bracketed list.
func (s Sequence) String() string { return s.Values().String() }
