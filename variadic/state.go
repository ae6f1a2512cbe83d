// SPDX-License-Identifier: MIT

package variadic

import (
	"fmt"

	"github.com/katalvlaran/dataview/digest"
	"github.com/katalvlaran/dataview/dtype"
	"github.com/katalvlaran/dataview/state"
)

const digestTag = "variadic.v1"

// Digest feeds tag, kind, count and then every sequence as its length
// followed by its element bytes.
func (v *View) Digest(s digest.Sink) error {
	enc := digest.NewEncoder(s)
	enc.Tag(digestTag)
	enc.Byte(byte(v.kind))
	enc.Int(len(v.seqs))
	for _, seq := range v.seqs {
		enc.Int(seq.Len())
		enc.Raw(seq.raw)
	}
	return enc.Err()
}

type viewState struct {
	Kind    dtype.Kind `cbor:"1,keyasint"`
	Lengths []int      `cbor:"2,keyasint"`
	Data    []byte     `cbor:"3,keyasint"`
}

// CaptureState serializes kind, per-sequence lengths and the concatenated data.
func (v *View) CaptureState(opts ...state.Option) (state.Blob, error) {
	st := viewState{Kind: v.kind, Lengths: make([]int, len(v.seqs))}
	total := 0
	for i, s := range v.seqs {
		st.Lengths[i] = s.Len()
		total += len(s.raw)
	}
	st.Data = make([]byte, 0, total)
	for _, s := range v.seqs {
		st.Data = append(st.Data, s.raw...)
	}
	return state.Seal(state.KindVariadic, st, opts...)
}

// Restore rebuilds a View from a blob produced by CaptureState.
func Restore(b state.Blob, opts ...state.Option) (*View, error) {
	var st viewState
	if err := state.Open(b, state.KindVariadic, &st, opts...); err != nil {
		return nil, err
	}
	if len(st.Lengths) == 0 {
		if st.Kind != dtype.Invalid || len(st.Data) != 0 {
			return nil, state.Corrupt("variadic.Restore", fmt.Errorf("empty collection with kind %s and %d bytes", st.Kind, len(st.Data)))
		}
		return &View{}, nil
	}
	if !st.Kind.IsNumeric() {
		return nil, state.Corrupt("variadic.Restore", fmt.Errorf("kind %s", st.Kind))
	}

	w := st.Kind.Width()
	v := &View{kind: st.Kind, seqs: make([]Sequence, len(st.Lengths))}
	off := 0
	for i, n := range st.Lengths {
		if n < 0 || n > (len(st.Data)-off)/w {
			return nil, state.Corrupt("variadic.Restore", fmt.Errorf("sequence %d: length %d exceeds data", i, n))
		}
		v.seqs[i] = Sequence{kind: st.Kind, raw: st.Data[off : off+n*w : off+n*w]}
		off += n * w
	}
	if off != len(st.Data) {
		return nil, state.Corrupt("variadic.Restore", fmt.Errorf("%d trailing bytes", len(st.Data)-off))
	}
	return v, nil
}
