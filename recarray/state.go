// SPDX-License-Identifier: MIT

package recarray

import (
	"encoding/binary"
	"fmt"

	"github.com/katalvlaran/dataview/digest"
	"github.com/katalvlaran/dataview/dtype"
	"github.com/katalvlaran/dataview/mask"
	"github.com/katalvlaran/dataview/schema"
	"github.com/katalvlaran/dataview/state"
)

// digestTag names the record-array stream layout.
const digestTag = "recarray.v1"

// Digest feeds the canonical content of v to s.
//
// Stream: tag, rows, fields, per field (tag, kind, width, dims), then every
// row in storage order and every field in schema order as a present cell or
// the masked sentinel. Offsets, padding, names and byte order are not part
// of the content.
func (v *View) Digest(s digest.Sink) error {
	enc := digest.NewEncoder(s)
	enc.Tag(digestTag)
	enc.Int(v.rows)
	nf := v.schema.NumFields()
	enc.Int(nf)
	for k := 0; k < nf; k++ {
		f := v.schema.Field(k)
		enc.Byte(byte(f.Tag))
		enc.Byte(byte(f.Kind))
		enc.Int(f.Width())
		enc.Ints(f.Dims)
	}

	for i := 0; i < v.rows; i++ {
		base := i * v.schema.ItemSize()
		for k := 0; k < nf; k++ {
			if v.mask.At(i*nf + k) {
				enc.Masked()
				continue
			}
			f := v.schema.Field(k)
			src := v.buf[base+f.Offset : base+f.Offset+f.Size()]
			enc.Cell(dtype.Canonicalize(f.Kind, v.schema.Order(), src))
		}
	}
	return enc.Err()
}

type fieldState struct {
	Name string     `cbor:"1,keyasint,omitempty"`
	Kind dtype.Kind `cbor:"2,keyasint"`
	Dims []int      `cbor:"3,keyasint,omitempty"`
}

type viewState struct {
	Fields []fieldState `cbor:"1,keyasint"`
	Rows   int          `cbor:"2,keyasint"`
	Data   []byte       `cbor:"3,keyasint"`
	Masked bool         `cbor:"4,keyasint"`
	Mask   []byte       `cbor:"5,keyasint,omitempty"`
}

// CaptureState serializes schema, mask and field data into a self-contained
// blob. Rows are repacked without padding in little-endian order.
func (v *View) CaptureState(opts ...state.Option) (state.Blob, error) {
	nf := v.schema.NumFields()
	st := viewState{Fields: make([]fieldState, nf), Rows: v.rows}
	packed := 0
	for k := 0; k < nf; k++ {
		f := v.schema.Field(k)
		st.Fields[k] = fieldState{Name: f.Name, Kind: f.Kind, Dims: f.Dims}
		packed += f.Size()
	}

	st.Data = make([]byte, 0, packed*v.rows)
	for i := 0; i < v.rows; i++ {
		base := i * v.schema.ItemSize()
		for k := 0; k < nf; k++ {
			f := v.schema.Field(k)
			src := v.buf[base+f.Offset : base+f.Offset+f.Size()]
			st.Data = append(st.Data, dtype.Canonicalize(f.Kind, v.schema.Order(), src)...)
		}
	}
	if !v.mask.IsZero() {
		st.Masked = true
		st.Mask = v.mask.Pack()
	}

	return state.Seal(state.KindRecordArray, st, opts...)
}

// Restore rebuilds a View from a blob produced by CaptureState. The result
// owns its data. Any inconsistency is reported as viewerr.ErrSerialization.
func Restore(b state.Blob, opts ...state.Option) (*View, error) {
	var st viewState
	if err := state.Open(b, state.KindRecordArray, &st, opts...); err != nil {
		return nil, err
	}

	fields := make([]schema.FieldLayout, len(st.Fields))
	for k, fs := range st.Fields {
		fields[k] = schema.FieldLayout{Name: fs.Name, Kind: fs.Kind, Dims: fs.Dims}
	}
	layout := schema.Packed(binary.LittleEndian, fields...)
	if st.Rows < 0 || layout.ItemSize <= 0 || st.Rows > len(st.Data)/layout.ItemSize ||
		len(st.Data) != st.Rows*layout.ItemSize {
		return nil, state.Corrupt("recarray.Restore", errRowCount(st.Rows, len(st.Data)))
	}

	var vopts []Option
	if st.Masked {
		m, err := mask.Unpack(st.Mask, st.Rows, len(st.Fields))
		if err != nil {
			return nil, state.Corrupt("recarray.Restore", err)
		}
		vopts = append(vopts, WithMask(m.Bits()))
	}

	v, err := New(st.Data, layout, vopts...)
	if err != nil {
		return nil, state.Corrupt("recarray.Restore", err)
	}
	return v, nil
}

func errRowCount(rows, n int) error {
	return fmt.Errorf("%d rows do not fit %d data bytes", rows, n)
}
