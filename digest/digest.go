// SPDX-License-Identifier: MIT

// Package digest canonicalizes a view's logical content into a byte stream
// and feeds it to an externally owned incremental hash.
//
// The hash is a capability: anything with an "append bytes" Write method.
// Every hash.Hash qualifies (sha1, sha256, BLAKE3, ...), as does a
// bytes.Buffer in tests. The engine never resets, sums or closes the sink.
//
// Stream grammar (all integers little-endian uint64):
//
//	stream := tag header cell*
//	tag    := len(name) name
//	cell   := 0x01 canonical-bytes   (present)
//	        | 0x00                   (masked sentinel)
//
// The presence byte is written for every cell, mask or no mask, so an absent
// mask and an all-false mask produce the same stream, and a masked payload
// never reaches the sink.
package digest

import (
	"encoding/binary"
	"encoding/hex"
	"hash"
)

// Sink receives canonical bytes. Write must consume all of p or return an error.
type Sink interface {
	Write(p []byte) (n int, err error)
}

// Digester is implemented by every view.
type Digester interface {
	Digest(s Sink) error
}

const (
	cellMasked  byte = 0x00
	cellPresent byte = 0x01
)

// Encoder writes the canonical grammar to a Sink. The first write error is
// latched and every later call becomes a no-op; check Err at the end.
type Encoder struct {
	sink    Sink
	err     error
	scratch [8]byte
}

// NewEncoder returns an Encoder over s.
func NewEncoder(s Sink) *Encoder {
	return &Encoder{sink: s}
}

// Err returns the first error returned by the sink.
func (e *Encoder) Err() error { return e.err }

// Raw writes b unchanged.
func (e *Encoder) Raw(b []byte) {
	if e.err != nil || len(b) == 0 {
		return
	}
	_, e.err = e.sink.Write(b)
}

// Byte writes one byte.
func (e *Encoder) Byte(b byte) {
	e.scratch[0] = b
	e.Raw(e.scratch[:1])
}

// Uint writes v as 8 little-endian bytes.
func (e *Encoder) Uint(v uint64) {
	binary.LittleEndian.PutUint64(e.scratch[:], v)
	e.Raw(e.scratch[:])
}

// Int writes a non-negative count or index.
func (e *Encoder) Int(v int) { e.Uint(uint64(v)) }

// Ints writes len(vs) followed by every element.
func (e *Encoder) Ints(vs []int) {
	e.Int(len(vs))
	for _, v := range vs {
		e.Int(v)
	}
}

// Tag writes a length-prefixed name identifying the stream layout.
func (e *Encoder) Tag(name string) {
	e.Int(len(name))
	e.Raw([]byte(name))
}

// Cell writes a present cell with its canonical bytes.
func (e *Encoder) Cell(canonical []byte) {
	e.Byte(cellPresent)
	e.Raw(canonical)
}

// Masked writes the masked-cell sentinel.
func (e *Encoder) Masked() {
	e.Byte(cellMasked)
}

// Sum feeds d into a fresh state of h and returns the resulting checksum.
// h is reset before use.
func Sum(d Digester, h hash.Hash) ([]byte, error) {
	h.Reset()
	if err := d.Digest(h); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

// Hex is Sum rendered as lower-case hex.
func Hex(d Digester, h hash.Hash) (string, error) {
	sum, err := Sum(d, h)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum), nil
}
