// SPDX-License-Identifier: MIT

// Package state implements the capture/restore contract shared by all views.
//
// A Blob is self-describing: a deterministic CBOR envelope carrying a magic
// string, format version, view kind, compression codec, uncompressed size and
// the payload. Each view package defines its own payload struct and uses Seal
// and Open; nothing in a blob refers to the original backing buffer.
package state

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"github.com/katalvlaran/dataview/viewerr"
)

// Blob is an opaque, self-contained serialized view.
type Blob []byte

// Kind identifies the view type held by a blob. Protocol constants.
type Kind uint8

const (
	KindRecordArray    Kind = 1
	KindDenseRelation  Kind = 2
	KindSparseRelation Kind = 3
	KindVariadic       Kind = 4
)

// String returns the view kind name.
func (k Kind) String() string {
	switch k {
	case KindRecordArray:
		return "recarray"
	case KindDenseRelation:
		return "relation.dense"
	case KindSparseRelation:
		return "relation.sparse"
	case KindVariadic:
		return "variadic"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Version is the envelope format version written by Seal.
const Version uint16 = 1

const magic = "dataview"

type envelope struct {
	Magic   string `cbor:"1,keyasint"`
	Version uint16 `cbor:"2,keyasint"`
	Kind    Kind   `cbor:"3,keyasint"`
	Codec   Codec  `cbor:"4,keyasint"`
	Size    int    `cbor:"5,keyasint"`
	Payload []byte `cbor:"6,keyasint"`
}

// Header is the decoded envelope metadata of a blob.
type Header struct {
	Version uint16
	Kind    Kind
	Codec   Codec
	Size    int // uncompressed payload bytes
	Stored  int // payload bytes as stored
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	// Core Deterministic Encoding: one logical view, one byte sequence.
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("state: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		MaxArrayElements: math.MaxInt32,
		MaxMapPairs:      math.MaxInt32,
		DefaultMapType:   reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("state: CBOR decoder initialization failed: " + err.Error())
	}
}

// Seal encodes payload (a CBOR-encodable struct) into a Blob of the given kind.
func Seal(kind Kind, payload any, opts ...Option) (Blob, error) {
	o := gatherOptions(opts)

	raw, err := encMode.Marshal(payload)
	if err != nil {
		return nil, viewerr.Wrapf(viewerr.ErrSerialization, "state.Seal(%s): %v", kind, err)
	}

	if len(raw) > MaxPayloadSize {
		return nil, viewerr.Wrapf(viewerr.ErrSerialization, "state.Seal(%s): payload %d bytes exceeds %d", kind, len(raw), MaxPayloadSize)
	}

	env := envelope{Magic: magic, Version: Version, Kind: kind, Codec: CodecNone, Size: len(raw), Payload: raw}
	if o.codec != CodecNone {
		packed, err := compress(raw, o.codec)
		switch {
		case errors.Is(err, errIncompressible):
			// stored raw
		case err != nil:
			return nil, viewerr.Wrapf(viewerr.ErrSerialization, "state.Seal(%s): %v", kind, err)
		default:
			env.Codec, env.Payload = o.codec, packed
		}
	}

	out, err := encMode.Marshal(env)
	if err != nil {
		return nil, viewerr.Wrapf(viewerr.ErrSerialization, "state.Seal(%s): %v", kind, err)
	}
	o.logger.Debug("state sealed",
		"kind", kind.String(),
		"codec", env.Codec.String(),
		"size", env.Size,
		"stored", len(env.Payload))

	return out, nil
}

// Peek decodes and validates the envelope without touching the payload.
func Peek(b Blob) (Header, error) {
	env, err := decodeEnvelope(b)
	if err != nil {
		return Header{}, err
	}
	return Header{Version: env.Version, Kind: env.Kind, Codec: env.Codec, Size: env.Size, Stored: len(env.Payload)}, nil
}

// Open validates b as a blob of the wanted kind and decodes its payload into out.
func Open(b Blob, want Kind, out any, opts ...Option) error {
	o := gatherOptions(opts)

	env, err := decodeEnvelope(b)
	if err != nil {
		return err
	}
	if env.Kind != want {
		return viewerr.Wrapf(viewerr.ErrBlobKind, "state.Open: blob holds %s, want %s", env.Kind, want)
	}

	raw, err := decompress(env.Payload, env.Codec, env.Size)
	if err != nil {
		return Corrupt("state.Open", err)
	}
	if err := decMode.Unmarshal(raw, out); err != nil {
		return Corrupt("state.Open", err)
	}
	o.logger.Debug("state opened",
		"kind", env.Kind.String(),
		"codec", env.Codec.String(),
		"size", env.Size)

	return nil
}

// Corrupt reports a semantically invalid payload as a serialization error.
// View packages use it when their own validation of a decoded payload fails,
// so a bad blob never surfaces as a construction error.
func Corrupt(ctx string, cause error) error {
	return fmt.Errorf("%s: %w: %v", ctx, viewerr.ErrBlobCorrupt, cause)
}

func decodeEnvelope(b Blob) (envelope, error) {
	if len(b) == 0 {
		return envelope{}, viewerr.Wrap("state: empty blob", viewerr.ErrBlobCorrupt)
	}
	var env envelope
	if err := decMode.Unmarshal(b, &env); err != nil {
		return envelope{}, Corrupt("state: envelope", err)
	}
	if env.Magic != magic {
		return envelope{}, viewerr.Wrapf(viewerr.ErrBlobCorrupt, "state: bad magic %q", env.Magic)
	}
	if env.Version != Version {
		return envelope{}, viewerr.Wrapf(viewerr.ErrBlobVersion, "state: version %d", env.Version)
	}
	if env.Kind < KindRecordArray || env.Kind > KindVariadic {
		return envelope{}, viewerr.Wrapf(viewerr.ErrBlobKind, "state: unknown kind %d", env.Kind)
	}
	if env.Codec > CodecZstd || env.Size < 0 || env.Size > MaxPayloadSize {
		return envelope{}, viewerr.Wrapf(viewerr.ErrBlobCorrupt, "state: codec %d size %d", env.Codec, env.Size)
	}
	return env, nil
}
