package state_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/katalvlaran/dataview/state"
	"github.com/katalvlaran/dataview/viewerr"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string  `cbor:"1,keyasint"`
	Dims  []int   `cbor:"2,keyasint"`
	Bytes []byte  `cbor:"3,keyasint"`
	Mask  []byte  `cbor:"4,keyasint,omitempty"`
	Scale float64 `cbor:"5,keyasint"`
}

func samplePayload() payload {
	return payload{
		Name:  "sample",
		Dims:  []int{4, 4},
		Bytes: bytes.Repeat([]byte{1, 2, 3, 4}, 512), // compressible
		Scale: 0.5,
	}
}

// TestSealOpenAllCodecs round-trips a payload through every codec.
func TestSealOpenAllCodecs(t *testing.T) {
	for _, c := range []state.Codec{state.CodecNone, state.CodecLZ4, state.CodecZstd} {
		t.Run(c.String(), func(t *testing.T) {
			in := samplePayload()
			blob, err := state.Seal(state.KindDenseRelation, in, state.WithCodec(c))
			require.NoError(t, err)

			h, err := state.Peek(blob)
			require.NoError(t, err)
			require.Equal(t, state.Version, h.Version)
			require.Equal(t, state.KindDenseRelation, h.Kind)
			require.Equal(t, c, h.Codec)
			if c != state.CodecNone {
				require.Less(t, h.Stored, h.Size)
			}

			var out payload
			require.NoError(t, state.Open(blob, state.KindDenseRelation, &out))
			require.Equal(t, in, out)
		})
	}
}

// TestIncompressibleStoredRaw falls back to CodecNone for tiny payloads.
func TestIncompressibleStoredRaw(t *testing.T) {
	blob, err := state.Seal(state.KindVariadic, payload{Name: "x"}, state.WithCodec(state.CodecZstd))
	require.NoError(t, err)
	h, err := state.Peek(blob)
	require.NoError(t, err)
	require.Equal(t, state.CodecNone, h.Codec)
}

// TestSealDeterministic checks identical payloads yield identical blobs.
func TestSealDeterministic(t *testing.T) {
	a, err := state.Seal(state.KindRecordArray, samplePayload(), state.WithCodec(state.CodecLZ4))
	require.NoError(t, err)
	b, err := state.Seal(state.KindRecordArray, samplePayload(), state.WithCodec(state.CodecLZ4))
	require.NoError(t, err)
	require.Equal(t, a, b)
}

// TestOpenRejectsMalformed walks the self-description checks.
func TestOpenRejectsMalformed(t *testing.T) {
	good, err := state.Seal(state.KindSparseRelation, samplePayload())
	require.NoError(t, err)

	var out payload
	err = state.Open(good, state.KindVariadic, &out)
	require.ErrorIs(t, err, viewerr.ErrBlobKind)

	err = state.Open(nil, state.KindSparseRelation, &out)
	require.ErrorIs(t, err, viewerr.ErrBlobCorrupt)

	err = state.Open(state.Blob{0xff, 0x00, 0x13}, state.KindSparseRelation, &out)
	require.ErrorIs(t, err, viewerr.ErrSerialization)

	err = state.Open(good[:len(good)/2], state.KindSparseRelation, &out)
	require.ErrorIs(t, err, viewerr.ErrSerialization)

	forged := func(fields map[int]any) state.Blob {
		b, err := cbor.Marshal(fields)
		require.NoError(t, err)
		return b
	}

	_, err = state.Peek(forged(map[int]any{1: "other", 2: 1, 3: 1, 4: 0, 5: 0, 6: []byte{}}))
	require.ErrorIs(t, err, viewerr.ErrBlobCorrupt)

	_, err = state.Peek(forged(map[int]any{1: "dataview", 2: 99, 3: 1, 4: 0, 5: 0, 6: []byte{}}))
	require.ErrorIs(t, err, viewerr.ErrBlobVersion)

	_, err = state.Peek(forged(map[int]any{1: "dataview", 2: 1, 3: 42, 4: 0, 5: 0, 6: []byte{}}))
	require.ErrorIs(t, err, viewerr.ErrBlobKind)

	_, err = state.Peek(forged(map[int]any{1: "dataview", 2: 1, 3: 1, 4: 9, 5: 0, 6: []byte{}}))
	require.ErrorIs(t, err, viewerr.ErrBlobCorrupt)

	// size disagreement with the stored payload
	err = state.Open(forged(map[int]any{1: "dataview", 2: 1, 3: 1, 4: 0, 5: 10, 6: []byte{1}}), state.KindRecordArray, &out)
	require.ErrorIs(t, err, viewerr.ErrBlobCorrupt)

	// recorded sizes the stored bytes cannot back must fail before allocating
	for _, codec := range []state.Codec{state.CodecLZ4, state.CodecZstd} {
		for _, size := range []int{1 << 62, 16 << 30, state.MaxPayloadSize} {
			blob := forged(map[int]any{1: "dataview", 2: 1, 3: 4, 4: int(codec), 5: size, 6: []byte{1, 2}})
			require.NotPanics(t, func() { err = state.Open(blob, state.KindVariadic, &out) }, "%s %d", codec, size)
			require.ErrorIs(t, err, viewerr.ErrBlobCorrupt, "%s %d", codec, size)
		}
	}
}

// TestOpenRejectsInflatedSize keeps a genuine compressed payload but records
// a larger uncompressed size.
func TestOpenRejectsInflatedSize(t *testing.T) {
	for _, codec := range []state.Codec{state.CodecLZ4, state.CodecZstd} {
		blob, err := state.Seal(state.KindVariadic, samplePayload(), state.WithCodec(codec))
		require.NoError(t, err)
		h, err := state.Peek(blob)
		require.NoError(t, err)
		require.Equal(t, codec, h.Codec)

		var env map[int]any
		require.NoError(t, cbor.Unmarshal(blob, &env))
		env[5] = h.Size + 1
		inflated, err := cbor.Marshal(env)
		require.NoError(t, err)

		var out payload
		err = state.Open(inflated, state.KindVariadic, &out)
		require.ErrorIs(t, err, viewerr.ErrBlobCorrupt, codec.String())
	}
}

// TestLoggerReceivesEvents checks the debug events of Seal and Open.
func TestLoggerReceivesEvents(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	blob, err := state.Seal(state.KindVariadic, samplePayload(), state.WithLogger(logger), state.WithCodec(state.CodecZstd))
	require.NoError(t, err)
	var out payload
	require.NoError(t, state.Open(blob, state.KindVariadic, &out, state.WithLogger(logger)))

	require.Contains(t, buf.String(), "state sealed")
	require.Contains(t, buf.String(), "codec=zstd")
	require.Contains(t, buf.String(), "state opened")

	require.Panics(t, func() { state.WithLogger(nil) })
}

// TestParseCodec covers names and errors.
func TestParseCodec(t *testing.T) {
	for _, c := range []state.Codec{state.CodecNone, state.CodecLZ4, state.CodecZstd} {
		got, err := state.ParseCodec(c.String())
		require.NoError(t, err)
		require.Equal(t, c, got)
	}
	_, err := state.ParseCodec("brotli")
	require.Error(t, err)
	require.Equal(t, "unknown(7)", state.Codec(7).String())
	require.Equal(t, "relation.sparse", state.KindSparseRelation.String())
}
