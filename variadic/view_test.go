package variadic_test

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
	"sort"
	"testing"

	"github.com/katalvlaran/dataview/digest"
	"github.com/katalvlaran/dataview/dtype"
	"github.com/katalvlaran/dataview/state"
	"github.com/katalvlaran/dataview/variadic"
	"github.com/katalvlaran/dataview/viewerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() []dtype.Array {
	return []dtype.Array{
		dtype.Of([]int64{1, 2, 3}),
		dtype.Of([]int64{1, 2, 3, 4}),
		dtype.Of([]int64{1, 2, 3, 5}),
	}
}

func mustView(t *testing.T, seqs []dtype.Array) *variadic.View {
	t.Helper()
	v, err := variadic.New(seqs)
	require.NoError(t, err)
	return v
}

func hexdigest(t *testing.T, d digest.Digester) string {
	t.Helper()
	h, err := digest.Hex(d, sha256.New())
	require.NoError(t, err)
	return h
}

// TestVariadicScenario covers count, digest equality and single-element change.
func TestVariadicScenario(t *testing.T) {
	a := mustView(t, fixture())
	b := mustView(t, fixture())
	require.Equal(t, 3, a.Count())
	require.Equal(t, 11, a.Len())
	require.Equal(t, dtype.Int64, a.Kind())
	require.Equal(t, hexdigest(t, a), hexdigest(t, b))

	changed := fixture()
	changed[2] = dtype.Of([]int64{1, 2, 3, 6})
	c := mustView(t, changed)
	require.NotEqual(t, hexdigest(t, a), hexdigest(t, c))
}

// TestVariadicLengthIsIdentity separates equal bytes split differently.
func TestVariadicLengthIsIdentity(t *testing.T) {
	a := mustView(t, []dtype.Array{dtype.Of([]int32{1, 2}), dtype.Of([]int32{3})})
	b := mustView(t, []dtype.Array{dtype.Of([]int32{1}), dtype.Of([]int32{2, 3})})
	require.NotEqual(t, hexdigest(t, a), hexdigest(t, b))

	s0, err := a.At(0)
	require.NoError(t, err)
	s1, err := b.At(0)
	require.NoError(t, err)
	require.False(t, s0.Equal(s1))
}

// TestVariadicValidation rejects booleans, mixed kinds and torn arrays.
func TestVariadicValidation(t *testing.T) {
	cases := map[string][]dtype.Array{
		"Bool":  {dtype.Of([]bool{true})},
		"Mixed": {dtype.Of([]int64{1}), dtype.Of([]float64{1})},
		"Torn":  {{Kind: dtype.Int32, Data: make([]byte, 6)}},
		"Kind":  {{Kind: dtype.Kind(77), Data: []byte{1}}},
	}
	for name, seqs := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := variadic.New(seqs)
			require.ErrorIs(t, err, viewerr.ErrBadSequence)
			require.ErrorIs(t, err, viewerr.ErrConstruction)
		})
	}
}

// TestVariadicEmpty allows empty collections and empty sequences.
func TestVariadicEmpty(t *testing.T) {
	v := mustView(t, nil)
	require.Zero(t, v.Count())
	require.Equal(t, dtype.Invalid, v.Kind())
	_, err := v.At(0)
	require.ErrorIs(t, err, viewerr.ErrBounds)

	w := mustView(t, []dtype.Array{dtype.Of([]uint16{}), dtype.Of([]uint16{9})})
	s, err := w.At(0)
	require.NoError(t, err)
	require.Zero(t, s.Len())
	require.NotEqual(t, hexdigest(t, v), hexdigest(t, w))
}

// TestVariadicCopiesAndCanonicalizes detaches from caller memory.
func TestVariadicCopiesAndCanonicalizes(t *testing.T) {
	raw := make([]byte, 4)
	binary.BigEndian.PutUint16(raw[0:], 258)
	binary.BigEndian.PutUint16(raw[2:], 3)
	v := mustView(t, []dtype.Array{{Kind: dtype.Uint16, Data: raw, Order: binary.BigEndian}})
	raw[1] = 0xff

	s, err := v.At(0)
	require.NoError(t, err)
	e, err := s.At(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(258), e.Uint())
	assert.Equal(t, []float64{258, 3}, s.Float64s())
	assert.Equal(t, "[258, 3]", s.String())

	_, err = s.At(2)
	require.ErrorIs(t, err, viewerr.ErrBounds)

	le := mustView(t, []dtype.Array{dtype.Of([]uint16{258, 3})})
	require.Equal(t, hexdigest(t, le), hexdigest(t, v))
}

// TestVariadicIteration is restartable and ordered; Shuffled permutes indices.
func TestVariadicIteration(t *testing.T) {
	v := mustView(t, fixture())
	for range 2 {
		var lens []int
		for i, s := range v.Sequences() {
			require.Equal(t, len(lens), i)
			lens = append(lens, s.Len())
		}
		require.Equal(t, []int{3, 4, 4}, lens)
	}

	var idx []int
	for i, s := range v.Shuffled(rand.New(rand.NewSource(5))) {
		want, err := v.At(i)
		require.NoError(t, err)
		require.True(t, want.Equal(s))
		idx = append(idx, i)
	}
	sort.Ints(idx)
	require.Equal(t, []int{0, 1, 2}, idx)
}

// TestVariadicRoundTrip restores content and digest.
func TestVariadicRoundTrip(t *testing.T) {
	v := mustView(t, []dtype.Array{
		dtype.Of([]float32{0.5, 1.25}),
		dtype.Of([]float32{}),
		dtype.Of([]float32{3, 4, 5}),
	})
	for _, codec := range []state.Codec{state.CodecNone, state.CodecLZ4, state.CodecZstd} {
		blob, err := v.CaptureState(state.WithCodec(codec))
		require.NoError(t, err)
		back, err := variadic.Restore(blob)
		require.NoError(t, err)

		require.Equal(t, v.Count(), back.Count())
		for i, s := range v.Sequences() {
			got, err := back.At(i)
			require.NoError(t, err)
			require.True(t, s.Values().Close(got.Values(), 1e-6))
		}
		require.Equal(t, hexdigest(t, v), hexdigest(t, back))
	}

	empty, err := mustView(t, nil).CaptureState()
	require.NoError(t, err)
	back, err := variadic.Restore(empty)
	require.NoError(t, err)
	require.Zero(t, back.Count())
}

// TestVariadicRestoreCorrupt forges inconsistent lengths.
func TestVariadicRestoreCorrupt(t *testing.T) {
	type viewState struct {
		Kind    dtype.Kind `cbor:"1,keyasint"`
		Lengths []int      `cbor:"2,keyasint"`
		Data    []byte     `cbor:"3,keyasint"`
	}
	cases := map[string]viewState{
		"TooLong":  {Kind: dtype.Int8, Lengths: []int{3}, Data: []byte{1, 2}},
		"Trailing": {Kind: dtype.Int8, Lengths: []int{1}, Data: []byte{1, 2}},
		"Negative": {Kind: dtype.Int8, Lengths: []int{-1, 3}, Data: []byte{1, 2}},
		"Bool":     {Kind: dtype.Bool, Lengths: []int{1}, Data: []byte{1}},
		"Empty":    {Kind: dtype.Int8, Data: nil},
	}
	for name, st := range cases {
		t.Run(name, func(t *testing.T) {
			blob, err := state.Seal(state.KindVariadic, st)
			require.NoError(t, err)
			_, err = variadic.Restore(blob)
			require.ErrorIs(t, err, viewerr.ErrBlobCorrupt)
		})
	}
}
