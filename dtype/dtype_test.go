package dtype_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/katalvlaran/dataview/dtype"
	"github.com/katalvlaran/dataview/viewerr"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

// TestKindWidthsAndNames pins the protocol table.
func TestKindWidthsAndNames(t *testing.T) {
	cases := []struct {
		k     dtype.Kind
		width int
		name  string
	}{
		{dtype.Bool, 1, "bool"},
		{dtype.Int8, 1, "int8"},
		{dtype.Int16, 2, "int16"},
		{dtype.Int32, 4, "int32"},
		{dtype.Int64, 8, "int64"},
		{dtype.Uint8, 1, "uint8"},
		{dtype.Uint16, 2, "uint16"},
		{dtype.Uint32, 4, "uint32"},
		{dtype.Uint64, 8, "uint64"},
		{dtype.Float16, 2, "float16"},
		{dtype.Float32, 4, "float32"},
		{dtype.Float64, 8, "float64"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.width, tc.k.Width(), tc.name)
		require.Equal(t, tc.name, tc.k.String())
		parsed, err := dtype.ParseKind(tc.name)
		require.NoError(t, err)
		require.Equal(t, tc.k, parsed)
	}

	require.Equal(t, 0, dtype.Invalid.Width())
	require.Equal(t, 0, dtype.Kind(200).Width())
	require.Equal(t, "kind(200)", dtype.Kind(200).String())
	_, err := dtype.ParseKind("complex128")
	require.Error(t, err)
}

// TestKindPredicates checks the classification helpers.
func TestKindPredicates(t *testing.T) {
	require.True(t, dtype.Int16.IsSigned())
	require.False(t, dtype.Uint16.IsSigned())
	require.True(t, dtype.Uint64.IsInteger())
	require.True(t, dtype.Float16.IsFloat())
	require.False(t, dtype.Bool.IsNumeric())
	require.True(t, dtype.Float64.IsNumeric())
}

// TestOfRoundTrip encodes Go slices and reads every element back.
func TestOfRoundTrip(t *testing.T) {
	ints := dtype.Of([]int32{1, -2, 3})
	require.Equal(t, dtype.Int32, ints.Kind)
	require.Equal(t, 3, ints.Len())
	require.NoError(t, ints.Validate())
	v, err := ints.At(1)
	require.NoError(t, err)
	require.Equal(t, int64(-2), v.Int())
	require.Equal(t, "-2", v.String())

	bools := dtype.Of([]bool{true, false})
	v, err = bools.At(0)
	require.NoError(t, err)
	require.True(t, v.Bool())
	require.Equal(t, int64(1), v.Int())
	require.Equal(t, "true", v.String())

	halves := dtype.Of([]float16.Float16{float16.Fromfloat32(1.5)})
	require.Equal(t, dtype.Float16, halves.Kind)
	v, err = halves.At(0)
	require.NoError(t, err)
	require.Equal(t, 1.5, v.Float())

	u := dtype.Of([]uint64{math.MaxUint64})
	v, err = u.At(0)
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64), v.Uint())

	_, err = ints.At(3)
	require.ErrorIs(t, err, viewerr.ErrBounds)
}

// TestBigEndianCanonicalization verifies that foreign byte order is normalized.
func TestBigEndianCanonicalization(t *testing.T) {
	be := make([]byte, 8)
	binary.BigEndian.PutUint32(be[0:], 7)
	binary.BigEndian.PutUint32(be[4:], 0xdeadbeef)
	arr := dtype.Array{Kind: dtype.Uint32, Data: be, Order: binary.BigEndian}

	v, err := arr.At(1)
	require.NoError(t, err)
	require.Equal(t, uint64(0xdeadbeef), v.Uint())

	little := dtype.Of([]uint32{7, 0xdeadbeef})
	require.Equal(t, little.Data, arr.Canonical())
	require.Equal(t, []float64{7, 0xdeadbeef}, arr.Float64s())
	// source untouched
	require.Equal(t, uint32(7), binary.BigEndian.Uint32(be[0:]))
}

// TestValidate rejects unsupported kinds and ragged buffers.
func TestValidate(t *testing.T) {
	err := dtype.Array{Kind: dtype.Invalid}.Validate()
	require.ErrorIs(t, err, viewerr.ErrUnsupportedKind)
	require.ErrorIs(t, err, viewerr.ErrConstruction)

	err = dtype.Array{Kind: dtype.Int32, Data: make([]byte, 6)}.Validate()
	require.ErrorIs(t, err, viewerr.ErrLayoutMismatch)
}

// TestValueClose covers exact vs tolerance-bounded comparison.
func TestValueClose(t *testing.T) {
	a := dtype.MakeValue(dtype.Float64, nil, dtype.Of([]float64{1.0}).Data)
	b := dtype.MakeValue(dtype.Float64, nil, dtype.Of([]float64{1.0 + 1e-9}).Data)
	require.True(t, a.Close(b, 1e-6))
	require.False(t, a.Equal(b))

	nan := dtype.MakeValue(dtype.Float64, nil, dtype.Of([]float64{math.NaN()}).Data)
	require.True(t, nan.Close(nan, 1e-6))
	require.False(t, nan.Close(a, 1e-6))

	i1 := dtype.MakeValue(dtype.Int32, nil, dtype.Of([]int32{5}).Data)
	i2 := dtype.MakeValue(dtype.Int32, nil, dtype.Of([]int32{6}).Data)
	require.False(t, i1.Close(i2, 0.5)) // integers never use tolerance
	require.True(t, i1.Close(i1, 0))
}

// TestSubArrayValue checks shape, element access and textual form.
func TestSubArrayValue(t *testing.T) {
	raw := dtype.Of([]float32{1, 2, 3, 4, 5, 6}).Data
	v := dtype.MakeValue(dtype.Float32, []int{2, 3}, raw)
	require.True(t, v.IsArray())
	require.Equal(t, []int{2, 3}, v.Shape())
	require.Equal(t, 6, v.Len())
	require.Equal(t, "[[1, 2, 3], [4, 5, 6]]", v.String())
	require.Equal(t, []float64{1, 2, 3, 4, 5, 6}, v.Float64s())

	e, err := v.Elem(4)
	require.NoError(t, err)
	require.Equal(t, 5.0, e.Float())
	require.False(t, e.IsArray())

	_, err = v.Elem(6)
	require.ErrorIs(t, err, viewerr.ErrBounds)

	zero := dtype.MakeValue(dtype.Int16, []int{2}, make([]byte, 4))
	require.True(t, zero.IsZero())
	require.False(t, v.IsZero())

	require.True(t, dtype.MakeValue(dtype.Bool, nil, []byte{0}).IsZero())
	require.False(t, dtype.MakeValue(dtype.Bool, nil, []byte{1}).IsZero())
}
