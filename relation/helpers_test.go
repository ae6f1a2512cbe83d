package relation_test

import (
	"crypto/sha1"
	"testing"

	"github.com/katalvlaran/dataview/digest"
	"github.com/katalvlaran/dataview/dtype"
	"github.com/katalvlaran/dataview/relation"
	"github.com/stretchr/testify/require"
)

// hexdigest fingerprints d with sha1.
func hexdigest(t *testing.T, d digest.Digester) string {
	t.Helper()
	h, err := digest.Hex(d, sha1.New())
	require.NoError(t, err)
	return h
}

// mustDense builds a dense relation or fails the test.
func mustDense(t *testing.T, data dtype.Array, shape []int, opts ...relation.Option) *relation.Dense {
	t.Helper()
	d, err := relation.NewDense(data, shape, opts...)
	require.NoError(t, err)
	return d
}

// mustSparse builds a sparse relation or fails the test.
func mustSparse(t *testing.T, c relation.Compressed) *relation.Sparse {
	t.Helper()
	s, err := relation.NewSparse(c)
	require.NoError(t, err)
	return s
}

// fourByFourCSR holds {(0,0):4, (3,3):5, (1,1):7, (0,2):9} in compressed-row form.
func fourByFourCSR() relation.Compressed {
	return relation.Compressed{
		Orient:  relation.CompressedRow,
		Rows:    4,
		Cols:    4,
		Indptr:  []int{0, 2, 3, 3, 4},
		Indices: []int{0, 2, 1, 3},
		Data:    dtype.Of([]int64{4, 9, 7, 5}),
	}
}

// fourByFourCSC is fourByFourCSR in compressed-column form.
func fourByFourCSC() relation.Compressed {
	return relation.Compressed{
		Orient:  relation.CompressedColumn,
		Rows:    4,
		Cols:    4,
		Indptr:  []int{0, 1, 2, 3, 4},
		Indices: []int{0, 1, 0, 3},
		Data:    dtype.Of([]int64{4, 7, 9, 5}),
	}
}

// cellIndices materializes the iteration order of d.
func cellIndices(d *relation.Dense) [][]int {
	var out [][]int
	for c := range d.Cells() {
		out = append(out, c.Index)
	}
	return out
}
