// SPDX-License-Identifier: MIT

package relation

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/dataview/dtype"
	"github.com/katalvlaran/dataview/viewerr"
)

// Orientation selects the compressed axis of a 2-D sparse matrix.
type Orientation uint8

const (
	// CompressedRow (CSR): Indptr runs over rows, Indices hold column numbers.
	CompressedRow Orientation = 1
	// CompressedColumn (CSC): Indptr runs over columns, Indices hold row numbers.
	CompressedColumn Orientation = 2
)

// String returns "csr" or "csc".
func (o Orientation) String() string {
	switch o {
	case CompressedRow:
		return "csr"
	case CompressedColumn:
		return "csc"
	}
	return fmt.Sprintf("orientation(%d)", uint8(o))
}

// Compressed is a 2-D sparse matrix in compressed-row or compressed-column form.
//
// For CompressedRow the entries of row r are Indices[Indptr[r]:Indptr[r+1]]
// (column numbers) with values Data[Indptr[r]:Indptr[r+1]]; CompressedColumn
// swaps the roles of rows and columns.
type Compressed struct {
	Orient  Orientation
	Rows    int
	Cols    int
	Indptr  []int
	Indices []int
	Data    dtype.Array
}

// entry is one stored nonzero in canonical form.
type entry struct {
	row, col int
	raw      []byte // canonical little-endian
}

// entries validates c and returns its nonzero entries sorted by (row, col).
//
// Implementation:
//   - Stage 1: validate orientation, shape and value array.
//   - Stage 2: validate Indptr (length, start, monotone, every pointer within nnz).
//   - Stage 3: expand to (row, col, value) checking Indices range, drop explicit
//     zeros, sort, reject duplicates.
//
// Complexity: O(nnz log nnz).
func (c Compressed) entries() ([]entry, error) {
	if c.Orient != CompressedRow && c.Orient != CompressedColumn {
		return nil, viewerr.Wrapf(viewerr.ErrSparseIndex, "orientation %d", c.Orient)
	}
	if c.Rows <= 0 || c.Cols <= 0 {
		return nil, viewerr.Wrapf(viewerr.ErrBadShape, "shape (%d,%d)", c.Rows, c.Cols)
	}
	if err := c.Data.Validate(); err != nil {
		return nil, err
	}

	major, minor := c.Rows, c.Cols
	if c.Orient == CompressedColumn {
		major, minor = c.Cols, c.Rows
	}
	nnz := len(c.Indices)
	if len(c.Indptr) != major+1 || c.Indptr[0] != 0 || c.Indptr[major] != nnz || c.Data.Len() != nnz {
		return nil, viewerr.Wrapf(viewerr.ErrSparseIndex,
			"%s: indptr len %d (want %d), indices %d, data %d", c.Orient, len(c.Indptr), major+1, nnz, c.Data.Len())
	}

	for m := 0; m < major; m++ {
		if lo, hi := c.Indptr[m], c.Indptr[m+1]; lo > hi || hi > nnz {
			return nil, viewerr.Wrapf(viewerr.ErrSparseIndex, "%s: indptr[%d:%d] = [%d,%d] outside [0,%d]", c.Orient, m, m+2, lo, hi, nnz)
		}
	}

	w := c.Data.Kind.Width()
	out := make([]entry, 0, nnz)
	for m := 0; m < major; m++ {
		for p := c.Indptr[m]; p < c.Indptr[m+1]; p++ {
			n := c.Indices[p]
			if n < 0 || n >= minor {
				return nil, viewerr.Wrapf(viewerr.ErrSparseIndex, "%s: index %d out of [0,%d)", c.Orient, n, minor)
			}
			raw := dtype.Canonicalize(c.Data.Kind, c.Data.Order, c.Data.Data[p*w:(p+1)*w])
			if dtype.MakeValue(c.Data.Kind, nil, raw).IsZero() {
				continue
			}
			e := entry{row: m, col: n, raw: append([]byte(nil), raw...)}
			if c.Orient == CompressedColumn {
				e.row, e.col = n, m
			}
			out = append(out, e)
		}
	}

	return sortEntries(out)
}

// sortEntries orders by (row, col) and rejects repeated coordinates.
func sortEntries(es []entry) ([]entry, error) {
	sort.Slice(es, func(a, b int) bool {
		if es[a].row != es[b].row {
			return es[a].row < es[b].row
		}
		return es[a].col < es[b].col
	})
	for k := 1; k < len(es); k++ {
		if es[k].row == es[k-1].row && es[k].col == es[k-1].col {
			return nil, viewerr.Wrapf(viewerr.ErrDuplicateEntry, "(%d,%d)", es[k].row, es[k].col)
		}
	}
	return es, nil
}
