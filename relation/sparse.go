// SPDX-License-Identifier: MIT

package relation

import (
	"iter"
	"sort"

	"github.com/katalvlaran/dataview/dtype"
	"github.com/katalvlaran/dataview/order"
	"github.com/katalvlaran/dataview/viewerr"
)

const (
	ctxNewSparse = "relation.NewSparse"
	ctxFromCOO   = "relation.FromCOO"
)

// Sparse is a read-only 2-D relation storing nonzero entries only.
//
// Whatever the input orientation, the view keeps one canonical
// compressed-row copy: columns sorted within each row, explicit zeros
// dropped. Two logically equal matrices therefore yield identical
// ToCompressedRow output, digests and blobs. Sparse relations cannot be masked.
type Sparse struct {
	rows, cols int
	kind       dtype.Kind
	indptr     []int  // len rows+1
	indices    []int  // column of each stored entry
	data       []byte // canonical little-endian values, nnz × width
}

// Entry is one stored nonzero yielded by iteration.
type Entry struct {
	Row, Col int
	Value    dtype.Value
}

// NewSparse builds a sparse relation from compressed-row or compressed-column input.
// The input is copied; the view never refers to c after returning.
//
// Errors:
//   - ErrUnsupportedOperation when WithMask is given.
//   - ErrSparseIndex, ErrDuplicateEntry, ErrBadShape, ErrUnsupportedKind
//     (viewerr.ErrConstruction) for malformed input.
func NewSparse(c Compressed, opts ...Option) (*Sparse, error) {
	if o := gatherOptions(opts); o.maskSet {
		return nil, viewerr.Wrap(ctxNewSparse+": mask", viewerr.ErrUnsupportedOperation)
	}
	es, err := c.entries()
	if err != nil {
		return nil, viewerr.Wrap(ctxNewSparse, err)
	}
	return fromEntries(c.Rows, c.Cols, c.Data.Kind, es), nil
}

// FromCOO builds a sparse relation from coordinate triples
// (rowIdx[k], colIdx[k], data[k]).
func FromCOO(rows, cols int, rowIdx, colIdx []int, data dtype.Array, opts ...Option) (*Sparse, error) {
	if o := gatherOptions(opts); o.maskSet {
		return nil, viewerr.Wrap(ctxFromCOO+": mask", viewerr.ErrUnsupportedOperation)
	}
	if rows <= 0 || cols <= 0 {
		return nil, viewerr.Wrapf(viewerr.ErrBadShape, "%s: shape (%d,%d)", ctxFromCOO, rows, cols)
	}
	if err := data.Validate(); err != nil {
		return nil, viewerr.Wrap(ctxFromCOO, err)
	}
	if len(rowIdx) != len(colIdx) || len(rowIdx) != data.Len() {
		return nil, viewerr.Wrapf(viewerr.ErrSparseIndex, "%s: %d rows, %d cols, %d values",
			ctxFromCOO, len(rowIdx), len(colIdx), data.Len())
	}

	w := data.Kind.Width()
	es := make([]entry, 0, len(rowIdx))
	for k := range rowIdx {
		r, c := rowIdx[k], colIdx[k]
		if r < 0 || r >= rows || c < 0 || c >= cols {
			return nil, viewerr.Wrapf(viewerr.ErrSparseIndex, "%s: (%d,%d) outside (%d,%d)", ctxFromCOO, r, c, rows, cols)
		}
		raw := dtype.Canonicalize(data.Kind, data.Order, data.Data[k*w:(k+1)*w])
		if dtype.MakeValue(data.Kind, nil, raw).IsZero() {
			continue
		}
		es = append(es, entry{row: r, col: c, raw: append([]byte(nil), raw...)})
	}
	es, err := sortEntries(es)
	if err != nil {
		return nil, viewerr.Wrap(ctxFromCOO, err)
	}
	return fromEntries(rows, cols, data.Kind, es), nil
}

// fromEntries packs sorted entries into canonical CSR.
func fromEntries(rows, cols int, kind dtype.Kind, es []entry) *Sparse {
	s := &Sparse{
		rows:    rows,
		cols:    cols,
		kind:    kind,
		indptr:  make([]int, rows+1),
		indices: make([]int, len(es)),
		data:    make([]byte, 0, len(es)*kind.Width()),
	}
	for k, e := range es {
		s.indptr[e.row+1]++
		s.indices[k] = e.col
		s.data = append(s.data, e.raw...)
	}
	for r := 0; r < rows; r++ {
		s.indptr[r+1] += s.indptr[r]
	}
	return s
}

// WithMask always fails: sparse relations do not support masking.
func (s *Sparse) WithMask([]bool) (*Sparse, error) {
	return nil, viewerr.Wrap("Sparse.WithMask", viewerr.ErrUnsupportedOperation)
}

// Shape returns (rows, cols).
func (s *Sparse) Shape() []int { return []int{s.rows, s.cols} }

// NDim is always 2.
func (s *Sparse) NDim() int { return 2 }

// Kind returns the value kind.
func (s *Sparse) Kind() dtype.Kind { return s.kind }

// NNZ returns the number of stored nonzero entries.
func (s *Sparse) NNZ() int { return len(s.indices) }

// At returns the value at (i, j); absent entries read as zero.
func (s *Sparse) At(i, j int) (dtype.Value, error) {
	if i < 0 || i >= s.rows || j < 0 || j >= s.cols {
		return dtype.Value{}, viewerr.Wrapf(viewerr.ErrBounds, "Sparse.At(%d,%d) of (%d,%d)", i, j, s.rows, s.cols)
	}
	lo, hi := s.indptr[i], s.indptr[i+1]
	p := lo + sort.SearchInts(s.indices[lo:hi], j)
	if p < hi && s.indices[p] == j {
		return s.value(p), nil
	}
	return dtype.MakeValue(s.kind, nil, make([]byte, s.kind.Width())), nil
}

// Entries iterates stored nonzeros in (row, col) order.
func (s *Sparse) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for r := 0; r < s.rows; r++ {
			for p := s.indptr[r]; p < s.indptr[r+1]; p++ {
				if !yield(Entry{Row: r, Col: s.indices[p], Value: s.value(p)}) {
					return
				}
			}
		}
	}
}

// Shuffled iterates stored nonzeros in an order drawn from r per iteration.
func (s *Sparse) Shuffled(r order.Rand) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		rowOf := s.rowIndex()
		for _, p := range order.Permutation(s.NNZ(), r) {
			if !yield(Entry{Row: rowOf[p], Col: s.indices[p], Value: s.value(p)}) {
				return
			}
		}
	}
}

// ToCompressedRow returns an owned canonical CSR copy.
func (s *Sparse) ToCompressedRow() Compressed {
	return Compressed{
		Orient:  CompressedRow,
		Rows:    s.rows,
		Cols:    s.cols,
		Indptr:  append([]int(nil), s.indptr...),
		Indices: append([]int(nil), s.indices...),
		Data:    dtype.Array{Kind: s.kind, Data: append([]byte(nil), s.data...)},
	}
}

// ToCompressedColumn returns an owned CSC copy with rows sorted within each column.
func (s *Sparse) ToCompressedColumn() Compressed {
	w := s.kind.Width()
	nnz := s.NNZ()
	indptr := make([]int, s.cols+1)
	for _, c := range s.indices {
		indptr[c+1]++
	}
	for c := 0; c < s.cols; c++ {
		indptr[c+1] += indptr[c]
	}

	next := append([]int(nil), indptr[:s.cols]...)
	indices := make([]int, nnz)
	data := make([]byte, nnz*w)
	for r := 0; r < s.rows; r++ { // row-major scan keeps rows ascending per column
		for p := s.indptr[r]; p < s.indptr[r+1]; p++ {
			q := next[s.indices[p]]
			next[s.indices[p]]++
			indices[q] = r
			copy(data[q*w:(q+1)*w], s.data[p*w:(p+1)*w])
		}
	}

	return Compressed{
		Orient:  CompressedColumn,
		Rows:    s.rows,
		Cols:    s.cols,
		Indptr:  indptr,
		Indices: indices,
		Data:    dtype.Array{Kind: s.kind, Data: data},
	}
}

// Diff counts coordinates whose values differ between s and o: entries
// stored in only one side, plus shared entries that are not Close within
// relTol (exact for integer and boolean kinds).
// A nil o, or relations of different shape or kind, are not comparable
// (ErrUnsupportedOperation).
func (s *Sparse) Diff(o *Sparse, relTol float64) (int, error) {
	if o == nil {
		return 0, viewerr.Wrap("Sparse.Diff: nil relation", viewerr.ErrUnsupportedOperation)
	}
	if s.rows != o.rows || s.cols != o.cols || s.kind != o.kind {
		return 0, viewerr.Wrapf(viewerr.ErrUnsupportedOperation,
			"Sparse.Diff: (%d,%d,%s) vs (%d,%d,%s)", s.rows, s.cols, s.kind, o.rows, o.cols, o.kind)
	}
	diff := 0
	for r := 0; r < s.rows; r++ {
		p, pe := s.indptr[r], s.indptr[r+1]
		q, qe := o.indptr[r], o.indptr[r+1]
		for p < pe || q < qe {
			switch {
			case q == qe || (p < pe && s.indices[p] < o.indices[q]):
				diff++
				p++
			case p == pe || o.indices[q] < s.indices[p]:
				diff++
				q++
			default:
				if !s.value(p).Close(o.value(q), relTol) {
					diff++
				}
				p++
				q++
			}
		}
	}
	return diff, nil
}

func (s *Sparse) value(p int) dtype.Value {
	w := s.kind.Width()
	return dtype.MakeValue(s.kind, nil, s.data[p*w:(p+1)*w])
}

// rowIndex maps every stored position to its row.
func (s *Sparse) rowIndex() []int {
	out := make([]int, s.NNZ())
	for r := 0; r < s.rows; r++ {
		for p := s.indptr[r]; p < s.indptr[r+1]; p++ {
			out[p] = r
		}
	}
	return out
}
