package recarray_test

import (
	"crypto/sha1"
	"testing"

	"github.com/katalvlaran/dataview/digest"
	"github.com/katalvlaran/dataview/dtype"
	"github.com/katalvlaran/dataview/recarray"
	"github.com/katalvlaran/dataview/schema"
	"github.com/stretchr/testify/require"
)

// pack lays rows out according to l. A field value is either a typed Go
// scalar or a []any of typed scalars for sub-array fields.
func pack(l schema.Layout, rows ...[]any) []byte {
	buf := make([]byte, len(rows)*l.ItemSize)
	for i, row := range rows {
		for k, f := range l.Fields {
			w := f.Kind.Width()
			off := i*l.ItemSize + f.Offset
			if elems, ok := row[k].([]any); ok {
				for j, e := range elems {
					dtype.PutScalar(buf[off+j*w:off+(j+1)*w], e)
				}
				continue
			}
			dtype.PutScalar(buf[off:off+w], row[k])
		}
	}
	return buf
}

// uniform returns a packed layout of n fields of one kind.
func uniform(k dtype.Kind, n int) schema.Layout {
	fields := make([]schema.FieldLayout, n)
	for i := range fields {
		fields[i] = schema.FieldLayout{Kind: k}
	}
	return schema.Packed(nil, fields...)
}

// mustView builds a view or fails the test.
func mustView(t *testing.T, buf []byte, l schema.Layout, opts ...recarray.Option) *recarray.View {
	t.Helper()
	v, err := recarray.New(buf, l, opts...)
	require.NoError(t, err)
	return v
}

// hexdigest mirrors the usual sha1 fingerprint used by inference caches.
func hexdigest(t *testing.T, d digest.Digester) string {
	t.Helper()
	h, err := digest.Hex(d, sha1.New())
	require.NoError(t, err)
	return h
}

// collect materializes the records of v.
func collect(v *recarray.View) []recarray.Record {
	var out []recarray.Record
	for _, r := range v.Records() {
		out = append(out, r)
	}
	return out
}

// int32Rows is the 2×5 fixture used by the capture tests.
func int32Rows() [][]any {
	return [][]any{
		{int32(1), int32(2), int32(3), int32(4), int32(5)},
		{int32(5), int32(4), int32(3), int32(2), int32(1)},
	}
}

// float32Rows is int32Rows as float32.
func float32Rows() [][]any {
	return [][]any{
		{float32(1), float32(2), float32(3), float32(4), float32(5)},
		{float32(5), float32(4), float32(3), float32(2), float32(1)},
	}
}
