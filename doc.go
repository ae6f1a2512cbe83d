// Package dataview is a read-only view layer over in-memory tabular,
// relational and ragged numeric data, with content fingerprints and
// self-contained snapshots.
//
// What is in the box?
//
//	• Record arrays: structured rows with scalar and fixed-shape sub-array fields
//	• Relations: dense N-d grids (optionally masked) and 2-D sparse matrices
//	• Variadic sequences: ragged lists of numeric arrays
//	• Digests: canonical byte streams fed to any incremental hash
//	• State: deterministic, optionally compressed capture/restore blobs
//
// Every view is immutable after construction. Concurrent readers need no
// locking, and randomized traversal draws from a generator the caller
// passes per call.
//
// Layout:
//
//	dtype/     — scalar kinds, typed arrays and decoded values
//	schema/    — layout resolution into a closed Scalar/FixedArray schema
//	mask/      — per-cell missingness buffers
//	digest/    — canonical stream encoder, BLAKE3 content keys
//	state/     — CBOR envelope, lz4/zstd payload codecs
//	order/     — injected-generator permutations
//	recarray/  — RecordArrayView
//	relation/  — dense and sparse RelationView
//	variadic/  — VariadicSequenceView
//	viewerr/   — sentinel errors shared by all packages
//	config/    — YAML/env policy for capture and logging
//
// Quick example:
//
//	seqs, _ := variadic.New([]dtype.Array{dtype.Of([]int64{1, 2, 3})})
//	blob, _ := seqs.CaptureState(state.WithCodec(state.CodecZstd))
//	back, _ := dataview.Restore(blob)
//	same, _ := dataview.SameContent(seqs, back) // true
//
//	go install github.com/katalvlaran/dataview/cmd/dataview@latest
package dataview
