// SPDX-License-Identifier: MIT

// Package viewerr defines the sentinel error set shared by every view package.
//
// Four categories exist and every error returned by dataview matches exactly
// one of them via errors.Is:
//
//   - ErrConstruction: a view could not be built from its input (unsupported
//     kind, shape/mask mismatch, malformed sparse indices, bad layout).
//   - ErrBounds: indexed access or iteration past the logical extent.
//   - ErrUnsupportedOperation: the representation forbids the request
//     (e.g., masking a sparse relation).
//   - ErrSerialization: a state blob failed self-description validation.
//
// Finer sentinels below are derived from a category with %w, so callers can
// match either the precise condition or the whole category.
package viewerr

import (
	"errors"
	"fmt"
)

// NOTE ON WRAPPING
// ----------------
// Every message is prefixed with "dataview: ..." for grep-ability. Detection
// sites wrap with fmt.Errorf("Ctx: %w", ErrX) so the category survives.

// Categories.
var (
	// ErrConstruction reports that a view could not be constructed.
	// Construction is all-or-nothing: no partially-initialized view is returned.
	ErrConstruction = errors.New("dataview: construction error")

	// ErrBounds reports an index outside the logical extent of a view.
	ErrBounds = errors.New("dataview: index out of range")

	// ErrUnsupportedOperation reports a request the representation forbids.
	ErrUnsupportedOperation = errors.New("dataview: unsupported operation")

	// ErrSerialization reports a state blob that cannot be captured or restored.
	ErrSerialization = errors.New("dataview: serialization error")
)

// Construction conditions.
var (
	// ErrUnsupportedKind is returned for scalar kinds outside the closed set.
	ErrUnsupportedKind = fmt.Errorf("%w: unsupported scalar kind", ErrConstruction)

	// ErrBadShape is returned for empty shapes or non-positive dimensions.
	ErrBadShape = fmt.Errorf("%w: invalid shape", ErrConstruction)

	// ErrLayoutMismatch is returned when declared fields, offsets, strides or
	// item size disagree with each other or with the buffer length.
	ErrLayoutMismatch = fmt.Errorf("%w: layout inconsistent with buffer", ErrConstruction)

	// ErrMaskShape is returned when a mask does not cover the data exactly.
	ErrMaskShape = fmt.Errorf("%w: mask shape differs from data shape", ErrConstruction)

	// ErrSparseIndex is returned for malformed compressed pointers or
	// out-of-range coordinates.
	ErrSparseIndex = fmt.Errorf("%w: malformed sparse indices", ErrConstruction)

	// ErrDuplicateEntry is returned when a sparse input stores one coordinate twice.
	ErrDuplicateEntry = fmt.Errorf("%w: duplicate sparse coordinate", ErrConstruction)

	// ErrBadSequence is returned when a variadic element is not a well-formed
	// numeric array of the collection's kind.
	ErrBadSequence = fmt.Errorf("%w: malformed sequence", ErrConstruction)
)

// Serialization conditions.
var (
	// ErrBlobCorrupt is returned when the envelope or payload cannot be decoded.
	ErrBlobCorrupt = fmt.Errorf("%w: corrupt blob", ErrSerialization)

	// ErrBlobVersion is returned for an unknown envelope version.
	ErrBlobVersion = fmt.Errorf("%w: unsupported blob version", ErrSerialization)

	// ErrBlobKind is returned when a blob holds a different view kind than requested.
	ErrBlobKind = fmt.Errorf("%w: blob kind mismatch", ErrSerialization)
)

// Wrap attaches a context tag to err, preserving errors.Is matching.
func Wrap(ctx string, err error) error {
	return fmt.Errorf("%s: %w", ctx, err)
}

// Wrapf attaches a formatted context tag to err, preserving errors.Is matching.
func Wrapf(err error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
