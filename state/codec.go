// SPDX-License-Identifier: MIT

package state

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec identifies how a blob payload is compressed. Values are stored in
// the envelope and are protocol constants.
type Codec uint8

const (
	// CodecNone stores the payload as-is.
	CodecNone Codec = 0
	// CodecLZ4 applies LZ4 block compression.
	CodecLZ4 Codec = 1
	// CodecZstd applies zstd at the default level.
	CodecZstd Codec = 2
)

// String returns the codec name.
func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecLZ4:
		return "lz4"
	case CodecZstd:
		return "zstd"
	}
	return fmt.Sprintf("unknown(%d)", uint8(c))
}

// ParseCodec parses a codec name produced by String.
func ParseCodec(name string) (Codec, error) {
	switch name {
	case "none", "":
		return CodecNone, nil
	case "lz4":
		return CodecLZ4, nil
	case "zstd":
		return CodecZstd, nil
	}
	return 0, fmt.Errorf("state: unknown codec %q", name)
}

// MaxPayloadSize bounds the uncompressed payload of a single blob.
const MaxPayloadSize = 1 << 30

// lz4MaxRatio bounds how far an LZ4 block can expand: each extra length
// byte of a sequence encodes at most 255 more bytes.
const lz4MaxRatio = 255

// errIncompressible means compression would not shrink the payload.
var errIncompressible = errors.New("state: payload incompressible")

// zstd encoder/decoder are safe for concurrent use and shared.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("state: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxPayloadSize))
	if err != nil {
		panic("state: zstd decoder initialization failed: " + err.Error())
	}
}

// compress returns the compressed payload or errIncompressible.
func compress(data []byte, c Codec) ([]byte, error) {
	switch c {
	case CodecNone:
		return data, nil
	case CodecLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, dst, nil)
		if err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if n == 0 || n >= len(data) {
			return nil, errIncompressible
		}
		return dst[:n], nil
	case CodecZstd:
		out := zstdEncoder.EncodeAll(data, nil)
		if len(out) >= len(data) {
			return nil, errIncompressible
		}
		return out, nil
	}
	return nil, fmt.Errorf("state: unsupported codec %d", c)
}

// decompress inverts compress; size is the recorded uncompressed length.
// size is untrusted, so nothing is allocated from it before it is checked
// against what data can expand to.
func decompress(data []byte, c Codec, size int) ([]byte, error) {
	if size < 0 || size > MaxPayloadSize {
		return nil, fmt.Errorf("payload size %d outside [0,%d]", size, MaxPayloadSize)
	}
	switch c {
	case CodecNone:
		if len(data) != size {
			return nil, fmt.Errorf("raw payload: %d bytes, want %d", len(data), size)
		}
		return data, nil
	case CodecLZ4:
		if size > lz4MaxRatio*len(data) {
			return nil, fmt.Errorf("lz4 decompress: size %d impossible from %d bytes", size, len(data))
		}
		dst := make([]byte, size)
		n, err := lz4.UncompressBlock(data, dst)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if n != size {
			return nil, fmt.Errorf("lz4 decompress: got %d bytes, want %d", n, size)
		}
		return dst, nil
	case CodecZstd:
		out, err := zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		if len(out) != size {
			return nil, fmt.Errorf("zstd decompress: got %d bytes, want %d", len(out), size)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported codec %d", c)
}
