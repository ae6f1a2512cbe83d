// SPDX-License-Identifier: MIT

package state

import (
	"log/slog"
)

// DefaultCodec is used when no WithCodec option is given.
const DefaultCodec = CodecNone

const panicLoggerNil = "state: WithLogger(nil)"

// Option configures Seal.
type Option func(*options)

type options struct {
	codec  Codec
	logger *slog.Logger
}

// WithCodec selects payload compression. The codec is only recorded when it
// actually shrinks the payload; otherwise the blob is stored uncompressed.
func WithCodec(c Codec) Option {
	return func(o *options) { o.codec = c }
}

// WithLogger routes debug events about sealing and opening to l.
// Panics on nil (programmer error).
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic(panicLoggerNil)
	}
	return func(o *options) { o.logger = l }
}

func gatherOptions(opts []Option) options {
	o := options{codec: DefaultCodec, logger: slog.New(slog.DiscardHandler)}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
