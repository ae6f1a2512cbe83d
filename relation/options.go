// SPDX-License-Identifier: MIT

package relation

// Option configures NewDense, NewSparse and FromCOO.
// Options a representation cannot honor are rejected, never ignored.
type Option func(*options)

type options struct {
	maskBits []bool
	maskSet  bool
}

// WithMask attaches a per-cell missingness mask in row-major order.
// The bits are copied and must cover the relation shape exactly.
// Sparse relations reject this option with ErrUnsupportedOperation.
func WithMask(bits []bool) Option {
	return func(o *options) {
		o.maskBits = bits
		o.maskSet = true
	}
}

func gatherOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
