// SPDX-License-Identifier: MIT

package recarray

// Option configures New.
type Option func(*options)

type options struct {
	maskBits []bool
	maskSet  bool
}

// WithMask attaches a per-field missingness mask in row-major order:
// bits[row*NumFields()+field] == true marks that field of that row missing.
// The bits are copied; their count must equal rows × fields.
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
