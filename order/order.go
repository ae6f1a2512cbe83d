// SPDX-License-Identifier: MIT

// Package order produces traversal orders for views.
//
// Randomness is always injected: callers pass their own generator per call
// and keep ownership of its state. There is no package-level generator.
package order

// Rand is the minimal generator capability. *math/rand.Rand satisfies it.
type Rand interface {
	// Intn returns a uniform integer in [0, n). n > 0.
	Intn(n int) int
}

// Identity returns [0, 1, ..., n-1].
func Identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// Permutation returns a uniformly shuffled [0, n) using Fisher–Yates.
// Exactly max(n-1, 0) values are drawn from r. A nil r yields Identity(n)
// without drawing.
func Permutation(n int, r Rand) []int {
	out := Identity(n)
	if r == nil {
		return out
	}
	for i := n - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
