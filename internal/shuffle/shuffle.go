// Package shuffle provides unbiased permutation helpers for question and
// option ordering.
package shuffle

import "math/rand"

// Slice returns a uniformly random permutation of in (Fisher-Yates). The
// input is copied first so the caller's slice is never mutated; empty and
// singleton inputs come back as copies unchanged.
func Slice[T any](rnd *rand.Rand, in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	for i := len(out) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Pick returns up to n distinct elements of in, in random order, without
// replacement. When in has fewer than n elements, all of them are returned.
func Pick[T any](rnd *rand.Rand, in []T, n int) []T {
	out := Slice(rnd, in)
	if n < 0 {
		n = 0
	}
	if n < len(out) {
		out = out[:n]
	}
	return out
}
