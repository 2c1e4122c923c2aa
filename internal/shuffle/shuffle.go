// Package shuffle provides a Fisher-Yates permutation over slices.
package shuffle

import "math/rand"

// Source supplies uniformly distributed integers in [0, n).
// *rand.Rand satisfies it, so a seeded generator gives deterministic output.
type Source interface {
	Intn(n int) int
}

// globalSource draws from the auto-seeded package generator.
type globalSource struct{}

func (globalSource) Intn(n int) int {
	return rand.Intn(n)
}

// Default returns the non-deterministic source used when none is given.
func Default() Source {
	return globalSource{}
}

// Shuffle returns a uniformly random permutation of items.
// The input slice is never modified. A nil src uses Default().
func Shuffle[T any](items []T, src Source) []T {
	if src == nil {
		src = Default()
	}

	out := make([]T, len(items))
	copy(out, items)

	for i := len(out) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Prefix returns a copy of items with only the first n elements permuted.
// The tail keeps its order. n is clamped to [0, len(items)].
func Prefix[T any](items []T, n int, src Source) []T {
	if n < 0 {
		n = 0
	}
	if n > len(items) {
		n = len(items)
	}

	out := make([]T, 0, len(items))
	out = append(out, Shuffle(items[:n], src)...)
	out = append(out, items[n:]...)
	return out
}
