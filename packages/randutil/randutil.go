// Package randutil provides the deterministic pseudo-random generator
// used by test bodies that need reproducible randomness from a seed
// they control.
package randutil

// Next returns a pseudo-random 31-bit value derived from *seed and
// advances the seed in place. The sequence is fully determined by the
// initial seed, so tests that log their seed can be replayed.
func Next(seed *uint32) uint32 {
	*seed = (*seed*1103515245 + 12345) & 0x7fffffff
	return *seed
}

// Range returns a pseudo-random value in [0, n) using Next. n must be
// greater than zero.
func Range(seed *uint32, n uint32) uint32 {
	return Next(seed) % n
}
