// SPDX-License-Identifier: MIT
// Package perturb - RNG utilities shared by the generator and samplers.
//
// Goals:
//   - Determinism: same seed ⇒ identical permutations across runs.
//   - Encapsulation: one RNG factory; no time-based sources anywhere.
//
// Concurrency:
//   - math/rand.Rand is NOT goroutine-safe. Each session derives its own streams.
package perturb

import "math/rand"

// defaultRNGSeed is used when callers pass seed==0.
const defaultRNGSeed int64 = 1

// Stream identifiers for DeriveRand. Each consumer of randomness in a session
// gets its own stream so that adding draws in one place does not shift another.
const (
	StreamPermutation uint64 = iota + 1
	StreamSampler
)

// NewRand returns a deterministic *rand.Rand.
// Policy: seed==0 ⇒ defaultRNGSeed; otherwise the seed is used verbatim.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultRNGSeed
	}

	return rand.New(rand.NewSource(seed))
}

// DeriveRand returns an independent deterministic stream for (seed, stream).
func DeriveRand(seed int64, stream uint64) *rand.Rand {
	if seed == 0 {
		seed = defaultRNGSeed
	}

	return rand.New(rand.NewSource(deriveSeed(seed, stream)))
}

// deriveSeed mixes a parent seed and a stream identifier with a
// SplitMix64-style finalizer.
func deriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}

// permInto fills p with a uniformly random permutation of 0..len(p)-1
// (Fisher–Yates). It reuses p's storage.
// Complexity: O(n) time, O(1) extra space.
func permInto(p []int, rng *rand.Rand) {
	for i := range p {
		p[i] = i
	}
	for i := len(p) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		p[i], p[j] = p[j], p[i]
	}
}
