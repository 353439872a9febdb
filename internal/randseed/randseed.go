// Package randseed provides a reproducible source of randomness for
// property-style tests that feed a Framer arbitrary chunk boundaries.
// It is grounded on the TestSeed harness referenced in
// _examples/original_source/quiche/balsa/balsa_frame_test.cc: a seed
// value threaded explicitly through the test rather than read from
// process-global state, so a failing case can be reproduced by printing
// the seed alone.
package randseed

import "golang.org/x/exp/rand"

// Source wraps a seeded PRNG. It is not safe for concurrent use.
type Source struct {
	rng  *rand.Rand
	seed uint64
}

// New returns a Source seeded with seed. The same seed always produces
// the same sequence of splits, so a test failure can be reported and
// replayed by seed alone.
func New(seed uint64) *Source {
	return &Source{
		rng:  rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the value the Source was constructed with.
func (s *Source) Seed() uint64 {
	return s.seed
}

// SplitPoints returns count strictly increasing offsets in [1, n), used
// to cut an input slice into count+1 pieces to feed a Framer across
// arbitrary ProcessInput call boundaries. If n is too small to hold
// count distinct interior points, fewer are returned.
func (s *Source) SplitPoints(n, count int) []int {
	if n < 2 {
		return nil
	}

	if count > n-1 {
		count = n - 1
	}

	seen := make(map[int]bool, count)
	points := make([]int, 0, count)

	for len(points) < count {
		p := 1 + int(s.rng.Uint64()%uint64(n-1))
		if seen[p] {
			continue
		}

		seen[p] = true
		points = append(points, p)
	}

	for i := 1; i < len(points); i++ {
		for j := i; j > 0 && points[j-1] > points[j]; j-- {
			points[j-1], points[j] = points[j], points[j-1]
		}
	}

	return points
}

// Chunks splits data at count random interior points, returning the
// resulting pieces in order. Feeding them to ProcessInput one at a time
// must produce the same events as feeding data whole, per the framer's
// incremental-feeding invariant.
func (s *Source) Chunks(data []byte, count int) [][]byte {
	points := s.SplitPoints(len(data), count)

	pieces := make([][]byte, 0, len(points)+1)
	start := 0

	for _, p := range points {
		pieces = append(pieces, data[start:p])
		start = p
	}

	pieces = append(pieces, data[start:])

	return pieces
}
