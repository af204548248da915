package l3

import (
	"math/rand"

	"github.com/sarchlab/vtusim/sim"
	"github.com/sarchlab/vtusim/voxel"
)

// A LatencyFunc decides how many cycles the store takes to answer a request
// for addr that arrives at cycle now. Results below 1 are raised to 1.
type LatencyFunc func(addr voxel.Coord, now sim.VTimeInCycle) uint64

// FixedLatency answers every request after n cycles.
func FixedLatency(n uint64) LatencyFunc {
	return func(voxel.Coord, sim.VTimeInCycle) uint64 {
		return n
	}
}

// UniformLatency draws latencies uniformly from [min, max] with a seeded
// source, so that a run can be reproduced. The returned function is not safe
// for concurrent use.
func UniformLatency(min, max uint64, seed int64) LatencyFunc {
	if max < min {
		min, max = max, min
	}

	rng := rand.New(rand.NewSource(seed))
	span := int64(max - min + 1)

	return func(voxel.Coord, sim.VTimeInCycle) uint64 {
		return min + uint64(rng.Int63n(span))
	}
}

// TableLatency assigns latencies per address.
type TableLatency struct {
	Default uint64
	Entries map[voxel.Coord]uint64
}

// Func returns the LatencyFunc backed by the table.
func (t TableLatency) Func() LatencyFunc {
	return func(addr voxel.Coord, _ sim.VTimeInCycle) uint64 {
		if n, ok := t.Entries[addr]; ok {
			return n
		}

		return t.Default
	}
}

func clampLatency(n uint64) sim.VTimeInCycle {
	if n < 1 {
		return 1
	}

	return sim.VTimeInCycle(n)
}
